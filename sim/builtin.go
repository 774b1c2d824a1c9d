package sim

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed scenarios/*.yaml
var builtin embed.FS

// BuiltinNames lists the embedded scenarios by file stem.
func BuiltinNames() []string {
	entries, _ := fs.ReadDir(builtin, "scenarios")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin parses an embedded scenario.
func Builtin(name string) (*Scenario, error) {
	data, err := builtin.ReadFile(path.Join("scenarios", name+".yaml"))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
