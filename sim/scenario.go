// Package sim replays scripted limit-switch and IMU inputs through the
// mechanism on a host board and records what the motor was told to do.
package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pps-go/types"
)

var (
	ErrNoSteps   = errors.New("sim: scenario has no steps")
	ErrBadVector = errors.New("sim: wrong number of components")
	ErrBadRepeat = errors.New("sim: repeat must not be negative")
	ErrBadSwitch = errors.New("sim: switch must be extended or retracted")
	ErrBadExpect = errors.New("sim: unknown expected state")
)

// Scenario is the YAML document a run is built from.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step sets inputs and holds them for Repeat control iterations (default 1).
// Unset inputs keep their previous value.
type Step struct {
	Repeat   int          `yaml:"repeat"`
	Switch   *SwitchLevel `yaml:"switch"`
	Quat     []float32    `yaml:"quat"`  // w, x, y, z
	Accel    []float32    `yaml:"accel"` // x, y, z in m/s²
	IMUFault *bool        `yaml:"imu_fault"`
	Expect   string       `yaml:"expect"` // state after the last iteration
}

// SwitchLevel is the limit switch position; true is extended.
type SwitchLevel bool

func (s *SwitchLevel) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "extended":
		*s = true
	case "retracted":
		*s = false
	default:
		return fmt.Errorf("%w: %q (line %d)", ErrBadSwitch, value.Value, value.Line)
	}
	return nil
}

func (s SwitchLevel) String() string {
	if s {
		return "extended"
	}
	return "retracted"
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("sim: decode: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (sc *Scenario) validate() error {
	if len(sc.Steps) == 0 {
		return ErrNoSteps
	}
	for i, st := range sc.Steps {
		switch {
		case st.Repeat < 0:
			return fmt.Errorf("step %d: %w", i+1, ErrBadRepeat)
		case st.Quat != nil && len(st.Quat) != 4:
			return fmt.Errorf("step %d: quat: %w", i+1, ErrBadVector)
		case st.Accel != nil && len(st.Accel) != 3:
			return fmt.Errorf("step %d: accel: %w", i+1, ErrBadVector)
		}
		if st.Expect != "" {
			if _, ok := types.ParseMechanismState(st.Expect); !ok {
				return fmt.Errorf("step %d: %w: %q", i+1, ErrBadExpect, st.Expect)
			}
		}
	}
	return nil
}

// Iterations is the total number of control steps the scenario runs.
func (sc *Scenario) Iterations() int {
	n := 0
	for _, st := range sc.Steps {
		n += st.repeat()
	}
	return n
}

func (st Step) repeat() int {
	if st.Repeat == 0 {
		return 1
	}
	return st.Repeat
}
