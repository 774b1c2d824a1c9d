//go:build !rp2040 && !rp2350

// Command pps-sim replays a scenario through the mechanism on a simulated
// board and prints the resulting trace.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pps-go/motor"
	"pps-go/sim"
	"pps-go/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

var stateColor = map[types.MechanismState]string{
	types.StateIdle:      "245",
	types.StateDeploying: "14",
	types.StateRotating:  "11",
	types.StateRetract:   "13",
}

func main() {
	var (
		file = flag.String("f", "", "Scenario YAML file")
		name = flag.String("s", "deploy_cycle", "Built-in scenario (ignored with -f)")
		list = flag.Bool("list", false, "List built-in scenarios and exit")
		all  = flag.Bool("all", false, "Show every iteration, not only changes")
	)
	flag.Parse()

	if *list {
		for _, n := range sim.BuiltinNames() {
			fmt.Println(n)
		}
		return
	}

	var (
		sc  *sim.Scenario
		err error
	)
	if *file != "" {
		sc, err = sim.Load(*file)
	} else {
		sc, err = sim.Builtin(*name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("load: "+err.Error()))
		os.Exit(2)
	}

	res, err := sim.Run(sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, failStyle.Render("run: "+err.Error()))
		os.Exit(2)
	}

	fmt.Println(render(res, *all))
	if !res.OK() {
		os.Exit(1)
	}
}

func render(res *sim.Result, all bool) string {
	var sb strings.Builder

	title := res.Name
	if title == "" {
		title = "scenario"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d iterations, %d transitions", len(res.Rows), len(res.Events))))
	sb.WriteString("\n\n")

	rows := visibleRows(res.Rows, all)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.Iter),
			strconv.Itoa(r.Step),
			r.Switch.String(),
			r.State.String(),
			strconv.Itoa(r.Ticks),
			motorCell(r),
			string(motor.StatusCode(r.Status)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Iter", "Step", "Switch", "State", "Ticks", "Motor", "Status").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(rows) {
				return cellStyle.Foreground(lipgloss.Color(stateColor[rows[row].State]))
			}
			return cellStyle
		})
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	if res.OK() {
		sb.WriteString(okStyle.Render("all expectations met"))
		return sb.String()
	}
	for _, m := range res.Mismatches {
		sb.WriteString(failStyle.Render(fmt.Sprintf("step %d (iter %d): want %s, got %s", m.Step, m.Iter, m.Want, m.Got)))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// visibleRows keeps the first and last rows and every row whose state or
// motor drive differs from the one before.
func visibleRows(rows []sim.Row, all bool) []sim.Row {
	if all || len(rows) < 3 {
		return rows
	}
	out := []sim.Row{rows[0]}
	for i := 1; i < len(rows)-1; i++ {
		p, r := rows[i-1], rows[i]
		if p.State != r.State || p.Running != r.Running || p.Forward != r.Forward || p.Status != r.Status {
			out = append(out, r)
		}
	}
	return append(out, rows[len(rows)-1])
}

func motorCell(r sim.Row) string {
	if !r.Running {
		return "off"
	}
	dir := "rev"
	if r.Forward {
		dir = "fwd"
	}
	return dir + " " + strconv.Itoa(int(r.Duty)) + "%"
}
