package scenario

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Print renders the results as a table followed by the summary line.
// A nil style prints plain lines instead of a table.
func (r *Report) Print(f io.Writer, style *table.Style, withColor bool) {
	pass, fail := "PASS", "FAIL"
	if withColor {
		pass = color.New(color.FgHiGreen).Sprint(pass)
		fail = color.New(color.FgHiRed, color.Bold).Sprint(fail)
	}

	if style == nil {
		for _, result := range r.Results {
			if result.Passed() {
				fmt.Fprintf(f, "%s %s\n", pass, result.Name)
			} else {
				fmt.Fprintf(f, "%s %s: %v\n", fail, result.Name, result.Err)
			}
		}
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(f)
		t.SetStyle(*style)
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 5, WidthMax: 60, WidthMaxEnforcer: text.WrapText},
		})
		t.AppendHeader(table.Row{"#", "scenario", "result", "duration", "error"})

		for i, result := range r.Results {
			status, message := pass, ""
			if !result.Passed() {
				status, message = fail, result.Err.Error()
			}

			t.AppendRow(table.Row{i + 1, result.Name, status, result.Duration.String(), message})
		}

		t.Render()
	}

	fmt.Fprintf(f, "Summary: %d/%d tests passed.\n", r.Passed, r.Total)
}
