package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	lineLabel  = color.New(color.FgCyan)
)

// Report writes a Diagnostic to w using the same message contract as
// Error, with the "[line N]" and "Error" labels colorized while
// fatih/color output is enabled (fatih/color disables it when stdout
// is not a terminal; cmd/moon also disables it when .moonrc.yaml sets
// `color: false`). With color disabled the output is exactly the wire
// format other tools expect.
func Report(w io.Writer, d Diagnostic) {
	switch d.Phase {
	case PhaseRuntime:
		fmt.Fprintln(w, d.Message)
		lineLabel.Fprintf(w, "[line %d]\n", d.Line)
	default:
		where := d.Where
		if where != "" {
			where = " " + where
		}
		lineLabel.Fprintf(w, "[line %d] ", d.Line)
		errorLabel.Fprint(w, "Error")
		fmt.Fprintf(w, "%s: %s\n", where, d.Message)
	}
}

// Summary prints a one-line count of accumulated errors, mirroring the
// compiler's old end-of-run banner.
func Summary(w io.Writer, count int) {
	if count == 0 {
		return
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	errorLabel.Fprintf(w, "%d error%s\n", count, plural)
}
