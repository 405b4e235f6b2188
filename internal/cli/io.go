package cli

import (
	"fmt"
	"io"
)

// IO handles command output and collects warnings for the exit code.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Warn records a non-fatal problem. Warnings print immediately to stderr
// and turn the final exit code into 1, so scripted callers notice partial
// results.
func (o *IO) Warn(a ...any) {
	o.warnings = append(o.warnings, fmt.Sprint(a...))
	_, _ = fmt.Fprintln(o.errOut, append([]any{"warning:"}, a...)...)
}

// Finish returns the exit code: 1 if any warnings were recorded, 0
// otherwise.
func (o *IO) Finish() int {
	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}
