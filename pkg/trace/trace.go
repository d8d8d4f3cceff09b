// Package trace provides the opt-in per-instruction mnemonic log
// described in SPEC_FULL.md §9.1 — the Go-native revival of the original
// implementation's disabled print_inst call. It has no effect on
// execution, halting, or the memory dump; it exists purely to let a
// reader see what ran.
package trace

import (
	"fmt"
	"io"

	"github.com/CGQAQ/500-cpu-simulator/pkg/decode"
)

// Logger writes one line per instruction to w, in the form
// "#<n>\tPC: <pc>\tINST: <mnemonic>". Its Trace method is an
// exec.Trace-compatible function for wiring into exec.Run.
type Logger struct {
	w io.Writer
	n int64
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Trace records one instruction. It matches the exec.Trace function
// signature and can be passed directly to exec.Run.
func (l *Logger) Trace(pc uint16, in decode.Instruction) {
	l.n++
	fmt.Fprintf(l.w, "#%d\tPC: %04x\tINST: %s\n", l.n, pc, in.String())
}
