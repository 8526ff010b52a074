package format

import (
	"fmt"
	"strings"
)

// DiagList accumulates human-readable diagnostics and joins them into a
// single error, the same accumulate-then-report shape the project uses for
// validation (see internal/validate). A nil *DiagList is safe to use.
type DiagList struct {
	msgs []string
}

// Addf appends a formatted diagnostic message.
func (d *DiagList) Addf(format string, args ...any) {
	if d == nil {
		return
	}
	d.msgs = append(d.msgs, fmt.Sprintf(format, args...))
}

// Messages returns the accumulated messages, in order.
func (d *DiagList) Messages() []string {
	if d == nil {
		return nil
	}
	return d.msgs
}

// Err returns nil if no diagnostics were recorded, otherwise a single error
// joining them with newlines.
func (d *DiagList) Err() error {
	if d == nil || len(d.msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(d.msgs, "\n"))
}
