package gnss

import (
	"fmt"
	"log"
)

// Logger is the injected logging sink every component in the core accepts,
// the idiomatic-Go replacement for the teacher's global Trace(level, ...)
// tracer in common.go: no hidden global mutable state (§9 design notes),
// explicit leveled calls instead.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// StdLogger adapts the standard library log package, the same logging the
// teacher's own app/rtkrcv/rtkrcv.go binary uses (plain log.Printf call
// sites, no external logging framework).
type StdLogger struct {
	Verbose bool
}

func (l StdLogger) Debugf(format string, args ...any) {
	if l.Verbose {
		log.Printf("DEBUG "+format, args...)
	}
}

func (l StdLogger) Warnf(format string, args ...any) {
	log.Printf("WARN "+format, args...)
}

// NopLogger discards everything; the zero value of Logger interface callers
// should use when no logging is configured.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Warnf(string, ...any)  {}

// EpochLog accumulates one epoch's worth of log lines, the Go form of
// spec.md §4.J's "one log buffer per epoch; flushed and cleared at the end
// of process_epoch".
type EpochLog struct {
	lines []string
}

func (b *EpochLog) Printf(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// Flush returns the accumulated lines joined by newline and clears the
// buffer, matching the teacher's OutPPPStat-style buffer drain in ppp.go.
func (b *EpochLog) Flush() string {
	out := ""
	for i, l := range b.lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	b.lines = nil
	return out
}
