package prerender

import (
	"sync"
	"time"
)

// Severity classifies a diagnostic event.
type Severity int

// Severity levels, ordered from least to most severe.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return "unknown"
}

// UnknownPlugin is the sentinel plugin identifier for events whose
// originating plugin could not be determined.
const UnknownPlugin = "unknown"

// Event is one condition reported by the renderer or the orchestrator.
// Events are immutable once emitted; the channel accumulates and forwards
// them, never mutates them.
type Event struct {
	Message      string // markdown-formatted body
	Severity     Severity
	Plugin       string // originating plugin identifier, "" if none
	Hint         string // optional remediation hint
	ElementCount int    // number of implicated document elements
	Cause        error  // optional chained cause
}

// Sink receives diagnostic events as they occur. Implementations decide
// presentation (terminal, log, silent); the channel only forwards.
type Sink interface {
	Progress(message string, remaining time.Duration)
	Warning(ev Event)
	Error(ev Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Progress(string, time.Duration) {}
func (NopSink) Warning(Event)                  {}
func (NopSink) Error(Event)                    {}

// Channel accumulates warning and error events for one render session and
// forwards everything to a sink. The renderer invokes the three report
// methods from its own goroutines, so accumulation is mutex-guarded.
// Progress is advisory only and never accumulated. The channel never
// short-circuits on first error; policy evaluation happens after the
// session completes.
type Channel struct {
	mu       sync.Mutex
	sink     Sink
	warnings []Event
	errors   []Event
}

// NewChannel creates a channel forwarding to sink. A nil sink discards.
func NewChannel(sink Sink) *Channel {
	if sink == nil {
		sink = NopSink{}
	}
	return &Channel{sink: sink}
}

// Progress forwards an advisory progress message.
func (c *Channel) Progress(message string, remaining time.Duration) {
	c.sink.Progress(message, remaining)
}

// Warning appends ev to the warning sequence and forwards it.
func (c *Channel) Warning(ev Event) {
	c.mu.Lock()
	c.warnings = append(c.warnings, ev)
	c.mu.Unlock()
	c.sink.Warning(ev)
}

// Error appends ev to the error sequence and forwards it.
func (c *Channel) Error(ev Event) {
	c.mu.Lock()
	c.errors = append(c.errors, ev)
	c.mu.Unlock()
	c.sink.Error(ev)
}

// Warnings returns a snapshot of accumulated warnings in emission order.
func (c *Channel) Warnings() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Errors returns a snapshot of accumulated errors in emission order.
func (c *Channel) Errors() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.errors))
	copy(out, c.errors)
	return out
}
