package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	prerender "github.com/alnah/go-prerender"
	"github.com/alnah/go-prerender/internal/mdterm"
)

// Terminal styles for severity labels and secondary detail.
var (
	warnStyle  = color.New(color.FgYellow, color.Bold)
	errStyle   = color.New(color.FgRed, color.Bold)
	faintStyle = color.New(color.Faint)
)

// terminalSink renders diagnostic events to the terminal as they arrive.
// Message bodies and hints are markdown, rendered through mdterm.
type terminalSink struct {
	out     io.Writer
	verbose bool
}

func newTerminalSink(out io.Writer, verbose bool) *terminalSink {
	return &terminalSink{out: out, verbose: verbose}
}

func (s *terminalSink) Progress(message string, remaining time.Duration) {
	if !s.verbose {
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", faintStyle.Sprint(fmt.Sprintf("[%.1fs left]", remaining.Seconds())), message)
}

func (s *terminalSink) Warning(ev prerender.Event) {
	s.printEvent(warnStyle.Sprint("warning:"), ev)
}

func (s *terminalSink) Error(ev prerender.Event) {
	s.printEvent(errStyle.Sprint("error:"), ev)
}

// printEvent surfaces the event body plus, when the event carries an
// originating plugin, the implicated element count, the plugin identifier,
// and the hint. Chained cause context is shown only in verbose mode.
func (s *terminalSink) printEvent(label string, ev prerender.Event) {
	fmt.Fprintf(s.out, "%s %s\n", label, mdterm.Render(ev.Message))

	if ev.Plugin != "" {
		if ev.ElementCount > 0 {
			fmt.Fprintf(s.out, "  %s\n", faintStyle.Sprint(fmt.Sprintf("%d element(s) implicated", ev.ElementCount)))
		}
		fmt.Fprintf(s.out, "  %s\n", faintStyle.Sprint("plugin: "+ev.Plugin))
		if ev.Hint != "" {
			fmt.Fprintf(s.out, "  hint: %s\n", mdterm.Render(ev.Hint))
		}
		if s.verbose && ev.Cause != nil {
			fmt.Fprintf(s.out, "%+v\n", ev.Cause)
		}
	}
}

// printFatal reports the terminal failure that ends the invocation. In
// verbose mode the full chained stack context is included.
func printFatal(out io.Writer, err error, verbose bool) {
	if verbose {
		fmt.Fprintf(out, "%s %+v\n", errStyle.Sprint("fatal:"), err)
		return
	}
	fmt.Fprintf(out, "%s %v\n", errStyle.Sprint("fatal:"), err)
}
