package main

import (
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	prerender "github.com/alnah/go-prerender"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	newService := func(opts ...prerender.Option) Exporter {
		return prerender.New(opts...)
	}

	if err := run(os.Args, os.Stdout, os.Stderr, newService); err != nil {
		printFatal(os.Stderr, err, verboseRequested(os.Args[1:]))
		os.Exit(exitCodeFor(err))
	}
}

// verboseRequested scans raw arguments for the verbose flag so the fatal
// error of a failed run can include chained context even when run returned
// before flags were fully resolved.
func verboseRequested(args []string) bool {
	for _, a := range args {
		if a == "--verbose" {
			return true
		}
		if strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "--") && strings.Contains(a, "v") {
			return true
		}
	}
	return false
}
