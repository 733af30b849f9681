package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the prerender CLI.
type cliFlags struct {
	config        string
	timeout       int // seconds
	localLogic    bool
	renderScript  string
	haltOnError   bool
	haltOnWarning bool
	noSandbox     bool
	devtools      bool
	verbose       bool
	serve         bool
	port          int
	version       bool

	// set records which flags were given explicitly, for config merging.
	set map[string]bool
}

// changed reports whether the named flag was set on the command line.
func (f *cliFlags) changed(name string) bool {
	return f.set[name]
}

// parseFlags parses CLI flags and returns them with the positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("prerender", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.IntVarP(&f.timeout, "timeout", "t", 10, "render timeout in seconds")
	fs.BoolVarP(&f.localLogic, "local-render-logic", "l", false, "prefer the local render script over the one the document references")
	fs.StringVar(&f.renderScript, "render-script", "", "path to the local render script")
	fs.BoolVarP(&f.haltOnError, "halt-on-error", "e", false, "abort without writing when the render reports errors")
	fs.BoolVarP(&f.haltOnWarning, "halt-on-warning", "w", false, "abort without writing when the render reports warnings")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "launch the browser without its sandbox")
	fs.BoolVar(&f.devtools, "devtools", false, "open the browser headed with devtools attached")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress and chained error context")
	fs.BoolVarP(&f.serve, "serve", "s", false, "serve the working directory over HTTP for the renderer")
	fs.IntVarP(&f.port, "port", "p", 3000, "content server port (with --serve)")
	fs.BoolVar(&f.version, "version", false, "show version information")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, fs.Args(), nil
}
