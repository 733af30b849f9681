package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: prerender <source> [destination] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a structured web document to static HTML with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source         URL or local path of the document to render")
	fmt.Fprintln(w, "  destination    \"stdout\", a file path, or empty to discard")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -t, --timeout <n>          Render timeout in seconds (default 10)")
	fmt.Fprintln(w, "  -l, --local-render-logic   Prefer the local render script")
	fmt.Fprintln(w, "      --render-script <path> Path to the local render script")
	fmt.Fprintln(w, "      --no-sandbox           Launch the browser without its sandbox")
	fmt.Fprintln(w, "      --devtools             Open the browser headed with devtools")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Local server:")
	fmt.Fprintln(w, "  -s, --serve                Serve the working directory over HTTP")
	fmt.Fprintln(w, "  -p, --port <n>             Content server port (default 3000)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Diagnostics:")
	fmt.Fprintln(w, "  -e, --halt-on-error        Abort without writing on reported errors")
	fmt.Fprintln(w, "  -w, --halt-on-warning      Abort without writing on reported warnings")
	fmt.Fprintln(w, "  -v, --verbose              Show progress and chained error context")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "      --version              Show version information")
}
