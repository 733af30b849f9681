// Package prerender converts structured web documents into fully-rendered
// static HTML using headless Chrome.
//
// # Quick Start
//
// Create a service, export a document, and close when done:
//
//	svc := prerender.New(prerender.WithTimeout(30 * time.Second))
//	defer svc.Close()
//
//	result, err := svc.Export(ctx, prerender.Input{
//		Source:      "doc.html",
//		Destination: "out.html",
//	})
//
// The pipeline optionally serves the working directory over HTTP so a local
// file can be fetched by the browser, renders the document under a timeout
// while streaming severity-tiered diagnostics, applies the configured halt
// policy, repairs malformed void-element markup inside inline SVG fragments,
// and writes the result.
//
// # Diagnostics
//
// The page's console warnings, console errors, and uncaught exceptions are
// forwarded as they occur to the Sink configured with WithSink, and
// accumulated for halt-policy evaluation once the render completes. Use
// Input.HaltOnError or Input.HaltOnWarning to turn accumulated diagnostics
// into a hard stop before anything is written.
//
// # Browser
//
// Rod downloads a compatible Chromium on first use. Set ROD_BROWSER_BIN to
// use a pre-installed browser, and WithoutSandbox when running in a
// container.
package prerender
