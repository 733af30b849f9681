package prerender

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RenderOptions configures one rendering session. Constructed once per
// invocation and not mutated during the session.
type RenderOptions struct {
	// Timeout bounds the whole session, navigation included. Must be > 0.
	Timeout time.Duration

	// UseLocalRenderLogic substitutes the local copy at LocalScriptPath for
	// the rendering script the document references.
	UseLocalRenderLogic bool
	LocalScriptPath     string

	// DisableSandbox launches the browser without its sandbox (containers, CI).
	DisableSandbox bool

	// Devtools opens the browser headed with devtools attached.
	Devtools bool

	// Callback slots the renderer invokes from its own timeline.
	OnProgress func(message string, remaining time.Duration)
	OnWarning  func(ev Event)
	OnError    func(ev Event)
}

// Result is the outcome of one rendering session: the fully-rendered HTML
// plus every warning and error the page emitted, in emission order.
type Result struct {
	HTML     string
	Errors   []Event
	Warnings []Event
}

// Renderer produces fully-rendered static HTML from a source URL.
type Renderer interface {
	Render(ctx context.Context, sourceURL string, opts *RenderOptions) (*Result, error)
	Close() error
}

// Compile-time interface check.
var _ Renderer = (*rodRenderer)(nil)

// rodRenderer drives headless Chrome via go-rod. Rod downloads a Chromium
// on first run if none is found.
type rodRenderer struct {
	browser *rod.Browser
}

func newRodRenderer() *rodRenderer {
	return &rodRenderer{}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser(opts *RenderOptions) error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	if opts.DisableSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	if opts.Devtools {
		l = l.Devtools(true).Headless(false)
	}

	u, err := l.Launch()
	if err != nil {
		return errors.Mark(err, ErrBrowserConnect)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return errors.Mark(err, ErrBrowserConnect)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// Render navigates a fresh page to sourceURL, forwards the page's console
// warnings, console errors, and uncaught exceptions to the callbacks, and
// returns the document's final HTML once the page settles. The whole
// session is bounded by opts.Timeout; exceeding it is terminal.
func (r *rodRenderer) Render(ctx context.Context, sourceURL string, opts *RenderOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(opts); err != nil {
		return nil, err
	}

	session := newRenderSession(opts)
	deadline := time.Now().Add(opts.Timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Mark(err, ErrPageCreate)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	// Subscribe before navigating so early console output is not lost.
	wait := page.EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) { session.onConsole(e) },
		func(e *proto.RuntimeExceptionThrown) { session.onException(e) },
	)
	go wait()

	if opts.UseLocalRenderLogic && opts.LocalScriptPath != "" {
		router := page.HijackRequests()
		if err := router.Add(
			"*/"+filepath.Base(opts.LocalScriptPath),
			proto.NetworkResourceTypeScript,
			func(h *rod.Hijack) { serveLocalScript(h, opts.LocalScriptPath) },
		); err != nil {
			return nil, errors.Mark(err, ErrRenderFailure)
		}
		go router.Run()
		defer func() { _ = router.Stop() }()
	}

	session.progress("navigating to "+sourceURL, time.Until(deadline))
	if err := page.Navigate(sourceURL); err != nil {
		return nil, r.classify(err, ErrPageLoad)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, r.classify(err, ErrPageLoad)
	}

	session.progress("waiting for document to settle", time.Until(deadline))
	if err := page.WaitIdle(time.Until(deadline)); err != nil {
		return nil, r.classify(err, ErrPageLoad)
	}

	session.progress("capturing document", time.Until(deadline))
	html, err := page.HTML()
	if err != nil {
		return nil, r.classify(err, ErrRenderFailure)
	}

	return session.result(html), nil
}

// classify maps a rod error to the render taxonomy: deadline overruns are
// timeouts, everything else is marked with fallback.
func (r *rodRenderer) classify(err error, fallback error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Mark(err, ErrRenderTimeout)
	}
	return errors.Mark(err, fallback)
}

// serveLocalScript answers a hijacked script request with the local copy,
// passing the request through untouched when the copy is unreadable.
func serveLocalScript(h *rod.Hijack, path string) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided script path
	if err != nil {
		h.ContinueRequest(&proto.FetchContinueRequest{})
		return
	}
	h.Response.SetHeader("Content-Type", "application/javascript")
	h.Response.Payload().ResponseCode = 200
	h.Response.SetBody(string(data))
}

// renderSession accumulates one session's diagnostics and shields the rest
// of the renderer from nil callbacks.
type renderSession struct {
	opts *RenderOptions
	ch   *Channel
}

// sessionSink adapts the session's callback slots to the Sink interface so
// the channel can do the accumulation.
type sessionSink struct {
	opts *RenderOptions
}

func (s sessionSink) Progress(msg string, remaining time.Duration) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(msg, remaining)
	}
}

func (s sessionSink) Warning(ev Event) {
	if s.opts.OnWarning != nil {
		s.opts.OnWarning(ev)
	}
}

func (s sessionSink) Error(ev Event) {
	if s.opts.OnError != nil {
		s.opts.OnError(ev)
	}
}

func newRenderSession(opts *RenderOptions) *renderSession {
	return &renderSession{opts: opts, ch: NewChannel(sessionSink{opts: opts})}
}

func (s *renderSession) progress(msg string, remaining time.Duration) {
	s.ch.Progress(msg, remaining)
}

func (s *renderSession) result(html string) *Result {
	return &Result{HTML: html, Errors: s.ch.Errors(), Warnings: s.ch.Warnings()}
}

// consolePayload is the structured diagnostic shape in-page renderers emit
// as a single JSON console argument.
type consolePayload struct {
	Message    string   `json:"message"`
	Plugin     string   `json:"plugin"`
	Hint       string   `json:"hint"`
	ElementIDs []string `json:"elementIds"`
}

// onConsole converts console.warn and console.error calls into diagnostic
// events. Other console levels are ignored.
func (s *renderSession) onConsole(e *proto.RuntimeConsoleAPICalled) {
	var severity Severity
	switch e.Type {
	case proto.RuntimeConsoleAPICalledTypeWarning:
		severity = SeverityWarning
	case proto.RuntimeConsoleAPICalledTypeError:
		severity = SeverityError
	default:
		return
	}

	ev := decodeConsoleEvent(e, severity)
	if severity == SeverityWarning {
		s.ch.Warning(ev)
		return
	}
	s.ch.Error(ev)
}

// onException converts uncaught page exceptions into error events.
func (s *renderSession) onException(e *proto.RuntimeExceptionThrown) {
	d := e.ExceptionDetails
	msg := d.Text
	if d.Exception != nil && d.Exception.Description != "" {
		msg = d.Exception.Description
	}
	s.ch.Error(Event{
		Message:  msg,
		Severity: SeverityError,
		Plugin:   UnknownPlugin,
		Cause:    errors.Newf("uncaught exception at %s:%d", d.URL, d.LineNumber),
	})
}

// decodeConsoleEvent builds an event from a console call. A single string
// argument holding a JSON object with a "message" field is treated as a
// structured payload; anything else becomes a plain-text event attributed
// to the unknown plugin.
func decodeConsoleEvent(e *proto.RuntimeConsoleAPICalled, severity Severity) Event {
	if len(e.Args) == 1 {
		if text, ok := remoteObjectString(e.Args[0]); ok {
			var p consolePayload
			if err := json.Unmarshal([]byte(text), &p); err == nil && p.Message != "" {
				plugin := p.Plugin
				if plugin == "" {
					plugin = UnknownPlugin
				}
				return Event{
					Message:      p.Message,
					Severity:     severity,
					Plugin:       plugin,
					Hint:         p.Hint,
					ElementCount: len(p.ElementIDs),
				}
			}
		}
	}

	parts := make([]string, 0, len(e.Args))
	for _, arg := range e.Args {
		if text, ok := remoteObjectString(arg); ok {
			parts = append(parts, text)
		} else {
			parts = append(parts, arg.Value.String())
		}
	}
	return Event{
		Message:  strings.Join(parts, " "),
		Severity: severity,
		Plugin:   UnknownPlugin,
	}
}

// remoteObjectString extracts the plain string value of a remote object.
func remoteObjectString(o *proto.RuntimeRemoteObject) (string, bool) {
	if o == nil || o.Type != proto.RuntimeRemoteObjectTypeString {
		return "", false
	}
	return o.Value.Str(), true
}
