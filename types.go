package prerender

import (
	"time"

	"go.uber.org/zap"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 10 * time.Second

// Input contains the parameters for one export invocation.
type Input struct {
	// Source is a URL or local-path string identifying the document (required).
	Source string

	// Destination is where the rendered HTML goes: empty discards it,
	// "stdout" streams it to standard output, anything else is a file path
	// resolved against the working directory.
	Destination string

	// UseLocalServer serves the working directory over HTTP and addresses
	// Source through it. Source must then be a relative path.
	UseLocalServer bool

	// Port overrides the content server port (0 = DefaultPort).
	Port int

	// Halt policy: abort before writing when the render accumulated
	// errors (HaltOnError) or any diagnostics at all (HaltOnWarning).
	HaltOnError   bool
	HaltOnWarning bool
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout         time.Duration
	disableSandbox  bool
	devtools        bool
	localLogic      bool
	localScriptPath string
}

// WithTimeout sets the render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("prerender: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithoutSandbox launches the browser without its sandbox. Required in
// most containerized environments.
func WithoutSandbox() Option {
	return func(s *Service) {
		s.cfg.disableSandbox = true
	}
}

// WithDevtools opens the browser headed with devtools attached.
func WithDevtools() Option {
	return func(s *Service) {
		s.cfg.devtools = true
	}
}

// WithLocalRenderLogic substitutes the local script at path for the
// rendering logic the document references.
func WithLocalRenderLogic(path string) Option {
	return func(s *Service) {
		s.cfg.localLogic = true
		s.cfg.localScriptPath = path
	}
}

// WithRenderer replaces the default headless-Chrome renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithSink directs diagnostic events to sink as they occur.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithLogger sets the structured logger for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
