package prerender

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Compile-time interface implementation checks.
var (
	_ Renderer     = (*rodRenderer)(nil)
	_ outputWriter = (*fileWriter)(nil)
	_ Sink         = (*Channel)(nil)
	_ Sink         = NopSink{}
)

// Service orchestrates one render-and-persist pipeline per Export call:
// optional content server, source resolution, the timed render session,
// halt-policy evaluation, SVG sanitization, and the final write.
type Service struct {
	cfg      serviceConfig
	renderer Renderer
	writer   outputWriter
	sink     Sink
	logger   *zap.Logger
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithSink).
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    serviceConfig{timeout: defaultTimeout},
		writer: newFileWriter(),
		sink:   NopSink{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create renderer if not injected (e.g., by tests)
	if s.renderer == nil {
		s.renderer = newRodRenderer()
	}

	return s
}

// Export runs the full pipeline and returns the render result with its
// HTML already sanitized. A triggered halt policy, a timeout, or any
// renderer failure is terminal: nothing is written and the error is
// returned. The content server, when started, is stopped on every exit
// path so the bound port is released deterministically.
func (s *Service) Export(ctx context.Context, input Input) (*Result, error) {
	if input.Source == "" {
		return nil, errors.Wrap(ErrInvalidSource, "source cannot be empty")
	}

	ch := NewChannel(s.sink)

	var server *ContentServer
	if input.UseLocalServer {
		port := input.Port
		if port == 0 {
			port = DefaultPort
		}
		srv, err := NewContentServer(input.Source, port)
		if err != nil {
			return nil, err
		}
		if err := srv.Start(ctx); err != nil {
			return nil, err
		}
		s.logger.Debug("content server listening", zap.Int("port", port))
		server = srv
		defer func() {
			// Teardown failures are logged, never re-thrown over the
			// pipeline's own error.
			if err := server.Stop(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("content server teardown failed", zap.Error(err))
			} else {
				s.logger.Debug("content server stopped", zap.Int("port", port))
			}
		}()
	}

	sourceURL, err := s.resolveSource(input, server)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("source resolved", zap.String("url", sourceURL))

	result, err := s.renderer.Render(ctx, sourceURL, &RenderOptions{
		Timeout:             s.cfg.timeout,
		UseLocalRenderLogic: s.cfg.localLogic,
		LocalScriptPath:     s.cfg.localScriptPath,
		DisableSandbox:      s.cfg.disableSandbox,
		Devtools:            s.cfg.devtools,
		OnProgress:          ch.Progress,
		OnWarning:           ch.Warning,
		OnError:             ch.Error,
	})
	if err != nil {
		if errors.Is(err, ErrRenderTimeout) {
			return nil, err
		}
		return nil, errors.Mark(err, ErrRenderFailure)
	}

	if err := EvaluatePolicy(result, input.HaltOnError, input.HaltOnWarning); err != nil {
		return nil, err
	}

	result.HTML = SanitizeSVG(result.HTML)

	if err := s.writer.Write(input.Destination, result.HTML); err != nil {
		return nil, err
	}

	return result, nil
}

// Close releases renderer resources (the headless browser).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// resolveSource computes the URL the renderer should fetch. With the
// content server in play the server's address wins; otherwise the raw
// source is interpreted as a URL, with bare relative paths resolved
// against the working directory as file references.
func (s *Service) resolveSource(input Input, server *ContentServer) (string, error) {
	if server != nil {
		return server.URL(), nil
	}
	return ResolveSource(input.Source)
}

// ResolveSource interprets raw as a URL. Sources that already carry a
// scheme are validated and returned as-is; anything else is treated as a
// local path and resolved to a file:// URL against the working directory.
func ResolveSource(raw string) (string, error) {
	if schemePattern.MatchString(raw) {
		u, err := url.Parse(raw)
		if err != nil {
			return "", errors.Mark(errors.Wrapf(err, "parsing %q", raw), ErrInvalidSource)
		}
		return u.String(), nil
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "resolving %q", raw), ErrInvalidSource)
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// EvaluatePolicy applies the configured halt policy to a completed render.
// The error threshold triggers on any accumulated error when haltOnError
// is set; the warning threshold triggers on any diagnostic at all when
// haltOnWarning is set. A triggered policy is a hard stop: the caller must
// not write output.
func EvaluatePolicy(result *Result, haltOnError, haltOnWarning bool) error {
	exitOnError := len(result.Errors) > 0 && haltOnError
	exitOnWarning := (len(result.Warnings) > 0 || len(result.Errors) > 0) && haltOnWarning

	switch {
	case exitOnError:
		return errors.Wrapf(ErrPolicyHalt, "Errors: %d error(s) reported", len(result.Errors))
	case exitOnWarning:
		return errors.Wrapf(ErrPolicyHalt, "Warnings: %d warning(s), %d error(s) reported",
			len(result.Warnings), len(result.Errors))
	}
	return nil
}
