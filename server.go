package prerender

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultPort is the content server's port when no override is given.
const DefaultPort = 3000

// serverShutdownGrace bounds how long Stop waits for in-flight requests.
const serverShutdownGrace = 5 * time.Second

// schemePattern matches sources that already carry a URL scheme.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// ContentServer serves the current working directory over plain HTTP so a
// local file can be addressed by URL for the renderer. Local-only use is
// assumed: no authentication, no TLS. One instance per invocation;
// lifecycle is created, started, stopped.
type ContentServer struct {
	source string
	port   int
	srv    *http.Server
}

// NewContentServer creates a server for the given source reference.
// The source must be a relative path: absolute paths and sources that
// already carry a URL scheme are rejected with ErrInvalidSource, since
// local serving is only meaningful within the working directory. A
// non-positive port is rejected with ErrInvalidPort.
func NewContentServer(source string, port int) (*ContentServer, error) {
	if filepath.IsAbs(source) {
		return nil, errors.Wrapf(ErrInvalidSource, "absolute path %q cannot be served locally", source)
	}
	if schemePattern.MatchString(source) {
		return nil, errors.Wrapf(ErrInvalidSource, "%q already carries a URL scheme", source)
	}
	if port <= 0 {
		return nil, errors.Wrapf(ErrInvalidPort, "got %d", port)
	}
	return &ContentServer{source: source, port: port}, nil
}

// Start binds the listener and begins serving the working directory.
// It returns only after the socket is actually listening; bind failures
// (e.g. port in use) surface the underlying error.
func (s *ContentServer) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort("", strconv.Itoa(s.port)))
	if err != nil {
		return errors.Wrapf(err, "binding port %d", s.port)
	}

	s.srv = &http.Server{
		Handler:           http.FileServer(http.Dir(".")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// ErrServerClosed is the normal Stop outcome.
		_ = s.srv.Serve(ln)
	}()

	return nil
}

// URL resolves the source reference against http://localhost:<port>/,
// producing the address the renderer should fetch.
func (s *ContentServer) URL() string {
	base := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort("localhost", strconv.Itoa(s.port)),
		Path:   "/",
	}
	ref := &url.URL{Path: filepath.ToSlash(s.source)}
	return base.ResolveReference(ref).String()
}

// Stop closes the listener and waits for in-flight requests. Call at most
// once per instance.
func (s *ContentServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, serverShutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "stopping content server")
	}
	return nil
}
