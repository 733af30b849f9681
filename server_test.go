package prerender

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNewContentServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		port    int
		wantErr error
	}{
		{
			name:   "relative path accepted",
			source: "doc.html",
			port:   3000,
		},
		{
			name:   "nested relative path accepted",
			source: "sub/dir/doc.html",
			port:   3000,
		},
		{
			name:   "dotted relative path accepted",
			source: "./doc.html",
			port:   3000,
		},
		{
			name:    "absolute path rejected",
			source:  "/tmp/doc.html",
			port:    3000,
			wantErr: ErrInvalidSource,
		},
		{
			name:    "http scheme rejected",
			source:  "http://example.com/doc.html",
			port:    3000,
			wantErr: ErrInvalidSource,
		},
		{
			name:    "file scheme rejected",
			source:  "file:///tmp/doc.html",
			port:    3000,
			wantErr: ErrInvalidSource,
		},
		{
			name:    "custom scheme rejected",
			source:  "s3+custom://bucket/doc.html",
			port:    3000,
			wantErr: ErrInvalidSource,
		},
		{
			name:   "colon without slashes is not a scheme",
			source: "weird:name.html",
			port:   3000,
		},
		{
			name:    "zero port rejected",
			source:  "doc.html",
			port:    0,
			wantErr: ErrInvalidPort,
		},
		{
			name:    "negative port rejected",
			source:  "doc.html",
			port:    -1,
			wantErr: ErrInvalidPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContentServer(tt.source, tt.port)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewContentServer(%q, %d) error = %v, want nil", tt.source, tt.port, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewContentServer(%q, %d) error = %v, want %v", tt.source, tt.port, err, tt.wantErr)
			}
		})
	}
}

func TestContentServerURL(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		port     int
		expected string
	}{
		{
			name:     "plain file",
			source:   "doc.html",
			port:     3000,
			expected: "http://localhost:3000/doc.html",
		},
		{
			name:     "nested path",
			source:   "sub/doc.html",
			port:     8080,
			expected: "http://localhost:8080/sub/doc.html",
		},
		{
			name:     "dotted path normalized",
			source:   "./doc.html",
			port:     3000,
			expected: "http://localhost:3000/doc.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewContentServer(tt.source, tt.port)
			if err != nil {
				t.Fatalf("NewContentServer: %v", err)
			}
			if got := s.URL(); got != tt.expected {
				t.Errorf("URL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestContentServerServesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.html"), []byte("<html>hi</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	port := freePort(t)
	s, err := NewContentServer("doc.html", port)
	if err != nil {
		t.Fatalf("NewContentServer: %v", err)
	}

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := s.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	resp, err := http.Get(s.URL())
	if err != nil {
		t.Fatalf("GET %s: %v", s.URL(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<html>hi</html>" {
		t.Errorf("body = %q, want served file content", body)
	}

	// Unmatched paths fall through to the standard not-found handler.
	missing, err := http.Get(s.URL() + ".does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("missing file status = %d, want %d", missing.StatusCode, http.StatusNotFound)
	}
}

func TestContentServerStopReleasesPort(t *testing.T) {
	port := freePort(t)
	s, err := NewContentServer("doc.html", port)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("port still bound after Stop: %v", err)
	}
	_ = ln.Close()
}

// freePort grabs an ephemeral port and releases it for the test to reuse.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}
