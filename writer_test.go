package prerender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestFileWriterEmptyDestinationIsNoOp(t *testing.T) {
	var out strings.Builder
	w := &fileWriter{stdout: &out}

	if err := w.Write("", "<html></html>"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout received %q, want nothing", out.String())
	}
}

func TestFileWriterStdoutVerbatim(t *testing.T) {
	var out strings.Builder
	w := &fileWriter{stdout: &out}

	html := "<html><body><svg><br /></svg></body></html>"
	if err := w.Write(DestinationStdout, html); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.String() != html {
		t.Errorf("stdout = %q, want verbatim HTML with no trailing transformation", out.String())
	}
}

func TestFileWriterWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.html")
	w := newFileWriter()

	if err := w.Write(dest, "first"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Overwrites an existing file.
	if err := w.Write(dest, "second"); err != nil {
		t.Fatalf("Write (overwrite): %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", data, "second")
	}
}

func TestFileWriterRelativeDestination(t *testing.T) {
	t.Chdir(t.TempDir())
	w := newFileWriter()

	if err := w.Write("out.html", "content"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat("out.html"); err != nil {
		t.Errorf("relative destination not resolved against working directory: %v", err)
	}
}

func TestFileWriterFailureMarked(t *testing.T) {
	w := newFileWriter()

	err := w.Write(filepath.Join(t.TempDir(), "missing", "deep", "out.html"), "content")
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("Write error = %v, want ErrWriteOutput", err)
	}
}
