package prerender

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/natefinch/atomic"
)

// DestinationStdout streams the output to standard output.
const DestinationStdout = "stdout"

// outputWriter persists rendered HTML to a destination.
type outputWriter interface {
	Write(destination, html string) error
}

// fileWriter implements outputWriter with the destination semantics of the
// CLI: an empty destination discards the output, "stdout" streams to
// standard output, and anything else is a UTF-8 file path resolved against
// the working directory, overwriting any existing file.
type fileWriter struct {
	stdout io.Writer
}

func newFileWriter() *fileWriter {
	return &fileWriter{stdout: os.Stdout}
}

func (w *fileWriter) Write(destination, html string) error {
	switch destination {
	case "":
		return nil
	case DestinationStdout:
		if _, err := io.WriteString(w.stdout, html); err != nil {
			return errors.Mark(errors.Wrap(err, "writing to stdout"), ErrWriteOutput)
		}
		return nil
	}

	path, err := filepath.Abs(destination)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "resolving %q", destination), ErrWriteOutput)
	}

	// Atomic rename-into-place so a failed write never leaves a torn file.
	if err := atomic.WriteFile(path, strings.NewReader(html)); err != nil {
		return errors.Mark(errors.Wrapf(err, "writing %q", path), ErrWriteOutput)
	}
	return nil
}
