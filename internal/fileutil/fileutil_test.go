package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"existing file", path, true},
		{"missing file", filepath.Join(dir, "nope.txt"), false},
		{"directory is not a file", dir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileExists(tt.path); got != tt.expected {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"myconfig", false},
		{"my-config", false},
		{"./config.yaml", true},
		{"../shared/config.yaml", true},
		{"/absolute/config.yaml", true},
		{`C:\windows\config.yaml`, true},
		{"sub/dir", true},
	}

	for _, tt := range tests {
		if got := IsFilePath(tt.input); got != tt.expected {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
