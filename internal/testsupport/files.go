package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const documentHeader = "%PDF-1.4\n"

// WriteFile creates a placeholder document of exactly size bytes at path.
// The content starts with a PDF header so type sniffing treats it as a
// document; sizes smaller than the header are truncated.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	body := bytes.Repeat([]byte{'.'}, int(size))
	copy(body, documentHeader)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
