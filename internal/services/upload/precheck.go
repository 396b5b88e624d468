package upload

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultMaxBytes is the per-document limit published to customers.
const DefaultMaxBytes int64 = 5 << 20

// DefaultExtensions lists the accepted document types.
func DefaultExtensions() []string {
	return []string{"pdf", "jpg", "jpeg", "png"}
}

// PrecheckConfig enables local validation before upload.
type PrecheckConfig struct {
	Enabled           bool
	MaxBytes          int64
	AllowedExtensions []string
	ValidatePDF       bool
}

// Precheck validates name and data against cfg. Rejections are *Error values
// whose Body explains the problem.
func Precheck(cfg PrecheckConfig, name string, data []byte) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if len(cfg.AllowedExtensions) > 0 && !allowed(cfg.AllowedExtensions, ext) {
		return &Error{Body: fmt.Sprintf("unsupported file type %q (allowed: %s)", displayExt(ext), strings.Join(upper(cfg.AllowedExtensions), ", "))}
	}
	if len(data) == 0 {
		return &Error{Body: "file is empty"}
	}
	if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
		return &Error{Body: fmt.Sprintf("file too large (max %s)", formatBytes(cfg.MaxBytes))}
	}
	if cfg.ValidatePDF && ext == "pdf" {
		pages, err := PageCount(data)
		if err != nil {
			return &Error{Body: "file is not a readable PDF"}
		}
		if pages == 0 {
			return &Error{Body: "PDF has no pages"}
		}
	}
	return nil
}

// PageCount parses data as a PDF with relaxed validation.
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}

func allowed(list []string, ext string) bool {
	for _, candidate := range list {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(candidate), "."), ext) {
			return true
		}
	}
	return false
}

func displayExt(ext string) string {
	if ext == "" {
		return "none"
	}
	return ext
}

func upper(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(v), ".")))
	}
	return out
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
