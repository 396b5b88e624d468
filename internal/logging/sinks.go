package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// openSinks resolves each target to a writer. "stdout" and "stderr" name the
// process streams; anything else is a file opened for append. Duplicate
// targets are written once.
func openSinks(targets []string) (io.Writer, error) {
	var writers []io.Writer
	opened := make(map[string]bool, len(targets))
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" || opened[target] {
			continue
		}
		opened[target] = true
		w, err := openSink(target)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func openSink(target string) (io.Writer, error) {
	switch target {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for %s: %w", target, err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", target, err)
	}
	return f, nil
}
