package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// prettyHandler writes a header line followed by one indented line per
// field:
//
//	2026-01-02 15:04:05 INFO [workflow] NRI100234 (Branch Staff) – application advanced
//	    - to: "Submitted for Back-End Processing"
//
// The component, application, role and session fields move into the header.
type prettyHandler struct {
	out       *lockedWriter
	level     *slog.LevelVar
	addSource bool
	bound     []field
	prefix    string
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

type field struct {
	key   string
	value slog.Value
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{out: &lockedWriter{w: w}, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.bound = appendFields(append([]field(nil), h.bound...), h.prefix, attrs...)
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := append([]field(nil), h.bound...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFields(fields, h.prefix, attr)
		return true
	})
	fields = lastValueWins(fields)

	var component, appID, role, session string
	body := fields[:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = plainValue(f.value)
		case FieldApplicationID:
			appID = plainValue(f.value)
		case FieldRole:
			role = plainValue(f.value)
		case FieldSessionID:
			session = plainValue(f.value)
		default:
			body = append(body, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var b strings.Builder
	b.WriteString(formatTimestamp(ts))
	b.WriteString(" " + levelLabel(record.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := composeSubject(appID, role, session); subject != "" {
		b.WriteString(" " + subject)
	}
	b.WriteString(" – " + message)
	if h.addSource {
		if src := recordSource(record); src != nil && src.File != "" {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')
	for _, f := range body {
		fmt.Fprintf(&b, "    - %s: %s\n", f.key, fieldValue(f.value))
	}
	return h.out.write([]byte(b.String()))
}

// composeSubject renders "NRI100234 (Branch Staff) · Session 01234567",
// dropping whichever parts are empty.
func composeSubject(appID, role, sessionID string) string {
	appID = strings.TrimSpace(appID)
	role = strings.TrimSpace(role)
	sessionID = strings.TrimSpace(sessionID)

	var parts []string
	switch {
	case appID != "" && role != "":
		parts = append(parts, fmt.Sprintf("%s (%s)", appID, role))
	case appID != "" || role != "":
		parts = append(parts, appID+role)
	}
	if sessionID != "" {
		if len(sessionID) > 8 {
			sessionID = sessionID[:8]
		}
		parts = append(parts, "Session "+sessionID)
	}
	return strings.Join(parts, " · ")
}

// appendFields flattens attrs into dotted keys under prefix.
func appendFields(dst []field, prefix string, attrs ...slog.Attr) []field {
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		value := attr.Value.Resolve()
		if value.Kind() == slog.KindGroup {
			inner := prefix
			if attr.Key != "" {
				inner = prefix + attr.Key + "."
			}
			dst = appendFields(dst, inner, value.Group()...)
			continue
		}
		if attr.Key == "" {
			continue
		}
		dst = append(dst, field{key: prefix + attr.Key, value: value})
	}
	return dst
}

// lastValueWins keeps the first position of each key with its latest value.
func lastValueWins(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if i, seen := index[f.key]; seen {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

// recordSource mirrors slog.Record.Source (Go 1.25+): nil when the record
// carries no program counter.
func recordSource(r slog.Record) *slog.Source {
	if r.PC == 0 {
		return nil
	}
	fs := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := fs.Next()
	return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
}
