package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"nriassist/internal/catalog"
	"nriassist/internal/daemonctl"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats "  Label:   [TAG] message", optionally wrapped in
// the kind's color.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	badge := "[" + style.tag + "]"
	if message != "" {
		badge += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", badge)
	if colorize && style.color != "" {
		return style.color + line + ansiReset
	}
	return line
}

func renderLines(lines []daemonctl.StatusLine, colorize bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = renderStatusLine(line.Label, severityKind(line.Severity), line.Detail, colorize)
	}
	return out
}

func severityKind(severity string) statusKind {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "ok":
		return statusOK
	case "warn", "warning":
		return statusWarn
	case "error":
		return statusError
	}
	return statusInfo
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := "== " + strings.TrimSpace(title) + " =="
	lines := []string{heading, strings.Repeat("-", len(heading))}
	if colorize {
		for i := range lines {
			lines[i] = ansiBlue + lines[i] + ansiReset
		}
	}
	return lines
}

// printSection writes a section header followed by lines, or by empty when
// there are no lines.
func printSection(w io.Writer, title string, lines []string, empty string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(w, line)
	}
	if len(lines) == 0 && empty != "" {
		fmt.Fprintln(w, empty)
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// buildStatusCountRows lists the lifecycle statuses in order, zero counts
// included, followed by any unrecognised labels sorted by name.
func buildStatusCountRows(counts map[string]int) [][]string {
	known := catalog.AllStatuses()
	rows := make([][]string, 0, len(known)+len(counts))
	listed := make(map[string]bool, len(known))
	for _, status := range known {
		label := string(status)
		listed[label] = true
		rows = append(rows, []string{label, strconv.Itoa(counts[label])})
	}
	var unknown []string
	for label := range counts {
		if !listed[label] {
			unknown = append(unknown, label)
		}
	}
	slices.Sort(unknown)
	for _, label := range unknown {
		rows = append(rows, []string{label, strconv.Itoa(counts[label])})
	}
	return rows
}
