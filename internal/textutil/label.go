package textutil

import "strings"

// DisplayLabel returns the first non-empty line of text with markdown bold
// markers removed, truncated to max runes with a trailing ellipsis. A max of
// zero or less disables truncation.
func DisplayLabel(text string, max int) string {
	var line string
	for _, candidate := range strings.Split(text, "\n") {
		candidate = strings.TrimSpace(strings.ReplaceAll(candidate, "**", ""))
		if candidate != "" {
			line = candidate
			break
		}
	}
	if max <= 0 {
		return line
	}
	r := []rune(line)
	if len(r) <= max {
		return line
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
