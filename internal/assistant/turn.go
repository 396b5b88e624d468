package assistant

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how user utterances are handled.
type Mode string

const (
	ModeChat   Mode = "chat"
	ModeSearch Mode = "search"
)

// ParseMode accepts "chat" or "search", case-insensitively.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeChat:
		return ModeChat, nil
	case ModeSearch:
		return ModeSearch, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want chat or search)", raw)
	}
}

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerBot  Speaker = "bot"
	SpeakerUser Speaker = "user"
)

// Turn is one transcript entry.
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	Options []string  `json:"options,omitempty"`
	At      time.Time `json:"at"`
}

func (t Turn) clone() Turn {
	if t.Options != nil {
		t.Options = append([]string(nil), t.Options...)
	}
	return t
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, turn := range turns {
		out[i] = turn.clone()
	}
	return out
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID         string    `json:"id"`
	Mode       Mode      `json:"mode"`
	Busy       bool      `json:"busy"`
	Transcript []Turn    `json:"transcript"`
	Uploads    []string  `json:"uploads"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// User-visible turn texts.
const (
	Greeting         = "👋 Hello! I’m your personal NRI Banking Assistant.\n\nYou can chat with me or search for info."
	ChatErrorReply   = "Sorry, I encountered an error processing your request."
	EmptyAnswerReply = "Sorry, I couldn't generate a response."
)

func uploadingText(name string) string {
	return "📎 Uploading file: " + name
}

func uploadedText(name string, chunks int) string {
	return fmt.Sprintf("✅ Uploaded %s — %d chunks indexed.", name, chunks)
}

func uploadFailedText(body string) string {
	return "❌ Upload failed: " + body
}

func uploadErrorText(msg string) string {
	return "❌ Upload error: " + msg
}

func searchResultText(query string, matches int) string {
	if matches == 0 {
		return fmt.Sprintf("🔍 No matches found for \"%s\"", query)
	}
	return fmt.Sprintf("🔍 Found %d matches for \"%s\"", matches, query)
}
