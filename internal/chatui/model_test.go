package chatui

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"nriassist/internal/assistant"
	"nriassist/internal/script"
	"nriassist/internal/services/upload"
	"nriassist/internal/testsupport"
)

type stubChat struct {
	answer  string
	queries []string
}

func (s *stubChat) Ask(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.answer, nil
}

type stubUploader struct {
	names []string
	sizes []int
}

func (s *stubUploader) Upload(_ context.Context, name string, r io.Reader) (upload.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return upload.Result{}, err
	}
	s.names = append(s.names, name)
	s.sizes = append(s.sizes, len(data))
	return upload.Result{ChunksIndexed: 4}, nil
}

func newTestModel(t *testing.T) (*Model, *stubChat, *stubUploader) {
	t.Helper()
	chat := &stubChat{answer: "An NRE account holds foreign earnings."}
	uploader := &stubUploader{}
	session := assistant.NewSession(assistant.Deps{
		Chat:     chat,
		Uploader: uploader,
		Script:   script.Default().List(),
	}, assistant.WithID("tui"))
	return New(context.Background(), session), chat, uploader
}

// drain runs cmd and feeds back the messages the model cares about.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case turnsMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func enter(t *testing.T, m *Model, text string) {
	t.Helper()
	m.input.SetValue(text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
}

func lastTurn(t *testing.T, m *Model) assistant.Turn {
	t.Helper()
	transcript := m.session.Transcript()
	if len(transcript) == 0 {
		t.Fatal("transcript is empty")
	}
	return transcript[len(transcript)-1]
}

func TestNewGreets(t *testing.T) {
	m, _, _ := newTestModel(t)
	transcript := m.session.Transcript()
	if len(transcript) != 1 || transcript[0].Text != assistant.Greeting {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
	if !strings.Contains(m.View(), "NRI Banking Assistant") {
		t.Fatalf("view missing title:\n%s", m.View())
	}
}

func TestEnterSubmitsChat(t *testing.T) {
	m, chat, _ := newTestModel(t)
	enter(t, m, "what is nre?")

	if len(chat.queries) != 1 || chat.queries[0] != "what is nre?" {
		t.Fatalf("unexpected chat queries %v", chat.queries)
	}
	if got := lastTurn(t, m).Text; got != chat.answer {
		t.Fatalf("last turn = %q", got)
	}
	if m.busy {
		t.Fatal("model still busy after reply")
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
}

func TestBlankInputIgnored(t *testing.T) {
	m, chat, _ := newTestModel(t)
	enter(t, m, "   ")
	if len(chat.queries) != 0 || len(m.session.Transcript()) != 1 {
		t.Fatal("blank input should not submit")
	}
}

func TestTabSearchAndPickOption(t *testing.T) {
	m, chat, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.session.Mode() != assistant.ModeSearch {
		t.Fatalf("mode = %s, want search", m.session.Mode())
	}

	enter(t, m, "nre account")
	results := lastTurn(t, m)
	if len(results.Options) == 0 {
		t.Fatalf("expected search options, got %+v", results)
	}
	if results.Options[0] != "🏦 NRE Account - Your gateway to India" {
		t.Fatalf("top option = %q", results.Options[0])
	}
	if rendered := renderTranscript(m.session.Transcript(), 80); !strings.Contains(rendered, "1. 🏦 NRE Account") {
		t.Fatalf("transcript missing numbered option:\n%s", rendered)
	}

	enter(t, m, "1")
	transcript := m.session.Transcript()
	picked := transcript[len(transcript)-2]
	if picked.Speaker != assistant.SpeakerUser || picked.Text != results.Options[0] {
		t.Fatalf("option pick submitted %+v", picked)
	}
	if len(chat.queries) != 0 {
		t.Fatal("search mode must not reach the chat backend")
	}
}

func TestModeCommand(t *testing.T) {
	m, _, _ := newTestModel(t)
	enter(t, m, "/mode search")
	if m.session.Mode() != assistant.ModeSearch {
		t.Fatalf("mode = %s", m.session.Mode())
	}
	enter(t, m, "/mode voice")
	if !m.failed || !strings.Contains(m.status, "unknown mode") {
		t.Fatalf("expected mode error, got %q", m.status)
	}
	enter(t, m, "/mode")
	if m.session.Mode() != assistant.ModeChat {
		t.Fatalf("bare /mode should toggle back to chat, got %s", m.session.Mode())
	}
}

func TestUploadCommand(t *testing.T) {
	m, _, uploader := newTestModel(t)
	path := filepath.Join(t.TempDir(), "passport.pdf")
	testsupport.WriteFile(t, path, 2048)

	enter(t, m, "/upload "+path)
	if len(uploader.names) != 1 || uploader.names[0] != "passport.pdf" || uploader.sizes[0] != 2048 {
		t.Fatalf("unexpected uploads %v %v", uploader.names, uploader.sizes)
	}
	if got := lastTurn(t, m).Text; got != "✅ Uploaded passport.pdf — 4 chunks indexed." {
		t.Fatalf("last turn = %q", got)
	}
	if !strings.Contains(m.View(), "1 uploaded") {
		t.Fatalf("header missing upload count:\n%s", m.View())
	}
}

func TestUploadCommandErrors(t *testing.T) {
	m, _, uploader := newTestModel(t)

	enter(t, m, "/upload")
	if !m.failed || !strings.Contains(m.status, "Usage") {
		t.Fatalf("expected usage error, got %q", m.status)
	}

	enter(t, m, "/upload "+filepath.Join(t.TempDir(), "missing.pdf"))
	if !m.failed || !strings.Contains(m.status, "Cannot open") {
		t.Fatalf("expected open error, got %q", m.status)
	}
	if len(uploader.names) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestResetCommandGreetsAgain(t *testing.T) {
	m, _, _ := newTestModel(t)
	enter(t, m, "hello")
	enter(t, m, "/reset")
	transcript := m.session.Transcript()
	if len(transcript) != 1 || transcript[0].Text != assistant.Greeting {
		t.Fatalf("unexpected transcript after reset %+v", transcript)
	}
}

func TestBusyRejectsInput(t *testing.T) {
	m, chat, _ := newTestModel(t)
	m.busy = true
	m.input.SetValue("another question")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("busy model should not issue a command")
	}
	if !m.failed || len(chat.queries) != 0 {
		t.Fatalf("expected busy status, got %q", m.status)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("key %v: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("key %v: expected QuitMsg", key)
		}
	}
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.viewport.Width != 100 || m.viewport.Height != 40-headerHeight-footerHeight {
		t.Fatalf("viewport = %dx%d", m.viewport.Width, m.viewport.Height)
	}
}
