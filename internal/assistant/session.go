package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nriassist/internal/logging"
	"nriassist/internal/script"
	"nriassist/internal/search"
	"nriassist/internal/services"
	"nriassist/internal/services/upload"
	"nriassist/internal/textutil"
)

var (
	// ErrBusy rejects a call while a chat or upload request is outstanding.
	ErrBusy = errors.New("assistant session busy")
	// ErrEmptyInput rejects blank utterances and file names.
	ErrEmptyInput = errors.New("assistant input empty")
	// ErrReset reports that the session was reset while a request was in
	// flight; the late reply is discarded.
	ErrReset = errors.New("assistant session reset")
)

// DefaultMaxResults caps the options shown for a search.
const DefaultMaxResults = 5

const labelRunes = 80

// ChatClient answers a free-text query.
type ChatClient interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Uploader stores a file and reports how many chunks were indexed.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (upload.Result, error)
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Chat       ChatClient
	Uploader   Uploader
	Script     []script.Node
	Threshold  float64
	Scorer     search.Scorer
	MaxResults int
	Logger     *slog.Logger
}

type settings struct {
	id  string
	now func() time.Time
}

// Option customises a session.
type Option func(*settings)

// WithID sets the session id.
func WithID(id string) Option {
	return func(s *settings) { s.id = strings.TrimSpace(id) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func resolveSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Session is one customer conversation.
type Session struct {
	id     string
	deps   Deps
	now    func() time.Time
	logger *slog.Logger

	mu         sync.Mutex
	mode       Mode
	busy       bool
	generation uint64
	transcript []Turn
	uploads    []string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSession returns an empty session in chat mode.
func NewSession(deps Deps, opts ...Option) *Session {
	cfg := resolveSettings(opts)
	if deps.MaxResults <= 0 {
		deps.MaxResults = DefaultMaxResults
	}
	if deps.Threshold <= 0 {
		deps.Threshold = search.DefaultThreshold
	}
	if deps.Scorer == nil {
		deps.Scorer = search.EditScorer{}
	}
	logger := logging.NewComponentLogger(deps.Logger, "assistant")
	if cfg.id != "" {
		logger = logger.With(logging.String(logging.FieldSessionID, cfg.id))
	}
	now := cfg.now()
	return &Session{
		id:        cfg.id,
		deps:      deps,
		now:       cfg.now,
		logger:    logger,
		mode:      ModeChat,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Open appends the greeting to an empty transcript.
func (s *Session) Open() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.transcript) > 0 {
		return nil
	}
	return []Turn{s.appendLocked(SpeakerBot, Greeting, nil)}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches between chat and search.
func (s *Session) SetMode(mode Mode) error {
	if mode != ModeChat && mode != ModeSearch {
		_, err := ParseMode(string(mode))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != mode {
		s.mode = mode
		s.updatedAt = s.now()
		s.logger.Debug("mode switched", logging.String("mode", string(mode)))
	}
	return nil
}

// ToggleMode flips the mode and returns the new one.
func (s *Session) ToggleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeChat {
		s.mode = ModeSearch
	} else {
		s.mode = ModeChat
	}
	s.updatedAt = s.now()
	return s.mode
}

// Busy reports whether a request is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTurns(s.transcript)
}

// Uploads returns the acknowledged file names in upload order.
func (s *Session) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

// Snapshot returns a copy of the whole session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		Mode:       s.mode,
		Busy:       s.busy,
		Transcript: cloneTurns(s.transcript),
		Uploads:    append([]string{}, s.uploads...),
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

// LastActivity returns the time of the last state change.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Reset clears the transcript and uploads. A call still in flight keeps the
// session busy until it returns; its result is then discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
	s.uploads = nil
	s.generation++
	s.updatedAt = s.now()
	s.logger.Info("session reset")
}

// Submit handles a user utterance in the current mode and returns the turns
// it appended.
func (s *Session) Submit(ctx context.Context, text string) ([]Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.mode == ModeSearch {
		defer s.mu.Unlock()
		return s.searchLocked(text), nil
	}
	user := s.appendLocked(SpeakerUser, text, nil)
	s.busy = true
	gen := s.generation
	s.mu.Unlock()

	reply := s.ask(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.generation != gen {
		return nil, ErrReset
	}
	bot := s.appendLocked(SpeakerBot, reply, nil)
	return []Turn{user, bot}, nil
}

// SelectOption submits a presented option as if the customer typed it.
func (s *Session) SelectOption(ctx context.Context, option string) ([]Turn, error) {
	return s.Submit(ctx, option)
}

func (s *Session) ask(ctx context.Context, query string) string {
	if s.deps.Chat == nil {
		logging.WarnWithContext(s.logger, "chat backend not configured", "chat_unconfigured",
			logging.String(logging.FieldErrorHint, "set chat.url in config"),
			logging.String(logging.FieldImpact, "customer sees the fallback reply"),
		)
		return ChatErrorReply
	}
	answer, err := s.deps.Chat.Ask(ctx, query)
	if err != nil {
		logging.WarnWithContext(s.logger, "chat request failed", "chat_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the chat backend is reachable"),
			logging.String(logging.FieldImpact, "customer sees the fallback reply"),
		)
		return ChatErrorReply
	}
	if strings.TrimSpace(answer) == "" {
		return EmptyAnswerReply
	}
	return answer
}

func (s *Session) searchLocked(query string) []Turn {
	texts := make([]string, 0, len(s.transcript))
	for _, turn := range s.transcript {
		texts = append(texts, turn.Text)
	}
	index := search.Build(s.deps.Script, texts, s.uploads,
		search.WithThreshold(s.deps.Threshold),
		search.WithScorer(s.deps.Scorer),
	)
	results := index.Search(query)

	user := s.appendLocked(SpeakerUser, query, nil)
	var options []string
	for i, result := range results {
		if i == s.deps.MaxResults {
			break
		}
		options = append(options, textutil.DisplayLabel(result.Document.Text, labelRunes))
	}
	bot := s.appendLocked(SpeakerBot, searchResultText(query, len(results)), options)
	s.logger.Debug("search served",
		logging.String("query", query),
		logging.Int("documents", index.Len()),
		logging.Int("matches", len(results)),
		logging.String("scorer", index.Scorer().Name()),
	)
	return []Turn{user, bot}
}

// Upload sends a file to the upload backend. On success the name joins the
// searchable uploads; on failure only an error turn is appended.
func (s *Session) Upload(ctx context.Context, name string, r io.Reader) ([]Turn, error) {
	name = textutil.SanitizeFileName(name)
	if name == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	user := s.appendLocked(SpeakerUser, uploadingText(name), nil)
	s.busy = true
	gen := s.generation
	s.mu.Unlock()

	result, err := s.send(ctx, name, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.generation != gen {
		return nil, ErrReset
	}
	if err != nil {
		var rejected *upload.Error
		text := uploadErrorText(services.Cause(err).Error())
		if errors.As(err, &rejected) {
			text = uploadFailedText(rejected.Body)
		}
		logging.WarnWithContext(s.logger, "upload failed", "upload_failed",
			logging.String("file", name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the file against the upload guidelines"),
			logging.String(logging.FieldImpact, "file not searchable"),
		)
		return []Turn{user, s.appendLocked(SpeakerBot, text, nil)}, nil
	}
	s.uploads = append(s.uploads, name)
	s.logger.Info("upload indexed",
		logging.String("file", name),
		logging.Int("chunks", result.ChunksIndexed),
	)
	return []Turn{user, s.appendLocked(SpeakerBot, uploadedText(name, result.ChunksIndexed), nil)}, nil
}

func (s *Session) send(ctx context.Context, name string, r io.Reader) (upload.Result, error) {
	if s.deps.Uploader == nil {
		return upload.Result{}, errors.New("upload backend not configured")
	}
	return s.deps.Uploader.Upload(ctx, name, r)
}

func (s *Session) appendLocked(speaker Speaker, text string, options []string) Turn {
	now := s.now()
	turn := Turn{Speaker: speaker, Text: text, Options: options, At: now}
	s.transcript = append(s.transcript, turn)
	s.updatedAt = now
	return turn.clone()
}
