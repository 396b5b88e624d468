package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Backends is an httptest stand-in for the chat and upload services.
type Backends struct {
	chat   *httptest.Server
	upload *httptest.Server

	mu           sync.Mutex
	answer       string
	chunks       int
	uploadStatus int
	uploadBody   string
	queries      []string
	uploads      []string
}

// StubBackends starts a chat server answering "stub answer" and an upload
// server reporting 3 indexed chunks. Both are closed on cleanup.
func StubBackends(t testing.TB) *Backends {
	t.Helper()

	b := &Backends{answer: "stub answer", chunks: 3}
	b.chat = httptest.NewServer(http.HandlerFunc(b.handleChat))
	b.upload = httptest.NewServer(http.HandlerFunc(b.handleUpload))
	t.Cleanup(func() {
		b.chat.Close()
		b.upload.Close()
	})
	return b
}

// ChatURL returns the chat endpoint.
func (b *Backends) ChatURL() string { return b.chat.URL + "/api/chat" }

// UploadURL returns the upload endpoint.
func (b *Backends) UploadURL() string { return b.upload.URL + "/api/upload" }

// SetAnswer changes the chat reply.
func (b *Backends) SetAnswer(answer string) {
	b.mu.Lock()
	b.answer = answer
	b.mu.Unlock()
}

// FailUploads makes the upload server reject with status and body.
func (b *Backends) FailUploads(status int, body string) {
	b.mu.Lock()
	b.uploadStatus = status
	b.uploadBody = body
	b.mu.Unlock()
}

// Queries returns the chat queries received so far.
func (b *Backends) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

// Uploads returns the file names received so far.
func (b *Backends) Uploads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploads...)
}

func (b *Backends) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	b.queries = append(b.queries, req.Query)
	answer := b.answer
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"answer": answer})
}

func (b *Backends) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	_, _ = io.Copy(io.Discard, file)
	file.Close()

	b.mu.Lock()
	status, body, chunks := b.uploadStatus, b.uploadBody, b.chunks
	if status == 0 {
		b.uploads = append(b.uploads, header.Filename)
	}
	b.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"chunksIndexed": chunks})
}
