package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nriassist/internal/services"
)

func TestAskReturnsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["query"] != "What is an NRE account?" {
			t.Fatalf("unexpected query %q", payload["query"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "An NRE account holds foreign income."})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	answer, err := client.Ask(context.Background(), "  What is an NRE account?  ")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer != "An NRE account holds foreign income." {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestAskEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	answer, err := NewClient(Config{URL: server.URL}).Ask(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if answer != "" {
		t.Fatalf("expected empty answer, got %q", answer)
	}
}

func TestAskFailuresAreChatBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()
			_, err := NewClient(Config{URL: server.URL}).Ask(context.Background(), "hi")
			if !errors.Is(err, services.ErrChatBackend) {
				t.Fatalf("expected chat backend error, got %v", err)
			}
		})
	}
}

func TestAskStatusErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model offline"))
	}))
	defer server.Close()

	_, err := NewClient(Config{URL: server.URL}).Ask(context.Background(), "hi")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable || statusErr.Body != "model offline" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestAskTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(Config{URL: url}).Ask(context.Background(), "hi")
	if !errors.Is(err, services.ErrChatBackend) {
		t.Fatalf("expected chat backend error, got %v", err)
	}
}

func TestAskHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels r.Context() on older toolchains.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(Config{URL: server.URL}).Ask(ctx, "hi")
	if !errors.Is(err, services.ErrChatBackend) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
}

func TestAskRejectsBlankQuery(t *testing.T) {
	_, err := NewClient(Config{}).Ask(context.Background(), "   ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{})
	if client.URL() != defaultURL {
		t.Fatalf("URL = %q", client.URL())
	}
	if client.httpClient.Timeout != defaultHTTPTimeout {
		t.Fatalf("timeout = %s", client.httpClient.Timeout)
	}
	custom := &http.Client{}
	if NewClient(Config{}, WithHTTPClient(custom)).httpClient != custom {
		t.Fatal("WithHTTPClient ignored")
	}
}
