package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"nriassist/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrChatBackend, "chat", "ask", "http 502", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrChatBackend) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"chat", "ask", "http 502"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestCauseStripsWrapContext(t *testing.T) {
	base := errors.New("connection refused")
	err := services.Wrap(services.ErrUpload, "upload", "send", "http error", base)
	if got := services.Cause(err); got != base {
		t.Fatalf("Cause() = %v, want %v", got, base)
	}
	nested := services.Wrap(services.ErrUpload, "upload", "send", "retry", err)
	if got := services.Cause(nested); got != base {
		t.Fatalf("nested Cause() = %v, want %v", got, base)
	}
	plain := errors.New("plain")
	if got := services.Cause(plain); got != plain {
		t.Fatalf("plain Cause() = %v", got)
	}
	bare := services.Wrap(services.ErrUpload, "upload", "", "no cause", nil)
	if got := services.Cause(bare); got != bare {
		t.Fatalf("bare Cause() = %v", got)
	}
	if services.Cause(nil) != nil {
		t.Fatal("Cause(nil) should be nil")
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		marker error
		want   int
		kind   string
	}{
		{services.ErrNotFound, http.StatusNotFound, "not_found"},
		{services.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{services.ErrValidation, http.StatusBadRequest, "validation"},
		{services.ErrChatBackend, http.StatusBadGateway, "chat_backend"},
		{services.ErrUpload, http.StatusBadGateway, "upload"},
		{services.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
		{services.ErrTransient, http.StatusInternalServerError, "transient"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			err := services.Wrap(tt.marker, "workflow", "transition", "detail", nil)
			if got := services.HTTPStatus(err); got != tt.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tt.want)
			}
			if got := services.Kind(err); got != tt.kind {
				t.Fatalf("Kind = %q, want %q", got, tt.kind)
			}
		})
	}
	if got := services.HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d", got)
	}
}
