package services

import "context"

type contextKey string

const (
	applicationIDKey contextKey = "application_id"
	roleKey          contextKey = "role"
	sessionIDKey     contextKey = "session_id"
	requestIDKey     contextKey = "request_id"
)

// WithApplicationID annotates context with the application identifier.
func WithApplicationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, applicationIDKey, id)
}

// ApplicationIDFromContext extracts the application identifier if present.
func ApplicationIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(applicationIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRole annotates context with the acting workflow role.
func WithRole(ctx context.Context, role string) context.Context {
	if role == "" {
		return ctx
	}
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the acting role if present.
func RoleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(roleKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSessionID annotates context with the assistant session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the assistant session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
