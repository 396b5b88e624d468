// Package chat talks to the remote natural-language chat backend.
//
// The backend contract is a single JSON exchange: POST {"query": "..."} and
// receive {"answer": "..."}. Every failure (transport, non-2xx status,
// undecodable body) is reported as services.ErrChatBackend so the assistant
// can turn it into its fallback reply. Requests are never retried.
package chat
