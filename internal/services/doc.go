// Package services defines shared utilities consumed by the workflow engine,
// the assistant sessions and the external collaborator clients.
//
// Key responsibilities:
//   - Context helpers that stamp application IDs, roles, assistant session IDs,
//     and correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures as
//     not found, invalid transition, chat backend, upload, and so on.
//   - HTTPStatus and Kind, which translate those markers into API responses.
//
// Subpackages hold the HTTP clients for the remote chat and upload backends.
// Use these helpers when wiring new components so error handling and
// observability stay uniform.
package services
