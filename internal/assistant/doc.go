// Package assistant implements the customer-facing assistant session.
//
// A Session dispatches user utterances either to the remote chat backend
// (chat mode) or to a search index rebuilt from the live document set
// (search mode), and records everything as an append-only transcript. File
// uploads go through the upload backend; only acknowledged uploads join the
// searchable set.
//
// A session has one logical actor. While a chat or upload call is
// outstanding the session is busy and further calls fail with ErrBusy
// without side effects. Collaborator failures never escape as errors: they
// become bot turns the customer can read and retry from.
//
// Manager keeps sessions for the daemon, keyed by uuid, and expires idle
// ones on request.
package assistant
