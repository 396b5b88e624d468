// Package appstore persists the application collection in SQLite.
//
// The store is the optional durable variant of the application data
// collaborator. It keeps the collection in display order, seeds the demo
// applications on first open when asked to, and records every status change
// in a transition log. UpdateStatus is guarded on the expected current
// status, so a stale writer fails with services.ErrInvalidTransition instead
// of overwriting a newer status.
//
// Writes retry briefly on SQLITE_BUSY. Reads never retry.
package appstore
