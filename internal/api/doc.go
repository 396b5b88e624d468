// Package api defines wire-format types and converters shared by the HTTP
// API and the IPC layer. It translates workflow, catalog, assistant, and
// search models into transport-friendly DTOs so the CLI and browser clients
// render them without coupling to internal types.
//
// # Key Types
//
// Application: an application with its account description, progress
// position, status chip, and owning role.
//
// InboxResponse / Statistics: a staff dashboard for one role.
//
// Session / Turn: assistant session snapshots.
//
// DaemonStatus: runtime state, collection counts, and preflight results.
//
// # Services
//
// WorkflowService wraps a WorkflowReader (the workflow engine) and returns
// DTOs for the read paths; role and status names are parsed here so both
// transports accept the same aliases.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Enums are exposed as their canonical labels.
// Timestamps use RFC3339 with milliseconds.
package api
