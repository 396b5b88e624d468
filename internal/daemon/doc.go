// Package daemon coordinates the long-running NRI Assist process.
//
// It wires configuration, the workflow engine, the optional SQLite
// application store, the transition event publisher, and the assistant
// session manager into a single lifecycle with flock-based locking to
// prevent multiple instances. Advance is the only write path: it plans a
// transition, persists it, applies it in memory, and publishes an event, all
// under one mutex so concurrent callers cannot interleave.
//
// The gin HTTP API and the IPC server are thin adapters over the daemon and
// the api package's DTO services.
package daemon
