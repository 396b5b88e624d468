// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs, which
// alias the api package types so HTTP and IPC callers see identical shapes.
// Errors cross the socket as plain strings; callers that need the HTTP status
// classification should use the HTTP API instead.
package ipc
