// Package logs reads the daemon's log file for the CLI: the last N lines,
// everything after a byte offset, and a polling follow mode that survives
// truncation by starting over from the top of the file.
package logs
