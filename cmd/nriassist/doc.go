// Package main hosts the NRI Assist CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the daemon: application listing and transitions, role dashboards,
// guide search, and daemon lifecycle. The chat command runs an assistant
// session in the terminal without the daemon. Configuration resolution and
// socket discovery live here so subcommands can focus on output.
package main
