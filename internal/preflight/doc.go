// Package preflight provides readiness checks for the filesystem paths and
// external services NRI Assist depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and logs every failing check.
//     Failures are reported, not fatal: the assistant degrades to fallback
//     replies when a backend is down.
//   - The CLI "nriassist status" command renders the same results.
//
// Each check is gated by its config toggle. Disabled features are skipped.
package preflight
