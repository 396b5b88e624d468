// Package workflow owns the application status lifecycle.
//
// The Engine holds the ordered application collection and is the only place
// a status changes: Transition checks that the acting role's filter status
// matches the application's current status and rewrites it to the role's next
// status, touching nothing else. Plan performs the same check without
// mutating so the daemon can persist a change before applying it in memory.
//
// Read views (Inbox, Statistics, ProgressPosition, Progress, Partition) are
// derived on demand from the collection and the catalog. Every status-keyed
// lookup degrades to the catalog default, so unexpected statuses never panic.
//
// Errors are classified with the services markers: ErrNotFound for unknown
// application ids and ErrInvalidTransition when the role has no authority
// over the application's current stage.
package workflow
