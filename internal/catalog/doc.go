// Package catalog defines the fixed vocabulary of the account-opening
// workflow: the five ordered application statuses, the account types, and the
// roles that consume work at each stage.
//
// A Catalog is built once (see Default) and never mutated. Every lookup keyed
// by a status or role string is total: unknown input resolves to a documented
// default instead of failing, so callers rendering stale or unexpected data
// never have to guard against a missing entry.
//
// The staff stage table is validated at construction: the three staff roles
// must form a chain over consecutive ordinals 2→3→4→5. Customer is listed as a
// role for display purposes but owns no transition.
package catalog
