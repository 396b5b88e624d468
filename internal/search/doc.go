// Package search implements the assistant's fuzzy index over mixed content.
//
// An Index is built from scratch over an ordered document set (script nodes,
// prior transcript turns, uploaded file names) and is a pure function of its
// inputs: the same documents and query always produce the same ordered
// results. Scores lie in [0,1] with 0 a perfect match; a document scores the
// minimum over its text and each of its options, documents above the
// threshold are dropped, and ties keep insertion order.
//
// Matching is delegated to a Scorer so the algorithm can be swapped without
// touching callers. Text is normalized with textutil.Normalize before it
// reaches a scorer.
package search
