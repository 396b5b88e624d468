// Package textutil provides the text handling shared by search and uploads.
//
//   - Normalize folds text for matching: compatibility decomposition,
//     combining marks removed, case folded, and every run of non-alphanumeric
//     characters collapsed to one space.
//   - Tokenize and Fingerprint build term-frequency vectors over normalized
//     text for cosine comparison.
//   - DisplayLabel derives a one-line label from markdown-ish guide text.
//   - SanitizeFileName cleans client-supplied upload names.
package textutil
