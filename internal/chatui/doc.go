// Package chatui renders an assistant session as a terminal chat screen.
//
// The model is a bubbletea program: typed text is submitted in the session's
// current mode, Tab toggles chat and search, a bare number picks one of the
// last search options, and /upload sends a local file through the session's
// uploader. Requests run as commands so the screen keeps redrawing while the
// backend answers.
package chatui
