// Package script holds the scripted guide the assistant shows customers.
//
// The guide ships embedded as sop.yaml and can be replaced at runtime with
// a file of the same shape (see config [search] script_path). Nodes keep
// file order, which is also their search insertion order.
package script
