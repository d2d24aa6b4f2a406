// Package registry describes the widget kinds a workflow can be built from.
//
// A Registry holds categories and widget descriptions. Each widget declares
// ordered, typed input and output channels; graph nodes reference these
// descriptions and never own them. A Registry is assembled once through a
// Builder (optionally fed by the YAML or HCL loaders), validated, and is
// read-only afterwards, so any number of goroutines may query it.
//
// Channel types are plain strings. Two channels are compatible when their
// types match or the registry declares an adapter between them; outputs
// flagged Dynamic may also connect to inputs whose type can be narrowed to
// theirs. See TypeSystem.
package registry
