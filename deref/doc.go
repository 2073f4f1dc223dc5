// Package deref inlines local "$ref" pointers in an OpenAPI document tree.
//
// Dereferencing works on an in-memory [document.Node] tree and never touches
// the network or the file system (except for [WithFilePath]). Pointers that
// start with "#/components/" resolve into a separate definitions tree, so a
// path-only document edited in a GUI can be expanded against the component
// definitions kept beside it. Every other local pointer resolves into the
// document being processed.
//
// # Quick Start
//
//	result, err := deref.DereferenceWithOptions(
//		deref.WithBytes(data),
//		deref.WithDefinitions(defs),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, u := range result.Unresolved {
//		fmt.Println(u)
//	}
//
// Or create a reusable Dereferencer:
//
//	d := deref.New()
//	d.MaxPasses = 20
//	result, err := d.Dereference(doc, defs)
//
// # Algorithm
//
// Resolution runs in passes. Each pass walks the tree depth first, in
// document order, and replaces every reference node it meets with a deep
// copy of the target. Sibling fields of the reference are kept; for mapping
// targets the target's fields win. References inside the copied target that
// point at or below the original pointer are rewritten to the node's new
// location, so a schema that refers to its own properties keeps working
// once inlined. Content merged in a pass is visited by the next one.
//
// Passes repeat until one resolves nothing. Self-referential or mutually
// referential definitions keep producing new references; after
// [DefaultMaxPasses] passes the call fails with an error matching
// [oaserrors.ErrCycleDepthExceeded].
//
// Pointers that cannot be resolved are left in place, logged at warn level,
// and reported in [Result.Unresolved]. A pointer to the document root ("#")
// is reported as circular.
//
// # Pointer Escaping
//
// Segments are unescaped per RFC 6901 (~1 is "/", ~0 is "~"), so a path key
// such as "/pets" is addressed as "#/paths/~1pets". Documents saved by tools
// that wrote raw segments can be processed with [WithLegacyPointers].
package deref
