// Package document provides the tree model used by openapi-gui: a
// tagged-variant [Node] that is a scalar, a mapping, a sequence, or a
// reference.
//
// A reference node is a mapping whose "$ref" key holds a pointer string.
// Any other keys of that mapping are kept as sibling fields. A mapping whose
// "$ref" value is not a string (for example a schema property named "$ref")
// stays a plain mapping.
//
// Trees are decoded from JSON or YAML with [Parse], which keeps mapping
// keys in source order, and written back with [Encode]:
//
//	doc, err := document.Parse(data, "openapi.yaml")
//	if err != nil {
//		return err
//	}
//	out, err := document.Encode(doc, document.FormatJSON)
//
// [Node.Clone] makes deep copies and [Equal] compares trees ignoring key
// order.
package document
