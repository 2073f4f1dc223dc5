// Package naming converts operation IDs and schema names into the
// identifiers used for anchors in rendered documentation.
package naming
