// Package normalize prepares OpenAPI documents for editing and cleans them
// up again before they are saved.
//
// [PreProcess] fills in the containers an editor binds to (info, contact,
// license, externalDocs, servers, security, paths, components and its
// links, callbacks and schemas maps, and per-operation tags, parameters and
// externalDocs) and copies path-level parameters into each operation.
// [PostProcess] removes the placeholders that remained empty.
//
// Both passes return a new tree and are idempotent:
//
//	doc = normalize.PreProcess(doc)
//	// ... edit ...
//	doc = normalize.PostProcess(doc)
package normalize
