// Package openapigui is the backend of a local OpenAPI editor: it keeps
// the definition being edited, stores versioned schemas, dereferences
// "$ref" pointers and renders documentation.
//
// # Overview
//
// The work is split across these packages:
//
//   - document: an ordered, tagged-variant tree for JSON and YAML documents
//   - deref: inlines local and component "$ref" pointers to a fixed point
//   - normalize: prepares documents for editing and cleans them afterwards
//   - storage: file-backed modules of documents with timestamped backups
//   - render: Markdown and HTML documentation for dereferenced documents
//   - server: the HTTP routes the browser editor talks to
//
// # Quick Start
//
// Dereference a path document against separately kept components:
//
//	import "github.com/erraggy/openapi-gui/deref"
//
//	result, err := deref.DereferenceWithOptions(
//		deref.WithFilePath("paths.yaml"),
//		deref.WithDefinitions(components),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d references inlined in %d passes\n", result.Resolutions, result.Passes)
//
// Render documentation:
//
//	import "github.com/erraggy/openapi-gui/render"
//
//	md, err := render.Markdown(normalize.PostProcess(result.Document), render.DefaultOptions())
//
// Run the editor backend from the command line:
//
//	openapi-gui serve -d openapi.yaml -w -l
package openapigui
