// Package render turns a dereferenced OpenAPI 3 document into
// documentation.
//
// [Markdown] writes Slate-style Markdown: a YAML front matter block, an
// introduction with base URLs, authentication schemes, operations grouped
// by their first tag with code samples and parameter and response tables,
// and a schema section. [HTML] converts that Markdown into a standalone
// page with a table of contents. [API2HTML] wraps the external api2html
// tool for single-file pages.
//
// Rendering expects a document without "$ref" nodes:
//
//	doc, err := deref.Dereference(paths, components)
//	if err != nil {
//		return err
//	}
//	md, err := render.Markdown(normalize.PostProcess(doc), render.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	page, err := render.HTML(md, render.DefaultHTMLOptions())
package render
