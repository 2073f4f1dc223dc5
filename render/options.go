package render

// LanguageTab is one code sample language shown in the rendered page.
type LanguageTab struct {
	// Language is the sample generator and highlighter key, such as
	// "javascript--nodejs".
	Language string `json:"language"`
	// Label is the tab caption.
	Label string `json:"label"`
}

// Options configures Markdown rendering.
type Options struct {
	// CodeSamples adds request samples per language tab to operations.
	CodeSamples bool `json:"codeSamples"`
	// Theme is the syntax highlighting theme named in the front matter.
	Theme string `json:"theme"`
	// Search enables the client-side search index.
	Search bool `json:"search"`
	// Sample adds example request bodies and responses generated from
	// schemas.
	Sample bool `json:"sample"`
	// Discovery embeds schema.org WebAPI discovery data.
	Discovery bool `json:"discovery"`
	// Includes lists extra Markdown files named in the front matter.
	Includes []string `json:"includes"`
	// LanguageTabs selects and orders the code sample languages.
	LanguageTabs []LanguageTab `json:"languageTabs"`
	// Headings is the table of contents depth.
	Headings int `json:"headings"`
}

// DefaultOptions returns the options the editor renders with.
func DefaultOptions() Options {
	return Options{
		CodeSamples: true,
		Theme:       "darkula",
		Search:      true,
		Sample:      true,
		Discovery:   false,
		Includes:    []string{},
		LanguageTabs: []LanguageTab{
			{Language: "http", Label: "HTTP"},
			{Language: "javascript", Label: "JavaScript"},
			{Language: "javascript--nodejs", Label: "Node.JS"},
			{Language: "python", Label: "Python"},
		},
		Headings: 2,
	}
}

// HTMLOptions configures HTML rendering.
type HTMLOptions struct {
	// Minify collapses whitespace between tags.
	Minify bool `json:"minify"`
	// CustomCSS links an extra stylesheet, custom.css, after the built-in
	// one.
	CustomCSS bool `json:"customCss"`
	// Inline embeds the stylesheet in the page instead of linking it.
	Inline bool `json:"inline"`
}

// DefaultHTMLOptions returns the HTML options the editor renders with.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{}
}
