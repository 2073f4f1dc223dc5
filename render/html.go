package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.yaml.in/yaml/v4"
)

//go:embed assets/screen.css
var screenCSS []byte

// Stylesheet returns the built-in stylesheet linked as css/screen.css by
// rendered pages.
func Stylesheet() []byte {
	return bytes.Clone(screenCSS)
}

// frontMatter is the header block Markdown writes before the body.
type frontMatter struct {
	Title          string `yaml:"title"`
	LanguageTabs   []any  `yaml:"language_tabs"`
	Search         bool   `yaml:"search"`
	HighlightTheme string `yaml:"highlight_theme"`
	HeadingLevel   int    `yaml:"headingLevel"`
}

// splitFrontMatter separates a leading "---" delimited YAML block from
// the Markdown body. Input without one is returned as body.
func splitFrontMatter(src string) (string, string) {
	if !strings.HasPrefix(src, "---\n") {
		return "", src
	}
	rest := src[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return "", src
	}
	return rest[:end+1], rest[end+len("\n---\n"):]
}

// tab is a language tab on the page.
type tab struct {
	Language string
	Label    string
}

func (fm *frontMatter) tabs() []tab {
	var out []tab
	for _, t := range fm.LanguageTabs {
		switch v := t.(type) {
		case string:
			out = append(out, tab{Language: v, Label: v})
		case map[string]any:
			for lang, label := range v {
				out = append(out, tab{Language: lang, Label: fmt.Sprint(label)})
			}
		}
	}
	return out
}

// tocEntry is one heading in the table of contents.
type tocEntry struct {
	Level int
	ID    string
	Text  string
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// HTML converts Markdown produced by Markdown into a standalone page with
// a table of contents, language tabs and an optional search box.
func HTML(md string, opts HTMLOptions) (string, error) {
	header, body := splitFrontMatter(md)
	fm := frontMatter{HeadingLevel: 2}
	if header != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return "", fmt.Errorf("render: front matter: %w", err)
		}
	}

	src := []byte(body)
	root := markdown.Parser().Parse(text.NewReader(src))
	toc := tableOfContents(root, src, fm.HeadingLevel)

	var content bytes.Buffer
	if err := markdown.Renderer().Render(&content, src, root); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}

	data := pageData{
		Title:     fm.Title,
		Tabs:      fm.tabs(),
		Search:    fm.Search,
		TOC:       toc,
		Content:   template.HTML(content.String()), //nolint:gosec // rendered from trusted Markdown
		CustomCSS: opts.CustomCSS,
	}
	if opts.Inline {
		data.InlineCSS = template.CSS(screenCSS) //nolint:gosec // embedded asset
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render: page: %w", err)
	}
	page := out.String()
	if opts.Minify {
		page = minify(page)
	}
	return page, nil
}

func tableOfContents(root ast.Node, src []byte, maxLevel int) []tocEntry {
	var toc []tocEntry
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level <= maxLevel {
			entry := tocEntry{Level: h.Level, Text: headingText(h, src)}
			if id, ok := h.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					entry.ID = string(b)
				}
			}
			toc = append(toc, entry)
		}
		return ast.WalkSkipChildren, nil
	})
	return toc
}

func headingText(h ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

var betweenTags = regexp.MustCompile(`>\s+<`)

func minify(page string) string {
	return strings.TrimSpace(betweenTags.ReplaceAllString(page, "><"))
}

type pageData struct {
	Title     string
	Tabs      []tab
	Search    bool
	TOC       []tocEntry
	Content   template.HTML
	CustomCSS bool
	InlineCSS template.CSS
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  {{- if .InlineCSS}}
  <style>{{.InlineCSS}}</style>
  {{- else}}
  <link rel="stylesheet" href="css/screen.css">
  {{- end}}
  {{- if .CustomCSS}}
  <link rel="stylesheet" href="css/custom.css">
  {{- end}}
</head>
<body>
  <div class="toc-wrapper">
    {{- if .Tabs}}
    <div class="lang-selector">
      {{- range $i, $t := .Tabs}}
      <a href="#" data-language-name="{{$t.Language}}"{{if eq $i 0}} class="active"{{end}}>{{$t.Label}}</a>
      {{- end}}
    </div>
    {{- end}}
    {{- if .Search}}
    <div class="search"><input type="search" class="search" id="input-search" placeholder="Search"></div>
    {{- end}}
    <ul id="toc" class="toc-list-h1">
      {{- range .TOC}}
      <li class="toc-h{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
      {{- end}}
    </ul>
  </div>
  <div class="page-wrapper">
    <div class="content">
{{.Content}}
    </div>
  </div>
</body>
</html>
`))
