package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/httputil"
	"github.com/erraggy/openapi-gui/internal/naming"
	"github.com/erraggy/openapi-gui/internal/pathutil"
	"github.com/erraggy/openapi-gui/oaserrors"
)

// DefaultTag groups operations without tags.
const DefaultTag = "Default"

// Markdown renders a dereferenced OpenAPI 3 document as Markdown with a
// YAML front matter block, in the layout of the Slate/Shins family of
// documentation pages. Documents that still contain reference nodes are
// rejected with an *oaserrors.ReferenceError.
func Markdown(doc *document.Node, opts Options) (string, error) {
	if !doc.IsMapping() {
		return "", &oaserrors.ConfigError{Option: "document", Message: "document must be a mapping"}
	}
	if err := checkResolved(doc); err != nil {
		return "", err
	}

	r := &markdownRenderer{
		doc:   doc,
		opts:  opts,
		title: cases.Title(language.English),
	}
	if err := r.frontMatter(); err != nil {
		return "", err
	}
	r.introduction()
	r.authentication()
	r.operations()
	r.schemas()
	if opts.Discovery {
		r.discovery()
	}
	return r.sb.String(), nil
}

// checkResolved returns a ReferenceError for the first reference node in
// document order.
func checkResolved(doc *document.Node) error {
	path := pathutil.Get()
	defer pathutil.Put(path)
	seen := make(map[*document.Node]struct{})

	var walk func(n *document.Node) error
	walk = func(n *document.Node) error {
		if n == nil {
			return nil
		}
		if _, ok := seen[n]; ok {
			return nil
		}
		seen[n] = struct{}{}

		if n.Kind == document.KindReference {
			return &oaserrors.ReferenceError{
				Ref:     n.Ref,
				Path:    path.String(),
				Message: "document must be dereferenced before rendering",
			}
		}
		for i, item := range n.Items {
			path.PushIndex(i)
			err := walk(item)
			path.Pop()
			if err != nil {
				return err
			}
		}
		for key, child := range n.Fields() {
			path.Push(key)
			err := walk(child)
			path.Pop()
			if err != nil {
				return err
			}
		}
		return nil
	}
	return walk(doc)
}

type markdownRenderer struct {
	doc   *document.Node
	opts  Options
	title cases.Caser
	sb    strings.Builder
}

func (r *markdownRenderer) printf(format string, args ...any) {
	fmt.Fprintf(&r.sb, format, args...)
}

func (r *markdownRenderer) info() *document.Node {
	info, _ := r.doc.Get("info")
	return info
}

// docTitle returns "<title> v<version>".
func (r *markdownRenderer) docTitle() string {
	info := r.info()
	title := info.StringField("title")
	if title == "" {
		title = "API"
	}
	if v, ok := info.Get("version"); ok && v.Text() != "" {
		title += " v" + v.Text()
	}
	return title
}

func (r *markdownRenderer) frontMatter() error {
	str := func(s string) *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s} }
	seq := func(items ...*yaml.Node) *yaml.Node {
		return &yaml.Node{Kind: yaml.SequenceNode, Style: flowIfEmpty(len(items)), Content: items}
	}

	tabs := make([]*yaml.Node, 0, len(r.opts.LanguageTabs))
	for _, tab := range r.opts.LanguageTabs {
		tabs = append(tabs, &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{str(tab.Language), str(tab.Label)}})
	}
	includes := make([]*yaml.Node, 0, len(r.opts.Includes))
	for _, inc := range r.opts.Includes {
		includes = append(includes, str(inc))
	}

	fm := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		str("title"), str(r.docTitle()),
		str("language_tabs"), seq(tabs...),
		str("toc_footers"), seq(),
		str("includes"), seq(includes...),
		str("search"), {Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(r.opts.Search)},
		str("highlight_theme"), str(r.opts.Theme),
		str("headingLevel"), {Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(r.opts.Headings)},
	}}
	out, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("render: front matter: %w", err)
	}
	r.printf("---\n%s---\n\n", out)
	return nil
}

func flowIfEmpty(n int) yaml.Style {
	if n == 0 {
		return yaml.FlowStyle
	}
	return 0
}

func (r *markdownRenderer) introduction() {
	r.printf("# %s\n\n", r.docTitle())
	if r.opts.CodeSamples {
		r.printf("> Scroll down for code samples, example requests and responses. Select a language for code samples from the tabs above or the mobile navigation menu.\n\n")
	}
	info := r.info()
	if d := info.StringField("description"); d != "" {
		r.printf("%s\n\n", strings.TrimSpace(d))
	}

	if servers := r.serverURLs(); len(servers) > 0 {
		r.printf("Base URLs:\n\n")
		for _, u := range servers {
			r.printf("* <a href=\"%s\">%s</a>\n\n", u, u)
		}
	}
	if tos := info.StringField("termsOfService"); tos != "" {
		r.printf("<a href=\"%s\">Terms of service</a>\n", tos)
	}
	if contact, ok := info.Get("contact"); ok {
		var parts []string
		if email := contact.StringField("email"); email != "" {
			parts = append(parts, fmt.Sprintf("Email: <a href=\"mailto:%s\">%s</a>", email, fallback(contact.StringField("name"), "Support")))
		}
		if url := contact.StringField("url"); url != "" {
			parts = append(parts, fmt.Sprintf("Web: <a href=\"%s\">%s</a>", url, fallback(contact.StringField("name"), "Support")))
		}
		if len(parts) > 0 {
			r.printf("%s \n", strings.Join(parts, " "))
		}
	}
	if license, ok := info.Get("license"); ok && license.StringField("name") != "" {
		if url := license.StringField("url"); url != "" {
			r.printf("License: <a href=\"%s\">%s</a>\n", url, license.StringField("name"))
		} else {
			r.printf("License: %s\n", license.StringField("name"))
		}
	}
	if ext, ok := r.doc.Get("externalDocs"); ok && ext.StringField("url") != "" {
		r.printf("\n<a href=\"%s\">%s</a>\n", ext.StringField("url"), fallback(ext.StringField("description"), "Find out more"))
	}
	r.printf("\n")
}

// serverURLs lists the server URLs with variables set to their defaults.
func (r *markdownRenderer) serverURLs() []string {
	servers, ok := r.doc.Get("servers")
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(servers.Items))
	for _, s := range servers.Items {
		raw := s.StringField("url")
		if raw == "" {
			continue
		}
		vars, _ := s.Get("variables")
		urls = append(urls, pathutil.ExpandPath(raw, func(name string) string {
			if v, ok := vars.Get(name); ok && v.StringField("default") != "" {
				return v.StringField("default")
			}
			return "{" + name + "}"
		}))
	}
	return urls
}

func (r *markdownRenderer) authentication() {
	schemes, ok := r.doc.Lookup("components", "securitySchemes")
	if !ok || schemes.Len() == 0 {
		return
	}
	r.printf("# Authentication\n\n")
	for name, scheme := range schemes.Fields() {
		switch scheme.StringField("type") {
		case "apiKey":
			r.printf("* API Key (%s)\n    - Parameter Name: **%s**, in: %s. %s\n\n",
				name, scheme.StringField("name"), scheme.StringField("in"), oneLine(scheme.StringField("description")))
		case "http":
			r.printf("- HTTP Authentication, scheme: %s %s\n\n", scheme.StringField("scheme"), oneLine(scheme.StringField("description")))
		case "oauth2":
			r.printf("- oAuth2 authentication. %s\n\n", oneLine(scheme.StringField("description")))
			flows, _ := scheme.Get("flows")
			for flowName, flow := range flows.Fields() {
				r.printf("    - Flow: %s\n", flowName)
				for _, key := range []string{"authorizationUrl", "tokenUrl", "refreshUrl"} {
					if u := flow.StringField(key); u != "" {
						r.printf("    - %s = [%s](%s)\n", r.title.String(strings.TrimSuffix(key, "Url"))+" URL", u, u)
					}
				}
				if scopes, ok := flow.Get("scopes"); ok && scopes.Len() > 0 {
					r.printf("\n|Scope|Scope Description|\n|---|---|\n")
					for scope, desc := range scopes.Fields() {
						r.printf("|%s|%s|\n", cell(scope), cell(desc.Text()))
					}
				}
				r.printf("\n")
			}
		case "openIdConnect":
			r.printf("- OpenID Connect, discovery URL: %s %s\n\n", scheme.StringField("openIdConnectUrl"), oneLine(scheme.StringField("description")))
		default:
			r.printf("- %s (%s)\n\n", name, scheme.StringField("type"))
		}
	}
}

// operation is one method of a path item.
type operation struct {
	path   string
	method string
	node   *document.Node
}

// groupOperations groups operations by their first tag. Tags declared at
// the top level come first, in declaration order; others follow in order
// of first use.
func (r *markdownRenderer) groupOperations() ([]string, map[string][]operation) {
	groups := make(map[string][]operation)
	var order []string
	add := func(tag string, op operation) {
		if _, ok := groups[tag]; !ok {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], op)
	}

	paths, _ := r.doc.Get("paths")
	for path, item := range paths.Fields() {
		for _, method := range httputil.Methods {
			node, ok := item.Get(method)
			if !ok || !node.IsMapping() {
				continue
			}
			tag := DefaultTag
			if tags, ok := node.Get("tags"); ok && len(tags.Items) > 0 && tags.Items[0].Text() != "" {
				tag = tags.Items[0].Text()
			}
			add(tag, operation{path: path, method: method, node: node})
		}
	}

	var declared []string
	if tags, ok := r.doc.Get("tags"); ok {
		for _, t := range tags.Items {
			if name := t.StringField("name"); name != "" {
				if _, used := groups[name]; used {
					declared = append(declared, name)
				}
			}
		}
	}
	sorted := append([]string(nil), declared...)
	for _, tag := range order {
		if !contains(declared, tag) {
			sorted = append(sorted, tag)
		}
	}
	return sorted, groups
}

func (r *markdownRenderer) tagDescription(name string) string {
	for _, t := range items(r.doc, "tags") {
		if t.StringField("name") == name {
			return t.StringField("description")
		}
	}
	return ""
}

func (r *markdownRenderer) operations() {
	order, groups := r.groupOperations()
	for _, tag := range order {
		r.printf("# %s\n\n", r.title.String(tag))
		if d := r.tagDescription(tag); d != "" {
			r.printf("%s\n\n", strings.TrimSpace(d))
		}
		for _, op := range groups[tag] {
			r.operation(op)
		}
	}
}

func (r *markdownRenderer) operation(op operation) {
	n := op.node
	verb := strings.ToUpper(op.method)
	opID := n.StringField("operationId")

	heading := opID
	if heading == "" {
		heading = fallback(n.StringField("summary"), verb+" "+op.path)
	}
	r.printf("## %s\n\n", heading)
	if opID != "" {
		r.printf("<a id=\"opId%s\"></a>\n\n", naming.ToKebabCase(opID))
	}

	body := requestBody(n)
	if r.opts.CodeSamples {
		r.codeSamples(op, body)
	}

	r.printf("`%s %s`\n\n", verb, op.path)
	if s := n.StringField("summary"); s != "" && s != heading {
		r.printf("*%s*\n\n", oneLine(s))
	}
	if d := n.StringField("description"); d != "" {
		r.printf("%s\n\n", strings.TrimSpace(d))
	}
	if n.BoolField("deprecated") {
		r.printf("<aside class=\"warning\">This operation is deprecated.</aside>\n\n")
	}

	if body != nil && r.opts.Sample {
		if schema, ok := body.schema(); ok {
			r.printf("> Body parameter\n\n")
			r.jsonBlock(Sample(schema))
		}
	}

	r.parameters(n, body)
	r.responses(n)
	r.security(n)
}

// mediaContent is the first usable media type of a content map.
type mediaContent struct {
	description string
	required    bool
	mediaType   string
	media       *document.Node
}

func (m *mediaContent) schema() (*document.Node, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.media.Get("schema")
	return s, ok && s.IsMapping()
}

// firstMedia picks the JSON media type of content when present, or the
// first valid one.
func firstMedia(content *document.Node) (string, *document.Node) {
	var firstType string
	var first *document.Node
	for mt, media := range content.Fields() {
		if !httputil.IsValidMediaType(mt) {
			continue
		}
		if strings.Contains(mt, "json") {
			return mt, media
		}
		if first == nil {
			firstType, first = mt, media
		}
	}
	return firstType, first
}

func requestBody(op *document.Node) *mediaContent {
	rb, ok := op.Get("requestBody")
	if !ok || !rb.IsMapping() {
		return nil
	}
	content, _ := rb.Get("content")
	mt, media := firstMedia(content)
	if media == nil {
		return nil
	}
	return &mediaContent{
		description: rb.StringField("description"),
		required:    rb.BoolField("required"),
		mediaType:   mt,
		media:       media,
	}
}

// acceptType returns the media type of the first successful response.
func acceptType(op *document.Node) string {
	responses, _ := op.Get("responses")
	for code, resp := range responses.Fields() {
		if !strings.HasPrefix(code, "2") && code != "default" {
			continue
		}
		content, _ := resp.Get("content")
		if mt, _ := firstMedia(content); mt != "" {
			return mt
		}
	}
	return ""
}

func (r *markdownRenderer) parameters(op *document.Node, body *mediaContent) {
	params := items(op, "parameters")
	if len(params) == 0 && body == nil {
		return
	}
	r.printf("### Parameters\n\n|Name|In|Type|Required|Description|\n|---|---|---|---|---|\n")
	if body != nil {
		schema, _ := body.schema()
		r.printf("|body|body|%s|%t|%s|\n", cell(typeName(schema)), body.required, cell(fallback(body.description, "none")))
	}
	for _, p := range params {
		schema, _ := p.Get("schema")
		r.printf("|%s|%s|%s|%t|%s|\n",
			cell(p.StringField("name")), cell(p.StringField("in")), cell(typeName(schema)),
			p.BoolField("required"), cell(fallback(p.StringField("description"), "none")))
	}
	r.printf("\n")

	for _, p := range params {
		schema, _ := p.Get("schema")
		enum, ok := schema.Get("enum")
		if !ok || len(enum.Items) == 0 {
			continue
		}
		r.printf("#### Enumerated Values\n\n|Parameter|Value|\n|---|---|\n")
		for _, v := range enum.Items {
			r.printf("|%s|%s|\n", cell(p.StringField("name")), cell(v.Text()))
		}
		r.printf("\n")
	}
}

func (r *markdownRenderer) responses(op *document.Node) {
	responses, ok := op.Get("responses")
	if !ok || responses.Len() == 0 {
		return
	}

	if r.opts.Sample {
		printed := false
		for code, resp := range responses.Fields() {
			content, _ := resp.Get("content")
			mt, media := firstMedia(content)
			if media == nil || !strings.Contains(mt, "json") {
				continue
			}
			schema, ok := media.Get("schema")
			if !ok {
				continue
			}
			example := Sample(schema)
			if ex, ok := media.Get("example"); ok {
				example = ex
			}
			if !printed {
				r.printf("> Example responses\n\n")
				printed = true
			}
			r.printf("> %s Response\n\n", code)
			r.jsonBlock(example)
		}
	}

	r.printf("### Responses\n\n|Status|Meaning|Description|Schema|\n|---|---|---|---|\n")
	for code, resp := range responses.Fields() {
		if !httputil.ValidateStatusCode(code) || strings.HasPrefix(code, "x-") {
			continue
		}
		schemaCell := "None"
		content, _ := resp.Get("content")
		if _, media := firstMedia(content); media != nil {
			if schema, ok := media.Get("schema"); ok {
				schemaCell = typeName(schema)
			}
		}
		r.printf("|%s|%s|%s|%s|\n", cell(code), cell(fallback(httputil.StatusText(code), "Unknown")),
			cell(fallback(resp.StringField("description"), "none")), cell(schemaCell))
	}
	r.printf("\n")
}

func (r *markdownRenderer) security(op *document.Node) {
	reqs, ok := op.Get("security")
	if !ok {
		reqs, ok = r.doc.Get("security")
	}
	var names []string
	if ok {
		for _, req := range reqs.Items {
			for name := range req.Fields() {
				if !contains(names, name) {
					names = append(names, name)
				}
			}
		}
	}
	if len(names) == 0 {
		r.printf("<aside class=\"success\">\nThis operation does not require authentication\n</aside>\n\n")
		return
	}
	r.printf("<aside class=\"warning\">\nTo perform this operation, you must be authenticated by means of one of the following methods:\n%s\n</aside>\n\n", strings.Join(names, ", "))
}

func (r *markdownRenderer) schemas() {
	schemas, ok := r.doc.Lookup("components", "schemas")
	if !ok || schemas.Len() == 0 {
		return
	}
	r.printf("# Schemas\n\n")
	for name, schema := range schemas.Fields() {
		r.printf("## %s\n\n<a id=\"schema%s\"></a>\n\n", name, strings.ToLower(name))
		if r.opts.Sample {
			r.jsonBlock(Sample(schema))
		}
		if d := schema.StringField("description"); d != "" {
			r.printf("%s\n\n", strings.TrimSpace(d))
		}

		props, ok := schema.Get("properties")
		if !ok || props.Len() == 0 {
			r.printf("### Properties\n\n*%s*\n\n", typeName(schema))
			continue
		}
		var required []string
		if req, ok := schema.Get("required"); ok {
			for _, v := range req.Items {
				required = append(required, v.Text())
			}
		}
		r.printf("### Properties\n\n|Name|Type|Required|Restrictions|Description|\n|---|---|---|---|---|\n")
		for prop, ps := range props.Fields() {
			r.printf("|%s|%s|%t|%s|%s|\n", cell(prop), cell(typeName(ps)), contains(required, prop),
				restrictions(ps), cell(fallback(ps.StringField("description"), "none")))
		}
		r.printf("\n")
	}
}

// discovery embeds schema.org WebAPI data for search engines.
func (r *markdownRenderer) discovery() {
	info := r.info()
	data := map[string]any{
		"@context":    "http://schema.org/",
		"@type":       "WebAPI",
		"name":        info.StringField("title"),
		"description": info.StringField("description"),
	}
	if ext, ok := r.doc.Get("externalDocs"); ok && ext.StringField("url") != "" {
		data["documentation"] = ext.StringField("url")
	}
	out, _ := json.Marshal(data)
	r.printf("<script type=\"application/ld+json\">\n%s\n</script>\n", out)
}

func (r *markdownRenderer) jsonBlock(n *document.Node) {
	out, err := document.Encode(n, document.FormatJSON)
	if err != nil {
		out = []byte("null")
	}
	r.printf("```json\n%s\n```\n\n", out)
}

// cell makes s safe for a Markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// items returns the items of the sequence field key of n.
func items(n *document.Node, key string) []*document.Node {
	if v, ok := n.Get(key); ok && v.Kind == document.KindSequence {
		return v.Items
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
