package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/erraggy/openapi-gui/document"
)

// sampleRequest is the information a code sample needs about one call.
type sampleRequest struct {
	method  string
	url     string
	headers [][2]string
	body    string
}

// sampleWriters generate a request sample for a language tab key.
var sampleWriters = map[string]func(req sampleRequest) string{
	"http":               httpSample,
	"shell":              shellSample,
	"javascript":         fetchSample,
	"javascript--nodejs": nodeSample,
	"python":             pythonSample,
	"go":                 goSample,
}

func (r *markdownRenderer) codeSamples(op operation, body *mediaContent) {
	req := sampleRequest{method: strings.ToUpper(op.method)}

	base := ""
	if servers := r.serverURLs(); len(servers) > 0 {
		base = strings.TrimSuffix(servers[0], "/")
	}
	req.url = base + op.path
	query := url.Values{}
	for _, p := range items(op.node, "parameters") {
		if p.StringField("in") == "query" && p.BoolField("required") {
			schema, _ := p.Get("schema")
			query.Set(p.StringField("name"), Sample(schema).Text())
		}
	}
	if len(query) > 0 {
		req.url += "?" + query.Encode()
	}

	if body != nil {
		req.headers = append(req.headers, [2]string{"Content-Type", body.mediaType})
		if schema, ok := body.schema(); ok {
			if out, err := document.Encode(Sample(schema), document.FormatJSON); err == nil {
				req.body = string(out)
			}
		}
	}
	if accept := acceptType(op.node); accept != "" {
		req.headers = append(req.headers, [2]string{"Accept", accept})
	}

	printed := false
	for _, tab := range r.opts.LanguageTabs {
		write, ok := sampleWriters[tab.Language]
		if !ok {
			continue
		}
		if !printed {
			r.printf("> Code samples\n\n")
			printed = true
		}
		r.printf("```%s\n%s```\n\n", tab.Language, write(req))
	}
}

func httpSample(req sampleRequest) string {
	var sb strings.Builder
	u, err := url.Parse(req.url)
	if err != nil || u.Host == "" {
		fmt.Fprintf(&sb, "%s %s HTTP/1.1\n", req.method, req.url)
	} else {
		fmt.Fprintf(&sb, "%s %s HTTP/1.1\nHost: %s\n", req.method, u.RequestURI(), u.Host)
	}
	for _, h := range req.headers {
		fmt.Fprintf(&sb, "%s: %s\n", h[0], h[1])
	}
	if req.body != "" {
		fmt.Fprintf(&sb, "\n%s\n", req.body)
	}
	return sb.String()
}

func shellSample(req sampleRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "curl -X %s %s", req.method, req.url)
	for _, h := range req.headers {
		fmt.Fprintf(&sb, " \\\n  -H '%s: %s'", h[0], h[1])
	}
	if req.body != "" {
		fmt.Fprintf(&sb, " \\\n  -d '%s'", strings.ReplaceAll(req.body, "'", `'\''`))
	}
	sb.WriteString("\n")
	return sb.String()
}

func jsHeaders(req sampleRequest) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, h := range req.headers {
		fmt.Fprintf(&sb, "  '%s': '%s',\n", h[0], h[1])
	}
	sb.WriteString("}")
	return sb.String()
}

func jsBody(req sampleRequest) string {
	if req.body == "" {
		return ""
	}
	return "  body: JSON.stringify(inputBody),\n"
}

func jsInput(req sampleRequest) string {
	if req.body == "" {
		return ""
	}
	return "const inputBody = " + req.body + ";\n"
}

func fetchSample(req sampleRequest) string {
	return fmt.Sprintf("%sconst headers = %s;\n\nfetch('%s', {\n  method: '%s',\n%s  headers: headers\n})\n.then(function(res) {\n  return res.json();\n}).then(function(body) {\n  console.log(body);\n});\n",
		jsInput(req), jsHeaders(req), req.url, req.method, jsBody(req))
}

func nodeSample(req sampleRequest) string {
	return "const fetch = require('node-fetch');\n" + fetchSample(req)
}

func pythonSample(req sampleRequest) string {
	var sb strings.Builder
	sb.WriteString("import requests\n\nheaders = {\n")
	for _, h := range req.headers {
		fmt.Fprintf(&sb, "  '%s': '%s',\n", h[0], h[1])
	}
	sb.WriteString("}\n\n")
	args := "headers=headers"
	if req.body != "" {
		fmt.Fprintf(&sb, "payload = %s\n\n", req.body)
		args += ", json=payload"
	}
	fmt.Fprintf(&sb, "r = requests.%s('%s', %s)\n\nprint(r.json())\n", strings.ToLower(req.method), req.url, args)
	return sb.String()
}

func goSample(req sampleRequest) string {
	var sb strings.Builder
	body := "nil"
	if req.body != "" {
		fmt.Fprintf(&sb, "body := strings.NewReader(%q)\n", req.body)
		body = "body"
	}
	fmt.Fprintf(&sb, "req, err := http.NewRequest(%q, %q, %s)\n", req.method, req.url, body)
	for _, h := range req.headers {
		fmt.Fprintf(&sb, "req.Header.Set(%q, %q)\n", h[0], h[1])
	}
	sb.WriteString("resp, err := http.DefaultClient.Do(req)\n")
	return sb.String()
}
