package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/internal/fileutil"
	"github.com/erraggy/openapi-gui/normalize"
	"github.com/erraggy/openapi-gui/render"
)

type renderMarkdownInput struct {
	Spec          specInput `json:"spec"                      jsonschema:"The document to render"`
	Dereference   bool      `json:"dereference,omitempty"     jsonschema:"Resolve $ref pointers against the document's own components before rendering"`
	NoCodeSamples bool      `json:"no_code_samples,omitempty" jsonschema:"Omit per-language request samples"`
	NoSamples     bool      `json:"no_samples,omitempty"      jsonschema:"Omit example bodies generated from schemas"`
	HTML          bool      `json:"html,omitempty"            jsonschema:"Render a standalone HTML page instead of Markdown"`
	Output        string    `json:"output,omitempty"          jsonschema:"File path to write the result. If omitted it is returned inline."`
}

type renderMarkdownOutput struct {
	Bytes     int    `json:"bytes"`
	WrittenTo string `json:"written_to,omitempty"`
	Content   string `json:"content,omitempty"`
}

func handleRenderMarkdown(_ context.Context, _ *mcp.CallToolRequest, input renderMarkdownInput) (*mcp.CallToolResult, renderMarkdownOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), renderMarkdownOutput{}, nil
	}
	if input.Dereference {
		d := deref.New()
		d.MaxPasses = cfg.MaxPasses
		result, err := d.Dereference(doc, nil)
		if err != nil {
			return errResult(err), renderMarkdownOutput{}, nil
		}
		doc = normalize.PostProcess(result.Document)
	}

	opts := render.DefaultOptions()
	opts.CodeSamples = !input.NoCodeSamples
	opts.Sample = !input.NoSamples
	out, err := render.Markdown(doc, opts)
	if err != nil {
		return errResult(err), renderMarkdownOutput{}, nil
	}
	if input.HTML {
		htmlOpts := render.DefaultHTMLOptions()
		htmlOpts.Inline = true
		if out, err = render.HTML(out, htmlOpts); err != nil {
			return errResult(err), renderMarkdownOutput{}, nil
		}
	}

	output := renderMarkdownOutput{Bytes: len(out)}
	if input.Output != "" {
		written, err := writeOutputFile(input.Output, []byte(out), fileutil.ReadableByAll)
		if err != nil {
			return errResult(err), renderMarkdownOutput{}, nil
		}
		output.WrittenTo = written
	} else {
		output.Content = out
	}
	return nil, output, nil
}
