package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/openapi-gui/normalize"
)

type normalizeInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The document to normalize"`
	Mode   string    `json:"mode,omitempty"   jsonschema:"pre (default): prepare for editing; post: clean up after dereferencing"`
	Format string    `json:"format,omitempty" jsonschema:"Output format: json (default) or yaml"`
	Output string    `json:"output,omitempty" jsonschema:"File path to write the normalized document. If omitted the document is returned inline."`
}

type normalizeOutput struct {
	Mode      string `json:"mode"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

func handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}
	format, err := outputFormat(input.Format)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	mode := input.Mode
	switch mode {
	case "", "pre":
		mode = "pre"
		doc = normalize.PreProcess(doc)
	case "post":
		doc = normalize.PostProcess(doc)
	default:
		return errResult(fmt.Errorf("unsupported mode %q: use pre or post", input.Mode)), normalizeOutput{}, nil
	}

	written, inline, err := emitDocument(doc, format, input.Output)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}
	return nil, normalizeOutput{Mode: mode, WrittenTo: written, Document: inline}, nil
}
