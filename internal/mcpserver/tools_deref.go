package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/fileutil"
	"github.com/erraggy/openapi-gui/internal/pathutil"
)

type dereferenceInput struct {
	Spec        specInput  `json:"spec"                  jsonschema:"The document to dereference"`
	Definitions *specInput `json:"definitions,omitempty" jsonschema:"Document whose top level holds the #/components/ targets. Omit to resolve against the document's own components."`
	MaxPasses   int        `json:"max_passes,omitempty"  jsonschema:"Maximum number of resolution passes before a cycle is reported (default 100)"`
	Legacy      bool       `json:"legacy_pointers,omitempty" jsonschema:"Keep pointer segments raw instead of applying ~0/~1 unescaping"`
	Format      string     `json:"format,omitempty"      jsonschema:"Output format: json (default) or yaml"`
	Output      string     `json:"output,omitempty"      jsonschema:"File path to write the dereferenced document. If omitted the document is returned inline."`
	Offset      int        `json:"offset,omitempty"      jsonschema:"Skip the first N unresolved references (for pagination)"`
	Limit       int        `json:"limit,omitempty"       jsonschema:"Maximum number of unresolved references to return (default 100)"`
}

type unresolvedRef struct {
	Ref     string `json:"ref"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

type dereferenceOutput struct {
	Passes          int             `json:"passes"`
	Resolutions     int             `json:"resolutions"`
	UnresolvedCount int             `json:"unresolved_count"`
	Returned        int             `json:"returned"`
	Unresolved      []unresolvedRef `json:"unresolved,omitempty"`
	WrittenTo       string          `json:"written_to,omitempty"`
	Document        string          `json:"document,omitempty"`
}

func handleDereference(_ context.Context, _ *mcp.CallToolRequest, input dereferenceInput) (*mcp.CallToolResult, dereferenceOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}
	var defs *document.Node
	if input.Definitions != nil {
		if defs, err = input.Definitions.resolve(); err != nil {
			return errResult(fmt.Errorf("definitions: %w", err)), dereferenceOutput{}, nil
		}
	}
	format, err := outputFormat(input.Format)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	maxPasses := input.MaxPasses
	if maxPasses <= 0 {
		maxPasses = cfg.MaxPasses
	}
	result, err := deref.DereferenceWithOptions(
		deref.WithDocument(doc),
		deref.WithDefinitions(defs),
		deref.WithMaxPasses(maxPasses),
		deref.WithLegacyPointers(input.Legacy),
	)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}

	output := dereferenceOutput{
		Passes:          result.Passes,
		Resolutions:     result.Resolutions,
		UnresolvedCount: len(result.Unresolved),
	}
	output.Unresolved = makeSlice[unresolvedRef](len(result.Unresolved))
	for _, u := range result.Unresolved {
		output.Unresolved = append(output.Unresolved, unresolvedRef{Ref: u.Ref, Path: u.Path, Message: u.Message})
	}
	output.Unresolved = paginate(output.Unresolved, input.Offset, input.Limit)
	output.Returned = len(output.Unresolved)

	written, inline, err := emitDocument(result.Document, format, input.Output)
	if err != nil {
		return errResult(err), dereferenceOutput{}, nil
	}
	output.WrittenTo, output.Document = written, inline
	return nil, output, nil
}

// outputFormat maps the format input to a document format.
func outputFormat(name string) (document.Format, error) {
	switch name {
	case "", "json":
		return document.FormatJSON, nil
	case "yaml", "yml":
		return document.FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use json or yaml", name)
	}
}

// emitDocument encodes doc and either writes it to path or returns it
// inline when path is empty.
func emitDocument(doc *document.Node, format document.Format, path string) (written, inline string, err error) {
	data, err := document.Encode(doc, format)
	if err != nil {
		return "", "", err
	}
	if path == "" {
		return "", string(data), nil
	}
	written, err = writeOutputFile(path, data, fileutil.OwnerReadWrite)
	if err != nil {
		return "", "", err
	}
	return written, "", nil
}

// writeOutputFile writes data to the sanitized form of path and returns
// the path actually written. Symlinks are refused.
func writeOutputFile(path string, data []byte, perm os.FileMode) (string, error) {
	cleaned, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(cleaned, data, perm); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return cleaned, nil
}
