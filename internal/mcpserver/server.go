// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes openapi-gui capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	openapigui "github.com/erraggy/openapi-gui"
)

const serverInstructions = `openapi-gui MCP server. It dereferences, normalizes and documents OpenAPI definitions, and lists the schemas stored by the editor.

Configuration: defaults are configurable via OPENAPI_GUI_* environment variables set in your MCP client config.

Key settings:
- OPENAPI_GUI_MCP_CACHE_ENABLED (default: true): cache parsed documents per session
- OPENAPI_GUI_MCP_CACHE_TTL (default: 15m): cache entry lifetime
- OPENAPI_GUI_MCP_MAX_PASSES (default: 100): dereference pass cap
- OPENAPI_GUI_SCHEMA_DIR (default: schema): schema store read by list_schemas
- OPENAPI_GUI_MCP_LIST_LIMIT (default: 100): default page size of list results

Documents are passed as {"file": path} or {"content": text}. Run dereference before render_markdown: rendering refuses documents that still contain $ref.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	return newServer().Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-gui", Version: openapigui.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dereference",
		Description: "Inline local $ref pointers of an OpenAPI document. Pointers under #/components/ resolve into the definitions document when one is given, otherwise into the document's own components. Returns the dereferenced document, the pass and resolution counts, and any references that could not be resolved. Cycles that do not settle within max_passes are reported as errors.",
	}, handleDereference)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize",
		Description: "Normalize an OpenAPI document. mode=pre (default) adds the empty containers an editor expects and pushes path-level parameters into each operation; mode=post removes empty operation tag lists and placeholder externalDocs and license objects. Both are idempotent.",
	}, handleNormalize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_markdown",
		Description: "Render OpenAPI documentation as Slate-style Markdown with code samples, parameter and response tables and a schema section. Set dereference=true to inline $ref pointers first; documents that still contain references are rejected.",
	}, handleRenderMarkdown)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemas",
		Description: "List the schemas the editor stored in a module (default: global), with their sizes, modification times and, with history=true, their timestamped backups. diff=true adds a line diff against the newest backup.",
	}, handleListSchemas)
}

// paginate returns the window [offset, offset+limit) of items. A
// non-positive limit uses the configured default; limits are capped at
// cfg.MaxLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns a nil slice for n == 0 so empty lists are omitted
// from JSON output.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
