package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/openapi-gui/server"
	"github.com/erraggy/openapi-gui/storage"
)

type listSchemasInput struct {
	Module  string `json:"module,omitempty"  jsonschema:"Module to list (default: global)"`
	History bool   `json:"history,omitempty" jsonschema:"Include timestamped backups of each schema"`
	Diff    bool   `json:"diff,omitempty"    jsonschema:"Include a line diff of each schema against its newest backup"`
	Offset  int    `json:"offset,omitempty"  jsonschema:"Skip the first N schemas (for pagination)"`
	Limit   int    `json:"limit,omitempty"   jsonschema:"Maximum number of schemas to return (default 100)"`
}

type schemaVersion struct {
	Version string `json:"version"`
	Size    int64  `json:"size"`
	Taken   string `json:"taken"`
}

type schemaSummary struct {
	ID       string          `json:"id"`
	Path     string          `json:"path"`
	Size     int64           `json:"size"`
	ModTime  string          `json:"mod_time"`
	Versions []schemaVersion `json:"versions,omitempty"`
	Diff     string          `json:"diff,omitempty"`
}

type listSchemasOutput struct {
	Module   string          `json:"module"`
	Total    int             `json:"total"`
	Returned int             `json:"returned"`
	Schemas  []schemaSummary `json:"schemas,omitempty"`
}

func handleListSchemas(ctx context.Context, _ *mcp.CallToolRequest, input listSchemasInput) (*mcp.CallToolResult, listSchemasOutput, error) {
	module := input.Module
	if module == "" {
		module = server.DefaultModule
	}
	store, err := storage.NewStore(cfg.SchemaDir, ".json")
	if err != nil {
		return errResult(err), listSchemasOutput{}, nil
	}
	entries, err := store.List(ctx, module)
	if err != nil {
		return errResult(err), listSchemasOutput{}, nil
	}

	output := listSchemasOutput{Module: module, Total: len(entries)}
	for _, e := range paginate(entries, input.Offset, input.Limit) {
		summary := schemaSummary{ID: e.ID, Path: e.Path, Size: e.Size, ModTime: e.ModTime.UTC().Format(time.RFC3339)}
		if input.History {
			history, err := store.History(ctx, module, e.ID)
			if err != nil {
				return errResult(err), listSchemasOutput{}, nil
			}
			summary.Versions = makeSlice[schemaVersion](len(history))
			for _, h := range history {
				summary.Versions = append(summary.Versions, schemaVersion{Version: h.Version, Size: h.Size, Taken: h.ModTime.UTC().Format(time.RFC3339Nano)})
			}
		}
		if input.Diff {
			if summary.Diff, err = store.Diff(ctx, module, e.ID); err != nil {
				return errResult(err), listSchemasOutput{}, nil
			}
		}
		output.Schemas = append(output.Schemas, summary)
	}
	output.Returned = len(output.Schemas)
	return nil, output, nil
}
