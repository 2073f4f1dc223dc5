package mcpserver

import (
	"time"

	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/internal/envutil"
	"github.com/erraggy/openapi-gui/server"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Dereference tool defaults.
	MaxPasses int

	// Storage used by list_schemas.
	SchemaDir string

	// Pagination of list results.
	ListLimit int
	MaxLimit  int

	// MaxInlineSize bounds inline document content in bytes.
	MaxInlineSize int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OPENAPI_GUI_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:  envutil.Bool("MCP_CACHE_ENABLED", true),
		CacheMaxSize:  envutil.Int("MCP_CACHE_MAX_SIZE", 10),
		CacheTTL:      envutil.Duration("MCP_CACHE_TTL", 15*time.Minute),
		MaxPasses:     envutil.Int("MCP_MAX_PASSES", deref.DefaultMaxPasses),
		SchemaDir:     envutil.String("SCHEMA_DIR", server.DefaultSchemaDir),
		ListLimit:     envutil.Int("MCP_LIST_LIMIT", 100),
		MaxLimit:      envutil.Int("MCP_MAX_LIMIT", 1000),
		MaxInlineSize: envutil.Int("MCP_MAX_INLINE_SIZE", 10*1024*1024),
	}
}
