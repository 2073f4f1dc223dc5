package server

import (
	"net"
	"strconv"
	"time"

	"github.com/erraggy/openapi-gui/internal/envutil"
)

// Defaults for Config.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 3000
	DefaultSchemaDir       = "schema"
	DefaultDocDir          = "apidoc"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config holds the server settings. LoadConfig reads them from
// OPENAPI_GUI_* environment variables; the serve command overrides them
// with flags.
type Config struct {
	Host string
	Port int
	// Definition is the file loaded into the session at startup and, with
	// WriteBack, rewritten on every store.
	Definition string
	WriteBack  bool
	// Launch opens the editor in a browser once the server listens.
	Launch bool

	SchemaDir string
	DocDir    string
	// StaticDir holds the browser editor. Empty serves a placeholder page.
	StaticDir string

	// API2HTML names the external renderer used for stored apidocs.
	// Empty uses the built-in HTML renderer.
	API2HTML string
	// Logo is passed to api2html.
	Logo string

	ShutdownTimeout time.Duration
}

// LoadConfig reads the configuration from the environment. Invalid
// values log a warning and fall back to the defaults.
func LoadConfig() Config {
	return Config{
		Host:            envutil.String("HOST", DefaultHost),
		Port:            envutil.Int("PORT", DefaultPort),
		Definition:      envutil.String("DEFINITION", ""),
		WriteBack:       envutil.Bool("WRITE_BACK", false),
		Launch:          envutil.Bool("LAUNCH", false),
		SchemaDir:       envutil.String("SCHEMA_DIR", DefaultSchemaDir),
		DocDir:          envutil.String("DOC_DIR", DefaultDocDir),
		StaticDir:       envutil.String("STATIC_DIR", ""),
		API2HTML:        envutil.String("API2HTML", ""),
		Logo:            envutil.String("LOGO", ""),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
