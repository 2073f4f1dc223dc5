package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/erraggy/openapi-gui/oaslog"
	"github.com/erraggy/openapi-gui/oaserrors"
)

// DefaultAPI2HTMLCommand is the api2html executable looked up on PATH.
const DefaultAPI2HTMLCommand = "api2html"

// API2HTML runs the external api2html tool to produce a single HTML page
// from a stored schema file.
type API2HTML struct {
	// Command is the executable name or path. Empty means
	// DefaultAPI2HTMLCommand.
	Command string
	// Logger receives the command line and failures.
	Logger oaslog.Logger
}

// Args returns the command line arguments for rendering schema into out,
// with an optional logo URL.
func (a *API2HTML) Args(schema, logo, out string) []string {
	args := []string{"-o", out}
	if logo != "" {
		args = append(args, "-l", logo)
	}
	return append(args, schema)
}

// Run renders schema into out. The command's standard error is included
// in the returned error when it fails.
func (a *API2HTML) Run(ctx context.Context, schema, logo, out string) error {
	if schema == "" || out == "" {
		return &oaserrors.ConfigError{Option: "api2html", Message: "schema and output paths are required"}
	}
	name := a.Command
	if name == "" {
		name = DefaultAPI2HTMLCommand
	}
	log := oaslog.OrNop(a.Logger)
	args := a.Args(schema, logo, out)
	log.Debug("running api2html", "command", name, "args", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		log.Error("api2html failed", "error", err, "stderr", msg)
		if msg != "" {
			return fmt.Errorf("render: api2html: %w: %s", err, msg)
		}
		return fmt.Errorf("render: api2html: %w", err)
	}
	return nil
}
