// Package commands provides CLI command handlers for openapi-gui.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/cliutil"
	"github.com/erraggy/openapi-gui/internal/fileutil"
	"github.com/erraggy/openapi-gui/internal/pathutil"
)

// Output format constants
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
// An empty format is accepted and means "same as the input".
func ValidateOutputFormat(format string) error {
	if format != "" && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the specification.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// readSpec reads and parses a document from a file or stdin. It also
// returns the format the document was written in.
func readSpec(specPath string) (*document.Node, document.Format, error) {
	var (
		data []byte
		err  error
	)
	if specPath == StdinFilePath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(specPath) //nolint:gosec // user-supplied CLI argument
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", FormatSpecPath(specPath), err)
	}
	doc, err := document.Parse(data, FormatSpecPath(specPath))
	if err != nil {
		return nil, "", err
	}
	return doc, document.DetectFormat(specPath, data), nil
}

// pickFormat returns the requested output format, or the input format
// when none was requested.
func pickFormat(requested string, input document.Format) document.Format {
	switch requested {
	case FormatJSON:
		return document.FormatJSON
	case FormatYAML:
		return document.FormatYAML
	default:
		return input
	}
}

// encode serializes doc with a trailing newline.
func encode(doc *document.Node, format document.Format) ([]byte, error) {
	data, err := document.Encode(doc, format)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == "" || inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if err := RejectSymlinkOutput(filepath.Clean(outputPath)); err != nil {
		return err
	}
	if _, err := os.Stat(outputPath); err == nil {
		cliutil.Warnf(stderr, "output file %s already exists and will be overwritten", outputPath)
	}
	return nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
func RejectSymlinkOutput(cleanedPath string) error {
	if _, err := pathutil.SanitizeOutputPath(cleanedPath); err != nil {
		return fmt.Errorf("commands: %w", err)
	}
	return nil
}

// writeOutput writes data to outputPath, or to stdout when it is empty.
func writeOutput(outputPath string, data []byte) error {
	if outputPath == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

// parseArgs parses args into fs and reports whether the command should
// run. Help requests print usage and stop without an error.
func parseArgs(fs *flag.FlagSet, args []string) (bool, error) {
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
