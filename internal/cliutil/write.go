// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/erraggy/openapi-gui/oaslog"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// UseColor reports whether w is a terminal that should receive ANSI
// colors. NO_COLOR disables colors everywhere.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Warnf writes a line prefixed with a yellow "Warning:" label.
func Warnf(w io.Writer, format string, args ...any) {
	labelf(w, "Warning", color.FgYellow, format, args...)
}

// Errorf writes a line prefixed with a red "Error:" label.
func Errorf(w io.Writer, format string, args ...any) {
	labelf(w, "Error", color.FgRed, format, args...)
}

// Successf writes a line prefixed with a green "OK:" label.
func Successf(w io.Writer, format string, args ...any) {
	labelf(w, "OK", color.FgGreen, format, args...)
}

func labelf(w io.Writer, label string, fg color.Attribute, format string, args ...any) {
	prefix := label + ":"
	if UseColor(w) {
		c := color.New(fg, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	Writef(w, prefix+" "+format+"\n", args...)
}

// NewLogger returns a logger writing slog text records to w. verbose
// lowers the level to debug; quiet raises it to errors only.
func NewLogger(w io.Writer, verbose, quiet bool) oaslog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return oaslog.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
