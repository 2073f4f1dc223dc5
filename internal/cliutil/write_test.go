package cliutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Hello, %s!", "World")
	assert.Equal(t, "Hello, World!", buf.String())
}

func TestWritef_MultipleArgs(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d items, %v active", "Status", 42, true)
	assert.Equal(t, "Status: 42 items, true active", buf.String())
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(errorWriter{}, "This will fail") })
}

func TestLabels_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, "output %s exists", "a.json")
	Errorf(&buf, "bad input")
	Successf(&buf, "done")

	assert.Equal(t, "Warning: output a.json exists\nError: bad input\nOK: done\n", buf.String())
	assert.False(t, UseColor(&buf))
}

func TestUseColor_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor(nil))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		wantDebug      bool
		wantInfo       bool
	}{
		{name: "default", wantInfo: true},
		{name: "verbose", verbose: true, wantDebug: true, wantInfo: true},
		{name: "quiet", quiet: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.verbose, tt.quiet)
			logger.Debug("debug line")
			logger.Info("info line", "k", "v")
			logger.Error("error line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains([]byte(out), []byte("debug line")))
			assert.Equal(t, tt.wantInfo, bytes.Contains([]byte(out), []byte("info line")))
			assert.Contains(t, out, "error line")
		})
	}
}
