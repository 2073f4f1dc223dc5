package server

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/fileutil"
	"github.com/erraggy/openapi-gui/oaslog"
)

//go:embed assets/petstore.yaml
var petstoreYAML []byte

// DefaultDefinition returns the sample document a session starts with
// when no definition file is given.
func DefaultDefinition() *document.Node {
	doc, err := document.Parse(petstoreYAML, "petstore.yaml")
	if err != nil {
		panic(fmt.Sprintf("server: embedded petstore: %v", err))
	}
	return doc
}

// Session is the editor state shared by all requests: the definition
// being edited and where, if anywhere, it is written back.
type Session struct {
	mu         sync.RWMutex
	definition *document.Node
	name       string
	writeBack  bool
	logger     oaslog.Logger
}

// NewSession returns a session editing def. When writeBack is set and
// name is not empty, every Store rewrites the file name.
func NewSession(def *document.Node, name string, writeBack bool, logger oaslog.Logger) *Session {
	if def == nil {
		def = DefaultDefinition()
	}
	return &Session{definition: def, name: name, writeBack: writeBack, logger: oaslog.OrNop(logger)}
}

// LoadSession reads the definition file name into a new session.
func LoadSession(name string, writeBack bool, logger oaslog.Logger) (*Session, error) {
	data, err := os.ReadFile(name) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("server: read definition: %w", err)
	}
	doc, err := document.Parse(data, name)
	if err != nil {
		return nil, err
	}
	return NewSession(doc, name, writeBack, logger), nil
}

// Definition returns a copy of the current definition.
func (s *Session) Definition() *document.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.definition.Clone()
}

// Name returns the definition file name, or "".
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// WriteBack reports whether Store rewrites the definition file.
func (s *Session) WriteBack() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writeBack && s.name != ""
}

// SetDefinition replaces the definition in memory only.
func (s *Session) SetDefinition(doc *document.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definition = doc.Clone()
}

// Store replaces the definition. With write-back enabled the file is
// rewritten: JSON when its name ends in ".json", YAML otherwise. The
// in-memory definition is replaced even when the write fails.
func (s *Session) Store(doc *document.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.definition = doc.Clone()
	if !s.writeBack || s.name == "" {
		return nil
	}

	format := document.DetectFormat(s.name, nil)
	data, err := document.Encode(doc, format)
	if err != nil {
		return fmt.Errorf("server: encode definition: %w", err)
	}
	if format == document.FormatJSON {
		data = append(data, '\n')
	}
	if err := os.WriteFile(s.name, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("server: write definition: %w", err)
	}
	s.logger.Info("definition written", "file", s.name, "bytes", len(data))
	return nil
}
