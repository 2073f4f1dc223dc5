package deref

import (
	"fmt"
	"os"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/options"
	"github.com/erraggy/openapi-gui/oaslog"
)

// Option is a function that configures a dereference operation.
type Option func(*derefConfig) error

// derefConfig holds configuration for a dereference operation.
type derefConfig struct {
	// Input source (exactly one must be set)
	document *document.Node
	bytes    []byte
	filePath *string

	definitions *document.Node
	logger      oaslog.Logger

	// 0 means use default
	maxPasses int
	maxDepth  int

	componentsPrefix string
	legacyPointers   bool
}

// DereferenceWithOptions dereferences a document using functional options.
//
// Example:
//
//	result, err := deref.DereferenceWithOptions(
//	    deref.WithFilePath("openapi.yaml"),
//	    deref.WithDefinitions(defs),
//	    deref.WithMaxPasses(20),
//	)
func DereferenceWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("deref: invalid options: %w", err)
	}

	doc := cfg.document
	switch {
	case cfg.filePath != nil:
		data, err := os.ReadFile(*cfg.filePath)
		if err != nil {
			return nil, fmt.Errorf("deref: %w", err)
		}
		if doc, err = document.Parse(data, *cfg.filePath); err != nil {
			return nil, err
		}
	case cfg.bytes != nil:
		if doc, err = document.Parse(cfg.bytes, ""); err != nil {
			return nil, err
		}
	}

	d := &Dereferencer{
		Logger:           cfg.logger,
		MaxPasses:        cfg.maxPasses,
		MaxDepth:         cfg.maxDepth,
		ComponentsPrefix: cfg.componentsPrefix,
		LegacyPointers:   cfg.legacyPointers,
	}
	return d.Dereference(doc, cfg.definitions)
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*derefConfig, error) {
	cfg := &derefConfig{
		componentsPrefix: DefaultComponentsPrefix,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource("document",
		cfg.document != nil, cfg.bytes != nil, cfg.filePath != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithDocument specifies an in-memory document tree as the input source.
func WithDocument(doc *document.Node) Option {
	return func(cfg *derefConfig) error {
		cfg.document = doc
		return nil
	}
}

// WithBytes specifies JSON or YAML bytes as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *derefConfig) error {
		cfg.bytes = data
		return nil
	}
}

// WithFilePath specifies a JSON or YAML file as the input source.
func WithFilePath(path string) Option {
	return func(cfg *derefConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDefinitions sets the definitions tree that component pointers
// resolve into. Without it, they resolve into the document's own
// components mapping.
func WithDefinitions(defs *document.Node) Option {
	return func(cfg *derefConfig) error {
		cfg.definitions = defs
		return nil
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l oaslog.Logger) Option {
	return func(cfg *derefConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxPasses caps the number of passes before a cycle error.
// A value of 0 means use the default (100).
func WithMaxPasses(n int) Option {
	return func(cfg *derefConfig) error {
		if err := options.NonNegative("maxPasses", n); err != nil {
			return err
		}
		cfg.maxPasses = n
		return nil
	}
}

// WithMaxDepth caps the traversal depth.
// A value of 0 means use the default (1000).
func WithMaxDepth(n int) Option {
	return func(cfg *derefConfig) error {
		if err := options.NonNegative("maxDepth", n); err != nil {
			return err
		}
		cfg.maxDepth = n
		return nil
	}
}

// WithComponentsPrefix sets the pointer prefix resolved against the
// definitions tree. The prefix must start with "#/" and end with "/".
func WithComponentsPrefix(prefix string) Option {
	return func(cfg *derefConfig) error {
		if len(prefix) < 3 || prefix[:2] != "#/" || prefix[len(prefix)-1] != '/' {
			return fmt.Errorf("deref: components prefix %q must look like \"#/name/\"", prefix)
		}
		cfg.componentsPrefix = prefix
		return nil
	}
}

// WithLegacyPointers disables RFC 6901 ~0/~1 unescaping of pointer
// segments.
func WithLegacyPointers(enabled bool) Option {
	return func(cfg *derefConfig) error {
		cfg.legacyPointers = enabled
		return nil
	}
}
