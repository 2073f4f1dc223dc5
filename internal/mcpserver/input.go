package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/erraggy/openapi-gui/document"
)

// specInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON or YAML document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// cacheEntry holds a parsed document with LRU ordering and TTL expiry.
type cacheEntry struct {
	doc       *document.Node
	usedAt    time.Time
	expiresAt time.Time
}

// docCacheStore caches parsed documents for the session. File inputs are
// keyed by (absolutePath, modTime); content inputs by a SHA-256 hash.
// Callers receive clones, so cached trees are never mutated.
type docCacheStore struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

var docCache = &docCacheStore{entries: make(map[string]*cacheEntry)}

// get returns a copy of a cached document or nil. Expired entries are
// removed lazily.
func (c *docCacheStore) get(key string, now time.Time) *document.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	e.usedAt = now
	return e.doc.Clone()
}

// put stores a copy of doc, evicting the least recently used entry when
// at capacity.
func (c *docCacheStore) put(key string, doc *document.Node, now time.Time, ttl time.Duration, maxSize int) {
	if maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= maxSize {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.usedAt.Before(oldest) {
				oldestKey, oldest = k, e.usedAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = &cacheEntry{doc: doc.Clone(), usedAt: now, expiresAt: now.Add(ttl)}
}

// reset clears all cached entries. Used in tests.
func (c *docCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *docCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey returns the cache key of s, or "" when s cannot be cached.
func (s specInput) cacheKey() string {
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(abs)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve parses the document from whichever input was provided.
func (s specInput) resolve() (*document.Node, error) {
	if (s.File == "") == (s.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}
	if len(s.Content) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OPENAPI_GUI_MCP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = s.cacheKey()
	}
	now := time.Now()
	if key != "" {
		if doc := docCache.get(key, now); doc != nil {
			return doc, nil
		}
	}

	var (
		data   []byte
		source = "content"
		err    error
	)
	if s.File != "" {
		source = s.File
		data, err = os.ReadFile(s.File)
		if err != nil {
			return nil, err
		}
	} else {
		data = []byte(s.Content)
	}
	doc, err := document.Parse(data, source)
	if err != nil {
		return nil, err
	}

	if key != "" {
		docCache.put(key, doc, now, cfg.CacheTTL, cfg.CacheMaxSize)
	}
	return doc, nil
}
