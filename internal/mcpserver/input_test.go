package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/openapi-gui/document"
)

const minimalDoc = `openapi: 3.0.3
info:
  title: Minimal
  version: 1.0.0
paths: {}
`

// withConfig runs a test with a modified copy of the package config.
func withConfig(t *testing.T, mutate func(*serverConfig)) {
	t.Helper()
	saved := *cfg
	t.Cleanup(func() {
		*cfg = saved
		docCache.reset()
	})
	docCache.reset()
	mutate(cfg)
}

func TestSpecInput_Resolve_Content(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	doc, err := specInput{Content: minimalDoc}.resolve()
	require.NoError(t, err)
	title, ok := doc.Lookup("info", "title")
	require.True(t, ok)
	assert.Equal(t, "Minimal", title.Text())
}

func TestSpecInput_Resolve_File(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o600))

	doc, err := specInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.StringField("openapi"))
}

func TestSpecInput_Resolve_ExactlyOne(t *testing.T) {
	_, err := specInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	_, err = specInput{File: "a.yaml", Content: minimalDoc}.resolve()
	require.Error(t, err)
}

func TestSpecInput_Resolve_Errors(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	_, err := specInput{File: filepath.Join(t.TempDir(), "missing.yaml")}.resolve()
	require.Error(t, err)

	_, err = specInput{Content: "{not: [valid"}.resolve()
	require.Error(t, err)
}

func TestSpecInput_Resolve_InlineSizeLimit(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 16 })

	_, err := specInput{Content: strings.Repeat("a", 17)}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecInput_Resolve_CachesClones(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	first, err := specInput{Content: minimalDoc}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, docCache.size())

	first.Set("openapi", document.NewString("mutated"))

	second, err := specInput{Content: minimalDoc}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", second.StringField("openapi"), "cached document must not share state with callers")
}

func TestSpecInput_Resolve_CacheDisabled(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	_, err := specInput{Content: minimalDoc}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 0, docCache.size())
}

func TestSpecInput_CacheKey_FileTracksModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o600))

	before := specInput{File: path}.cacheKey()
	require.NotEmpty(t, before)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.NotEqual(t, before, specInput{File: path}.cacheKey())

	assert.Empty(t, specInput{File: filepath.Join(t.TempDir(), "missing")}.cacheKey())
	assert.Empty(t, specInput{}.cacheKey())
}

func TestDocCache_ExpiryAndEviction(t *testing.T) {
	c := &docCacheStore{entries: make(map[string]*cacheEntry)}
	doc := document.NewMapping()
	now := time.Now()

	c.put("a", doc, now, time.Minute, 2)
	c.put("b", doc, now.Add(time.Second), time.Minute, 2)
	require.NotNil(t, c.get("a", now.Add(2*time.Second)), "touching a makes b the oldest")

	c.put("c", doc, now.Add(3*time.Second), time.Minute, 2)
	assert.Equal(t, 2, c.size())
	assert.Nil(t, c.get("b", now.Add(3*time.Second)), "least recently used entry is evicted")

	assert.Nil(t, c.get("a", now.Add(2*time.Minute)), "expired entries are dropped")
	assert.Equal(t, 1, c.size())

	c.put("d", doc, now, time.Minute, 0)
	assert.Nil(t, c.get("d", now), "a zero max size disables caching")
}
