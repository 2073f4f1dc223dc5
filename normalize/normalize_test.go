package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/openapi-gui/document"
)

func parse(t *testing.T, src string) *document.Node {
	t.Helper()
	n, err := document.Parse([]byte(src), "")
	require.NoError(t, err)
	return n
}

func assertDoc(t *testing.T, want string, got *document.Node) {
	t.Helper()
	w := parse(t, want)
	if !document.Equal(w, got) {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(w.ToAny(), got.ToAny()))
	}
}

func TestPreProcess_Empty(t *testing.T) {
	for name, doc := range map[string]*document.Node{
		"nil":   nil,
		"empty": document.NewMapping(),
	} {
		t.Run(name, func(t *testing.T) {
			got := PreProcess(doc)
			assertDoc(t, `{
				"info": {"version": "1.0.0", "title": "Untitled", "contact": {}, "license": {}},
				"externalDocs": {},
				"security": [],
				"servers": [],
				"paths": {},
				"components": {"links": {}, "callbacks": {}, "schemas": {}}
			}`, got)
		})
	}
}

func TestPreProcess_KeepsExistingValues(t *testing.T) {
	doc := parse(t, `
info:
  title: Pets
  version: 2.0.0
  license:
    name: MIT
tags:
  - name: pets
    externalDocs:
      url: https://example.com
  - name: admin
servers:
  - url: https://api.example.com
components:
  schemas:
    Pet: {type: object}
paths: {}
`)
	got := PreProcess(doc)

	info, _ := got.Get("info")
	assert.Equal(t, "Pets", info.StringField("title"))
	assert.Equal(t, "2.0.0", info.StringField("version"))
	license, _ := info.Get("license")
	assert.Equal(t, "MIT", license.StringField("name"))

	docs, ok := got.Lookup("tags")
	require.True(t, ok)
	require.Len(t, docs.Items, 2)
	first, _ := docs.Items[0].Get("externalDocs")
	assert.Equal(t, "https://example.com", first.StringField("url"))
	second, ok := docs.Items[1].Get("externalDocs")
	require.True(t, ok)
	assert.Equal(t, 0, second.Len())

	servers, _ := got.Get("servers")
	assert.Len(t, servers.Items, 1)
	pet, ok := got.Lookup("components", "schemas", "Pet")
	require.True(t, ok)
	assert.Equal(t, "object", pet.StringField("type"))
	assert.Equal(t, []string{"info", "tags", "servers", "components", "paths", "externalDocs", "security"}, got.Keys())
}

func TestPreProcess_Operations(t *testing.T) {
	doc := parse(t, `
paths:
  /pets/{id}:
    summary: one pet
    parameters:
      - {name: id, in: path, required: true}
      - {name: trace, in: header}
      - $ref: '#/components/parameters/Limit'
    get:
      parameters:
        - {name: id, in: path, description: overridden}
    delete:
      tags: [admin]
      parameters:
        - $ref: '#/components/parameters/Limit'
    getter:
      note: not an operation
`)
	got := PreProcess(doc)

	item, ok := got.Lookup("paths", "/pets/{id}")
	require.True(t, ok)
	assert.False(t, item.Has("parameters"), "path-level parameters are pushed down")

	assertDoc(t, `{
		"parameters": [
			{"name": "id", "in": "path", "description": "overridden"},
			{"name": "trace", "in": "header"},
			{"$ref": "#/components/parameters/Limit"}
		],
		"tags": [],
		"externalDocs": {}
	}`, mustGet(t, item, "get"))

	assertDoc(t, `{
		"tags": ["admin"],
		"parameters": [
			{"$ref": "#/components/parameters/Limit"},
			{"name": "id", "in": "path", "required": true},
			{"name": "trace", "in": "header"}
		],
		"externalDocs": {}
	}`, mustGet(t, item, "delete"))

	assertDoc(t, `{"note": "not an operation"}`, mustGet(t, item, "getter"))
	assert.Equal(t, "one pet", item.StringField("summary"))
}

func TestPreProcess_DoesNotModifyInput(t *testing.T) {
	doc := parse(t, `{"paths": {"/a": {"parameters": [{"name": "x", "in": "query"}], "get": {}}}}`)
	before := doc.Clone()

	got := PreProcess(doc)
	assert.True(t, document.Equal(before, doc))

	// pushed-down parameters are copies
	p, ok := got.Lookup("paths", "/a", "get", "parameters")
	require.True(t, ok)
	require.Len(t, p.Items, 1)
	orig, _ := doc.Lookup("paths", "/a", "parameters")
	assert.NotSame(t, orig.Items[0], p.Items[0])
}

func TestPreProcess_Idempotent(t *testing.T) {
	doc := parse(t, `
info: {title: t}
paths:
  /a:
    parameters: [{name: x, in: query}]
    get: {}
    post: {tags: [t]}
`)
	once := PreProcess(doc)
	twice := PreProcess(once)
	assert.True(t, document.Equal(once, twice), cmp.Diff(once.ToAny(), twice.ToAny()))
}

func TestPreProcess_NullValues(t *testing.T) {
	got := PreProcess(parse(t, `{"info": null, "servers": null}`))
	info, _ := got.Get("info")
	assert.Equal(t, "Untitled", info.StringField("title"))
	servers, _ := got.Get("servers")
	assert.Equal(t, document.KindSequence, servers.Kind)
	assert.Equal(t, []string{"info", "servers"}, got.Keys()[:2], "null fields are replaced in place")
}

func TestPreProcess_NonMapping(t *testing.T) {
	doc := document.NewSequence(document.NewString("x"))
	got := PreProcess(doc)
	assert.True(t, document.Equal(doc, got))
	assert.NotSame(t, doc, got)
}

func TestPostProcess(t *testing.T) {
	doc := parse(t, `
info:
  title: t
  license: {}
externalDocs: {}
tags:
  - name: a
    externalDocs: {}
  - name: b
    externalDocs: {url: https://b.example.com}
paths:
  /a:
    get:
      tags: [x, y, x, y, z]
      externalDocs: {description: no url}
      callbacks:
        onEvent:
          '{$request.body#/cb}':
            post:
              tags: []
              externalDocs: {}
    put:
      tags: []
      externalDocs: {url: https://docs.example.com}
`)
	got := PostProcess(doc)

	assertDoc(t, `{
		"info": {"title": "t"},
		"tags": [
			{"name": "a"},
			{"name": "b", "externalDocs": {"url": "https://b.example.com"}}
		],
		"paths": {"/a": {
			"get": {
				"tags": ["x", "y", "z"],
				"callbacks": {"onEvent": {"{$request.body#/cb}": {"post": {}}}}
			},
			"put": {"externalDocs": {"url": "https://docs.example.com"}}
		}}
	}`, got)

	t.Run("idempotent", func(t *testing.T) {
		assert.True(t, document.Equal(got, PostProcess(got)))
	})

	t.Run("input untouched", func(t *testing.T) {
		ed, ok := doc.Get("externalDocs")
		require.True(t, ok)
		assert.Equal(t, 0, ed.Len())
	})
}

func TestPostProcess_CleanDocumentUnchanged(t *testing.T) {
	doc := parse(t, `
openapi: 3.0.0
info:
  title: t
  version: 1.0.0
  license: {name: MIT}
paths:
  /a:
    get:
      tags: [a]
      responses: {'200': {description: ok}}
`)
	assert.True(t, document.Equal(doc, PostProcess(doc)))
	assert.Nil(t, PostProcess(nil))
}

func TestRoundTrip(t *testing.T) {
	doc := parse(t, `
openapi: 3.0.0
info: {title: t, version: 1.0.0}
paths:
  /a:
    get:
      tags: [a]
      responses: {'200': {description: ok}}
`)
	got := PostProcess(PreProcess(doc))

	// the empty containers added for the editor remain, only the
	// url-less and name-less placeholders go away
	assert.False(t, got.Has("externalDocs"))
	info, _ := got.Get("info")
	assert.False(t, info.Has("license"))
	get, ok := got.Lookup("paths", "/a", "get")
	require.True(t, ok)
	assert.False(t, get.Has("externalDocs"))
	tags, _ := get.Get("tags")
	assert.Len(t, tags.Items, 1)
}

func mustGet(t *testing.T, n *document.Node, key string) *document.Node {
	t.Helper()
	v, ok := n.Get(key)
	require.True(t, ok, "missing %q", key)
	return v
}
