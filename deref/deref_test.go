package deref

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/oaserrors"
	"github.com/erraggy/openapi-gui/oaslog"
)

const fooDefs = `{"schemas": {"Foo": {"type": "string"}}}`

func parse(t *testing.T, src string) *document.Node {
	t.Helper()
	n, err := document.Parse([]byte(src), "")
	require.NoError(t, err)
	return n
}

// assertDoc compares got with the JSON or YAML text want, ignoring key order.
func assertDoc(t *testing.T, want string, got *document.Node) {
	t.Helper()
	w := parse(t, want)
	if !document.Equal(w, got) {
		t.Errorf("document mismatch (-want +got):\n%s", cmp.Diff(w.ToAny(), got.ToAny()))
	}
}

func TestDereference_Simple(t *testing.T) {
	doc := parse(t, `{"a": {"$ref": "#/components/schemas/Foo"}}`)
	defs := parse(t, fooDefs)

	result, err := New().Dereference(doc, defs)
	require.NoError(t, err)

	assertDoc(t, `{"a": {"type": "string"}}`, result.Document)
	assert.Equal(t, 1, result.Resolutions)
	assert.Equal(t, 2, result.Passes)
	assert.Empty(t, result.Unresolved)
}

func TestDereference_PackageFunc(t *testing.T) {
	got, err := Dereference(parse(t, `{"a": {"$ref": "#/components/schemas/Foo"}}`), parse(t, fooDefs))
	require.NoError(t, err)
	assertDoc(t, `{"a": {"type": "string"}}`, got)
}

func TestDereference_SiblingsMerged(t *testing.T) {
	doc := parse(t, `{"a": {"$ref": "#/components/schemas/Foo", "description": "kept", "type": "integer"}}`)
	defs := parse(t, fooDefs)

	got, err := Dereference(doc, defs)
	require.NoError(t, err)

	a, ok := got.Get("a")
	require.True(t, ok)
	assert.Equal(t, document.KindMapping, a.Kind)
	assert.Equal(t, []string{"description", "type"}, a.Keys())
	assert.Equal(t, "string", a.StringField("type"), "target fields win over siblings")
	assert.Equal(t, "kept", a.StringField("description"))
}

func TestDereference_NestedRefRebased(t *testing.T) {
	defs := parse(t, `{"schemas": {"Foo": {
		"type": "object",
		"properties": {
			"bar": {"type": "string"},
			"baz": {"$ref": "#/components/schemas/Foo/properties/bar"}
		}
	}}}`)
	doc := parse(t, `{"x": {"$ref": "#/components/schemas/Foo"}}`)

	d := New()
	d.MaxPasses = 1
	_, err := d.Dereference(doc, defs)
	require.Error(t, err, "one pass cannot reach the fixed point")

	t.Run("rewritten after first pass", func(t *testing.T) {
		w := &walker{root: doc.Clone(), defs: defs, prefix: DefaultComponentsPrefix, maxDepth: DefaultMaxDepth, logger: oaslog.NopLogger{}}
		n, err := w.pass()
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		baz, ok := w.root.Lookup("x", "properties", "baz")
		require.True(t, ok)
		assert.Equal(t, "#/x/properties/bar", baz.Ref)
	})

	t.Run("resolved at fixed point", func(t *testing.T) {
		result, err := New().Dereference(doc, defs)
		require.NoError(t, err)
		assertDoc(t, `{"x": {
			"type": "object",
			"properties": {
				"bar": {"type": "string"},
				"baz": {"type": "string"}
			}
		}}`, result.Document)
		assert.Equal(t, 3, result.Passes)
	})
}

func TestDereference_ChainedReferences(t *testing.T) {
	defs := parse(t, `{"schemas": {
		"Pets": {"type": "array", "items": {"$ref": "#/components/schemas/Pet"}},
		"Pet": {"type": "object", "properties": {"tag": {"$ref": "#/components/schemas/Tag"}}},
		"Tag": {"type": "string"},
		"Alias": {"$ref": "#/components/schemas/Tag"}
	}}`)
	doc := parse(t, `{
		"list": {"$ref": "#/components/schemas/Pets"},
		"alias": {"$ref": "#/components/schemas/Alias", "description": "d"}
	}`)

	result, err := New().Dereference(doc, defs)
	require.NoError(t, err)
	assertDoc(t, `{
		"list": {"type": "array", "items": {"type": "object", "properties": {"tag": {"type": "string"}}}},
		"alias": {"description": "d", "type": "string"}
	}`, result.Document)
	assert.Equal(t, 5, result.Resolutions)
}

func TestDereference_Idempotent(t *testing.T) {
	doc := parse(t, `{"a": {"$ref": "#/components/schemas/Foo"}, "b": [{"$ref": "#/components/schemas/Foo"}]}`)
	defs := parse(t, fooDefs)

	first, err := New().Dereference(doc, defs)
	require.NoError(t, err)
	second, err := New().Dereference(first.Document, defs)
	require.NoError(t, err)

	assert.True(t, document.Equal(first.Document, second.Document))
	assert.Equal(t, 0, second.Resolutions)
	assert.Equal(t, 1, second.Passes)
}

func TestDereference_InputsUnchanged(t *testing.T) {
	doc := parse(t, `{"a": {"$ref": "#/components/schemas/Foo", "description": "d"}}`)
	defs := parse(t, `{"schemas": {"Foo": {"type": "object", "properties": {"self": {"$ref": "#/components/schemas/Foo/properties/n"}, "n": {"type": "number"}}}}}`)
	docBefore := doc.Clone()
	defsBefore := defs.Clone()

	_, err := New().Dereference(doc, defs)
	require.NoError(t, err)

	assert.True(t, document.Equal(docBefore, doc), "document was modified")
	assert.True(t, document.Equal(defsBefore, defs), "definitions were modified")
}

func TestDereference_Concurrent(t *testing.T) {
	doc := parse(t, `{"a": {"$ref": "#/components/schemas/Foo"}, "b": [{"$ref": "#/components/schemas/Bar"}]}`)
	defs := parse(t, `{"schemas": {"Foo": {"type": "string"}, "Bar": {"properties": {"foo": {"$ref": "#/components/schemas/Foo"}}}}}`)
	d := New()
	want, err := d.Dereference(doc, defs)
	require.NoError(t, err)

	const workers = 16
	results := make([]*Result, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = d.Dereference(doc, defs)
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.True(t, document.Equal(want.Document, results[i].Document), "worker %d", i)
		assert.Equal(t, want.Resolutions, results[i].Resolutions)
	}
	assertDoc(t, `{"a": {"type": "string"}, "b": [{"properties": {"foo": {"type": "string"}}}]}`, want.Document)
}

func TestDereference_Cycles(t *testing.T) {
	tests := []struct {
		name string
		defs string
	}{
		{
			name: "self reference",
			defs: `{"schemas": {"Node": {"type": "object", "properties": {"next": {"$ref": "#/components/schemas/Node"}}}}}`,
		},
		{
			name: "mutual aliases",
			defs: `{"schemas": {"Node": {"$ref": "#/components/schemas/Other"}, "Other": {"$ref": "#/components/schemas/Node"}}}`,
		},
		{
			name: "mutual schemas",
			defs: `{"schemas": {
				"Node": {"properties": {"other": {"$ref": "#/components/schemas/Other"}}},
				"Other": {"properties": {"node": {"$ref": "#/components/schemas/Node"}}}
			}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, `{"root": {"$ref": "#/components/schemas/Node"}}`)
			d := New()
			d.MaxPasses = 10

			result, err := d.Dereference(doc, parse(t, tt.defs))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, oaserrors.ErrCycleDepthExceeded))
			assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))

			var rle *oaserrors.ResourceLimitError
			require.True(t, errors.As(err, &rle))
			assert.Equal(t, oaserrors.ResourceTypeDerefPasses, rle.ResourceType)
			assert.Equal(t, int64(10), rle.Limit)
		})
	}
}

func TestDereference_Unresolved(t *testing.T) {
	doc := parse(t, `{
		"a": {"$ref": "#/components/schemas/Missing"},
		"b": {"$ref": "#/components/schemas/Foo"},
		"c": {"$ref": "https://example.com/pet.json"},
		"d": {"$ref": "#/nowhere/0"}
	}`)

	var buf bytes.Buffer
	d := New()
	d.Logger = oaslog.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	result, err := d.Dereference(doc, parse(t, fooDefs))
	require.NoError(t, err)

	assertDoc(t, `{
		"a": {"$ref": "#/components/schemas/Missing"},
		"b": {"type": "string"},
		"c": {"$ref": "https://example.com/pet.json"},
		"d": {"$ref": "#/nowhere/0"}
	}`, result.Document)

	require.Len(t, result.Unresolved, 3)
	first := result.Unresolved[0]
	assert.Equal(t, "#/components/schemas/Missing", first.Ref)
	assert.Equal(t, "#/a", first.Path)
	assert.Equal(t, RefTypeComponent, first.RefType)
	assert.True(t, errors.Is(first, oaserrors.ErrReferenceNotFound))
	assert.Equal(t, "#/c", result.Unresolved[1].Path)
	assert.Equal(t, RefTypeLocal, result.Unresolved[2].RefType)

	assert.Contains(t, buf.String(), "could not resolve reference")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestDereference_RootReference(t *testing.T) {
	for _, ref := range []string{"#", "#/"} {
		t.Run(ref, func(t *testing.T) {
			doc := document.NewMapping()
			doc.Set("a", document.NewReference(ref))

			result, err := New().Dereference(doc, nil)
			require.NoError(t, err)
			require.Len(t, result.Unresolved, 1)
			assert.True(t, result.Unresolved[0].IsCircular)
			assert.True(t, errors.Is(result.Unresolved[0], oaserrors.ErrCircularReference))

			a, _ := result.Document.Get("a")
			assert.Equal(t, ref, a.Ref)
		})
	}
}

func TestDereference_LocalPointers(t *testing.T) {
	doc := parse(t, `{
		"info": {"title": "t"},
		"copy": {"$ref": "#/info"},
		"list": [{"v": 1}, {"v": 2}],
		"second": {"$ref": "#/list/1"},
		"title": {"$ref": "#/info/title"},
		"paths": {"/pets": {"get": {"summary": "s"}}},
		"pets": {"$ref": "#/paths/~1pets"}
	}`)

	got, err := Dereference(doc, nil)
	require.NoError(t, err)

	copied, _ := got.Get("copy")
	assertDoc(t, `{"title": "t"}`, copied)
	second, _ := got.Get("second")
	assertDoc(t, `{"v": 2}`, second)
	title, _ := got.Get("title")
	assert.Equal(t, "t", title.Text(), "scalar targets replace the node")
	pets, _ := got.Get("pets")
	assertDoc(t, `{"get": {"summary": "s"}}`, pets)
}

func TestDereference_LegacyPointers(t *testing.T) {
	src := `{"a~1b": {"v": 1}, "r": {"$ref": "#/a~1b"}}`

	result, err := New().Dereference(parse(t, src), nil)
	require.NoError(t, err)
	require.Len(t, result.Unresolved, 1, "escaped segment names the key \"a/b\"")

	d := New()
	d.LegacyPointers = true
	result, err = d.Dereference(parse(t, src), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Unresolved)
	r, _ := result.Document.Get("r")
	assertDoc(t, `{"v": 1}`, r)
}

func TestDereference_NilDefinitionsUsesComponents(t *testing.T) {
	doc := parse(t, `
paths:
  /pets:
    get:
      responses:
        '200':
          schema:
            $ref: '#/components/schemas/Pets'
components:
  schemas:
    Pets:
      type: array
      items:
        $ref: '#/components/schemas/Pet'
    Pet:
      type: object
`)

	got, err := Dereference(doc, nil)
	require.NoError(t, err)

	schema, ok := got.Lookup("paths", "/pets", "get", "responses", "200", "schema")
	require.True(t, ok)
	assertDoc(t, `{"type": "array", "items": {"type": "object"}}`, schema)

	pets, ok := got.Lookup("components", "schemas", "Pets")
	require.True(t, ok)
	assertDoc(t, `{"type": "array", "items": {"type": "object"}}`, pets)
}

func TestDereference_NonMappingTarget(t *testing.T) {
	defs := parse(t, `{"schemas": {"Tags": ["a", "b"], "Count": 3}}`)
	doc := parse(t, `{"tags": {"$ref": "#/components/schemas/Tags", "dropped": true}, "count": {"$ref": "#/components/schemas/Count"}}`)

	got, err := Dereference(doc, defs)
	require.NoError(t, err)
	assertDoc(t, `{"tags": ["a", "b"], "count": 3}`, got)
}

func TestDereference_References_InSequences(t *testing.T) {
	doc := parse(t, `{"allOf": [{"$ref": "#/components/schemas/Foo"}, {"description": "x"}]}`)

	got, err := Dereference(doc, parse(t, fooDefs))
	require.NoError(t, err)
	assertDoc(t, `{"allOf": [{"type": "string"}, {"description": "x"}]}`, got)
}

func TestDereference_MaxDepth(t *testing.T) {
	doc := parse(t, `{"a": {"b": {"c": {"d": {}}}}}`)
	d := New()
	d.MaxDepth = 2

	_, err := d.Dereference(doc, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrResourceLimit))
	assert.False(t, errors.Is(err, oaserrors.ErrCycleDepthExceeded))
}

func TestDereference_SharedCycleInInput(t *testing.T) {
	root := document.NewMapping()
	child := document.NewMapping()
	child.Set("back", root)
	child.Set("ref", document.NewReference("#/components/schemas/Foo"))
	root.Set("child", child)

	result, err := New().Dereference(root, parse(t, fooDefs))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Resolutions)

	ref, ok := result.Document.Lookup("child", "ref")
	require.True(t, ok)
	assert.Equal(t, "string", ref.StringField("type"))
}

func TestDereference_NilDocument(t *testing.T) {
	_, err := New().Dereference(nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrConfig))
}

func TestResolve(t *testing.T) {
	doc := parse(t, `{"info": {"title": "t"}, "paths": {"/a/b": {"x": [1, 2]}}}`)

	n, err := Resolve(doc, "#/paths/~1a~1b/x/1")
	require.NoError(t, err)
	assert.Equal(t, 2, n.Value)

	n, err = Resolve(doc, "#")
	require.NoError(t, err)
	assert.Same(t, doc, n)

	for _, ptr := range []string{"#/info/missing", "#/info/title/deeper", "#/paths/~1a~1b/x/7", "info", "#info"} {
		_, err := Resolve(doc, ptr)
		assert.True(t, errors.Is(err, oaserrors.ErrReferenceNotFound), "pointer %q", ptr)
	}
}

func TestDereferenceWithOptions(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		result, err := DereferenceWithOptions(
			WithBytes([]byte(`{"a": {"$ref": "#/components/schemas/Foo"}}`)),
			WithDefinitions(parse(t, fooDefs)),
			WithLogger(oaslog.NopLogger{}),
		)
		require.NoError(t, err)
		assertDoc(t, `{"a": {"type": "string"}}`, result.Document)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a:\n  $ref: '#/components/schemas/Foo'\n"), 0o600))

		result, err := DereferenceWithOptions(WithFilePath(path), WithDefinitions(parse(t, fooDefs)))
		require.NoError(t, err)
		assertDoc(t, `{"a": {"type": "string"}}`, result.Document)
	})

	t.Run("custom components prefix", func(t *testing.T) {
		result, err := DereferenceWithOptions(
			WithDocument(parse(t, `{"a": {"$ref": "#/definitions/Foo"}}`)),
			WithDefinitions(parse(t, `{"Foo": {"type": "string"}}`)),
			WithComponentsPrefix("#/definitions/"),
		)
		require.NoError(t, err)
		assertDoc(t, `{"a": {"type": "string"}}`, result.Document)
	})

	t.Run("limits", func(t *testing.T) {
		_, err := DereferenceWithOptions(
			WithDocument(parse(t, `{"root": {"$ref": "#/components/schemas/Node"}}`)),
			WithDefinitions(parse(t, `{"schemas": {"Node": {"properties": {"next": {"$ref": "#/components/schemas/Node"}}}}}`)),
			WithMaxPasses(3),
			WithMaxDepth(500),
		)
		assert.True(t, errors.Is(err, oaserrors.ErrCycleDepthExceeded))
	})

	t.Run("legacy pointers", func(t *testing.T) {
		result, err := DereferenceWithOptions(
			WithBytes([]byte(`{"a~0b": 1, "r": {"$ref": "#/a~0b"}}`)),
			WithLegacyPointers(true),
		)
		require.NoError(t, err)
		assert.Empty(t, result.Unresolved)
	})

	t.Run("invalid", func(t *testing.T) {
		doc := document.NewMapping()
		cases := map[string][]Option{
			"no source":       nil,
			"two sources":     {WithDocument(doc), WithBytes([]byte("{}"))},
			"negative passes": {WithDocument(doc), WithMaxPasses(-1)},
			"negative depth":  {WithDocument(doc), WithMaxDepth(-1)},
			"bad prefix":      {WithDocument(doc), WithComponentsPrefix("components")},
		}
		for name, opts := range cases {
			_, err := DereferenceWithOptions(opts...)
			assert.Error(t, err, name)
		}

		_, err := DereferenceWithOptions()
		assert.True(t, errors.Is(err, oaserrors.ErrConfig))
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := DereferenceWithOptions(WithBytes([]byte("a: [")))
		assert.True(t, errors.Is(err, oaserrors.ErrParse))
	})
}
