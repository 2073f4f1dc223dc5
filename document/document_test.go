package document

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/erraggy/openapi-gui/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreYAML = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          description: ok
          content:
            application/json:
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
      properties:
        $ref:
          type: string
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML), "petstore.yaml")
	require.NoError(t, err)

	assert.Equal(t, KindMapping, doc.Kind)
	assert.Equal(t, []string{"openapi", "info", "paths", "components"}, doc.Keys())
	assert.Equal(t, "Petstore", mustLookup(t, doc, "info").StringField("title"))

	schema := mustLookup(t, doc, "paths", "/pets", "get", "responses", "200", "content", "application/json", "schema")
	assert.Equal(t, KindReference, schema.Kind)
	assert.Equal(t, "#/components/schemas/Pets", schema.Ref)
	assert.Equal(t, 0, schema.Len())

	// a property named $ref is a mapping, not a reference
	prop := mustLookup(t, doc, "components", "schemas", "Pet", "properties")
	assert.Equal(t, KindMapping, prop.Kind)
	assert.True(t, prop.Has("$ref"))
}

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(`{"b": 1, "a": [true, null, 1.5, "x"], "c": {"$ref": "#/b", "description": "d"}}`), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, doc.Keys())
	a := mustLookup(t, doc, "a")
	require.Len(t, a.Items, 4)
	assert.Equal(t, true, a.Items[0].Value)
	assert.Nil(t, a.Items[1].Value)
	assert.Equal(t, 1.5, a.Items[2].Value)
	assert.Equal(t, "x", a.Items[3].Text())

	c := mustLookup(t, doc, "c")
	assert.True(t, c.IsReference())
	assert.Equal(t, "d", c.StringField("description"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed"), "bad.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
	assert.Contains(t, err.Error(), "bad.yaml")

	_, err = Parse([]byte(""), "empty.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrParse))
}

func TestParse_NumberOutOfRange(t *testing.T) {
	for _, src := range []string{`{"e": 1e400}`, "e: -1e999\n", `{"big": [1, 2e308]}`} {
		_, err := Parse([]byte(src), "num.json")
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, oaserrors.ErrParse), src)
		assert.Contains(t, err.Error(), "out of range", src)
	}

	doc, err := Parse([]byte(`{"quoted": "1e400", "max": 1.7976931348623157e308}`), "")
	require.NoError(t, err)
	assert.Equal(t, "1e400", mustLookup(t, doc, "quoted").Text())
	assert.Equal(t, math.MaxFloat64, mustLookup(t, doc, "max").Value)
}

func TestParse_Aliases(t *testing.T) {
	doc, err := Parse([]byte("base: &b {type: string}\nother: *b\n"), "")
	require.NoError(t, err)
	base := mustLookup(t, doc, "base")
	other := mustLookup(t, doc, "other")
	assert.Same(t, base, other, "aliases should share the node")
}

func TestSetDeleteOrder(t *testing.T) {
	n := NewMapping()
	n.Set("a", NewScalar(1))
	n.Set("b", NewScalar(2))
	n.Set("a", NewScalar(3))
	assert.Equal(t, []string{"a", "b"}, n.Keys())
	assert.Equal(t, 3, mustLookup(t, n, "a").Value)

	assert.True(t, n.Delete("a"))
	assert.False(t, n.Delete("a"))
	assert.Equal(t, []string{"b"}, n.Keys())

	got := n.SetDefault("b", NewScalar(9))
	assert.Equal(t, 2, got.Value)
	got = n.SetDefault("c", NewScalar(9))
	assert.Equal(t, 9, got.Value)
	assert.Equal(t, []string{"b", "c"}, n.Keys())
}

func TestClone(t *testing.T) {
	doc, err := Parse([]byte(petstoreYAML), "")
	require.NoError(t, err)

	c := doc.Clone()
	assert.True(t, Equal(doc, c))
	assert.NotSame(t, doc, c)

	mustLookup(t, c, "info").Set("title", NewString("changed"))
	assert.Equal(t, "Petstore", mustLookup(t, doc, "info").StringField("title"))

	t.Run("keeps sharing and cycles", func(t *testing.T) {
		shared := NewMapping()
		shared.Set("type", NewString("string"))
		root := NewMapping()
		root.Set("a", shared)
		root.Set("b", shared)
		root.Set("self", root)

		c := root.Clone()
		a, _ := c.Get("a")
		b, _ := c.Get("b")
		self, _ := c.Get("self")
		assert.Same(t, a, b)
		assert.Same(t, c, self)
		assert.NotSame(t, shared, a)
	})
}

func TestEqual(t *testing.T) {
	a := MustFromAny(map[string]any{"x": 1, "y": []any{"a", 2.0}})
	b, err := Parse([]byte(`{"y": ["a", 2], "x": 1.0}`), "")
	require.NoError(t, err)
	assert.True(t, Equal(a, b), "key order and number types should not matter")

	c := MustFromAny(map[string]any{"x": 1, "y": []any{"a", 3}})
	assert.False(t, Equal(a, c))

	assert.False(t, Equal(NewReference("#/a"), NewReference("#/b")))
	assert.True(t, Equal(NewReference("#/a"), NewReference("#/a")))
	assert.False(t, Equal(NewReference("#/a"), MustFromAny(map[string]any{"$ref": 1})))
	assert.False(t, Equal(NewScalar("1"), NewScalar(1)))
}

func TestFromAnyToAny(t *testing.T) {
	in := map[string]any{
		"schema": map[string]any{"$ref": "#/components/schemas/Pet"},
		"list":   []any{"a", int64(2)},
	}
	n, err := FromAny(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"list", "schema"}, n.Keys())
	assert.True(t, mustLookup(t, n, "schema").IsReference())
	assert.Equal(t, in, n.ToAny())

	_, err = FromAny(map[string]any{"bad": struct{}{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestEncode(t *testing.T) {
	doc, err := Parse([]byte(`{"z": 1, "a": {"$ref": "#/z", "summary": "s"}, "m": []}`), "")
	require.NoError(t, err)

	out, err := Encode(doc, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": 1,\n  \"a\": {\n    \"$ref\": \"#/z\",\n    \"summary\": \"s\"\n  },\n  \"m\": []\n}", string(out))

	y, err := Encode(doc, FormatYAML)
	require.NoError(t, err)
	s := string(y)
	assert.Less(t, strings.Index(s, "z:"), strings.Index(s, "a:"))
	assert.Contains(t, s, "#/z")

	back, err := Parse(y, "")
	require.NoError(t, err)
	assert.True(t, Equal(doc, back))
}

func TestEncode_Cycle(t *testing.T) {
	root := NewMapping()
	root.Set("self", root)
	_, err := Encode(root, FormatJSON)
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("a.json", nil))
	assert.Equal(t, FormatYAML, DetectFormat("a.yml", nil))
	assert.Equal(t, FormatJSON, DetectFormat("-", []byte("  {}")))
	assert.Equal(t, FormatYAML, DetectFormat("", []byte("openapi: 3.0.0")))
	assert.Equal(t, FormatUnknown, DetectFormat("", []byte("  ")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "reference", KindReference.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func mustLookup(t *testing.T, n *Node, keys ...string) *Node {
	t.Helper()
	v, ok := n.Lookup(keys...)
	require.True(t, ok, "missing %v", keys)
	return v
}
