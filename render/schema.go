package render

import (
	"github.com/erraggy/openapi-gui/document"
)

// maxSampleDepth bounds example generation for deeply nested schemas.
const maxSampleDepth = 8

// stringSamples maps string formats to example values.
var stringSamples = map[string]string{
	"date-time": "2019-08-24T14:15:22Z",
	"date":      "2019-08-24",
	"time":      "14:15:22Z",
	"email":     "user@example.com",
	"uuid":      "095be615-a8ad-4c33-8e9c-c7612fbf6c9f",
	"uri":       "http://example.com",
	"hostname":  "example.com",
	"ipv4":      "192.168.0.1",
	"ipv6":      "2001:db8::1",
	"password":  "pa$$word",
	"binary":    "string",
	"byte":      "c3RyaW5n",
}

// schemaType returns the primary type of schema. A 3.1 type list yields
// its first non-null entry; schemas with properties and no type are
// objects.
func schemaType(schema *document.Node) string {
	if !schema.IsMapping() {
		return ""
	}
	t, ok := schema.Get("type")
	switch {
	case ok && t.Kind == document.KindScalar:
		return t.Text()
	case ok && t.Kind == document.KindSequence:
		for _, item := range t.Items {
			if s := item.Text(); s != "" && s != "null" {
				return s
			}
		}
	}
	if schema.Has("properties") || schema.Has("additionalProperties") {
		return "object"
	}
	if schema.Has("items") {
		return "array"
	}
	return ""
}

// typeName describes schema for a table cell: "string(date-time)",
// "[Pet]", "object".
func typeName(schema *document.Node) string {
	if !schema.IsMapping() {
		return "any"
	}
	for _, key := range []string{"allOf", "oneOf", "anyOf"} {
		if schema.Has(key) && schemaType(schema) == "" {
			return key
		}
	}

	t := schemaType(schema)
	switch t {
	case "":
		return "any"
	case "array":
		items, _ := schema.Get("items")
		return "[" + typeName(items) + "]"
	case "object":
		if title := schema.StringField("title"); title != "" {
			return title
		}
		return "object"
	}
	if format := schema.StringField("format"); format != "" {
		return t + "(" + format + ")"
	}
	return t
}

// restrictions describes the access restrictions of a property.
func restrictions(schema *document.Node) string {
	switch {
	case schema.BoolField("readOnly"):
		return "read-only"
	case schema.BoolField("writeOnly"):
		return "write-only"
	default:
		return "none"
	}
}

// Sample builds an example value for a dereferenced schema from its
// example, default or enum values, falling back to placeholders by type.
func Sample(schema *document.Node) *document.Node {
	return sample(schema, 0)
}

func sample(schema *document.Node, depth int) *document.Node {
	if !schema.IsMapping() || depth > maxSampleDepth {
		return document.NewScalar(nil)
	}
	for _, key := range []string{"example", "default"} {
		if v, ok := schema.Get(key); ok {
			return v.Clone()
		}
	}
	if examples, ok := schema.Get("examples"); ok && examples.Kind == document.KindSequence && len(examples.Items) > 0 {
		return examples.Items[0].Clone()
	}
	if enum, ok := schema.Get("enum"); ok && enum.Kind == document.KindSequence && len(enum.Items) > 0 {
		return enum.Items[0].Clone()
	}

	if all, ok := schema.Get("allOf"); ok && all.Kind == document.KindSequence {
		merged := document.NewMapping()
		for _, part := range all.Items {
			for k, v := range sample(part, depth+1).Fields() {
				merged.Set(k, v)
			}
		}
		for k, v := range sampleObject(schema, depth).Fields() {
			merged.Set(k, v)
		}
		return merged
	}
	for _, key := range []string{"oneOf", "anyOf"} {
		if alts, ok := schema.Get(key); ok && alts.Kind == document.KindSequence && len(alts.Items) > 0 {
			return sample(alts.Items[0], depth+1)
		}
	}

	switch schemaType(schema) {
	case "object":
		return sampleObject(schema, depth)
	case "array":
		items, _ := schema.Get("items")
		return document.NewSequence(sample(items, depth+1))
	case "string":
		if s, ok := stringSamples[schema.StringField("format")]; ok {
			return document.NewString(s)
		}
		return document.NewString("string")
	case "integer", "number":
		if minimum, ok := schema.Get("minimum"); ok && minimum.Kind == document.KindScalar {
			return minimum.Clone()
		}
		return document.NewScalar(0)
	case "boolean":
		return document.NewScalar(true)
	default:
		return document.NewScalar(nil)
	}
}

func sampleObject(schema *document.Node, depth int) *document.Node {
	out := document.NewMapping()
	if props, ok := schema.Get("properties"); ok {
		for name, prop := range props.Fields() {
			out.Set(name, sample(prop, depth+1))
		}
	}
	if extra, ok := schema.Get("additionalProperties"); ok && extra.IsMapping() {
		out.Set("property1", sample(extra, depth+1))
		out.Set("property2", sample(extra, depth+1))
	}
	return out
}
