package normalize

import (
	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/httputil"
)

// Field names used by the passes.
const (
	fieldInfo         = "info"
	fieldContact      = "contact"
	fieldLicense      = "license"
	fieldExternalDocs = "externalDocs"
	fieldSecurity     = "security"
	fieldServers      = "servers"
	fieldPaths        = "paths"
	fieldComponents   = "components"
	fieldTags         = "tags"
	fieldParameters   = "parameters"
	fieldCallbacks    = "callbacks"
	fieldURL          = "url"
	fieldName         = "name"
	fieldIn           = "in"
)

// PreProcess returns a copy of doc with every container the editor
// expects present, and path-level parameters pushed down into each
// operation. Existing values are never overwritten. doc is not modified;
// a nil doc yields a skeleton document.
func PreProcess(doc *document.Node) *document.Node {
	if doc == nil {
		doc = document.NewMapping()
	} else {
		doc = doc.Clone()
	}
	if !doc.IsMapping() {
		return doc
	}

	for _, tag := range items(doc, fieldTags) {
		if tag.IsMapping() {
			ensure(tag, fieldExternalDocs, document.NewMapping)
		}
	}

	info := ensure(doc, fieldInfo, func() *document.Node {
		n := document.NewMapping()
		n.Set("version", document.NewString("1.0.0"))
		n.Set("title", document.NewString("Untitled"))
		return n
	})
	if info.IsMapping() {
		ensure(info, fieldContact, document.NewMapping)
		ensure(info, fieldLicense, document.NewMapping)
	}

	ensure(doc, fieldExternalDocs, document.NewMapping)
	ensure(doc, fieldSecurity, newSequence)
	ensure(doc, fieldServers, newSequence)
	paths := ensure(doc, fieldPaths, document.NewMapping)

	components := ensure(doc, fieldComponents, document.NewMapping)
	if components.IsMapping() {
		ensure(components, "links", document.NewMapping)
		ensure(components, fieldCallbacks, document.NewMapping)
		ensure(components, "schemas", document.NewMapping)
	}

	for _, item := range paths.Fields() {
		if item.IsMapping() {
			preProcessPathItem(item)
		}
	}
	return doc
}

func preProcessPathItem(item *document.Node) {
	shared := items(item, fieldParameters)

	for key, op := range item.Fields() {
		if !httputil.IsMethod(key) || !op.IsMapping() {
			continue
		}
		ensure(op, fieldTags, newSequence)
		params := ensure(op, fieldParameters, newSequence)
		ensure(op, fieldExternalDocs, document.NewMapping)

		if params.Kind != document.KindSequence {
			continue
		}
		for _, p := range shared {
			if !containsParameter(params.Items, p) {
				params.Append(p.Clone())
			}
		}
	}
	item.Delete(fieldParameters)
}

// containsParameter reports whether params already holds a parameter with
// the identity of p: the same name and location, or for reference
// parameters the same pointer.
func containsParameter(params []*document.Node, p *document.Node) bool {
	for _, q := range params {
		if q == nil || p == nil {
			continue
		}
		if p.IsReference() || q.IsReference() {
			if p.IsReference() && q.IsReference() && p.Ref == q.Ref {
				return true
			}
			continue
		}
		if p.IsMapping() && q.IsMapping() &&
			p.StringField(fieldName) == q.StringField(fieldName) &&
			p.StringField(fieldIn) == q.StringField(fieldIn) {
			return true
		}
	}
	return false
}

// PostProcess returns a copy of doc with the placeholders PreProcess
// introduces removed again: empty externalDocs and license objects, empty
// tag lists. Operation tags are de-duplicated keeping first-seen order.
// doc is not modified.
func PostProcess(doc *document.Node) *document.Node {
	if doc == nil {
		return nil
	}
	doc = doc.Clone()
	if !doc.IsMapping() {
		return doc
	}

	if paths, ok := doc.Get(fieldPaths); ok {
		for _, item := range paths.Fields() {
			postProcessPathItem(item, make(map[*document.Node]struct{}))
		}
	}

	for _, tag := range items(doc, fieldTags) {
		dropEmptyExternalDocs(tag)
	}
	dropEmptyExternalDocs(doc)

	if info, ok := doc.Get(fieldInfo); ok && info.IsMapping() {
		if license, ok := info.Get(fieldLicense); ok && !hasText(license, fieldName) {
			info.Delete(fieldLicense)
		}
	}
	return doc
}

// postProcessPathItem cleans the operations of item and of every path
// item nested in their callbacks. seen stops shared callback subtrees
// from being walked forever.
func postProcessPathItem(item *document.Node, seen map[*document.Node]struct{}) {
	if !item.IsMapping() {
		return
	}
	if _, ok := seen[item]; ok {
		return
	}
	seen[item] = struct{}{}

	for key, op := range item.Fields() {
		if !httputil.IsMethod(key) || !op.IsMapping() {
			continue
		}
		dropEmptyExternalDocs(op)

		if tags, ok := op.Get(fieldTags); ok && tags.Kind == document.KindSequence {
			if len(tags.Items) == 0 {
				op.Delete(fieldTags)
			} else {
				tags.Items = unique(tags.Items)
			}
		}

		if callbacks, ok := op.Get(fieldCallbacks); ok {
			for _, callback := range callbacks.Fields() {
				for _, nested := range callback.Fields() {
					postProcessPathItem(nested, seen)
				}
			}
		}
	}
}

func dropEmptyExternalDocs(n *document.Node) {
	if !n.IsMapping() {
		return
	}
	if docs, ok := n.Get(fieldExternalDocs); ok && !hasText(docs, fieldURL) {
		n.Delete(fieldExternalDocs)
	}
}

// ensure returns the value stored under key, first storing a new value
// from def when the key is absent or null.
func ensure(n *document.Node, key string, def func() *document.Node) *document.Node {
	v, ok := n.Get(key)
	switch {
	case !ok:
		return n.SetDefault(key, def())
	case v == nil || isNull(v):
		v = def()
		n.Set(key, v)
	}
	return v
}

// items returns the elements of the sequence stored under key.
func items(n *document.Node, key string) []*document.Node {
	v, ok := n.Get(key)
	if !ok || v == nil || v.Kind != document.KindSequence {
		return nil
	}
	return v.Items
}

// unique drops later duplicates from nodes.
func unique(nodes []*document.Node) []*document.Node {
	out := make([]*document.Node, 0, len(nodes))
	for _, n := range nodes {
		dup := false
		for _, kept := range out {
			if document.Equal(kept, n) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}
	return out
}

func hasText(n *document.Node, key string) bool {
	return n.IsMapping() && n.StringField(key) != ""
}

func isNull(n *document.Node) bool {
	return n.Kind == document.KindScalar && n.Value == nil
}

func newSequence() *document.Node {
	return document.NewSequence()
}
