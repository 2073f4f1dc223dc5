package document

import (
	"fmt"
	"iter"
	"slices"
)

// RefKey is the mapping key that turns a mapping into a reference node.
const RefKey = "$ref"

// Kind tags the variant a Node holds.
type Kind uint8

const (
	// KindScalar is a terminal value: nil, bool, string or a number.
	KindScalar Kind = iota
	// KindMapping is an ordered set of named children.
	KindMapping
	// KindSequence is an ordered list of children.
	KindSequence
	// KindReference is a mapping carrying a "$ref" pointer string,
	// possibly alongside sibling fields.
	KindReference
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one node of a document tree.
//
// The payload used depends on Kind:
//   - KindScalar: Value
//   - KindMapping: the ordered fields (Get, Set, Delete, Fields)
//   - KindSequence: Items
//   - KindReference: Ref, plus sibling fields
//
// A *Node is a stable handle: traversal code may key visited sets on it.
type Node struct {
	Kind  Kind
	Value any
	Ref   string
	Items []*Node

	keys   []string
	fields map[string]*Node
}

// NewScalar returns a scalar node holding v.
func NewScalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// NewString returns a string scalar node.
func NewString(s string) *Node {
	return NewScalar(s)
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping}
}

// NewSequence returns a sequence node holding items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// NewReference returns a reference node pointing at ref.
func NewReference(ref string) *Node {
	return &Node{Kind: KindReference, Ref: ref}
}

// IsMapping reports whether n has named fields (mapping or reference).
func (n *Node) IsMapping() bool {
	return n != nil && (n.Kind == KindMapping || n.Kind == KindReference)
}

// IsReference reports whether n is a reference node.
func (n *Node) IsReference() bool {
	return n != nil && n.Kind == KindReference
}

// Len returns the number of fields of a mapping, or items of a sequence.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	if n.Kind == KindSequence {
		return len(n.Items)
	}
	return len(n.keys)
}

// Keys returns the field names in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.keys)
}

// Get returns the field named key.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.fields == nil {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Has reports whether the field named key exists.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Set stores value under key. Existing keys keep their position;
// new keys are appended.
func (n *Node) Set(key string, value *Node) {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = value
}

// SetDefault stores value under key unless the key is already present.
// It returns the node stored under key after the call.
func (n *Node) SetDefault(key string, value *Node) *Node {
	if v, ok := n.Get(key); ok {
		return v
	}
	n.Set(key, value)
	return value
}

// Delete removes the field named key and reports whether it existed.
func (n *Node) Delete(key string) bool {
	if n == nil || n.fields == nil {
		return false
	}
	if _, ok := n.fields[key]; !ok {
		return false
	}
	delete(n.fields, key)
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
	return true
}

// Fields iterates over the fields in insertion order.
func (n *Node) Fields() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		if n == nil {
			return
		}
		for _, k := range n.keys {
			if !yield(k, n.fields[k]) {
				return
			}
		}
	}
}

// Append adds items to a sequence node.
func (n *Node) Append(items ...*Node) {
	n.Items = append(n.Items, items...)
}

// Lookup follows a chain of mapping keys and returns the node found.
func (n *Node) Lookup(keys ...string) (*Node, bool) {
	cur := n
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// StringField returns the string value of a scalar field, or "".
func (n *Node) StringField(key string) string {
	v, ok := n.Get(key)
	if !ok || v == nil || v.Kind != KindScalar {
		return ""
	}
	s, _ := v.Value.(string)
	return s
}

// Text returns the scalar value of n formatted as text. Non-scalars yield "".
func (n *Node) Text() string {
	if n == nil || n.Kind != KindScalar || n.Value == nil {
		return ""
	}
	if s, ok := n.Value.(string); ok {
		return s
	}
	return fmt.Sprint(n.Value)
}

// BoolField returns the boolean value of a scalar field, or false.
func (n *Node) BoolField(key string) bool {
	v, ok := n.Get(key)
	if !ok || v == nil || v.Kind != KindScalar {
		return false
	}
	b, _ := v.Value.(bool)
	return b
}

// Replace overwrites n in place with the content of other, keeping the
// *Node handle stable for parents that hold it.
func (n *Node) Replace(other *Node) {
	n.Kind = other.Kind
	n.Value = other.Value
	n.Ref = other.Ref
	n.Items = other.Items
	n.keys = other.keys
	n.fields = other.fields
}
