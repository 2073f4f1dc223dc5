package document

import "slices"

// Clone returns a deep copy of n. Shared subtrees stay shared in the copy
// and cycles are reproduced rather than followed forever.
func (n *Node) Clone() *Node {
	return cloneNode(n, make(map[*Node]*Node))
}

func cloneNode(n *Node, seen map[*Node]*Node) *Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := &Node{Kind: n.Kind, Value: n.Value, Ref: n.Ref}
	seen[n] = c

	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = cloneNode(item, seen)
		}
	}
	if n.fields != nil {
		c.keys = slices.Clone(n.keys)
		c.fields = make(map[string]*Node, len(n.fields))
		for _, k := range n.keys {
			c.fields[k] = cloneNode(n.fields[k], seen)
		}
	}
	return c
}
