package deref

import (
	"fmt"
	"strconv"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/pathutil"
	"github.com/erraggy/openapi-gui/oaserrors"
)

// Resolve returns the node addressed by the local pointer ptr within root.
// Pointer segments are unescaped per RFC 6901. The returned node belongs
// to root; callers that modify it should Clone it first.
func Resolve(root *document.Node, ptr string) (*document.Node, error) {
	n, err := resolvePointer(root, ptr, false)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: ptr, RefType: RefTypeLocal, IsMissing: true, Cause: err}
	}
	return n, nil
}

// resolvePointer walks ptr segment by segment from root. Mapping segments
// select fields, sequence segments are decimal indices.
func resolvePointer(root *document.Node, ptr string, raw bool) (*document.Node, error) {
	segments, err := pathutil.SplitPointer(ptr, raw)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("no document to resolve %q against", ptr)
	}

	cur := root
	for i, seg := range segments {
		switch cur.Kind {
		case document.KindMapping, document.KindReference:
			next, ok := cur.Get(seg)
			if !ok || next == nil {
				return nil, fmt.Errorf("segment %d %q not found", i, seg)
			}
			cur = next
		case document.KindSequence:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Items) || cur.Items[idx] == nil {
				return nil, fmt.Errorf("segment %d %q is not a valid index", i, seg)
			}
			cur = cur.Items[idx]
		default:
			return nil, fmt.Errorf("segment %d %q descends into a scalar", i, seg)
		}
	}
	return cur, nil
}
