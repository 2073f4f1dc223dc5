package document

import "math"

// Equal reports whether a and b describe the same document. Mapping key
// order is ignored; numbers compare by value regardless of Go type.
func Equal(a, b *Node) bool {
	return equalNode(a, b, make(map[[2]*Node]bool))
}

func equalNode(a, b *Node, seen map[[2]*Node]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	pair := [2]*Node{a, b}
	if seen[pair] {
		return true
	}
	seen[pair] = true

	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindScalar:
		return equalScalar(a.Value, b.Value)
	case KindSequence:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !equalNode(a.Items[i], b.Items[i], seen) {
				return false
			}
		}
		return true
	case KindReference:
		if a.Ref != b.Ref {
			return false
		}
	}
	if len(a.keys) != len(b.keys) {
		return false
	}
	for _, k := range a.keys {
		bv, ok := b.fields[k]
		if !ok || !equalNode(a.fields[k], bv, seen) {
			return false
		}
	}
	return true
}

func equalScalar(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && (af == bf || (math.IsNaN(af) && math.IsNaN(bf)))
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
