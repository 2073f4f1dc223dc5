package pathutil

import (
	"strconv"
	"strings"
)

// PathBuilder provides incremental JSON Pointer construction.
// Uses push/pop semantics to avoid allocations during traversal.
// The full string is only materialized when String() is called.
type PathBuilder struct {
	segments []string
	length   int // Pre-calculated length for String() allocation

	// Raw disables RFC 6901 escaping of pushed segments.
	Raw bool
}

// Push adds a mapping key segment to the path.
func (p *PathBuilder) Push(segment string) {
	if !p.Raw {
		segment = Escape(segment)
	}
	p.segments = append(p.segments, segment)
	p.length += len(segment) + 1 // For slash separator
}

// PushIndex adds a sequence index segment.
func (p *PathBuilder) PushIndex(i int) {
	seg := strconv.Itoa(i)
	p.segments = append(p.segments, seg)
	p.length += len(seg) + 1
}

// Pop removes the last segment.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	last := p.segments[len(p.segments)-1]
	p.segments = p.segments[:len(p.segments)-1]
	p.length -= len(last) + 1
}

// Depth returns the number of segments.
func (p *PathBuilder) Depth() int {
	return len(p.segments)
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
	p.length = 0
	p.Raw = false
}

// String materializes the pointer, e.g. "#/paths/~1pets/get".
// An empty builder yields "#".
func (p *PathBuilder) String() string {
	var b strings.Builder
	b.Grow(p.length + 1)
	b.WriteByte('#')
	for _, seg := range p.segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}
