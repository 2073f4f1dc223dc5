package deref

import (
	"fmt"
	"strings"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/pathutil"
	"github.com/erraggy/openapi-gui/oaserrors"
	"github.com/erraggy/openapi-gui/oaslog"
)

const (
	// DefaultMaxPasses is the default cap on fixed-point passes. A document
	// still producing new references after this many passes is treated as
	// a reference cycle.
	DefaultMaxPasses = 100

	// DefaultMaxDepth is the default cap on traversal depth.
	DefaultMaxDepth = 1000

	// DefaultComponentsPrefix selects the definitions subtree as the
	// resolution root.
	DefaultComponentsPrefix = pathutil.RefPrefixComponents
)

// Reference types reported in oaserrors.ReferenceError.RefType.
const (
	RefTypeLocal     = "local"
	RefTypeComponent = "component"
)

// Dereferencer inlines $ref pointers in a document tree.
//
// The zero value is usable; zero limits fall back to the package defaults.
// A Dereferencer holds no per-call state and may be shared between
// goroutines.
type Dereferencer struct {
	// Logger receives diagnostics. Nil discards them.
	Logger oaslog.Logger
	// MaxPasses caps the fixed-point iteration (0 means DefaultMaxPasses).
	MaxPasses int
	// MaxDepth caps traversal depth (0 means DefaultMaxDepth).
	MaxDepth int
	// ComponentsPrefix is the pointer prefix resolved against the
	// definitions subtree (empty means DefaultComponentsPrefix).
	ComponentsPrefix string
	// LegacyPointers keeps pointer segments raw instead of applying
	// RFC 6901 ~0/~1 unescaping, for documents stored by older tools.
	LegacyPointers bool
}

// Result is the outcome of a Dereference call.
type Result struct {
	// Document is the resolved copy of the input document.
	Document *document.Node
	// Passes is the number of traversal passes run, including the final
	// pass that found nothing left to resolve.
	Passes int
	// Resolutions counts reference nodes replaced across all passes.
	Resolutions int
	// Unresolved lists references still unresolved after the final pass.
	Unresolved []*oaserrors.ReferenceError
}

// New creates a Dereferencer with default limits.
func New() *Dereferencer {
	return &Dereferencer{
		MaxPasses:        DefaultMaxPasses,
		MaxDepth:         DefaultMaxDepth,
		ComponentsPrefix: DefaultComponentsPrefix,
	}
}

// Dereference resolves every reachable reference node of doc and returns
// the resolved copy. Pointers starting with the components prefix resolve
// into defs with the prefix stripped; when defs is nil they resolve into
// the document's own components mapping. Neither input is modified.
//
// Unresolvable pointers are left in place and listed in Result.Unresolved.
// The error is non-nil only for a cycle that exceeds the pass cap
// (oaserrors.ErrCycleDepthExceeded), excessive nesting, or a nil doc.
func (d *Dereferencer) Dereference(doc, defs *document.Node) (*Result, error) {
	if doc == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "document is required"}
	}

	maxPasses := d.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	logger := oaslog.OrNop(d.Logger)

	w := &walker{
		root:     doc.Clone(),
		defs:     defs,
		prefix:   d.ComponentsPrefix,
		raw:      d.LegacyPointers,
		maxDepth: d.MaxDepth,
		logger:   logger,
	}
	if w.prefix == "" {
		w.prefix = DefaultComponentsPrefix
	}
	if w.maxDepth <= 0 {
		w.maxDepth = DefaultMaxDepth
	}

	result := &Result{Document: w.root}
	for result.Passes < maxPasses {
		result.Passes++
		n, err := w.pass()
		if err != nil {
			return nil, err
		}
		logger.Debug("dereference pass complete", "pass", result.Passes, "resolved", n, "unresolved", len(w.unresolved))
		result.Resolutions += n
		if n == 0 {
			result.Unresolved = w.unresolved
			for _, u := range result.Unresolved {
				logger.Warn("could not resolve reference", "ref", u.Ref, "path", u.Path, "reason", u.Message)
			}
			return result, nil
		}
	}

	return nil, &oaserrors.ResourceLimitError{
		ResourceType: oaserrors.ResourceTypeDerefPasses,
		Limit:        int64(maxPasses),
		Actual:       int64(maxPasses + 1),
		Message:      fmt.Sprintf("references still appearing after %d passes (%d resolved)", maxPasses, result.Resolutions),
	}
}

// Dereference resolves doc against defs with a default Dereferencer and
// returns only the resolved document.
func Dereference(doc, defs *document.Node) (*document.Node, error) {
	r, err := New().Dereference(doc, defs)
	if err != nil {
		return nil, err
	}
	return r.Document, nil
}

// walker holds the working state of one Dereference call.
type walker struct {
	root     *document.Node
	defs     *document.Node
	prefix   string
	raw      bool
	maxDepth int
	logger   oaslog.Logger

	// per pass
	path       *pathutil.PathBuilder
	visiting   map[*document.Node]struct{}
	resolved   int
	unresolved []*oaserrors.ReferenceError
}

// pass runs one full pre-order traversal and returns the number of
// reference nodes it replaced.
func (w *walker) pass() (int, error) {
	w.path = pathutil.Get()
	defer pathutil.Put(w.path)
	w.path.Raw = w.raw
	w.visiting = make(map[*document.Node]struct{})
	w.resolved = 0
	w.unresolved = nil

	if err := w.walk(w.root, 0); err != nil {
		return 0, err
	}
	return w.resolved, nil
}

func (w *walker) walk(n *document.Node, depth int) error {
	if depth > w.maxDepth {
		return &oaserrors.ResourceLimitError{
			ResourceType: "nesting_depth",
			Limit:        int64(w.maxDepth),
			Actual:       int64(depth),
			Message:      "document too deeply nested at " + w.path.String(),
		}
	}

	w.visiting[n] = struct{}{}
	defer delete(w.visiting, n)

	// Content merged into n is left for the next pass.
	if n.Kind == document.KindReference && w.resolve(n) {
		return nil
	}

	switch n.Kind {
	case document.KindSequence:
		for i, item := range n.Items {
			if !w.enter(item) {
				continue
			}
			w.path.PushIndex(i)
			err := w.walk(item, depth+1)
			w.path.Pop()
			if err != nil {
				return err
			}
		}
	case document.KindMapping, document.KindReference:
		for key, child := range n.Fields() {
			if !w.enter(child) {
				continue
			}
			w.path.Push(key)
			err := w.walk(child, depth+1)
			w.path.Pop()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// enter reports whether child should be visited: it must be a container
// that is not already on the current descent path.
func (w *walker) enter(child *document.Node) bool {
	if child == nil || child.Kind == document.KindScalar {
		return false
	}
	if _, ok := w.visiting[child]; ok {
		w.logger.Debug("skipping node already on the descent path", "path", w.path.String())
		return false
	}
	return true
}

// resolve replaces the reference node n with a copy of its target.
// It reports whether n was replaced.
func (w *walker) resolve(n *document.Node) bool {
	ref := n.Ref
	at := w.path.String()

	if pathutil.IsRoot(ref) {
		w.fail(&oaserrors.ReferenceError{
			Ref: ref, Path: at, RefType: RefTypeLocal, IsCircular: true,
			Message: "reference to the document root",
		})
		return false
	}

	root, ptr, refType := w.rootFor(ref)
	target, err := resolvePointer(root, ptr, w.raw)
	if err != nil {
		w.fail(&oaserrors.ReferenceError{
			Ref: ref, Path: at, RefType: refType, IsMissing: true,
			Message: err.Error(),
		})
		return false
	}

	inlined := target.Clone()
	rebaseNested(inlined, ref, at)
	merge(n, inlined)
	w.resolved++
	w.logger.Debug("resolved reference", "ref", ref, "path", at)
	return true
}

func (w *walker) fail(err *oaserrors.ReferenceError) {
	w.unresolved = append(w.unresolved, err)
	w.logger.Debug("reference left unresolved", "ref", err.Ref, "path", err.Path, "reason", err.Message)
}

// rootFor picks the resolution root for ref and the pointer to walk in it.
func (w *walker) rootFor(ref string) (*document.Node, string, string) {
	if !strings.HasPrefix(ref, w.prefix) {
		return w.root, ref, RefTypeLocal
	}
	if w.defs == nil {
		return w.root, ref, RefTypeComponent
	}
	return w.defs, pathutil.RootPointer + "/" + ref[len(w.prefix):], RefTypeComponent
}

// rebaseNested rewrites reference nodes inside target that point at or
// below ref, so they point at the same place below the node's new
// location at.
func rebaseNested(target *document.Node, ref, at string) {
	seen := make(map[*document.Node]struct{})
	stack := []*document.Node{target}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}

		if n.Kind == document.KindReference && pathutil.IsWithin(n.Ref, ref) {
			n.Ref = pathutil.Rebase(n.Ref, ref, at)
		}
		stack = append(stack, n.Items...)
		for _, child := range n.Fields() {
			stack = append(stack, child)
		}
	}
}

// merge splices target into the reference node n. Mapping targets are
// merged field by field over n's siblings; other targets replace n. A
// target that is itself a reference leaves n pointing at the target's
// pointer for the next pass.
func merge(n, target *document.Node) {
	switch target.Kind {
	case document.KindMapping:
		n.Kind = document.KindMapping
		n.Ref = ""
	case document.KindReference:
		n.Ref = target.Ref
	default:
		n.Replace(target)
		return
	}
	for key, value := range target.Fields() {
		n.Set(key, value)
	}
}
