package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/erraggy/openapi-gui/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Format identifies a serialization format.
type Format string

const (
	// FormatJSON is JSON output, indented with two spaces.
	FormatJSON Format = "json"
	// FormatYAML is YAML output.
	FormatYAML Format = "yaml"
	// FormatUnknown means the format could not be detected.
	FormatUnknown Format = "unknown"
)

// maxEncodeDepth guards the encoders against cyclic trees.
const maxEncodeDepth = 10000

var errTooDeep = errors.New("document: tree too deep or cyclic")

// DetectFormat guesses the format from a file name, falling back to the
// content: JSON documents start with '{' or '['.
func DetectFormat(name string, data []byte) Format {
	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a JSON or YAML document, keeping mapping key order.
// source names the input in error messages and may be empty.
func Parse(data []byte, source string) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "invalid JSON or YAML", Cause: err}
	}
	if root.Kind == 0 {
		return nil, &oaserrors.ParseError{Path: source, Message: "empty document"}
	}
	n, err := FromYAML(&root)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Cause: err}
	}
	return n, nil
}

// FromYAML converts a yaml.Node tree. Aliases become shared subtrees.
func FromYAML(y *yaml.Node) (*Node, error) {
	return fromYAML(y, make(map[*yaml.Node]*Node))
}

func fromYAML(y *yaml.Node, seen map[*yaml.Node]*Node) (*Node, error) {
	if y == nil {
		return NewScalar(nil), nil
	}
	if n, ok := seen[y]; ok {
		return n, nil
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewScalar(nil), nil
		}
		return fromYAML(y.Content[0], seen)

	case yaml.AliasNode:
		return fromYAML(y.Alias, seen)

	case yaml.MappingNode:
		n := NewMapping()
		seen[y] = n
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			if key == RefKey && y.Content[i+1].Kind == yaml.ScalarNode && y.Content[i+1].ShortTag() == "!!str" {
				n.Kind = KindReference
				n.Ref = y.Content[i+1].Value
				continue
			}
			child, err := fromYAML(y.Content[i+1], seen)
			if err != nil {
				return nil, err
			}
			n.Set(key, child)
		}
		return n, nil

	case yaml.SequenceNode:
		n := NewSequence()
		seen[y] = n
		n.Items = make([]*Node, 0, len(y.Content))
		for _, c := range y.Content {
			child, err := fromYAML(c, seen)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil

	case yaml.ScalarNode:
		var v any
		if err := y.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", y.Line, err)
		}
		if err := checkNumberRange(y, v); err != nil {
			return nil, err
		}
		n := NewScalar(v)
		seen[y] = n
		return n, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", y.Line, y.Kind)
	}
}

// checkNumberRange rejects plain scalars that read as numbers but do not
// fit a float64. YAML resolves them to strings, which would change their
// type on the next encode.
func checkNumberRange(y *yaml.Node, v any) error {
	if _, ok := v.(string); !ok || y.Style != 0 {
		return nil
	}
	if _, err := strconv.ParseFloat(y.Value, 64); errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("line %d: number %s is out of range", y.Line, y.Value)
	}
	return nil
}

// FromAny converts decoded Go values (map[string]any, []any and scalars)
// into a tree. Keys of plain maps are sorted for a stable order.
func FromAny(v any) (*Node, error) {
	switch val := v.(type) {
	case *Node:
		return val.Clone(), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		n := NewMapping()
		for _, k := range keys {
			if k == RefKey {
				if s, ok := val[k].(string); ok {
					n.Kind = KindReference
					n.Ref = s
					continue
				}
			}
			child, err := FromAny(val[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			n.Set(k, child)
		}
		return n, nil
	case []any:
		n := NewSequence()
		n.Items = make([]*Node, 0, len(val))
		for i, item := range val {
			child, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Items = append(n.Items, child)
		}
		return n, nil
	case []string:
		n := NewSequence()
		for _, s := range val {
			n.Append(NewString(s))
		}
		return n, nil
	case nil, bool, string, int, int64, uint64, float64:
		return NewScalar(val), nil
	case float32:
		return NewScalar(float64(val)), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return NewScalar(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, err
		}
		return NewScalar(f), nil
	default:
		return nil, fmt.Errorf("document: unsupported value type %T", v)
	}
}

// MustFromAny is FromAny for literals known to be valid, such as test
// fixtures and built-in defaults. It panics on error.
func MustFromAny(v any) *Node {
	n, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return n
}

// ToAny converts n into plain Go values. Reference nodes become maps with
// a "$ref" entry.
func (n *Node) ToAny() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindScalar:
		return n.Value
	case KindSequence:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.ToAny()
		}
		return out
	default:
		out := make(map[string]any, len(n.keys)+1)
		if n.Kind == KindReference {
			out[RefKey] = n.Ref
		}
		for k, v := range n.Fields() {
			out[k] = v.ToAny()
		}
		return out
	}
}

// MarshalJSON writes the tree as JSON with mapping keys in order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNodeJSON(&buf, n, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNodeJSON(buf *bytes.Buffer, n *Node, depth int) error {
	if depth > maxEncodeDepth {
		return errTooDeep
	}
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case KindScalar:
		if f, ok := n.Value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return fmt.Errorf("document: cannot encode %v as JSON", f)
		}
		data, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNodeJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteByte('{')
		first := true
		writeKey := func(k string) {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
		}
		if n.Kind == KindReference {
			writeKey(RefKey)
			ref, _ := json.Marshal(n.Ref)
			buf.Write(ref)
		}
		for k, v := range n.Fields() {
			writeKey(k)
			if err := writeNodeJSON(buf, v, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler with mapping keys in order.
func (n *Node) MarshalYAML() (any, error) {
	return toYAML(n, 0)
}

func toYAML(n *Node, depth int) (*yaml.Node, error) {
	if depth > maxEncodeDepth {
		return nil, errTooDeep
	}
	if n == nil {
		return scalarNode("!!null", "null"), nil
	}
	switch n.Kind {
	case KindScalar:
		return scalarToYAML(n.Value)
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(n.Items))}
		for _, item := range n.Items {
			c, err := toYAML(item, depth+1)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, c)
		}
		return out, nil
	default:
		out := &yaml.Node{Kind: yaml.MappingNode}
		if n.Kind == KindReference {
			out.Content = append(out.Content, scalarNode("!!str", RefKey), scalarNode("!!str", n.Ref))
		}
		for k, v := range n.Fields() {
			c, err := toYAML(v, depth+1)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, scalarNode("!!str", k), c)
		}
		return out, nil
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func scalarToYAML(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalarNode("!!null", "null"), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val)), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		return scalarNode("!!float", strconv.FormatFloat(val, 'g', -1, 64)), nil
	case string:
		return scalarNode("!!str", val), nil
	default:
		return nil, fmt.Errorf("document: unsupported scalar type %T", v)
	}
}

// Encode serializes n in the given format. JSON is indented with two
// spaces; unknown formats fall back to YAML.
func Encode(n *Node, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(n, "", "  ")
	}
	return yaml.Marshal(n)
}
