// Package accessor provides default-valued navigation over FHIR JSON.
//
// FHIR payloads are semi-structured: keys may be absent, arrays may be empty and
// shapes differ between resource types. A Node wraps one gjson result and tags it
// as Missing, Scalar, Mapping or Sequence, so a lookup that walks off the document
// produces a Missing node instead of an error.
//
//	node, _ := accessor.Parse(body)
//	display := node.Get("code", "coding", 0, "display").String("No name")
package accessor

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ErrInvalidPathStep is raised for path steps that are neither a string key nor an int index.
var ErrInvalidPathStep = errors.New("accessor: path step must be a string key or an int index")

var errInvalidJSON = errors.New("accessor: invalid JSON document")

type Kind int

const (
	KindMissing Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "missing"
	}
}

// Node is an immutable view over one JSON value.
type Node struct {
	result gjson.Result
}

// Missing is the node returned for every absent value.
var Missing = Node{}

func fromResult(result gjson.Result) Node {
	if !result.Exists() || result.Type == gjson.Null {
		return Missing
	}
	return Node{result: result}
}

// Parse reads a JSON document. Numbers keep their literal text.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Missing, errInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// Wrap encodes an already decoded value and reads it back as a Node. JSON null
// and values that cannot be encoded are treated as absent.
func Wrap(value interface{}) Node {
	if node, ok := value.(Node); ok {
		return node
	}
	if value == nil {
		return Missing
	}
	data, err := json.Marshal(value)
	if err != nil {
		return Missing
	}
	return fromResult(gjson.ParseBytes(data))
}

func (n Node) Kind() Kind {
	switch {
	case !n.result.Exists() || n.result.Type == gjson.Null:
		return KindMissing
	case n.result.IsObject():
		return KindMapping
	case n.result.IsArray():
		return KindSequence
	default:
		return KindScalar
	}
}

func (n Node) IsMissing() bool {
	return n.Kind() == KindMissing
}

func (n Node) Exists() bool {
	return !n.IsMissing()
}

// Raw decodes the node into maps, slices and json.Number values. Each call
// returns a fresh value; nil for Missing.
func (n Node) Raw() interface{} {
	if n.IsMissing() {
		return nil
	}
	decoder := json.NewDecoder(strings.NewReader(n.result.Raw))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil
	}
	return value
}

// Get follows path through nested mappings and sequences. Any absent, wrong-typed or
// out-of-range step yields Missing. Get panics if a step is not a string or an int.
func (n Node) Get(path ...interface{}) Node {
	node, err := n.Lookup(path...)
	if err != nil {
		panic(err)
	}
	return node
}

// Lookup is Get for callers that build paths dynamically and want the invalid path
// reported as an error.
func (n Node) Lookup(path ...interface{}) (Node, error) {
	for i, step := range path {
		switch step.(type) {
		case string, int:
		default:
			return Missing, fmt.Errorf("%w: step %d has type %T", ErrInvalidPathStep, i, step)
		}
	}

	current := n
	for _, step := range path {
		current = current.step(step)
		if current.IsMissing() {
			return Missing, nil
		}
	}
	return current, nil
}

// step matches object keys exactly, so keys containing gjson path syntax
// ('.', '*', '#') need no escaping.
func (n Node) step(step interface{}) Node {
	switch s := step.(type) {
	case string:
		if !n.result.IsObject() {
			return Missing
		}
		found := Missing
		n.result.ForEach(func(key, value gjson.Result) bool {
			if key.String() == s {
				found = fromResult(value)
				return false
			}
			return true
		})
		return found
	case int:
		if !n.result.IsArray() || s < 0 {
			return Missing
		}
		return fromResult(n.result.Get(strconv.Itoa(s)))
	}
	return Missing
}

// String returns scalars as text. Numbers and booleans are rendered as their JSON
// literal. Empty strings, mappings, sequences and Missing return def.
func (n Node) String(def string) string {
	switch n.result.Type {
	case gjson.String:
		if n.result.Str == "" {
			return def
		}
		return n.result.Str
	case gjson.Number, gjson.True, gjson.False:
		return n.result.Raw
	default:
		return def
	}
}

// FloatOK reports the scalar as a float64. Numeric strings are accepted because some
// servers store valueQuantity.value as text.
func (n Node) FloatOK() (float64, bool) {
	switch n.result.Type {
	case gjson.Number:
		f, err := strconv.ParseFloat(n.result.Raw, 64)
		return f, err == nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(n.result.Str), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (n Node) Float(def float64) float64 {
	if f, ok := n.FloatOK(); ok {
		return f
	}
	return def
}

// Len is the number of elements of a sequence or keys of a mapping.
func (n Node) Len() int {
	switch n.Kind() {
	case KindSequence:
		return len(n.result.Array())
	case KindMapping:
		count := 0
		n.result.ForEach(func(_, _ gjson.Result) bool {
			count++
			return true
		})
		return count
	default:
		return 0
	}
}

// Items returns the elements of a sequence in document order. A non-sequence yields nil.
// Null elements are kept as Missing so indices line up with Get.
func (n Node) Items() []Node {
	if n.Kind() != KindSequence {
		return nil
	}

	results := n.result.Array()
	nodes := make([]Node, 0, len(results))
	for _, result := range results {
		nodes = append(nodes, fromResult(result))
	}
	return nodes
}

func (n Node) MarshalJSON() ([]byte, error) {
	if n.IsMissing() {
		return []byte("null"), nil
	}
	return []byte(n.result.Raw), nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	node, err := Parse(bytes.Clone(data))
	if err != nil {
		return err
	}
	*n = node
	return nil
}
