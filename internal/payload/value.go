// internal/payload/value.go
package payload

import (
	"strconv"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of a decoded payload. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	text  string // string contents, or the JSON text of a number
	items []*Value
	m     *Mapping
}

// Null returns a null node.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// String returns a string node.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Number returns a number node for JSON number text. The text is normalized
// when the node is encoded.
func Number(text string) *Value { return &Value{kind: KindNumber, text: text} }

// Float returns a number node for f. Non-finite values are accepted here and
// rejected when the payload is encoded.
func Float(f float64) *Value {
	return Number(formatFloat(f))
}

// Sequence returns a sequence node.
func Sequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, items: items}
}

// Object wraps a mapping as a node.
func Object(m *Mapping) *Value {
	if m == nil {
		m = NewMapping()
	}
	return &Value{kind: KindMapping, m: m}
}

// Kind returns the node's tag. A nil Value reports KindNull.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Bool returns the boolean held by a KindBool node.
func (v *Value) Bool() bool { return v != nil && v.b }

// Text returns the contents of a string node or the text of a number.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	return v.text
}

// Items returns the elements of a sequence node.
func (v *Value) Items() []*Value {
	if v == nil {
		return nil
	}
	return v.items
}

// Mapping returns the mapping of a KindMapping node, nil otherwise.
func (v *Value) Mapping() *Mapping {
	if v.Kind() != KindMapping {
		return nil
	}
	return v.m
}

// Len is the element count of a sequence, the key count of a mapping and the
// byte length of a string. Other kinds report 0.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return v.m.Len()
	case KindString:
		return len(v.text)
	default:
		return 0
	}
}

// Truthy reports whether the node carries anything worth reporting: empty
// strings, sequences and mappings, false, zero and null are not truthy.
func (v *Value) Truthy() bool {
	switch v.Kind() {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			// NaN and malformed text are not zero
			return true
		}
		return f != 0
	default:
		return v.Len() > 0
	}
}

// Mapping is an insertion-ordered string-keyed map of nodes.
type Mapping struct {
	keys []string
	vals map[string]*Value
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{vals: make(map[string]*Value)}
}

// Set stores v under key. Re-setting a key keeps its original position.
func (m *Mapping) Set(key string, v *Value) *Mapping {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
	return m
}

// Get returns the node stored under key.
func (m *Mapping) Get(key string) (*Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Sequence returns the elements under key when it holds a sequence.
func (m *Mapping) Sequence(key string) ([]*Value, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind() != KindSequence {
		return nil, false
	}
	return v.Items(), true
}
