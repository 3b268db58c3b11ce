// Package jsonvalue defines the polymorphic JSON value produced by the
// streaming core: a tagged variant over the six JSON datum shapes, with
// number kept as either an integer or a float to preserve RFC 8259 integer
// fidelity where possible.
package jsonvalue

import (
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single object entry. Objects keep members in insertion order;
// re-insertion of an existing key updates its value in place rather than
// appending a duplicate (last-wins, §3).
type Member struct {
	Key   string
	Value Value
}

// Value is the exclusively-owned, immutable-once-built JSON datum produced
// by the parser. The zero Value is a JSON null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	str     string
	array   []Value
	object  []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Integer wraps an integer number.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array wraps an ordered sequence of values. elems is taken as-is, not
// copied, so callers should not mutate it afterwards.
func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, array: elems}
}

// NewObject returns an empty object that members can be appended to with
// Set.
func NewObject() Value {
	return Value{kind: KindObject, object: []Member{}}
}

// Set inserts or updates a key, implementing the last-wins duplicate-key
// policy: a repeated key overwrites the existing member's value in place
// rather than appending a second entry.
func (v *Value) Set(key string, val Value) {
	for i := range v.object {
		if v.object[i].Key == key {
			v.object[i].Value = val
			return
		}
	}
	v.object = append(v.object, Member{Key: key, Value: val})
}

// Kind returns which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; ok is false if v is not a bool.
func (v Value) Bool() (b, ok bool) {
	return v.boolean, v.kind == KindBool
}

// Integer returns the integer payload; ok is false if v is not an integer.
func (v Value) Integer() (i int64, ok bool) {
	return v.integer, v.kind == KindInteger
}

// Float returns the numeric payload as a float64 regardless of whether it
// was lexed as an integer or a float; ok is false if v is not a number.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case KindFloat:
		return v.float, true
	case KindInteger:
		return float64(v.integer), true
	default:
		return 0, false
	}
}

// String returns the string payload; ok is false if v is not a string.
func (v Value) String() (s string, ok bool) {
	return v.str, v.kind == KindString
}

// Array returns the element slice; ok is false if v is not an array.
func (v Value) Array() (elems []Value, ok bool) {
	return v.array, v.kind == KindArray
}

// Object returns the member slice in insertion order; ok is false if v is
// not an object.
func (v Value) Object() (members []Member, ok bool) {
	return v.object, v.kind == KindObject
}

// Get looks up a key on an object value. Returns the zero Value and false
// if v is not an object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.object {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// At returns the element at index i of an array value. Returns the zero
// Value and false if v is not an array or i is out of bounds.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.array) {
		return Value{}, false
	}
	return v.array[i], true
}

// Len returns the number of elements/members for array/object values, and
// 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.array)
	case KindObject:
		return len(v.object)
	default:
		return 0
	}
}

// GoString renders a debug representation; not a JSON encoder (writing
// JSON is out of scope for the core).
func (v Value) GoString() string {
	var b strings.Builder
	v.writeDebug(&b)
	return b.String()
}

func (v Value) writeDebug(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolean {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.integer, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.float, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.str))
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.array {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeDebug(b)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.object {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(m.Key))
			b.WriteString(": ")
			m.Value.writeDebug(b)
		}
		b.WriteByte('}')
	}
}
