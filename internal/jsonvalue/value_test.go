package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarAccessors(t *testing.T) {
	n := Null()
	assert.True(t, n.IsNull())
	assert.Equal(t, KindNull, n.Kind())

	b := Bool(true)
	bv, ok := b.Bool()
	require.True(t, ok)
	assert.True(t, bv)

	i := Integer(42)
	iv, ok := i.Integer()
	require.True(t, ok)
	assert.Equal(t, int64(42), iv)
	fv, ok := i.Float()
	require.True(t, ok)
	assert.Equal(t, float64(42), fv)

	f := Float(3.5)
	_, ok = f.Integer()
	assert.False(t, ok)
	fv, ok = f.Float()
	require.True(t, ok)
	assert.Equal(t, 3.5, fv)

	s := String("hi")
	sv, ok := s.String()
	require.True(t, ok)
	assert.Equal(t, "hi", sv)
}

func TestArrayAccessors(t *testing.T) {
	arr := Array([]Value{Integer(1), Integer(2), Integer(3)})
	require.Equal(t, 3, arr.Len())

	elems, ok := arr.Array()
	require.True(t, ok)
	assert.Len(t, elems, 3)

	v, ok := arr.At(1)
	require.True(t, ok)
	iv, _ := v.Integer()
	assert.Equal(t, int64(2), iv)

	_, ok = arr.At(99)
	assert.False(t, ok)
}

func TestObjectLastWins(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Integer(1))
	obj.Set("b", Integer(2))
	obj.Set("a", Integer(99)) // duplicate key: last-wins, in place

	members, ok := obj.Object()
	require.True(t, ok)
	require.Len(t, members, 2, "duplicate key must update in place, not append")
	assert.Equal(t, "a", members[0].Key, "insertion order preserved")

	v, ok := obj.Get("a")
	require.True(t, ok)
	iv, _ := v.Integer()
	assert.Equal(t, int64(99), iv)
}

func TestGoString(t *testing.T) {
	obj := NewObject()
	obj.Set("n", Integer(1))
	obj.Set("s", String("x"))
	assert.Equal(t, `{"n": 1, "s": "x"}`, obj.GoString())

	arr := Array([]Value{Bool(true), Null()})
	assert.Equal(t, `[true, null]`, arr.GoString())
}
