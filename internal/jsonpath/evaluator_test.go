package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
)

func TestEvaluatorPropertyMatch(t *testing.T) {
	expr, err := Parse("$.a.b")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterProperty("a")
	assert.False(t, ev.Matches())
	ev.EnterProperty("b")
	assert.True(t, ev.Matches())
	ev.ExitLevel()
	ev.ExitLevel()
	assert.False(t, ev.Matches())
}

func TestEvaluatorArrayIndexMatch(t *testing.T) {
	expr, err := Parse("$[2]")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterIndex(1, 5)
	assert.False(t, ev.Matches())
	ev.ExitLevel()

	ev.EnterIndex(2, 5)
	assert.True(t, ev.Matches())
	assert.True(t, ev.CanTerminateEarly())
}

func TestEvaluatorRecursiveAncestorSearch(t *testing.T) {
	// $..name should match "name" at any depth.
	expr, err := Parse("$..name")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterProperty("a")
	assert.False(t, ev.Matches())
	ev.EnterProperty("name")
	assert.True(t, ev.Matches())
}

func TestEvaluatorFilterNeedsValue(t *testing.T) {
	expr, err := Parse("$.items[?(@.p > 10)]")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterProperty("items")
	ev.EnterIndex(0, 3)
	assert.True(t, ev.NeedsValueForMatch())
	assert.False(t, ev.Matches(), "no value attached yet")

	item := jsonvalue.NewObject()
	item.Set("p", jsonvalue.Integer(15))
	ev.SetValue(item)
	assert.True(t, ev.Matches())
}

func TestEvaluatorMatchesStructureIgnoresFilterValue(t *testing.T) {
	expr, err := Parse("$.items[?(@.p > 10)]")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterProperty("items")
	ev.EnterIndex(0, 3)
	assert.True(t, ev.MatchesStructure(), "structural match ignores the predicate value")
}

func TestRemainingSegmentsAndWalk(t *testing.T) {
	expr, err := Parse("$.items[*].name")
	require.NoError(t, err)
	ev := NewEvaluator(expr)

	ev.EnterProperty("items")
	ev.EnterIndex(0, 1)
	remaining := ev.RemainingSegments()
	require.Len(t, remaining, 1)
	assert.Equal(t, SegProperty, remaining[0].Kind)
	assert.Equal(t, "name", remaining[0].Name)

	item := jsonvalue.NewObject()
	item.Set("name", jsonvalue.String("x"))
	out := WalkRemaining(item, remaining)
	s, ok := out.String()
	require.True(t, ok)
	assert.Equal(t, "x", s)
}
