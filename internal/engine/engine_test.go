package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/jsonpath"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

func newEngine(t *testing.T, text string, maxDepth int, exprText string) *Engine {
	t.Helper()
	buf, err := bytebuffer.New(strings.NewReader(text), bytebuffer.DefaultBufferSize)
	require.NoError(t, err)
	lex := lexer.New(buf)

	var expr *jsonpath.PathExpression
	if exprText != "" {
		expr, err = jsonpath.Parse(exprText)
		require.NoError(t, err)
	}
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	return New(buf, lex, maxDepth, expr)
}

func drain(t *testing.T, e *Engine) ([]string, error) {
	t.Helper()
	var out []string
	for {
		v, err, ok := e.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v.GoString())
	}
}

func TestUnfilteredArrayYieldsElements(t *testing.T) {
	e := newEngine(t, `[1, "two", true, null]`, 0, "")
	require.Equal(t, ModeUnfiltered, e.Mode())
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"1", `"two"`, "true", "null"}, out)
}

func TestUnfilteredObjectYieldsPropertyValues(t *testing.T) {
	e := newEngine(t, `{"a": 1, "b": [2, 3]}`, 0, "")
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "[2, 3]"}, out)
}

func TestUnfilteredScalarRootYieldsOnce(t *testing.T) {
	e := newEngine(t, `42`, 0, "")
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"42"}, out)
}

func TestSimpleStreamingDotPath(t *testing.T) {
	// $.items[*] is a genuinely simple-streamable path: a single array-op
	// segment with nothing after it.
	e := newEngine(t, `{"items": [{"id": 1}, {"id": 2}, {"id": 3}]}`, 0, "$.items[*]")
	require.Equal(t, ModeSimpleStreaming, e.Mode())
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{`{"id": 1}`, `{"id": 2}`, `{"id": 3}`}, out)
}

func TestBufferedFallbackWildcardFollowedByProperty(t *testing.T) {
	// $.items[*].id has an array-op (Wildcard) immediately followed by a
	// Property segment, which spec.md §4.3 excludes from simple streaming.
	e := newEngine(t, `{"items": [{"id": 1}, {"id": 2}, {"id": 3}]}`, 0, "$.items[*].id")
	require.Equal(t, ModeBufferedFallback, e.Mode())
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3"}, out)
}

func TestSimpleStreamingYieldsMatchBeforeMalformedTail(t *testing.T) {
	// $.items[1] yields 20 before the malformed element at index 2 is
	// reached. Early termination drains the tail with skip_value, which still
	// tokenizes it, so the malformed element then surfaces as a ParseError.
	text := `{"items": [10, 20, {this is not valid json}]}`
	e := newEngine(t, text, 0, "$.items[1]")
	out, err := drain(t, e)
	require.Equal(t, []string{"20"}, out)
	var perr *lexer.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestSimpleStreamingSkipsNonMatchingSiblingsWithoutMaterializing(t *testing.T) {
	e := newEngine(t, `{"keep": {"a": 1}, "skip": {"a": 2}, "also_keep": {"a": 3}}`, 0, "$.keep.a")
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, out)
}

func TestSimpleStreamingSliceWithStep(t *testing.T) {
	e := newEngine(t, `[0,1,2,3,4,5,6,7,8,9]`, 0, "$[1:8:2]")
	require.Equal(t, ModeSimpleStreaming, e.Mode())
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3", "5", "7"}, out)
}

func TestBufferedFallbackRecursiveDescent(t *testing.T) {
	e := newEngine(t, `{"a": {"name": "x", "b": {"name": "y"}}, "name": "z"}`, 0, "$..name")
	require.Equal(t, ModeBufferedFallback, e.Mode())
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{`"z"`, `"x"`, `"y"`}, out)
}

func TestBufferedFallbackFilterPredicate(t *testing.T) {
	e := newEngine(t, `{"items": [{"p": 5}, {"p": 15}, {"p": 25}]}`, 0, `$.items[?(@.p > 10)]`)
	out, err := drain(t, e)
	require.NoError(t, err)
	require.Equal(t, []string{`{"p": 15}`, `{"p": 25}`}, out)
}

func TestMaxDepthExceeded(t *testing.T) {
	e := newEngine(t, `[[[[1]]]]`, 2, "")
	_, err := drain(t, e)
	require.Error(t, err)
	var perr *lexer.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestDoubleCommaIsParseError(t *testing.T) {
	e := newEngine(t, `[1, 2,, 3]`, 0, "")
	_, err := drain(t, e)
	require.Error(t, err)
	var perr *lexer.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestCloseStopsProducerEarly(t *testing.T) {
	e := newEngine(t, `[1, 2, 3, 4, 5]`, 0, "")
	v, err, ok := e.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v.GoString())

	e.Close()
	_, _, ok = e.Next()
	require.False(t, ok)
}

func TestBytesReadAdvances(t *testing.T) {
	e := newEngine(t, `[1, 2, 3]`, 0, "")
	require.EqualValues(t, 0, e.BytesRead())
	_, err, ok := e.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, e.BytesRead(), int64(0))
}

func TestItemsEmittedCounts(t *testing.T) {
	e := newEngine(t, `[1, 2, 3]`, 0, "")
	_, err := drain(t, e)
	require.NoError(t, err)
	require.EqualValues(t, 3, e.ItemsEmitted())
}
