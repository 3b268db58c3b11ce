package lexer

import (
	"io"
	"strings"
	"testing"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
)

func lexAll(t *testing.T, input string) ([]Token, error) {
	t.Helper()
	buf, err := bytebuffer.New(strings.NewReader(input), bytebuffer.MinBufferSize)
	if err != nil {
		t.Fatalf("bytebuffer.New: %v", err)
	}
	lx := New(buf)

	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return toks, err
		}
		if tok.Kind == EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func TestStructuralTokens(t *testing.T) {
	toks, err := lexAll(t, `{}[]:,`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{LBrace, RBrace, LBracket, RBracket, Colon, Comma}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\/b"`, "a/b"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"a\bb"`, "a\bb"},
		{`"a\fb"`, "a\fb"},
		{`"a\rb"`, "a\rb"},
		{`"A"`, "A"},
	}
	for _, c := range cases {
		toks, err := lexAll(t, c.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.input, err)
			continue
		}
		if len(toks) != 1 || toks[0].Kind != String {
			t.Fatalf("%s: expected single string token, got %+v", c.input, toks)
		}
		if toks[0].Str != c.want {
			t.Errorf("%s: got %q, want %q", c.input, toks[0].Str, c.want)
		}
	}
}

func TestSurrogatePair(t *testing.T) {
	toks, err := lexAll(t, "\"\\uD834\\uDD1E\"")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Str != "\U0001D11E" {
		t.Errorf("got %q, want U+1D11E", toks[0].Str)
	}
}

func TestLoneSurrogateRejected(t *testing.T) {
	for _, input := range []string{`"\uD834"`, `"\uDD1E"`} {
		_, err := lexAll(t, input)
		if err == nil {
			t.Errorf("%s: expected error, got none", input)
		}
	}
}

func TestControlCharacterRejected(t *testing.T) {
	_, err := lexAll(t, "\"a\x01b\"")
	if err == nil {
		t.Fatal("expected error for unescaped control character")
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := lexAll(t, `"abc`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		input  string
		isInt  bool
		intV   int64
		floatV float64
	}{
		{"0", true, 0, 0},
		{"123", true, 123, 0},
		{"-123", true, -123, 0},
		{"0.5", false, 0, 0.5},
		{"-0.5", false, 0, -0.5},
		{"1e10", false, 0, 1e10},
		{"1E+10", false, 0, 1e10},
		{"1.5e-3", false, 0, 1.5e-3},
		{"9223372036854775808", false, 0, 9223372036854775808}, // overflows int64
	}
	for _, c := range cases {
		toks, err := lexAll(t, c.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.input, err)
			continue
		}
		if len(toks) != 1 || toks[0].Kind != Number {
			t.Fatalf("%s: expected single number token, got %+v", c.input, toks)
		}
		tok := toks[0]
		if tok.IsInt != c.isInt {
			t.Errorf("%s: IsInt = %v, want %v", c.input, tok.IsInt, c.isInt)
			continue
		}
		if c.isInt && tok.IntVal != c.intV {
			t.Errorf("%s: IntVal = %d, want %d", c.input, tok.IntVal, c.intV)
		}
		if !c.isInt && tok.FloatVal != c.floatV {
			t.Errorf("%s: FloatVal = %v, want %v", c.input, tok.FloatVal, c.floatV)
		}
	}
}

func TestInvalidNumbers(t *testing.T) {
	for _, input := range []string{"01", "+1", "1.", ".1", "1e", "1e+"} {
		_, err := lexAll(t, input)
		if err == nil {
			t.Errorf("%s: expected error, got none", input)
		}
	}
}

func TestKeywords(t *testing.T) {
	toks, err := lexAll(t, "true false null")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{True, False, Null}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestInvalidKeyword(t *testing.T) {
	_, err := lexAll(t, "tru")
	if err == nil {
		t.Fatal("expected error for partial keyword")
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := lexAll(t, "@")
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
}

func TestPositionTracking(t *testing.T) {
	// index (0-based): [ 1 ,   2 , , 3 ]
	//                   0 1 2 3 4 5 6 7 8 9
	toks, err := lexAll(t, "[1, 2,, 3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// tokens: '[','1',',','2',',',',','3',']' -> second comma is index 5
	secondComma := toks[5]
	if secondComma.Kind != Comma {
		t.Fatalf("expected comma token, got %v", secondComma.Kind)
	}
	if secondComma.Line != 1 || secondComma.Column != 7 {
		t.Errorf("got line %d column %d, want line 1 column 7", secondComma.Line, secondComma.Column)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	buf, err := bytebuffer.New(strings.NewReader("1 2"), bytebuffer.MinBufferSize)
	if err != nil {
		t.Fatal(err)
	}
	lx := New(buf)

	p1, err := lx.Peek()
	if err != nil {
		t.Fatal(err)
	}
	p2, err := lx.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if p1.IntVal != p2.IntVal || p1.Kind != p2.Kind {
		t.Fatalf("successive Peek calls disagreed: %+v vs %+v", p1, p2)
	}

	n1, err := lx.Next()
	if err != nil {
		t.Fatal(err)
	}
	if n1.IntVal != 1 {
		t.Fatalf("Next after Peek got %v, want 1", n1.IntVal)
	}

	n2, err := lx.Next()
	if err != nil {
		t.Fatal(err)
	}
	if n2.IntVal != 2 {
		t.Fatalf("Next got %v, want 2", n2.IntVal)
	}
}

func TestUTF8InString(t *testing.T) {
	toks, err := lexAll(t, `"héllo 世界"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Str != "héllo 世界" {
		t.Errorf("got %q", toks[0].Str)
	}
}

func TestEOFIsRepeatable(t *testing.T) {
	buf, err := bytebuffer.New(strings.NewReader(""), bytebuffer.MinBufferSize)
	if err != nil {
		t.Fatal(err)
	}
	lx := New(buf)
	for i := 0; i < 3; i++ {
		tok, err := lx.Next()
		if err != nil && err != io.EOF {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind != EOF {
			t.Fatalf("expected EOF token, got %v", tok.Kind)
		}
	}
}
