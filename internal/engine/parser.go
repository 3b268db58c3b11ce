// Package engine hosts the Parser/Streaming Engine of spec.md §4.5: the
// unfiltered recursive-descent parser, the depth-bounded skip_value used by
// every mode, and (in stream.go/fallback.go) the simple-streaming and
// buffered-fallback dispatch paths. gojsonlex never builds a Value tree —
// it only emits a flat token stream — so the recursive parse_value/
// parse_array/parse_object structure here is new, written in the teacher's
// terse per-token dispatch style; failures are reported as positioned
// lexer.ParseError values.
package engine

import (
	"fmt"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

// Depth bounds, spec.md §6.
const (
	MinMaxDepth     = 1
	MaxMaxDepth     = 4096
	DefaultMaxDepth = 512
)

// core holds the token source and depth bookkeeping shared by every parsing
// mode (unfiltered, simple-streaming, buffered-fallback). It corresponds to
// spec.md §3's "Parser State".
type core struct {
	lex      *lexer.Lexer
	buf      *bytebuffer.Buffer
	maxDepth int
	depth    int
}

func (c *core) enterContainer(open lexer.Token) error {
	c.depth++
	if c.depth > c.maxDepth {
		return lexer.NewParseError(open.Line, open.Column, "maximum nesting depth exceeded")
	}
	return nil
}

func (c *core) exitContainer() { c.depth-- }

func parseErrorAt(tok lexer.Token, format string, args ...any) error {
	return lexer.NewParseError(tok.Line, tok.Column, format, args...)
}

// parseValue consumes exactly one JSON value (spec.md §4.5 "Unfiltered
// parse"), fully materializing containers.
func (c *core) parseValue() (jsonvalue.Value, error) {
	tok, err := c.lex.Next()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	switch tok.Kind {
	case lexer.LBrace:
		return c.parseObjectBody(tok)
	case lexer.LBracket:
		return c.parseArrayBody(tok)
	case lexer.String:
		return jsonvalue.String(tok.Str), nil
	case lexer.Number:
		if tok.IsInt {
			return jsonvalue.Integer(tok.IntVal), nil
		}
		return jsonvalue.Float(tok.FloatVal), nil
	case lexer.True:
		return jsonvalue.Bool(true), nil
	case lexer.False:
		return jsonvalue.Bool(false), nil
	case lexer.Null:
		return jsonvalue.Null(), nil
	case lexer.EOF:
		return jsonvalue.Value{}, parseErrorAt(tok, "unexpected end of file")
	default:
		return jsonvalue.Value{}, parseErrorAt(tok, "unexpected token %s", tok.Kind)
	}
}

// parseArrayBody materializes an array; open ('[') has already been consumed.
func (c *core) parseArrayBody(open lexer.Token) (jsonvalue.Value, error) {
	if err := c.enterContainer(open); err != nil {
		return jsonvalue.Value{}, err
	}
	defer c.exitContainer()

	peek, err := c.lex.Peek()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if peek.Kind == lexer.RBracket {
		c.lex.Next()
		return jsonvalue.Array(nil), nil
	}

	var elems []jsonvalue.Value
	for {
		v, err := c.parseValue()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		elems = append(elems, v)

		tok, err := c.lex.Next()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		switch tok.Kind {
		case lexer.Comma:
			peek, err := c.lex.Peek()
			if err != nil {
				return jsonvalue.Value{}, err
			}
			if peek.Kind == lexer.RBracket {
				return jsonvalue.Value{}, parseErrorAt(peek, "trailing comma before ]")
			}
		case lexer.RBracket:
			return jsonvalue.Array(elems), nil
		case lexer.EOF:
			return jsonvalue.Value{}, parseErrorAt(tok, "unexpected end of file")
		default:
			return jsonvalue.Value{}, parseErrorAt(tok, "expected , or ] in array")
		}
	}
}

// parseObjectBody materializes an object; open ('{') has already been
// consumed.
func (c *core) parseObjectBody(open lexer.Token) (jsonvalue.Value, error) {
	if err := c.enterContainer(open); err != nil {
		return jsonvalue.Value{}, err
	}
	defer c.exitContainer()

	obj := jsonvalue.NewObject()

	peek, err := c.lex.Peek()
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if peek.Kind == lexer.RBrace {
		c.lex.Next()
		return obj, nil
	}

	for {
		keyTok, err := c.lex.Next()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		if keyTok.Kind == lexer.EOF {
			return jsonvalue.Value{}, parseErrorAt(keyTok, "unexpected end of file")
		}
		if keyTok.Kind != lexer.String {
			return jsonvalue.Value{}, parseErrorAt(keyTok, "object key must be a string")
		}

		colon, err := c.lex.Next()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		if colon.Kind != lexer.Colon {
			return jsonvalue.Value{}, parseErrorAt(colon, "expected : after object key")
		}

		v, err := c.parseValue()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		obj.Set(keyTok.Str, v)

		tok, err := c.lex.Next()
		if err != nil {
			return jsonvalue.Value{}, err
		}
		switch tok.Kind {
		case lexer.Comma:
			peek, err := c.lex.Peek()
			if err != nil {
				return jsonvalue.Value{}, err
			}
			if peek.Kind == lexer.RBrace {
				return jsonvalue.Value{}, parseErrorAt(peek, "trailing comma before }")
			}
		case lexer.RBrace:
			return obj, nil
		case lexer.EOF:
			return jsonvalue.Value{}, parseErrorAt(tok, "unexpected end of file")
		default:
			return jsonvalue.Value{}, parseErrorAt(tok, "expected , or } in object")
		}
	}
}

// skipValue recursively consumes one value's tokens without building a
// Value tree (spec.md §4.5 "skip_value"): used to drain array/object
// members the current mode has decided it will never yield.
func (c *core) skipValue() error {
	tok, err := c.lex.Next()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case lexer.LBrace:
		return c.skipObjectBody(tok)
	case lexer.LBracket:
		return c.skipArrayBody(tok)
	case lexer.String, lexer.Number, lexer.True, lexer.False, lexer.Null:
		return nil
	case lexer.EOF:
		return parseErrorAt(tok, "unexpected end of file")
	default:
		return fmt.Errorf("skip_value: %w", parseErrorAt(tok, "unexpected token %s", tok.Kind))
	}
}

func (c *core) skipArrayBody(open lexer.Token) error {
	if err := c.enterContainer(open); err != nil {
		return err
	}
	defer c.exitContainer()
	return c.drainArrayTail()
}

// drainArrayTail consumes array members (via skip_value) up to and
// including the closing ']'. It assumes the caller is positioned right
// after '[' (or right after the ',' that follows an already-processed
// element).
func (c *core) drainArrayTail() error {
	peek, err := c.lex.Peek()
	if err != nil {
		return err
	}
	if peek.Kind == lexer.RBracket {
		c.lex.Next()
		return nil
	}
	for {
		if err := c.skipValue(); err != nil {
			return err
		}
		tok, err := c.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.Comma:
			peek, err := c.lex.Peek()
			if err != nil {
				return err
			}
			if peek.Kind == lexer.RBracket {
				return parseErrorAt(peek, "trailing comma before ]")
			}
		case lexer.RBracket:
			return nil
		case lexer.EOF:
			return parseErrorAt(tok, "unexpected end of file")
		default:
			return parseErrorAt(tok, "expected , or ] in array")
		}
	}
}

func (c *core) skipObjectBody(open lexer.Token) error {
	if err := c.enterContainer(open); err != nil {
		return err
	}
	defer c.exitContainer()

	peek, err := c.lex.Peek()
	if err != nil {
		return err
	}
	if peek.Kind == lexer.RBrace {
		c.lex.Next()
		return nil
	}

	for {
		keyTok, err := c.lex.Next()
		if err != nil {
			return err
		}
		if keyTok.Kind != lexer.String {
			return parseErrorAt(keyTok, "object key must be a string")
		}
		colon, err := c.lex.Next()
		if err != nil {
			return err
		}
		if colon.Kind != lexer.Colon {
			return parseErrorAt(colon, "expected : after object key")
		}
		if err := c.skipValue(); err != nil {
			return err
		}

		tok, err := c.lex.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.Comma:
			peek, err := c.lex.Peek()
			if err != nil {
				return err
			}
			if peek.Kind == lexer.RBrace {
				return parseErrorAt(peek, "trailing comma before }")
			}
		case lexer.RBrace:
			return nil
		case lexer.EOF:
			return parseErrorAt(tok, "unexpected end of file")
		default:
			return parseErrorAt(tok, "expected , or } in object")
		}
	}
}
