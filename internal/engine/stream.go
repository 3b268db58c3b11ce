package engine

import (
	"github.com/FunkyOz/jsonstream/internal/jsonpath"
	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

// sender is called once per matched value. It returns false if the consumer
// has stopped pulling, in which case the caller must unwind without
// visiting further siblings.
type sender func(jsonvalue.Value) bool

// errStopped unwinds a streaming traversal when the consumer has stopped
// pulling (Engine.Close). It never reaches the consumer as a value.
var errStopped = stopSignal{}

type stopSignal struct{}

func (stopSignal) Error() string { return "jsonstream: consumer stopped" }

// streamSimple implements spec.md §4.5 "Simple streaming": it walks the
// structural skeleton looking for expr's target without materializing
// siblings, consulting ev at each descent.
func (c *core) streamSimple(expr *jsonpath.PathExpression, send sender) error {
	ev := jsonpath.NewEvaluator(expr)

	tok, err := c.lex.Peek()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case lexer.LBrace:
		c.lex.Next()
		if err := c.enterContainer(tok); err != nil {
			return err
		}
		defer c.exitContainer()
		return c.streamFromObject(ev, send)
	case lexer.LBracket:
		c.lex.Next()
		if err := c.enterContainer(tok); err != nil {
			return err
		}
		defer c.exitContainer()
		return c.streamFromArray(ev, send)
	default:
		// A root scalar can never satisfy a path with 2+ segments.
		return nil
	}
}

func yieldMatched(ev *jsonpath.Evaluator, v jsonvalue.Value, send sender) bool {
	ev.SetValue(v)
	out := v
	if remaining := ev.RemainingSegments(); len(remaining) > 0 {
		out = jsonpath.WalkRemaining(v, remaining)
	}
	return send(out)
}

// streamFromArray consumes array elements; '[' has already been consumed
// and the container entered.
func (c *core) streamFromArray(ev *jsonpath.Evaluator, send sender) error {
	peek, err := c.lex.Peek()
	if err != nil {
		return err
	}
	if peek.Kind == lexer.RBracket {
		c.lex.Next()
		return nil
	}

	idx := 0
	for {
		terminate, err := c.streamArrayElement(ev, idx, send)
		if err != nil {
			return err
		}
		if terminate {
			return nil // streamArrayElement already drained through ']'
		}
		idx++

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

// streamArrayElement implements spec.md §4.5's per-element array algorithm.
// terminate reports whether early termination drained the rest of the
// array (including its closing ']'), so the caller must stop looping.
func (c *core) streamArrayElement(ev *jsonpath.Evaluator, i int, send sender) (terminate bool, err error) {
	ev.EnterIndex(i, 0) // containerLen unused: simple streaming excludes negative indices

	switch {
	case ev.NeedsValueForMatch():
		v, perr := c.parseValue()
		if perr != nil {
			ev.ExitLevel()
			return false, perr
		}
		ev.SetValue(v)
		if ev.Matches() {
			if !yieldMatched(ev, v, send) {
				err = errStopped
			}
		}

	case ev.Matches():
		v, perr := c.parseValue()
		if perr != nil {
			ev.ExitLevel()
			return false, perr
		}
		if !yieldMatched(ev, v, send) {
			err = errStopped
		}

	default:
		if !ev.MatchesPrefix() {
			// This level already broke the chain of segments leading to a
			// match: no descendant of it can ever complete one (simple
			// streaming never backtracks across segments), so there is
			// nothing to gain from looking inside it.
			err = c.skipValue()
			break
		}
		peek, perr := c.lex.Peek()
		if perr != nil {
			ev.ExitLevel()
			return false, perr
		}
		switch peek.Kind {
		case lexer.LBrace:
			c.lex.Next()
			if cerr := c.enterContainer(peek); cerr != nil {
				ev.ExitLevel()
				return false, cerr
			}
			err = c.streamFromObject(ev, send)
			c.exitContainer()
		case lexer.LBracket:
			c.lex.Next()
			if cerr := c.enterContainer(peek); cerr != nil {
				ev.ExitLevel()
				return false, cerr
			}
			err = c.streamFromArray(ev, send)
			c.exitContainer()
		default:
			err = c.skipValue()
		}
	}

	if err != nil && err != errStopped {
		ev.ExitLevel()
		return false, err
	}

	term := ev.CanTerminateEarly()
	ev.ExitLevel()

	if err == errStopped {
		return true, errStopped
	}
	if term {
		tok, err := c.lex.Next()
		if err != nil || tok.Kind == lexer.RBracket {
			return true, err
		}
		if tok.Kind != lexer.Comma {
			return true, parseErrorAt(tok, "expected , or ] in array")
		}
		peek, err := c.lex.Peek()
		if err != nil {
			return true, err
		}
		if peek.Kind == lexer.RBracket {
			return true, parseErrorAt(peek, "trailing comma before ]")
		}
		return true, c.drainArrayTail()
	}
	return false, nil
}

// streamFromObject consumes object properties; '{' has already been
// consumed and the container entered.
func (c *core) streamFromObject(ev *jsonpath.Evaluator, send sender) error {
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

		if err := c.streamObjectProperty(ev, keyTok.Str, send); err != nil {
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

// streamObjectProperty implements spec.md §4.5's per-property object
// algorithm.
func (c *core) streamObjectProperty(ev *jsonpath.Evaluator, key string, send sender) error {
	ev.EnterProperty(key)

	if ev.Matches() {
		v, err := c.parseValue()
		if err != nil {
			ev.ExitLevel()
			return err
		}
		stopped := !yieldMatched(ev, v, send)
		ev.ExitLevel()
		if stopped {
			return errStopped
		}
		return nil
	}

	var innerErr error
	if !ev.MatchesPrefix() {
		// This property already broke the chain of segments leading to a
		// match; no property inside it can ever complete one, so skip the
		// whole value without even peeking at its shape.
		innerErr = c.skipValue()
		ev.ExitLevel()
		return innerErr
	}

	peek, err := c.lex.Peek()
	if err != nil {
		ev.ExitLevel()
		return err
	}

	switch peek.Kind {
	case lexer.LBrace:
		c.lex.Next()
		if cerr := c.enterContainer(peek); cerr != nil {
			ev.ExitLevel()
			return cerr
		}
		innerErr = c.streamFromObject(ev, send)
		c.exitContainer()
	case lexer.LBracket:
		c.lex.Next()
		if cerr := c.enterContainer(peek); cerr != nil {
			ev.ExitLevel()
			return cerr
		}
		innerErr = c.streamFromArray(ev, send)
		c.exitContainer()
	default:
		innerErr = c.skipValue()
	}

	ev.ExitLevel()
	return innerErr
}
