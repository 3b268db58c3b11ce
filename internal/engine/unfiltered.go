package engine

import "github.com/FunkyOz/jsonstream/internal/lexer"

// streamUnfiltered implements the no-path default: when the root is a
// container, yield its direct members one at a time using parse_array's/
// parse_object's lazy-sequence form (spec.md §4.5) rather than fully
// materializing siblings; a root scalar yields itself once.
func (c *core) streamUnfiltered(send sender) error {
	tok, err := c.lex.Peek()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case lexer.LBracket:
		c.lex.Next()
		if err := c.enterContainer(tok); err != nil {
			return err
		}
		defer c.exitContainer()
		return c.streamArrayMembers(send)

	case lexer.LBrace:
		c.lex.Next()
		if err := c.enterContainer(tok); err != nil {
			return err
		}
		defer c.exitContainer()
		return c.streamObjectMembers(send)

	case lexer.EOF:
		return nil

	default:
		v, err := c.parseValue()
		if err != nil {
			return err
		}
		if !send(v) {
			return errStopped
		}
		return nil
	}
}

// streamArrayMembers yields each element of the array whose '[' has
// already been consumed.
func (c *core) streamArrayMembers(send sender) error {
	peek, err := c.lex.Peek()
	if err != nil {
		return err
	}
	if peek.Kind == lexer.RBracket {
		c.lex.Next()
		return nil
	}
	for {
		v, err := c.parseValue()
		if err != nil {
			return err
		}
		if !send(v) {
			return errStopped
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

// streamObjectMembers yields each property's value of the object whose '{'
// has already been consumed.
func (c *core) streamObjectMembers(send sender) error {
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

		v, err := c.parseValue()
		if err != nil {
			return err
		}
		if !send(v) {
			return errStopped
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
