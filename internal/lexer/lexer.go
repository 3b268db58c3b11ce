package lexer

import (
	"strconv"
	"strings"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
)

// Lexer converts a byte buffer into a stream of Tokens. It holds no
// structural state of its own (spec.md §4.2): bracket/brace balance is
// tracked by whoever consumes the tokens.
//
// Byte-class dispatch is adapted from gojsonlex's JSONLexer state machine
// (lexer.go); position tagging, the number-overflow-to-float rule, and
// the strict surrogate-pair handling are new (see DESIGN.md).
type Lexer struct {
	buf *bytebuffer.Buffer

	hasPeeked bool
	peeked    Token
	peekedErr error
}

// New builds a Lexer over buf.
func New(buf *bytebuffer.Buffer) *Lexer {
	return &Lexer{buf: buf}
}

// Next consumes and returns the next token.
func (l *Lexer) Next() (Token, error) {
	if l.hasPeeked {
		l.hasPeeked = false
		return l.peeked, l.peekedErr
	}
	return l.lexToken()
}

// Peek returns the next token without consuming it, buffering it
// internally for the subsequent Next call.
func (l *Lexer) Peek() (Token, error) {
	if !l.hasPeeked {
		l.peeked, l.peekedErr = l.lexToken()
		l.hasPeeked = true
	}
	return l.peeked, l.peekedErr
}

func isWhitespace(c byte) bool {
	switch c {
	case 0x20, 0x09, 0x0A, 0x0D:
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) skipWhitespace() error {
	for {
		c, ok, err := l.buf.Peek(0)
		if err != nil {
			return err
		}
		if !ok || !isWhitespace(c) {
			return nil
		}
		if _, _, err := l.buf.ReadByte(); err != nil {
			return err
		}
	}
}

func (l *Lexer) pos() (line, col int) {
	return l.buf.Line() + 1, l.buf.Column() + 1
}

func (l *Lexer) lexToken() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return Token{}, err
	}

	line, col := l.pos()

	c, ok, err := l.buf.ReadByte()
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{Kind: EOF, Line: line, Column: col}, nil
	}

	switch {
	case c == '{':
		return Token{Kind: LBrace, Line: line, Column: col}, nil
	case c == '}':
		return Token{Kind: RBrace, Line: line, Column: col}, nil
	case c == '[':
		return Token{Kind: LBracket, Line: line, Column: col}, nil
	case c == ']':
		return Token{Kind: RBracket, Line: line, Column: col}, nil
	case c == ':':
		return Token{Kind: Colon, Line: line, Column: col}, nil
	case c == ',':
		return Token{Kind: Comma, Line: line, Column: col}, nil
	case c == '"':
		return l.lexString(line, col)
	case c == 't':
		return l.lexKeyword("true", True, line, col)
	case c == 'f':
		return l.lexKeyword("false", False, line, col)
	case c == 'n':
		return l.lexKeyword("null", Null, line, col)
	case c == '-' || isDigit(c):
		return l.lexNumber(c, line, col)
	default:
		return Token{}, newParseError(line, col, "unexpected character %q", rune(c))
	}
}

func (l *Lexer) lexKeyword(word string, kind Kind, line, col int) (Token, error) {
	for i := 1; i < len(word); i++ {
		c, ok, err := l.buf.ReadByte()
		if err != nil {
			return Token{}, err
		}
		if !ok || c != word[i] {
			return Token{}, newParseError(line, col, "invalid literal")
		}
	}
	return Token{Kind: kind, Line: line, Column: col}, nil
}

// lexNumber implements the RFC 8259 number grammar: optional '-', integer
// part (either "0" or a non-zero digit followed by digits), optional
// fraction, optional exponent. A value whose integer form overflows int64
// is emitted as a float rather than silently wrapped (spec.md §4.2).
func (l *Lexer) lexNumber(first byte, line, col int) (Token, error) {
	var sb strings.Builder
	sb.WriteByte(first)
	isFloat := false

	var firstDigit byte
	if first == '-' {
		c, ok, err := l.buf.Peek(0)
		if err != nil {
			return Token{}, err
		}
		if !ok || !isDigit(c) {
			return Token{}, newParseError(line, col, "invalid number")
		}
		if _, _, err := l.buf.ReadByte(); err != nil {
			return Token{}, err
		}
		sb.WriteByte(c)
		firstDigit = c
	} else {
		firstDigit = first
	}

	if firstDigit == '0' {
		if c, ok, err := l.buf.Peek(0); err != nil {
			return Token{}, err
		} else if ok && isDigit(c) {
			return Token{}, newParseError(line, col, "invalid number: leading zero")
		}
	} else {
		for {
			c, ok, err := l.buf.Peek(0)
			if err != nil {
				return Token{}, err
			}
			if !ok || !isDigit(c) {
				break
			}
			l.buf.ReadByte()
			sb.WriteByte(c)
		}
	}

	if c, ok, err := l.buf.Peek(0); err != nil {
		return Token{}, err
	} else if ok && c == '.' {
		isFloat = true
		l.buf.ReadByte()
		sb.WriteByte('.')

		c2, ok2, err2 := l.buf.Peek(0)
		if err2 != nil {
			return Token{}, err2
		}
		if !ok2 || !isDigit(c2) {
			return Token{}, newParseError(line, col, "invalid number: expected digit after decimal point")
		}
		for {
			c2, ok2, err2 := l.buf.Peek(0)
			if err2 != nil {
				return Token{}, err2
			}
			if !ok2 || !isDigit(c2) {
				break
			}
			l.buf.ReadByte()
			sb.WriteByte(c2)
		}
	}

	if c, ok, err := l.buf.Peek(0); err != nil {
		return Token{}, err
	} else if ok && (c == 'e' || c == 'E') {
		isFloat = true
		l.buf.ReadByte()
		sb.WriteByte(c)

		if c2, ok2, err2 := l.buf.Peek(0); err2 != nil {
			return Token{}, err2
		} else if ok2 && (c2 == '+' || c2 == '-') {
			l.buf.ReadByte()
			sb.WriteByte(c2)
		}

		c3, ok3, err3 := l.buf.Peek(0)
		if err3 != nil {
			return Token{}, err3
		}
		if !ok3 || !isDigit(c3) {
			return Token{}, newParseError(line, col, "invalid number: unterminated exponent")
		}
		for {
			c3, ok3, err3 := l.buf.Peek(0)
			if err3 != nil {
				return Token{}, err3
			}
			if !ok3 || !isDigit(c3) {
				break
			}
			l.buf.ReadByte()
			sb.WriteByte(c3)
		}
	}

	text := sb.String()
	tok := Token{Kind: Number, Line: line, Column: col}
	if !isFloat {
		if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
			tok.IsInt = true
			tok.IntVal = iv
			return tok, nil
		}
		// overflows int64: fall through to float conversion rather than wrap.
	}
	fv, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, newParseError(line, col, "invalid number")
	}
	tok.FloatVal = fv
	return tok, nil
}

func (l *Lexer) lexString(line, col int) (Token, error) {
	var sb strings.Builder
	for {
		c, ok, err := l.buf.ReadByte()
		if err != nil {
			return Token{}, err
		}
		if !ok {
			return Token{}, newParseError(line, col, "unterminated string")
		}
		switch {
		case c == '"':
			return Token{Kind: String, Str: sb.String(), Line: line, Column: col}, nil
		case c == '\\':
			if err := l.lexEscape(&sb, line, col); err != nil {
				return Token{}, err
			}
		case c < 0x20:
			return Token{}, newParseError(line, col, "unescaped control character")
		case c < 0x80:
			sb.WriteByte(c)
		default:
			if err := l.lexUTF8Continuation(&sb, c, line, col); err != nil {
				return Token{}, err
			}
		}
	}
}

func (l *Lexer) lexEscape(sb *strings.Builder, line, col int) error {
	c, ok, err := l.buf.ReadByte()
	if err != nil {
		return err
	}
	if !ok {
		return newParseError(line, col, "unterminated string")
	}
	switch c {
	case '"':
		sb.WriteByte('"')
	case '\\':
		sb.WriteByte('\\')
	case '/':
		sb.WriteByte('/')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := l.readUnicodeEscape(line, col)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	default:
		return newParseError(line, col, "invalid escape sequence")
	}
	return nil
}

// readUnicodeEscape reads a \uXXXX payload (the \u has already been
// consumed) and, per spec.md §4.2's chosen resolution of the surrogate
// open question, requires a high surrogate to be immediately followed by a
// matching low-surrogate escape, combining them per the RFC formula.
// Lone surrogates are rejected.
func (l *Lexer) readUnicodeEscape(line, col int) (rune, error) {
	v, err := l.read4Hex(line, col)
	if err != nil {
		return 0, err
	}

	if isHighSurrogate(v) {
		c1, ok, err := l.buf.ReadByte()
		if err != nil {
			return 0, err
		}
		if !ok || c1 != '\\' {
			return 0, newParseError(line, col, "invalid unicode escape")
		}
		c2, ok, err := l.buf.ReadByte()
		if err != nil {
			return 0, err
		}
		if !ok || c2 != 'u' {
			return 0, newParseError(line, col, "invalid unicode escape")
		}
		low, err := l.read4Hex(line, col)
		if err != nil {
			return 0, err
		}
		if !isLowSurrogate(low) {
			return 0, newParseError(line, col, "invalid unicode escape")
		}
		return combineSurrogates(v, low), nil
	}

	if isLowSurrogate(v) {
		return 0, newParseError(line, col, "invalid unicode escape")
	}

	return rune(v), nil
}

func (l *Lexer) read4Hex(line, col int) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		c, ok, err := l.buf.ReadByte()
		if err != nil {
			return 0, err
		}
		if !ok || !IsHexDigit(c) {
			return 0, newParseError(line, col, "invalid unicode escape")
		}
		v = v*16 + uint32(hexVal(c))
	}
	return v, nil
}

// lexUTF8Continuation collects a multi-byte UTF-8 sequence already begun by
// first, validating continuation-byte shape per gojsonlex's leading-ones
// counting approach (UTF16ToUTF8Bytes, token.go), generalized here to raw
// (non-escaped) UTF-8 rather than \u escapes.
func (l *Lexer) lexUTF8Continuation(sb *strings.Builder, first byte, line, col int) error {
	var n int
	switch {
	case first&0xE0 == 0xC0:
		n = 1
	case first&0xF0 == 0xE0:
		n = 2
	case first&0xF8 == 0xF0:
		n = 3
	default:
		return newParseError(line, col, "invalid utf-8")
	}
	sb.WriteByte(first)
	for i := 0; i < n; i++ {
		c, ok, err := l.buf.ReadByte()
		if err != nil {
			return err
		}
		if !ok || c&0xC0 != 0x80 {
			return newParseError(line, col, "invalid utf-8")
		}
		sb.WriteByte(c)
	}
	return nil
}
