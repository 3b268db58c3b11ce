package jsonpath

import "strconv"

// parser scans a JSONPath string (spec.md §4.3 grammar) into a slice of
// Segments. It is a small hand-rolled recursive-descent scanner over the
// path text, in the same terse byte-at-a-time style as the lexer package.
type parser struct {
	text string
	pos  int
}

// Parse compiles text into a PathExpression. Filter predicates are compiled
// eagerly here too, so any malformed filter surfaces as a PathError at
// construction time (spec.md §7), not on first evaluation.
func Parse(text string) (*PathExpression, error) {
	if text == "" {
		return nil, newPathError(text, 0, "empty path")
	}
	if text[0] != '$' {
		return nil, newPathError(text, 0, "must start with $")
	}

	p := &parser{text: text, pos: 1}
	segments := []Segment{{Kind: SegRoot}}

	for p.pos < len(p.text) {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return newExpression(text, segments), nil
}

func isPropertyChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

func (p *parser) errf(format string, args ...any) error {
	return newPathError(p.text, p.pos, format, args...)
}

func (p *parser) parseSegment() (Segment, error) {
	switch p.text[p.pos] {
	case '.':
		return p.parseDotSegment()
	case '[':
		return p.parseBracketSegment()
	default:
		return Segment{}, p.errf("unexpected character %q in path", p.text[p.pos])
	}
}

func (p *parser) parseDotSegment() (Segment, error) {
	p.pos++ // consume leading '.'
	recursive := false
	if p.pos < len(p.text) && p.text[p.pos] == '.' {
		p.pos++
		recursive = true
	}
	if p.pos < len(p.text) && p.text[p.pos] == '*' {
		p.pos++
		return Segment{Kind: SegWildcard, Recursive: recursive}, nil
	}
	name, err := p.parseProperty()
	if err != nil {
		return Segment{}, err
	}
	return Segment{Kind: SegProperty, Name: name, Recursive: recursive}, nil
}

func (p *parser) parseProperty() (string, error) {
	start := p.pos
	for p.pos < len(p.text) && isPropertyChar(p.text[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errf("empty property name")
	}
	return p.text[start:p.pos], nil
}

func (p *parser) parseBracketSegment() (Segment, error) {
	p.pos++ // consume '['
	if p.pos >= len(p.text) {
		return Segment{}, p.errf("unclosed bracket")
	}

	var seg Segment
	var err error
	switch p.text[p.pos] {
	case '*':
		p.pos++
		seg = Segment{Kind: SegWildcard}
	case '\'', '"':
		seg, err = p.parseQuotedKey()
	case '?':
		seg, err = p.parseFilter()
	default:
		seg, err = p.parseIndexOrSlice()
	}
	if err != nil {
		return Segment{}, err
	}

	if p.pos >= len(p.text) || p.text[p.pos] != ']' {
		return Segment{}, p.errf("unclosed bracket")
	}
	p.pos++ // consume ']'
	return seg, nil
}

func (p *parser) parseQuotedKey() (Segment, error) {
	quote := p.text[p.pos]
	p.pos++
	start := p.pos
	for p.pos < len(p.text) && p.text[p.pos] != quote {
		p.pos++
	}
	if p.pos >= len(p.text) {
		return Segment{}, p.errf("unterminated string in path")
	}
	key := p.text[start:p.pos]
	p.pos++ // consume closing quote
	return Segment{Kind: SegProperty, Name: key}, nil
}

func (p *parser) parseFilter() (Segment, error) {
	start := p.pos
	p.pos++ // consume '?'
	if p.pos >= len(p.text) || p.text[p.pos] != '(' {
		return Segment{}, p.errf("expected ( after ? in filter")
	}
	p.pos++ // consume '('
	exprStart := p.pos
	depth := 1
	for p.pos < len(p.text) && depth > 0 {
		switch p.text[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				goto closed
			}
		}
		p.pos++
	}
closed:
	if depth != 0 {
		return Segment{}, newPathError(p.text, start, "unclosed filter parentheses")
	}
	exprText := p.text[exprStart:p.pos]
	p.pos++ // consume ')'

	pred, err := compileFilter(exprText)
	if err != nil {
		return Segment{}, newPathError(p.text, exprStart, "%s", err.Error())
	}
	return Segment{Kind: SegFilter, ExprText: exprText, filter: pred}, nil
}

// parseOptionalInt parses an optional signed integer at the current
// position. has is false (and pos unchanged) if no digits were present.
func (p *parser) parseOptionalInt() (has bool, val int, err error) {
	start := p.pos
	neg := false
	if p.pos < len(p.text) && p.text[p.pos] == '-' {
		neg = true
		p.pos++
	}
	digitsStart := p.pos
	for p.pos < len(p.text) && p.text[p.pos] >= '0' && p.text[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digitsStart {
		if neg {
			return false, 0, p.errf("invalid integer in path")
		}
		p.pos = start
		return false, 0, nil
	}
	v, convErr := strconv.Atoi(p.text[digitsStart:p.pos])
	if convErr != nil {
		return false, 0, p.errf("invalid integer in path")
	}
	if neg {
		v = -v
	}
	return true, v, nil
}

func (p *parser) parseIndexOrSlice() (Segment, error) {
	hasFirst, first, err := p.parseOptionalInt()
	if err != nil {
		return Segment{}, err
	}

	if p.pos >= len(p.text) || p.text[p.pos] != ':' {
		if !hasFirst {
			return Segment{}, p.errf("expected index or slice")
		}
		return Segment{Kind: SegArrayIndex, Index: first}, nil
	}

	p.pos++ // consume first ':'
	hasEnd, end, err := p.parseOptionalInt()
	if err != nil {
		return Segment{}, err
	}

	step := 1
	if p.pos < len(p.text) && p.text[p.pos] == ':' {
		p.pos++ // consume second ':'
		hasStep, stepVal, err := p.parseOptionalInt()
		if err != nil {
			return Segment{}, err
		}
		if hasStep {
			if stepVal < 1 {
				return Segment{}, p.errf("slice step must be >= 1")
			}
			step = stepVal
		}
	}

	return Segment{
		Kind:     SegArraySlice,
		HasStart: hasFirst,
		Start:    first,
		HasEnd:   hasEnd,
		End:      end,
		Step:     step,
	}, nil
}
