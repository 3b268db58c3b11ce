package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
)

// filterPredicate is the compiled form of a Filter segment's expression
// text: `@.dotted.property OP literal` or a bare `@.dotted.property`
// existence check (spec.md §4.3). Compiling once into this shape, rather
// than re-parsing the text per element, is the "filter predicate
// compilation" design obligation of spec.md §9.
type filterPredicate struct {
	propertyPath []string
	hasOp        bool
	op           string
	literal      jsonvalue.Value
}

var filterOperators = []string{"===", "!==", "==", "!=", "<=", ">=", "<", ">"}

func compileFilter(exprText string) (*filterPredicate, error) {
	s := strings.TrimSpace(exprText)
	if !strings.HasPrefix(s, "@.") {
		return nil, fmt.Errorf("filter must reference @.property: %q", exprText)
	}
	s = s[len("@."):]

	i := 0
	for i < len(s) && (isPropertyChar(s[i]) || s[i] == '.') {
		i++
	}
	propPath := s[:i]
	if propPath == "" {
		return nil, fmt.Errorf("empty filter property path in %q", exprText)
	}
	parts := strings.Split(propPath, ".")

	rest := strings.TrimSpace(s[i:])
	if rest == "" {
		return &filterPredicate{propertyPath: parts}, nil
	}

	op, remainder, err := scanOperator(rest)
	if err != nil {
		return nil, err
	}
	litText := strings.TrimSpace(remainder)
	if litText == "" {
		return nil, fmt.Errorf("missing literal after operator %q in %q", op, exprText)
	}
	literal, err := parseFilterLiteral(litText)
	if err != nil {
		return nil, err
	}
	return &filterPredicate{propertyPath: parts, hasOp: true, op: op, literal: literal}, nil
}

func scanOperator(s string) (op, remainder string, err error) {
	for _, o := range filterOperators {
		if strings.HasPrefix(s, o) {
			return o, s[len(o):], nil
		}
	}
	return "", "", fmt.Errorf("invalid filter operator in %q", s)
}

func parseFilterLiteral(text string) (jsonvalue.Value, error) {
	switch text {
	case "null":
		return jsonvalue.Null(), nil
	case "true":
		return jsonvalue.Bool(true), nil
	case "false":
		return jsonvalue.Bool(false), nil
	}
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0] {
		return jsonvalue.String(text[1 : len(text)-1]), nil
	}
	if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
		return jsonvalue.Integer(iv), nil
	}
	if fv, err := strconv.ParseFloat(text, 64); err == nil {
		return jsonvalue.Float(fv), nil
	}
	// bareword literal: treated as a plain string per spec.md §4.3.
	return jsonvalue.String(text), nil
}

// evaluate resolves the predicate's property path against value and applies
// the operator, or (for a bare existence check) tests for a non-null result.
func (f *filterPredicate) evaluate(value jsonvalue.Value) bool {
	cur := value
	for _, key := range f.propertyPath {
		v, ok := cur.Get(key)
		if !ok {
			return false
		}
		cur = v
	}
	if !f.hasOp {
		return !cur.IsNull()
	}
	return compareFilterValues(cur, f.op, f.literal)
}

func compareFilterValues(a jsonvalue.Value, op string, b jsonvalue.Value) bool {
	switch op {
	case "==", "===":
		return filterValuesEqual(a, b)
	case "!=", "!==":
		return !filterValuesEqual(a, b)
	case "<", "<=", ">", ">=":
		af, aok := a.Float()
		bf, bok := b.Float()
		if !aok || !bok {
			return false
		}
		switch op {
		case "<":
			return af < bf
		case "<=":
			return af <= bf
		case ">":
			return af > bf
		default:
			return af >= bf
		}
	default:
		return false
	}
}

func filterValuesEqual(a, b jsonvalue.Value) bool {
	if a.Kind() != b.Kind() {
		af, aok := a.Float()
		bf, bok := b.Float()
		return aok && bok && af == bf
	}
	switch a.Kind() {
	case jsonvalue.KindNull:
		return true
	case jsonvalue.KindBool:
		av, _ := a.Bool()
		bv, _ := b.Bool()
		return av == bv
	case jsonvalue.KindInteger:
		av, _ := a.Integer()
		bv, _ := b.Integer()
		return av == bv
	case jsonvalue.KindFloat:
		av, _ := a.Float()
		bv, _ := b.Float()
		return av == bv
	case jsonvalue.KindString:
		av, _ := a.String()
		bv, _ := b.String()
		return av == bv
	default:
		return false
	}
}
