package engine

import "github.com/FunkyOz/jsonstream/internal/jsonpath"

// streamBufferedFallback implements spec.md §4.5/§4.6: materialize the
// whole root value via the unfiltered parser, then hand it to the Path
// Filter. Used whenever expr.CanUseSimpleStreaming is false (recursive
// descent, property-after-wildcard, multiple wildcards, filter predicates,
// negative indices).
func (c *core) streamBufferedFallback(expr *jsonpath.PathExpression, send sender) error {
	root, err := c.parseValue()
	if err != nil {
		return err
	}
	for _, v := range jsonpath.Filter(root, expr) {
		if !send(v) {
			return errStopped
		}
	}
	return nil
}
