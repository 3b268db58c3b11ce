package jsonpath

import "github.com/FunkyOz/jsonstream/internal/jsonvalue"

// StackEntry is one level of the Evaluator's path stack: a key or index
// plus the value at that level, if it has been materialized yet (spec.md §3
// "PathEvaluator", §9 "model as an explicit stack ... top-of-stack value may
// be absent").
type StackEntry struct {
	Key          string
	Index        int
	IsIndex      bool
	ContainerLen int // array length at this level; only meaningful when IsIndex

	HasValue bool
	Value    jsonvalue.Value
}

// Evaluator is the mutable cursor the Parser/Streaming Engine drives while
// descending into the document (spec.md §4.4). It is exclusively owned by
// one parser run (§5).
type Evaluator struct {
	expr  *PathExpression
	stack []StackEntry
}

// NewEvaluator builds an Evaluator over expr. expr must not be nil.
func NewEvaluator(expr *PathExpression) *Evaluator {
	return &Evaluator{expr: expr}
}

// EnterProperty pushes an object-member level onto the stack.
func (e *Evaluator) EnterProperty(key string) {
	e.stack = append(e.stack, StackEntry{Key: key})
}

// EnterIndex pushes an array-element level onto the stack. containerLen is
// the enclosing array's length, needed to resolve negative index/slice
// bounds in the buffered fallback; simple streaming never needs it since
// negative bounds there are already excluded by CanUseSimpleStreaming.
func (e *Evaluator) EnterIndex(index, containerLen int) {
	e.stack = append(e.stack, StackEntry{Index: index, IsIndex: true, ContainerLen: containerLen})
}

// SetValue attaches the now-materialized value to the top-of-stack level.
func (e *Evaluator) SetValue(v jsonvalue.Value) {
	if len(e.stack) == 0 {
		return
	}
	top := &e.stack[len(e.stack)-1]
	top.Value = v
	top.HasValue = true
}

// ExitLevel pops the top-of-stack level.
func (e *Evaluator) ExitLevel() {
	if len(e.stack) == 0 {
		return
	}
	e.stack = e.stack[:len(e.stack)-1]
}

// Reset clears the stack, e.g. before starting a fresh buffered-fallback walk.
func (e *Evaluator) Reset() {
	e.stack = e.stack[:0]
}

// Depth returns the current stack length.
func (e *Evaluator) Depth() int { return len(e.stack) }

// Matches reports whether the full segment list (including Filter segments,
// evaluated against materialized values) exactly aligns with the current
// stack, per the recursive-descent matching algorithm of spec.md §4.4.
func (e *Evaluator) Matches() bool {
	return e.match(1, 0, true)
}

// MatchesStructure is Matches without evaluating Filter predicates: a
// Filter segment is treated as structurally satisfied whenever its key is
// an integer index. Used to decide whether to descend into a subtree
// without first materializing it.
func (e *Evaluator) MatchesStructure() bool {
	return e.match(1, 0, false)
}

func (e *Evaluator) match(segIdx, stackIdx int, forMatching bool) bool {
	if segIdx == len(e.expr.Segments) {
		return stackIdx == len(e.stack)
	}
	if stackIdx == len(e.stack) {
		return false
	}

	seg := &e.expr.Segments[segIdx]
	entry := e.stack[stackIdx]

	if seg.Recursive {
		if segMatchesEntry(seg, entry, forMatching) && e.match(segIdx+1, stackIdx+1, forMatching) {
			return true
		}
		// ancestor search: current level didn't complete the match, try the
		// same segment again one level deeper.
		return e.match(segIdx, stackIdx+1, forMatching)
	}

	if !segMatchesEntry(seg, entry, forMatching) {
		return false
	}
	return e.match(segIdx+1, stackIdx+1, forMatching)
}

func segMatchesEntry(seg *Segment, entry StackEntry, forMatching bool) bool {
	switch seg.Kind {
	case SegProperty:
		return !entry.IsIndex && entry.Key == seg.Name
	case SegWildcard:
		return true
	case SegArrayIndex, SegArraySlice:
		return entry.IsIndex && seg.MatchesIndex(entry.Index, entry.ContainerLen)
	case SegFilter:
		if !entry.IsIndex {
			return false
		}
		if !forMatching {
			return true
		}
		if !entry.HasValue || seg.filter == nil {
			return false
		}
		return seg.filter.evaluate(entry.Value)
	default:
		return false
	}
}

// NeedsValueForMatch reports whether the segment expected at the level just
// entered is a Filter, which requires a materialized value to evaluate.
// Only meaningful along the simple-streaming path, where (since
// CanUseSimpleStreaming excludes recursive segments) stack depth aligns
// 1:1 with segment index.
func (e *Evaluator) NeedsValueForMatch() bool {
	seg, ok := e.expectedSegment()
	return ok && seg.Kind == SegFilter
}

// MatchesPrefix reports whether the level just entered satisfies its own
// governing segment, independent of whether the full expression has been
// satisfied yet. Simple streaming never backtracks across segments (that
// is exactly what CanUseSimpleStreaming's recursive-segment exclusion
// buys), so once a level fails its governing segment, no descendant of
// that level can ever complete the match — callers use this to skip a
// whole subtree instead of needlessly descending into it.
func (e *Evaluator) MatchesPrefix() bool {
	seg, ok := e.expectedSegment()
	if !ok || len(e.stack) == 0 {
		return false
	}
	return segMatchesEntry(seg, e.stack[len(e.stack)-1], false)
}

func (e *Evaluator) expectedSegment() (*Segment, bool) {
	idx := len(e.stack)
	if idx >= len(e.expr.Segments) {
		return nil, false
	}
	return &e.expr.Segments[idx], true
}

// CanTerminateEarly reports whether the engine may stop inspecting the
// remainder of the innermost array: the expression has a known termination
// index and the current top-of-stack index has reached it.
func (e *Evaluator) CanTerminateEarly() bool {
	if !e.expr.HasEarlyTermination || len(e.stack) == 0 {
		return false
	}
	top := e.stack[len(e.stack)-1]
	return top.IsIndex && top.Index >= e.expr.TerminationIndex
}

// RemainingSegments returns the Property/ArrayIndex segments after the one
// just matched, for the simple-streaming hand-off into a materialized
// value (spec.md §9 "Hand-off between streaming and walking"). Stops at the
// first Wildcard/Filter/ArraySlice segment.
func (e *Evaluator) RemainingSegments() []Segment {
	start := len(e.stack) + 1
	var out []Segment
	for i := start; i < len(e.expr.Segments); i++ {
		s := e.expr.Segments[i]
		if s.Kind == SegWildcard || s.Kind == SegFilter || s.Kind == SegArraySlice {
			break
		}
		out = append(out, s)
	}
	return out
}

// WalkRemaining descends value through segs (Property/ArrayIndex only),
// returning jsonvalue.Null() if any property is missing or any index is
// out of bounds.
func WalkRemaining(value jsonvalue.Value, segs []Segment) jsonvalue.Value {
	cur := value
	for _, s := range segs {
		switch s.Kind {
		case SegProperty:
			v, ok := cur.Get(s.Name)
			if !ok {
				return jsonvalue.Null()
			}
			cur = v
		case SegArrayIndex:
			idx := s.Index
			if idx < 0 {
				idx += cur.Len()
			}
			v, ok := cur.At(idx)
			if !ok {
				return jsonvalue.Null()
			}
			cur = v
		default:
			return jsonvalue.Null()
		}
	}
	return cur
}
