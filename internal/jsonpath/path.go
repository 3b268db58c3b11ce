package jsonpath

import "golang.org/x/exp/slices"

// PathExpression is the compiled, immutable representation of a JSONPath
// string (spec.md §3 "PathExpression"). Capability flags are computed once
// at construction and never recomputed.
type PathExpression struct {
	OriginalText string
	Segments     []Segment

	HasRecursive          bool
	CanUseSimpleStreaming bool
	HasEarlyTermination   bool
	TerminationIndex      int
}

func newExpression(text string, segments []Segment) *PathExpression {
	pe := &PathExpression{OriginalText: text, Segments: segments}
	pe.analyze()
	return pe
}

func (pe *PathExpression) analyze() {
	wildcardCount := 0
	for _, s := range pe.Segments {
		if s.Recursive {
			pe.HasRecursive = true
		}
		if s.Kind == SegWildcard {
			wildcardCount++
		}
		switch s.Kind {
		case SegArrayIndex:
			if s.Index >= 0 {
				pe.HasEarlyTermination = true
				pe.TerminationIndex = s.Index
			}
		case SegArraySlice:
			if s.HasEnd && s.End > 0 {
				pe.HasEarlyTermination = true
				pe.TerminationIndex = s.End - 1
			}
		}
	}

	hasFilter := slices.ContainsFunc(pe.Segments, func(s Segment) bool {
		return s.Kind == SegFilter
	})
	hasNegative := slices.ContainsFunc(pe.Segments, func(s Segment) bool {
		switch s.Kind {
		case SegArrayIndex:
			return s.Index < 0
		case SegArraySlice:
			return (s.HasStart && s.Start < 0) || (s.HasEnd && s.End < 0)
		default:
			return false
		}
	})

	can := len(pe.Segments) >= 2 && !pe.HasRecursive && wildcardCount <= 1 && !hasFilter && !hasNegative
	if can {
		for i := 0; i < len(pe.Segments)-1; i++ {
			s := pe.Segments[i]
			next := pe.Segments[i+1]
			isArrayOp := s.Kind == SegWildcard || s.Kind == SegArrayIndex || s.Kind == SegArraySlice
			if isArrayOp && next.Kind == SegProperty {
				can = false
				break
			}
		}
	}
	pe.CanUseSimpleStreaming = can
}
