package jsonpath

import "github.com/FunkyOz/jsonstream/internal/jsonvalue"

// pathStep is one level of ancestry recorded for a node queued by Filter,
// enough to rebuild the Evaluator's stack without re-walking from the root.
type pathStep struct {
	key          string
	index        int
	isIndex      bool
	containerLen int
	value        jsonvalue.Value
}

// Filter produces every value in root matching expr, by walking a fully-
// materialized tree (spec.md §4.6 "Path Filter"). It is the buffered
// fallback used whenever expr.CanUseSimpleStreaming is false.
//
// Deliberate divergence from §4.6's literal algorithm, which recurses into
// each child before moving to the next sibling (depth-first, branch by
// branch): §8 scenario 4 requires $..name over
// {"a":{"name":"x","b":{"name":"y"}},"name":"z"} to yield "z","x","y" —
// the shallower match ("name" at the root) ahead of the deeper ones inside
// "a", even though "a" sorts before "name" in the object's own key order.
// A branch-by-branch DFS would finish "a"'s whole subtree ("x", then "y")
// before ever reaching the top-level "name" ("z"), yielding "x","y","z"
// instead. Visiting level by level (breadth-first) is what produces
// shallower matches first, so Filter walks one level at a time rather than
// one branch at a time. See DESIGN.md.
func Filter(root jsonvalue.Value, expr *PathExpression) []jsonvalue.Value {
	ev := NewEvaluator(expr)
	ev.Reset()

	var results []jsonvalue.Value
	if ev.Matches() {
		results = append(results, root)
	}

	type queued struct {
		value jsonvalue.Value
		path  []pathStep
	}
	queue := []queued{{value: root}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		switch cur.value.Kind() {
		case jsonvalue.KindObject:
			members, _ := cur.value.Object()
			for _, m := range members {
				path := appendStep(cur.path, pathStep{key: m.Key, value: m.Value})
				if rebuildAndMatch(ev, path) {
					results = append(results, m.Value)
				}
				queue = append(queue, queued{value: m.Value, path: path})
			}
		case jsonvalue.KindArray:
			elems, _ := cur.value.Array()
			for i, e := range elems {
				path := appendStep(cur.path, pathStep{index: i, isIndex: true, containerLen: len(elems), value: e})
				if rebuildAndMatch(ev, path) {
					results = append(results, e)
				}
				queue = append(queue, queued{value: e, path: path})
			}
		}
	}

	return results
}

func appendStep(path []pathStep, s pathStep) []pathStep {
	out := make([]pathStep, len(path)+1)
	copy(out, path)
	out[len(path)] = s
	return out
}

// rebuildAndMatch replays path onto ev's stack from scratch and reports
// whether the resulting position matches expr. Paying O(depth) per queued
// node is acceptable here: Filter already holds the whole materialized
// tree in memory, so this adds no new memory-bound violation, only a
// constant-factor CPU cost over the single shared-stack DFS it replaces.
func rebuildAndMatch(ev *Evaluator, path []pathStep) bool {
	ev.Reset()
	for _, s := range path {
		if s.isIndex {
			ev.EnterIndex(s.index, s.containerLen)
		} else {
			ev.EnterProperty(s.key)
		}
		ev.SetValue(s.value)
	}
	return ev.Matches()
}
