package jsonpath

import "fmt"

// PathError is the taxonomy kind for JSONPath syntax violations and
// unsupported-feature uses (spec.md §7). It carries the original path text
// and the byte offset of the failure, plus a short context snippet so a
// caller can diagnose the problem without re-parsing the string themselves.
type PathError struct {
	Message string
	Path    string
	Pos     int
	Context string
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (path: %s)", e.Message, e.Path)
}

// snippet returns a ±10-character window of text around pos, per spec.md
// §4.3's context-snippet requirement.
func snippet(text string, pos int) string {
	const radius = 10
	start := pos - radius
	if start < 0 {
		start = 0
	}
	end := pos + radius
	if end > len(text) {
		end = len(text)
	}
	if start > len(text) {
		start = len(text)
	}
	if start > end {
		start = end
	}
	return text[start:end]
}

func newPathError(path string, pos int, format string, args ...any) *PathError {
	return &PathError{
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Pos:     pos,
		Context: snippet(path, pos),
	}
}
