package jsonstream

import (
	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/jsonpath"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

// IoError, ParseError and PathError are the three taxonomy kinds of
// spec.md §7, re-exported here as aliases to the concrete types the
// internal packages already define, so callers never need to import
// internal/* to use errors.As against them.
type (
	IoError    = bytebuffer.IoError
	ParseError = lexer.ParseError
	PathError  = jsonpath.PathError
)
