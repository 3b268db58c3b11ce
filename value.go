package jsonstream

import "github.com/FunkyOz/jsonstream/internal/jsonvalue"

// Kind tags which variant a Value holds.
type Kind = jsonvalue.Kind

// Kind constants, re-exported so callers never need to import
// internal/jsonvalue directly.
const (
	KindNull    = jsonvalue.KindNull
	KindBool    = jsonvalue.KindBool
	KindInteger = jsonvalue.KindInteger
	KindFloat   = jsonvalue.KindFloat
	KindString  = jsonvalue.KindString
	KindArray   = jsonvalue.KindArray
	KindObject  = jsonvalue.KindObject
)

// Member is a single object entry, in insertion order.
type Member = jsonvalue.Member
