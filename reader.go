// Package jsonstream provides a pull-based, streaming JSON reader with
// optional JSONPath filtering (spec.md §1). A Reader consumes a byte
// source lazily: values are parsed and yielded one at a time, and — when a
// path targets a specific array or set of properties — sibling elements
// the path can never match are skipped without being materialized
// (spec.md §4.5).
//
// Reuses gojsonlex's byte-class lexing approach under the hood
// (see TEACHER.txt / DESIGN.md) behind a small, idiomatic Go façade:
// NewReader(io.Reader, ...Option) (*Reader, error), (*Reader).Next() (Value, error).
package jsonstream

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/engine"
	"github.com/FunkyOz/jsonstream/internal/jsonpath"
	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

// Value is the polymorphic JSON datum a Reader yields (spec.md §3).
type Value = jsonvalue.Value

// ErrDone is returned by Next once the sequence is exhausted: there is no
// more input and no error occurred. It is returned bare, never wrapped, so
// errors.Is and == both recognize it.
var ErrDone = errors.New("jsonstream: no more values")

// Reader is a one-shot pull sequence over a byte source (spec.md §5):
// re-iterating a completed Reader is undefined unless the source is
// seekable and Reset is called. Not safe for concurrent use — one Reader
// per goroutine, matching the engine's single-owner model.
type Reader struct {
	id       string
	buf      *bytebuffer.Buffer
	eng      *engine.Engine
	logger   *log.Logger
	source   string
	done     bool
	maxDepth int
	expr     *jsonpath.PathExpression
}

// NewReader builds a Reader over src. Returns an *IoError if the buffer
// size is out of range, an *IoError if src is nil, or a *PathError if
// WithPath's expression fails to compile (surfaced synchronously, before
// any byte is read, per spec.md §7).
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxDepth < engine.MinMaxDepth || cfg.maxDepth > engine.MaxMaxDepth {
		return nil, &bytebuffer.IoError{
			Message: fmt.Sprintf("invalid max depth %d: must be between %d and %d",
				cfg.maxDepth, engine.MinMaxDepth, engine.MaxMaxDepth),
			Path: cfg.sourcePath,
		}
	}

	buf, err := bytebuffer.New(src, cfg.bufferSize)
	if err != nil {
		if ioErr, ok := err.(*bytebuffer.IoError); ok && cfg.sourcePath != "" {
			ioErr.Path = cfg.sourcePath
		}
		return nil, err
	}

	var expr *jsonpath.PathExpression
	if cfg.path != "" {
		expr, err = jsonpath.Parse(cfg.path)
		if err != nil {
			return nil, err
		}
	}

	lex := lexer.New(buf)
	eng := engine.New(buf, lex, cfg.maxDepth, expr)

	r := &Reader{
		id:       uuid.NewString(),
		buf:      buf,
		eng:      eng,
		logger:   cfg.logger,
		source:   cfg.sourcePath,
		maxDepth: cfg.maxDepth,
		expr:     expr,
	}
	r.logf("session %s: dispatch mode=%s path=%q", r.id, eng.Mode(), cfg.path)
	return r, nil
}

func (r *Reader) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

// Next pulls the next value matching the configured path (or every
// top-level element/property if no path was given). It returns ErrDone
// once the sequence is exhausted, or a non-nil *ParseError/*IoError/
// *PathError on the first unrecoverable failure — values returned by
// earlier Next calls remain valid (spec.md §7).
func (r *Reader) Next() (Value, error) {
	if r.done {
		return jsonvalue.Value{}, ErrDone
	}

	v, err, ok := r.eng.Next()
	if err != nil {
		r.done = true
		if ioErr, isIo := err.(*bytebuffer.IoError); isIo && r.source != "" && ioErr.Path == "" {
			ioErr.Path = r.source
		}
		return jsonvalue.Value{}, err
	}
	if !ok {
		r.done = true
		return jsonvalue.Value{}, ErrDone
	}
	return v, nil
}

// Close releases the Reader's internal goroutine if the consumer stops
// pulling before the sequence is exhausted (spec.md §5 "Cancellation").
// Partial consumption followed by Close is always safe; Close is
// idempotent.
func (r *Reader) Close() error {
	r.eng.Close()
	r.done = true
	return nil
}

// Reset rewinds the Reader to the start of a seekable byte source and
// begins a fresh parse run, per spec.md §5's one-shot sequence model and
// §9's chosen resolution for non-seekable sources (a deliberate no-op —
// the byte source's position, and therefore the values Next would yield
// next, is unchanged).
func (r *Reader) Reset() error {
	if err := r.buf.Reset(); err != nil {
		return err
	}
	if !r.buf.Seekable() {
		return nil
	}
	r.done = false
	r.eng = engine.New(r.buf, lexer.New(r.buf), r.maxDepth, r.expr)
	return nil
}

// BytesRead reports total bytes consumed from the byte source so far
// (spec.md §6 "Auxiliary observability").
func (r *Reader) BytesRead() int64 { return r.eng.BytesRead() }

// ItemsEmitted reports how many values Next has returned so far.
func (r *Reader) ItemsEmitted() int64 { return r.eng.ItemsEmitted() }

// Depth reports the current container nesting depth.
func (r *Reader) Depth() int { return r.eng.Depth() }
