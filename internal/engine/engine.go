package engine

import (
	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/jsonpath"
	"github.com/FunkyOz/jsonstream/internal/jsonvalue"
	"github.com/FunkyOz/jsonstream/internal/lexer"
)

// Mode is the dispatch decision computed once per Engine from the
// compiled PathExpression (spec.md §2, §9 "Hybrid dispatch").
type Mode int

const (
	ModeUnfiltered Mode = iota
	ModeSimpleStreaming
	ModeBufferedFallback
)

func (m Mode) String() string {
	switch m {
	case ModeUnfiltered:
		return "unfiltered"
	case ModeSimpleStreaming:
		return "simple-streaming"
	case ModeBufferedFallback:
		return "buffered-fallback"
	default:
		return "unknown"
	}
}

// Engine drives one pull-based parse run over a token source, dispatching
// to one of the three modes in spec.md §2. It is a single-shot, one-owner
// sequence (spec.md §5): Next must be called from one goroutine at a time.
//
// The producing traversal (stream.go/fallback.go/unfiltered.go) is
// naturally expressed as recursive functions; turning a recursive producer
// into a pull sequence without native generators is idiomatically done in
// Go with one internal goroutine synchronized over an unbuffered channel —
// the handshake on every send means the producer is always blocked, never
// actually running concurrently with the consumer, which preserves the
// single-threaded cooperative model of spec.md §5 while giving true
// suspend-between-yields semantics (bounded, O(1) steady-state memory).
// The channel pattern itself is grounded in the corpus's own worker/queue
// idiom (sneller's tenant.Manager and tenant/dcache/worker.go).
type Engine struct {
	core core
	expr *jsonpath.PathExpression
	mode Mode

	ch      chan result
	stop    chan struct{}
	started bool
	closed  bool

	itemsEmitted int64
}

type result struct {
	value jsonvalue.Value
	err   error
}

// New builds an Engine over buf/lex with the given maxDepth (the Reader
// rejects values outside [MinMaxDepth, MaxMaxDepth] before reaching here;
// New itself does not check it). expr may be nil, selecting ModeUnfiltered.
func New(buf *bytebuffer.Buffer, lex *lexer.Lexer, maxDepth int, expr *jsonpath.PathExpression) *Engine {
	mode := ModeUnfiltered
	if expr != nil {
		if expr.CanUseSimpleStreaming {
			mode = ModeSimpleStreaming
		} else {
			mode = ModeBufferedFallback
		}
	}
	return &Engine{
		core: core{lex: lex, buf: buf, maxDepth: maxDepth},
		expr: expr,
		mode: mode,
		stop: make(chan struct{}),
	}
}

// Mode reports the dispatch decision made at construction time.
func (e *Engine) Mode() Mode { return e.mode }

// BytesRead reports the total bytes consumed from the byte source so far.
func (e *Engine) BytesRead() int64 { return e.core.buf.Position() }

// ItemsEmitted reports how many values Next has successfully returned.
func (e *Engine) ItemsEmitted() int64 { return e.itemsEmitted }

// Depth reports the current container nesting depth.
func (e *Engine) Depth() int { return e.core.depth }

// Next pulls the next matched value. ok is false once the sequence is
// exhausted (err is nil in that case); a non-nil err is a terminal failure
// per spec.md §7 and no further values will be produced.
func (e *Engine) Next() (jsonvalue.Value, error, bool) {
	if e.closed {
		return jsonvalue.Value{}, nil, false
	}
	if !e.started {
		e.started = true
		e.ch = make(chan result)
		go e.run()
	}

	r, ok := <-e.ch
	if !ok {
		return jsonvalue.Value{}, nil, false
	}
	if r.err != nil {
		e.Close()
		return jsonvalue.Value{}, r.err, false
	}
	e.itemsEmitted++
	return r.value, nil, true
}

// Close signals the producer to stop and releases it if it is blocked
// waiting to send a value the consumer will never request. Safe to call
// multiple times and after the sequence is already exhausted.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	close(e.stop)
}

func (e *Engine) run() {
	defer close(e.ch)

	send := func(v jsonvalue.Value) bool {
		select {
		case e.ch <- result{value: v}:
			return true
		case <-e.stop:
			return false
		}
	}

	var err error
	switch e.mode {
	case ModeSimpleStreaming:
		err = e.core.streamSimple(e.expr, send)
	case ModeBufferedFallback:
		err = e.core.streamBufferedFallback(e.expr, send)
	default:
		err = e.core.streamUnfiltered(send)
	}

	if err != nil && err != errStopped {
		select {
		case e.ch <- result{err: err}:
		case <-e.stop:
		}
	}
}
