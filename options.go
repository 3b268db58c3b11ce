package jsonstream

import (
	"log"

	"github.com/FunkyOz/jsonstream/internal/bytebuffer"
	"github.com/FunkyOz/jsonstream/internal/engine"
)

// config collects the enumerated options of spec.md §6. Defaults match
// §6 exactly (DEFAULT buffer 8192, max_depth 512).
type config struct {
	bufferSize int
	maxDepth   int
	path       string
	logger     *log.Logger
	sourcePath string
}

func defaultConfig() config {
	return config{
		bufferSize: bytebuffer.DefaultBufferSize,
		maxDepth:   engine.DefaultMaxDepth,
	}
}

// Option configures a Reader. Modeled on sneller's tenant.Manager
// functional-options family (Option func(*Manager) + WithX(...) Option).
type Option func(*config)

// WithBufferSize sets the byte-buffer chunk size. Values outside
// [bytebuffer.MinBufferSize, bytebuffer.MaxBufferSize] are rejected at
// NewReader time with an IoError, matching spec.md §6's stated bounds.
func WithBufferSize(size int) Option {
	return func(c *config) { c.bufferSize = size }
}

// WithMaxDepth sets the maximum container nesting depth. Values outside
// [engine.MinMaxDepth, engine.MaxMaxDepth] are rejected at NewReader time.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithPath attaches a JSONPath expression (spec.md §4.3) that filters which
// values the Reader yields. A malformed expression surfaces synchronously,
// at NewReader time, as a *PathError (spec.md §7) — compilation never
// happens lazily on the first Next call.
func WithPath(path string) Option {
	return func(c *config) { c.path = path }
}

// WithLogger attaches a diagnostic sink. When set, NewReader logs one line
// with the Reader's session id and the dispatch mode chosen; early
// termination and buffer growth are not logged. No logger is attached by
// default and nothing is written absent this option.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSourcePath tags I/O errors with a source location for diagnostics
// (spec.md §7's `" (file: <path>)"` suffix), for callers who opened the
// underlying io.Reader from a named file or URL. Purely cosmetic: it does
// not affect how bytes are read.
func WithSourcePath(path string) Option {
	return func(c *config) { c.sourcePath = path }
}
