package recorder

import "log/slog"

// options holds the configurable pieces shared by the recorders.
type options struct {
	indent   int
	sortKeys bool
	logger   *slog.Logger
	clock    Clock
	tokens   TokenSource
}

func defaultOptions() options {
	return options{
		indent:   4,
		sortKeys: true,
		logger:   slog.Default(),
		clock:    WallClock{},
		tokens:   UUIDSource{},
	}
}

// Option configures a recorder.
type Option func(*options)

// Resolved is the option set after defaults are applied, exposed for
// sibling recorder implementations that share these options.
type Resolved struct {
	Indent   int
	SortKeys bool
	Logger   *slog.Logger
	Clock    Clock
	Tokens   TokenSource
}

// CollectOptions applies opts over the defaults and returns the result.
func CollectOptions(opts ...Option) Resolved {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return Resolved{
		Indent:   o.indent,
		SortKeys: o.sortKeys,
		Logger:   o.logger,
		Clock:    o.clock,
		Tokens:   o.tokens,
	}
}

// WithIndent sets the spaces per nesting level for the text encoding.
// Zero produces single-line sections. Ignored by the binary recorder.
func WithIndent(n int) Option {
	return func(o *options) { o.indent = n }
}

// WithSortKeys controls lexical key ordering in the text encoding.
// Ignored by the binary recorder.
func WithSortKeys(sort bool) Option {
	return func(o *options) { o.sortKeys = sort }
}

// WithLogger sets the logger used for encode failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the timestamp source for case records.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithTokens sets the run and case token source.
func WithTokens(t TokenSource) Option {
	return func(o *options) { o.tokens = t }
}
