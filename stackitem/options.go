package stackitem

import "go.uber.org/zap"

type options struct {
	logger   *zap.Logger
	pageSize int
	maxPages int
	maxDepth int
}

func defaultOptions() options {
	return options{
		logger:   Logger(),
		pageSize: DefaultPageSize,
		maxDepth: MaxDepth,
	}
}

// Option configures a Decoder or Pager.
type Option func(*options)

// WithPageSize sets the entries requested per iterator page. Values below 1
// are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithMaxPages stops a drain after n pages. Zero means no limit.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

// WithMaxDepth overrides the nesting limit.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
