package cache

import "time"

type options struct {
	maxAge            time.Duration
	forceRefresh      bool
	allowStaleOnError bool
}

// Option tunes a single GetCached call.
type Option func(*options)

func WithMaxAge(d time.Duration) Option {
	return func(o *options) { o.maxAge = d }
}

func WithForceRefresh() Option {
	return func(o *options) { o.forceRefresh = true }
}

// WithoutStaleFallback makes fetch failures propagate even when an old
// entry exists.
func WithoutStaleFallback() Option {
	return func(o *options) { o.allowStaleOnError = false }
}

func resolveOptions(opts []Option) options {
	o := options{allowStaleOnError: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
