package router

import (
	"log/slog"

	"github.com/getmockd/reqmatch/internal/storage"
)

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(store storage.ExpectationStore) Option {
	return func(r *Router) {
		if store != nil {
			r.store = store
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithNearMissLimit sets how many near misses a miss reports. Zero or a
// negative value disables near-miss analysis.
func WithNearMissLimit(n int) Option {
	return func(r *Router) {
		r.nearMissLimit = n
	}
}

// WithMaxBodySize caps the request body read by Handler.
func WithMaxBodySize(n int64) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxBodySize = n
		}
	}
}
