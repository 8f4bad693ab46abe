package vipscale

import "go.uber.org/zap"

// Option Resizer option
type Option func(r *Resizer)

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resizer) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithDebug with debug option
func WithDebug(debug bool) Option {
	return func(r *Resizer) {
		r.Debug = debug
	}
}

// WithConcurrency with resize concurrency bound option. Set 0 for no limit
func WithConcurrency(n int64) Option {
	return func(r *Resizer) {
		r.Concurrency = n
	}
}

// WithVipsConcurrency with libvips worker concurrency option
func WithVipsConcurrency(n int) Option {
	return func(r *Resizer) {
		if n > 0 {
			r.VipsConcurrency = n
		}
	}
}

// WithMaxCacheFiles with libvips max cache files option
func WithMaxCacheFiles(n int) Option {
	return func(r *Resizer) {
		if n >= 0 {
			r.MaxCacheFiles = n
		}
	}
}

// WithMaxCacheMem with libvips max cache mem option
func WithMaxCacheMem(n int) Option {
	return func(r *Resizer) {
		if n >= 0 {
			r.MaxCacheMem = n
		}
	}
}

// WithMaxCacheSize with libvips max cache size option
func WithMaxCacheSize(n int) Option {
	return func(r *Resizer) {
		if n >= 0 {
			r.MaxCacheSize = n
		}
	}
}

// WithDefaultQuality with default JPEG save quality option
func WithDefaultQuality(quality int) Option {
	return func(r *Resizer) {
		if quality > 0 && quality <= 100 {
			r.DefaultQuality = quality
		}
	}
}
