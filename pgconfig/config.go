// Package pgconfig defines the options pattern that controls the ambient
// behavior of the conversion and parameter-binding layers: nothing here
// changes wire format, only whether an edge case converts or fails.
package pgconfig

import (
	"log/slog"
	"time"
)

// Option configures a Config, in the OptionFn-over-a-struct style used
// throughout the teacher corpus for server construction.
type Option func(*Config)

// Config is built once per connection (or pool) and shared read-only by
// every parameter write it supervises.
type Config struct {
	Logger *slog.Logger

	// EnableInfinityConversions allows the timestamp converter to treat
	// i64::MIN / i64::MAX sentinels as -infinity / +infinity instead of
	// rejecting them with invalid_wire_data.
	EnableInfinityConversions bool

	// DefaultCommandTimeout is the connection-level per-command timeout
	// setting. Nothing in this module reads it; async entry points take
	// their deadline only from the caller's context.
	DefaultCommandTimeout time.Duration

	// MaxPoolSize is the advertised upper bound on concurrently prepared
	// parameter buffers; pool construction itself is out of scope here,
	// this is only the knob callers size their own pool against.
	MaxPoolSize int
}

// New builds a Config with the corpus's conventional defaults, then
// applies options in order.
func New(options ...Option) *Config {
	cfg := &Config{
		Logger:                slog.Default(),
		EnableInfinityConversions: false,
		DefaultCommandTimeout:     30 * time.Second,
		MaxPoolSize:               128,
	}

	for _, option := range options {
		option(cfg)
	}

	return cfg
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// EnableInfinityConversions turns on ±infinity sentinel handling for the
// timestamp converter.
func EnableInfinityConversions(enabled bool) Option {
	return func(c *Config) {
		c.EnableInfinityConversions = enabled
	}
}

// DefaultCommandTimeout overrides the default per-command timeout.
func DefaultCommandTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.DefaultCommandTimeout = d
	}
}

// MaxPoolSize overrides the advertised pool size ceiling.
func MaxPoolSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxPoolSize = n
		}
	}
}
