package respkv

import (
	"time"
)

// config holds the configuration for a KV instance
type config struct {
	// Server settings
	listenAddr string

	// Timeouts at the transport boundary; zero disables them
	readTimeout  time.Duration
	writeTimeout time.Duration

	// Storage settings
	shardCount int

	// Observability
	logger Logger
}

// defaultConfig returns a configuration with sensible defaults
func defaultConfig() *config {
	return &config{
		listenAddr: ":6380",
		logger:     &defaultLogger{},
	}
}

// Option represents a configuration option for a KV instance
type Option func(*config) error

// WithListenAddr sets the address the server listens on
//
// Example:
//
//	WithListenAddr(":6380")
//	WithListenAddr("127.0.0.1:0")
func WithListenAddr(addr string) Option {
	return func(c *config) error {
		if addr == "" {
			return &ConfigError{Option: "WithListenAddr", Err: ErrInvalidConfig}
		}
		c.listenAddr = addr
		return nil
	}
}

// WithReadTimeout sets a per-command read deadline on each connection.
// Without one, a stalled peer blocks its own connection indefinitely.
//
// Example:
//
//	WithReadTimeout(30 * time.Second)
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &ConfigError{Option: "WithReadTimeout", Err: ErrInvalidConfig}
		}
		c.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout sets a per-reply write deadline on each connection
//
// Example:
//
//	WithWriteTimeout(10 * time.Second)
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &ConfigError{Option: "WithWriteTimeout", Err: ErrInvalidConfig}
		}
		c.writeTimeout = timeout
		return nil
	}
}

// WithShardCount sets the number of store shards
//
// Example:
//
//	WithShardCount(64)
func WithShardCount(count int) Option {
	return func(c *config) error {
		if count < 0 {
			return &ConfigError{Option: "WithShardCount", Err: ErrInvalidConfig}
		}
		c.shardCount = count
		return nil
	}
}

// WithLogger sets a custom logger
//
// Example:
//
//	WithLogger(respkv.NewSlogLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &ConfigError{Option: "WithLogger", Err: ErrInvalidConfig}
		}
		c.logger = logger
		return nil
	}
}
