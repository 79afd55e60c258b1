package live

import (
	"net/http"
	"time"

	"github.com/shadowtree-dev/shadowtree/pkg/frame"
)

// Config holds the live server configuration.
type Config struct {
	// Addr is the listen address. Default: ":8420".
	Addr string

	// FrameInterval is the rendering cadence. Default: frame.DefaultInterval.
	FrameInterval time.Duration

	// ReadHeaderTimeout bounds header parsing on incoming requests.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// WriteTimeout is the maximum time for one WebSocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 5 seconds.
	ShutdownTimeout time.Duration

	// SendBuffer is the per-client outbound queue; clients that fall
	// further behind are dropped. Default: 16.
	SendBuffer int

	// CheckOrigin validates WebSocket upgrade origins.
	// Default: same-origin only (the gorilla default).
	CheckOrigin func(*http.Request) bool

	// Metrics serves Prometheus metrics on /metrics when non-nil.
	Metrics http.Handler
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8420",
		FrameInterval:     frame.DefaultInterval,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		SendBuffer:        16,
	}
}

// withDefaults fills unset fields in from defaults.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfig()
	out := *c
	if out.Addr == "" {
		out.Addr = defaults.Addr
	}
	if out.FrameInterval <= 0 {
		out.FrameInterval = defaults.FrameInterval
	}
	if out.ReadHeaderTimeout <= 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.ShutdownTimeout <= 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.SendBuffer <= 0 {
		out.SendBuffer = defaults.SendBuffer
	}
	return &out
}
