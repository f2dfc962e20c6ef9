// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"time"

	"go.uber.org/zap"
)

// Config holds the system-wide tunables.
type Config struct {
	// DoubleClickTime is the longest gap between two button presses
	// that still counts as a double click.
	DoubleClickTime time.Duration
	// DoubleClickWidth and DoubleClickHeight bound the double click
	// rectangle centred on the first press.
	DoubleClickWidth  int32
	DoubleClickHeight int32
	// HangThreshold is how long a thread may leave its queue unpolled
	// before abort-if-hung sends give up on it.
	HangThreshold time.Duration
	// MaxRecursion caps nested handler invocations on one thread.
	MaxRecursion int
	// QueueCapacity is the inbound ring size per thread. Rounded up to
	// a power of two by the ring.
	QueueCapacity int
	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:   500 * time.Millisecond,
		DoubleClickWidth:  4,
		DoubleClickHeight: 4,
		HangThreshold:     5 * time.Second,
		MaxRecursion:      64,
		QueueCapacity:     256,
	}
}

// normalize fills zero fields from DefaultConfig.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.DoubleClickTime <= 0 {
		c.DoubleClickTime = d.DoubleClickTime
	}
	if c.DoubleClickWidth <= 0 {
		c.DoubleClickWidth = d.DoubleClickWidth
	}
	if c.DoubleClickHeight <= 0 {
		c.DoubleClickHeight = d.DoubleClickHeight
	}
	if c.HangThreshold <= 0 {
		c.HangThreshold = d.HangThreshold
	}
	if c.MaxRecursion <= 0 {
		c.MaxRecursion = d.MaxRecursion
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = d.QueueCapacity
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// SendOptions controls a synchronous send.
type SendOptions struct {
	// Timeout bounds the wait for a reply. Zero waits forever.
	Timeout time.Duration
	// AbortIfHung fails the send with ErrTargetHung once the destination
	// has not polled its queue for Config.HangThreshold.
	AbortIfHung bool
}

// Option configures a System.
type Option func(*System)

// WithWindows replaces the window manager.
func WithWindows(w WindowManager) Option {
	return func(s *System) { s.windows = w }
}

// WithHooks installs a hook chain.
func WithHooks(h HookChain) Option {
	return func(s *System) { s.hooks = h }
}

// WithQueues replaces the queue service.
func WithQueues(q QueueService) Option {
	return func(s *System) { s.queues = q }
}

// ProcessOption configures a Process.
type ProcessOption func(*Process)

// WithDDETable gives the process its own handle-pairing table, for
// tests that need isolation or a size limit.
func WithDDETable(t *DDETable) ProcessOption {
	return func(p *Process) { p.dde = t }
}
