// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg_test

import (
	"context"
	"errors"
	"testing"

	"code.hybscloud.com/wmsg"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

// newSystem builds a System logging warnings to tb.
func newSystem(tb testing.TB, tune ...func(*wmsg.Config)) *wmsg.System {
	tb.Helper()
	cfg := wmsg.DefaultConfig()
	cfg.Logger = zaptest.NewLogger(tb, zaptest.Level(zapcore.WarnLevel))
	for _, f := range tune {
		f(&cfg)
	}
	return wmsg.NewSystem(cfg)
}

func newThread(tb testing.TB, sys *wmsg.System, p *wmsg.Process) *wmsg.Thread {
	tb.Helper()
	t, err := sys.NewThread(p)
	if err != nil {
		tb.Fatalf("NewThread: %v", err)
	}
	return t
}

func newWindow(tb testing.TB, t *wmsg.Thread, proc wmsg.WndProc, opts ...wmsg.WindowOption) wmsg.Handle {
	tb.Helper()
	w, err := t.CreateWindow(proc, opts...)
	if err != nil {
		tb.Fatalf("CreateWindow: %v", err)
	}
	return w
}

// pump runs the message loop of t until ctx is done.
func pump(ctx context.Context, t *wmsg.Thread) error {
	for {
		if _, err := t.Get(ctx, wmsg.Filter{}); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// serve pumps t on its own goroutine. The returned stop waits for the
// loop to finish.
func serve(tb testing.TB, t *wmsg.Thread) (stop func()) {
	tb.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pump(ctx, t) })
	return func() {
		cancel()
		if err := g.Wait(); err != nil {
			tb.Errorf("message loop: %v", err)
		}
	}
}

// drain peeks t until nothing is left, handling sent messages on the way.
func drain(t *wmsg.Thread) []wmsg.Message {
	var out []wmsg.Message
	for {
		m, ok := t.Peek(wmsg.Filter{}, true)
		if !ok {
			return out
		}
		out = append(out, m)
	}
}
