// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"context"
	"fmt"

	"code.hybscloud.com/iox"
	"go.uber.org/zap"
)

// Peek returns the next posted or hardware message matching f. Sent and
// out-of-band messages met on the way are handled and never returned.
// With remove unset the returned message stays queued.
func (t *Thread) Peek(f Filter, remove bool) (Message, bool) {
	for {
		env, ok := t.sys.queues.Dequeue(t.id, f, remove)
		if !ok {
			return Message{}, false
		}
		switch {
		case env.Kind.sent():
			t.handleSent(env)
		case env.Kind.outOfBand():
			t.handleOutOfBand(env)
		case env.Kind == KindHardware:
			if m, ok := t.receiveHardware(env, remove); ok {
				return m, true
			}
		default:
			if m, ok := t.receivePosted(env, remove); ok {
				return m, true
			}
		}
	}
}

// Get blocks until a message matching f arrives and removes it. It
// returns ctx.Err() once ctx is done.
func (t *Thread) Get(ctx context.Context, f Filter) (Message, error) {
	var bo iox.Backoff
	for {
		if m, ok := t.Peek(f, true); ok {
			return m, nil
		}
		select {
		case <-ctx.Done():
			return Message{}, fmt.Errorf("get: %w", ctx.Err())
		default:
		}
		bo.Wait()
	}
}

// Dispatch runs the handler of a message returned by Peek or Get.
// Thread messages (no window) return zero.
func (t *Thread) Dispatch(m Message) uintptr {
	if m.Window == 0 {
		return 0
	}
	return t.callHandler(m)
}

// processSent services at most one inbound sent or out-of-band message.
// It reports whether one was handled.
func (t *Thread) processSent() bool {
	env, ok := t.sys.queues.Dequeue(t.id, Filter{Kinds: QSSend}, true)
	if !ok {
		return false
	}
	if env.Kind.outOfBand() {
		t.handleOutOfBand(env)
	} else {
		t.handleSent(env)
	}
	return true
}

// handleSent runs the handler for a sent message and replies with its
// result. A payload that fails to unpack is dropped with a neutral reply.
func (t *Thread) handleSent(env *Envelope) {
	info := t.beginReceive(env)
	defer t.endReceive(info)
	if env.Packed {
		local, err := Unpack(&env.Msg, NewBuffer(env.Payload), Request)
		if err != nil {
			t.log.Warn("dropped malformed message", zapMsg(&env.Msg), zapKind(env.Kind), zap.Error(err))
			t.sys.queues.Release(env)
			return
		}
		info.msg = local
	}
	if ce := t.log.Check(zap.DebugLevel, "dispatch sent"); ce != nil {
		ce.Write(zapMsg(&info.msg), zapKind(env.Kind), zapThread(env.Sender))
	}
	result := t.callHandler(info.msg)
	t.reply(info, result, true)
}

// handleOutOfBand delivers a WinEvent or a SendCallback result.
func (t *Thread) handleOutOfBand(env *Envelope) {
	switch env.Kind {
	case KindWinEvent:
		if env.Proc != nil {
			env.Proc(t, env.Event)
		}
	case KindCallbackResult:
		if env.Callback != nil {
			env.Callback(t, env.Msg, env.Result)
		}
	}
}

// receivePosted rebuilds a posted message for the caller. DDE payloads
// from another process are unpacked once and cached on the envelope.
func (t *Thread) receivePosted(env *Envelope, remove bool) (Message, bool) {
	if env.Packed && env.local == nil {
		m, err := unpackDDE(t.proc, &env.Msg, NewBuffer(env.Payload))
		if err != nil {
			t.log.Warn("dropped malformed dde message", zapMsg(&env.Msg), zap.Error(err))
			if !remove {
				t.sys.queues.Accept(t.id, env, true)
			}
			return Message{}, false
		}
		env.local = &m
	}
	m := env.Msg
	if env.local != nil {
		m = *env.local
	}
	t.getMessageHook(&m)
	return m, true
}

func (t *Thread) getMessageHook(m *Message) {
	t.runHooks(HookGetMessage, m)
}
