// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"go.uber.org/zap"
)

// SendFlags describes the sent message a thread is handling.
type SendFlags uint32

const (
	InSendNone     SendFlags = 0
	InSendSend     SendFlags = 1 << 0
	InSendNotify   SendFlags = 1 << 1
	InSendCallback SendFlags = 1 << 2
	InSendReplied  SendFlags = 1 << 3
)

// received is the bookkeeping of one sent message being handled.
// Nested receives link to the outer one through prev.
type received struct {
	msg   Message
	flags SendFlags
	env   *Envelope
	prev  *received
}

func kindFlags(k Kind) SendFlags {
	switch k {
	case KindNotify:
		return InSendNotify
	case KindCallback:
		return InSendCallback
	}
	return InSendSend
}

// beginReceive makes env the message t is handling.
func (t *Thread) beginReceive(env *Envelope) *received {
	info := &received{
		msg:   env.Msg,
		flags: kindFlags(env.Kind),
		env:   env,
		prev:  t.recv,
	}
	t.recv = info
	return info
}

// endReceive restores the outer message, if any.
func (t *Thread) endReceive(info *received) {
	t.recv = info.prev
}

// reply answers info with result. Only the first reply reaches the
// sender; remove retires the message, answering it neutrally if it was
// never answered. Notify messages have no reply channel.
func (t *Thread) reply(info *received, result uintptr, remove bool) {
	if info.flags&InSendNotify != 0 {
		return
	}
	if info.flags&InSendReplied == 0 {
		info.flags |= InSendReplied
		v := ReplyValue{Result: result}
		if info.env.Packed && carriesReply(&info.msg) {
			pl, err := Pack(&info.msg, Reply, result)
			if err != nil {
				t.log.Warn("reply payload dropped", zapMsg(&info.msg), zap.Error(err))
			} else {
				v.Payload = pl.Bytes()
			}
		}
		t.sys.queues.SignalReply(info.env, v)
	}
	if remove {
		t.sys.queues.Release(info.env)
	}
}

// Reply answers the sent message being handled with result before the
// handler returns. It reports false outside a handler for a sent
// message and for notify messages.
func (t *Thread) Reply(result uintptr) bool {
	info := t.recv
	if info == nil || info.flags&InSendNotify != 0 {
		return false
	}
	t.reply(info, result, false)
	return true
}

// InSendQuery reports whether t is handling a sent message, of which
// kind, and whether it has been answered.
func (t *Thread) InSendQuery() SendFlags {
	if t.recv == nil {
		return InSendNone
	}
	return t.recv.flags
}
