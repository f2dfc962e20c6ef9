// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// replyCapacity is the bounded capacity of the reply queues.
// One round trip carries at most one choice and one value, so the
// replying side never waits on a full queue.
const replyCapacity = 4

// ReplyValue is what the receiver of a synchronous send hands back: the
// handler's result and, for families that return data, the packed
// reply payload.
type ReplyValue struct {
	Result  uintptr
	Payload []byte

	neutral bool
}

// Neutral reports whether the receiver dropped the message without
// running its handler.
func (v ReplyValue) Neutral() bool { return v.neutral }

// replyContext holds the lock-free transport for one end of a reply
// channel. The channel is one-directional: the replier produces, the
// waiter consumes.
type replyContext struct {
	dataQ   *lfq.SPSC[ReplyValue]
	choiceQ *lfq.SPSC[bool]
	closed  *atomix.Uint32
	slot    ReplyValue
}

// replyDispatcher is the structural interface for reply operations.
// dispatchReply is non-blocking: it returns iox.ErrWouldBlock when the
// bounded queue cannot make progress.
type replyDispatcher interface {
	dispatchReply(ctx *replyContext) (kont.Resumed, error)
}

// replyHandler implements kont.Handler for reply effects.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type replyHandler[R any] struct {
	ctx *replyContext
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h replyHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	rop, ok := op.(replyDispatcher)
	if !ok {
		panic("wmsg: unhandled effect in replyHandler")
	}
	return dispatchWait(h.ctx, rop), true
}

// dispatchWait blocks until dispatchReply succeeds, backing off on
// iox.ErrWouldBlock.
func dispatchWait(ctx *replyContext, rop replyDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := rop.dispatchReply(ctx)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// endpoint is one side of a reply channel.
type endpoint struct {
	ctx replyContext
}

// peerClosed reports whether the replier has released the message.
func (ep *endpoint) peerClosed() bool {
	return ep.ctx.closed.Load() != 0
}

// endpointPair holds both endpoints, queues and shared state in a
// single allocation.
type endpointPair struct {
	replier endpoint
	waiter  endpoint
	closed  atomix.Uint32
	data    lfq.SPSC[ReplyValue]
	choice  lfq.SPSC[bool]
}

// newEndpointPair creates a connected reply channel. The replier end
// travels with the queued message; the waiter end stays with the
// blocked sender.
func newEndpointPair() (replier, waiter *endpoint) {
	pair := &endpointPair{}
	pair.data.Init(replyCapacity)
	pair.choice.Init(replyCapacity)
	pair.replier = endpoint{ctx: replyContext{
		dataQ:   &pair.data,
		choiceQ: &pair.choice,
		closed:  &pair.closed,
	}}
	pair.waiter = endpoint{ctx: replyContext{
		dataQ:   &pair.data,
		choiceQ: &pair.choice,
		closed:  &pair.closed,
	}}
	return &pair.replier, &pair.waiter
}
