// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"code.hybscloud.com/kont"
)

// sendOp hands the reply value to the waiting sender.
type sendOp struct {
	kont.Phantom[struct{}]
	value ReplyValue
}

// dispatchReply handles sendOp. Non-blocking: returns
// iox.ErrWouldBlock if the data queue is full.
func (s sendOp) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	ctx.slot = s.value
	if err := ctx.dataQ.Enqueue(&ctx.slot); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// recvOp takes the reply value on the sender side.
type recvOp struct {
	kont.Phantom[ReplyValue]
}

// dispatchReply handles recvOp. Non-blocking: returns
// iox.ErrWouldBlock if no value has arrived.
func (recvOp) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	v, err := ctx.dataQ.Dequeue()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// closeOp marks the message released by its receiver. Never blocks.
type closeOp struct {
	kont.Phantom[struct{}]
}

func (closeOp) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	ctx.closed.Add(1)
	return struct{}{}, nil
}

// Pre-allocated choice values, avoiding per-dispatch heap escape.
var (
	choiceReply   = true
	choiceNeutral = false
)

// Pre-boxed Resumed values for offerOp.
var (
	offerReply   kont.Resumed = kont.Left[struct{}, struct{}](struct{}{})
	offerNeutral kont.Resumed = kont.Right[struct{}](struct{}{})
)

// selectReply announces that a reply value follows.
type selectReply struct {
	kont.Phantom[struct{}]
}

func (selectReply) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	if err := ctx.choiceQ.Enqueue(&choiceReply); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// selectNeutral announces that the message was dropped and no value
// follows.
type selectNeutral struct {
	kont.Phantom[struct{}]
}

func (selectNeutral) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	if err := ctx.choiceQ.Enqueue(&choiceNeutral); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// offerOp waits for the receiver's choice.
// true is Left (a value follows), false is Right (neutral).
type offerOp struct {
	kont.Phantom[kont.Either[struct{}, struct{}]]
}

func (offerOp) dispatchReply(ctx *replyContext) (kont.Resumed, error) {
	v, err := ctx.choiceQ.Dequeue()
	if err != nil {
		return nil, err
	}
	if v {
		return offerReply, nil
	}
	return offerNeutral, nil
}
