// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame.
var (
	exprReturnFrame   kont.Frame  = kont.ReturnFrame{}
	exprClose         kont.Erased = closeOp{}
	exprSelectReply   kont.Erased = selectReply{}
	exprSelectNeutral kont.Erased = selectNeutral{}
	exprOffer         kont.Erased = offerOp{}
)

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// thenEffect performs op and continues with next.
func thenEffect[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// exprSendThen sends v to the waiter and continues with next.
func exprSendThen[B any](v ReplyValue, next kont.Expr[B]) kont.Expr[B] {
	return thenEffect(sendOp{value: v}, next)
}

func recvBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(ReplyValue) kont.Expr[B])
	result := f(current.(ReplyValue))
	return kont.Erased(result.Value), result.Frame
}

// exprRecvBind receives the reply value and passes it to f.
func exprRecvBind[B any](f func(ReplyValue) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = recvOp{}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// exprCloseDone releases the channel and returns a.
func exprCloseDone[A any](a A) kont.Expr[A] {
	return thenEffect(exprClose, kont.Expr[A]{Value: a, Frame: exprReturnFrame})
}

// exprSelectReplyThen announces a reply value and continues with next.
func exprSelectReplyThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return thenEffect(exprSelectReply, next)
}

// exprSelectNeutralThen announces a neutral reply and continues with next.
func exprSelectNeutralThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return thenEffect(exprSelectNeutral, next)
}

func offerBranchUnwind[A any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	onReply := data.(func() kont.Expr[A])
	onNeutral := data2.(func() kont.Expr[A])
	e := current.(kont.Either[struct{}, struct{}])
	var result kont.Expr[A]
	if e.IsLeft() {
		result = onReply()
	} else {
		result = onNeutral()
	}
	return kont.Erased(result.Value), result.Frame
}

// exprOfferBranch waits for the replier's choice and calls onReply or
// onNeutral.
func exprOfferBranch[A any](onReply func() kont.Expr[A], onNeutral func() kont.Expr[A]) kont.Expr[A] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = onReply
	bf.Data2 = onNeutral
	bf.Unwind = offerBranchUnwind[A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprOffer
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[A](ef)
}
