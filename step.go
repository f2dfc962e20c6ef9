// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"code.hybscloud.com/kont"
)

// step evaluates a reply protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// advance dispatches the suspended reply operation on ep.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried
// after the peer makes progress.
func advance[R any](ep *endpoint, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	rop, ok := susp.Op().(replyDispatcher)
	if !ok {
		panic("wmsg: unhandled effect in advance")
	}
	v, err := rop.dispatchReply(&ep.ctx)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
