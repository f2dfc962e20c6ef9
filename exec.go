// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"code.hybscloud.com/kont"
)

// execExpr runs a reply protocol on ep to completion.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels.
func execExpr[R any](ep *endpoint, protocol kont.Expr[R]) R {
	h := replyHandler[R]{ctx: &ep.ctx}
	return kont.HandleExpr(protocol, h)
}
