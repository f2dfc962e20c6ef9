// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

// HookStage is the point at which the hook chain is consulted.
type HookStage uint8

const (
	// HookCallWndProc runs before every handler invocation with a
	// *Message payload. Its result is ignored.
	HookCallWndProc HookStage = iota
	// HookGetMessage runs before a posted or hardware message is handed
	// to the caller of Peek, with a *Message payload.
	HookGetMessage
	// HookKeyboard may veto a keyboard message (*KeyboardHookInfo).
	HookKeyboard
	// HookMouse may veto a mouse message (*MouseHookInfo).
	HookMouse
	// HookCBTClickSkipped reports a mouse message vetoed by HookMouse.
	HookCBTClickSkipped
	// HookCBTKeySkipped reports a keyboard message vetoed by HookKeyboard.
	HookCBTKeySkipped
)

// HookResult is the verdict of a hook chain.
type HookResult uint8

const (
	HookContinue HookResult = iota
	HookVeto
)

// HookChain is the hook-chain contract.
type HookChain interface {
	RunHooks(t *Thread, stage HookStage, payload any) HookResult
}

// HookFunc adapts a function to HookChain.
type HookFunc func(t *Thread, stage HookStage, payload any) HookResult

// RunHooks implements HookChain.
func (f HookFunc) RunHooks(t *Thread, stage HookStage, payload any) HookResult {
	return f(t, stage, payload)
}

// MouseHookInfo is the payload of HookMouse and HookCBTClickSkipped.
type MouseHookInfo struct {
	Msg     Message
	HitTest int32
	Remove  bool
}

// KeyboardHookInfo is the payload of HookKeyboard and HookCBTKeySkipped.
type KeyboardHookInfo struct {
	Msg    Message
	Remove bool
}

func (t *Thread) runHooks(stage HookStage, payload any) HookResult {
	if t.sys.hooks == nil {
		return HookContinue
	}
	return t.sys.hooks.RunHooks(t, stage, payload)
}
