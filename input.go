// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"time"
)

// clickState remembers the last button press that could start a double
// click.
type clickState struct {
	msg    uint32
	window Handle
	wparam uintptr
	time   uint32
	pt     Point
}

// isButtonDown reports whether id is a client or non-client button press.
func isButtonDown(id uint32) bool {
	switch id {
	case WM_LBUTTONDOWN, WM_RBUTTONDOWN, WM_MBUTTONDOWN, WM_XBUTTONDOWN,
		WM_NCLBUTTONDOWN, WM_NCRBUTTONDOWN, WM_NCMBUTTONDOWN, WM_NCXBUTTONDOWN:
		return true
	}
	return false
}

// dblClkOffset turns a button press into the matching double click.
const dblClkOffset = WM_LBUTTONDBLCLK - WM_LBUTTONDOWN

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// doubleClick reports whether m completes a double click with the last
// recorded press: same message, window and button, close in time and
// within the double click rectangle.
func (t *Thread) doubleClick(m *Message) bool {
	c := &t.click
	cfg := &t.sys.cfg
	if c.msg == 0 || m.ID != c.msg || m.Window != c.window {
		return false
	}
	if (m.ID == WM_XBUTTONDOWN || m.ID == WM_NCXBUTTONDOWN) && hiWord(m.WParam) != hiWord(c.wparam) {
		return false
	}
	if time.Duration(m.Time-c.time)*time.Millisecond >= cfg.DoubleClickTime {
		return false
	}
	return abs32(m.Pt.X-c.pt.X) < cfg.DoubleClickWidth/2 &&
		abs32(m.Pt.Y-c.pt.Y) < cfg.DoubleClickHeight/2
}

// toNonClient translates a client mouse message to its non-client form.
// Wheel messages are not translated.
func toNonClient(m *Message, hit int32) {
	if m.ID > WM_XBUTTONDBLCLK || m.ID == WM_MOUSEWHEEL {
		return
	}
	m.ID = m.ID - WM_MOUSEMOVE + WM_NCMOUSEMOVE
	m.WParam = uintptr(hit)
	m.LParam = MakeLParam(uint16(m.Pt.X), uint16(m.Pt.Y))
}

// receiveHardware filters a raw input event. The queue is told whether
// the event is consumed: always when removing, and when it is dropped.
func (t *Thread) receiveHardware(env *Envelope, remove bool) (Message, bool) {
	m := env.Msg
	ok := true
	switch {
	case isMouse(m.ID):
		ok = t.filterMouse(&m, remove)
	case isKeyboard(m.ID):
		ok = t.filterKeyboard(&m, remove)
	}
	t.sys.queues.Accept(t.id, env, remove || !ok)
	if !ok {
		return Message{}, false
	}
	t.getMessageHook(&m)
	return m, true
}

func (t *Thread) filterMouse(m *Message, remove bool) bool {
	hit := t.sys.windows.HitTest(m.Window, m.Pt)
	if hit == HTTRANSPARENT {
		t.log.Debug("mouse input has no target", zapMsg(m))
		return false
	}
	if hit != HTCLIENT {
		toNonClient(m, hit)
	}
	if isButtonDown(m.ID) {
		update := remove
		if t.doubleClick(m) {
			m.ID += dblClkOffset
			if update {
				t.click.msg = 0
				update = false
			}
		}
		if update {
			t.click = clickState{msg: m.ID, window: m.Window, wparam: m.WParam, time: m.Time, pt: m.Pt}
		}
	}
	info := &MouseHookInfo{Msg: *m, HitTest: hit, Remove: remove}
	if t.runHooks(HookMouse, info) == HookVeto {
		t.runHooks(HookCBTClickSkipped, info)
		return false
	}
	return true
}

func (t *Thread) filterKeyboard(m *Message, remove bool) bool {
	info := &KeyboardHookInfo{Msg: *m, Remove: remove}
	if t.runHooks(HookKeyboard, info) == HookVeto {
		t.runHooks(HookCBTKeySkipped, info)
		return false
	}
	return true
}

// QueueInput queues a raw input event for the thread owning m.Window.
// A zero Time is stamped with the message clock.
func (s *System) QueueInput(m Message) error {
	if !isMouse(m.ID) && !isKeyboard(m.ID) {
		return fmt.Errorf("queue input 0x%04x: %w", m.ID, ErrUnsupported)
	}
	tid, _, err := s.windows.OwningThread(m.Window)
	if err != nil {
		return fmt.Errorf("queue input to 0x%x: %w", uintptr(m.Window), err)
	}
	if m.Time == 0 {
		m.Time = s.tick()
	}
	return wrapErr("queue input", s.queues.Enqueue(tid, &Envelope{Msg: m, Kind: KindHardware}))
}

// QueueWinEvent queues ev for thread dest, to be handed to proc from
// inside the thread's next Peek, Get or blocking Send.
func (s *System) QueueWinEvent(dest ThreadID, proc WinEventProc, ev WinEvent) error {
	if ev.Time == 0 {
		ev.Time = s.tick()
	}
	return wrapErr("queue winevent", s.queues.Enqueue(dest, &Envelope{Kind: KindWinEvent, Event: ev, Proc: proc}))
}
