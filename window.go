// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// WndProc is a window's message handler. It always runs on the thread
// that created the window.
type WndProc func(t *Thread, m Message) uintptr

// WindowManager is the window-management contract the transport needs.
type WindowManager interface {
	// InvokeHandler runs the handler of m.Window on t.
	InvokeHandler(t *Thread, m Message) uintptr
	// HitTest resolves pt against window w. HTTRANSPARENT means the
	// window does not take the input.
	HitTest(w Handle, pt Point) int32
	// OwningThread returns the thread and process that own w.
	OwningThread(w Handle) (ThreadID, ProcessID, error)
	// TopLevel lists the top-level windows in a stable order.
	TopLevel() []Handle
}

type window struct {
	thread  ThreadID
	process ProcessID
	proc    WndProc
	hitTest func(Point) int32
	parent  Handle
}

// WindowOption configures a window at creation.
type WindowOption func(*window)

// WithParent makes the window a child of parent; children are not
// top-level and do not receive broadcasts.
func WithParent(parent Handle) WindowOption {
	return func(w *window) { w.parent = parent }
}

// WithHitTest sets the hit-test function of the window. Without one,
// every point hits the client area.
func WithHitTest(f func(Point) int32) WindowOption {
	return func(w *window) { w.hitTest = f }
}

// Windows is a minimal in-memory window registry.
type Windows struct {
	mu   sync.RWMutex
	wins map[Handle]*window
}

// NewWindows creates an empty registry.
func NewWindows() *Windows {
	return &Windows{wins: make(map[Handle]*window)}
}

// Create registers a window owned by t.
func (ws *Windows) Create(t *Thread, proc WndProc, opts ...WindowOption) Handle {
	w := &window{thread: t.id, process: t.proc.id, proc: proc}
	for _, o := range opts {
		o(w)
	}
	h := nextHandle()
	ws.mu.Lock()
	ws.wins[h] = w
	ws.mu.Unlock()
	return h
}

// Destroy unregisters h.
func (ws *Windows) Destroy(h Handle) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if _, ok := ws.wins[h]; !ok {
		return fmt.Errorf("destroy window 0x%x: %w", uintptr(h), ErrInvalidWindow)
	}
	delete(ws.wins, h)
	return nil
}

// destroyThread unregisters every window owned by tid.
func (ws *Windows) destroyThread(tid ThreadID) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	maps.DeleteFunc(ws.wins, func(_ Handle, w *window) bool { return w.thread == tid })
}

func (ws *Windows) get(h Handle) *window {
	ws.mu.RLock()
	w := ws.wins[h]
	ws.mu.RUnlock()
	return w
}

// InvokeHandler implements WindowManager. Messages for unknown windows
// return zero.
func (ws *Windows) InvokeHandler(t *Thread, m Message) uintptr {
	w := ws.get(m.Window)
	if w == nil || w.proc == nil {
		return 0
	}
	return w.proc(t, m)
}

// HitTest implements WindowManager.
func (ws *Windows) HitTest(h Handle, pt Point) int32 {
	w := ws.get(h)
	if w == nil {
		return HTNOWHERE
	}
	if w.hitTest == nil {
		return HTCLIENT
	}
	return w.hitTest(pt)
}

// OwningThread implements WindowManager.
func (ws *Windows) OwningThread(h Handle) (ThreadID, ProcessID, error) {
	w := ws.get(h)
	if w == nil {
		return 0, 0, ErrInvalidWindow
	}
	return w.thread, w.process, nil
}

// TopLevel implements WindowManager.
func (ws *Windows) TopLevel() []Handle {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	var hs []Handle
	for h, w := range ws.wins {
		if w.parent == 0 {
			hs = append(hs, h)
		}
	}
	slices.Sort(hs)
	return hs
}
