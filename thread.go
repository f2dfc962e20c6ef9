// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// System ties the collaborators together: the queue service, the window
// manager and the hook chain shared by every thread.
type System struct {
	cfg     Config
	log     *zap.Logger
	queues  QueueService
	windows WindowManager
	hooks   HookChain
	start   time.Time

	mu      sync.RWMutex
	threads map[ThreadID]ProcessID
}

// NewSystem creates a System with in-memory collaborators unless they
// are replaced by opts.
func NewSystem(cfg Config, opts ...Option) *System {
	cfg = cfg.normalize()
	s := &System{
		cfg:     cfg,
		log:     cfg.Logger.Named("wmsg"),
		start:   time.Now(),
		threads: make(map[ThreadID]ProcessID),
	}
	for _, o := range opts {
		o(s)
	}
	if s.queues == nil {
		s.queues = NewQueues(cfg)
	}
	if s.windows == nil {
		s.windows = NewWindows()
	}
	return s
}

// Config returns the normalized configuration.
func (s *System) Config() Config { return s.cfg }

// Windows returns the window manager.
func (s *System) Windows() WindowManager { return s.windows }

// tick is the message clock in milliseconds.
func (s *System) tick() uint32 {
	return uint32(time.Since(s.start).Milliseconds())
}

// Process is an address space. Threads of one process share its DDE
// table and shared memory blocks; payloads that cross into another
// process are always marshalled.
type Process struct {
	id     ProcessID
	dde    *DDETable
	blocks blockTable
}

// NewProcess creates a process with a fresh DDE table.
func NewProcess(opts ...ProcessOption) *Process {
	p := &Process{id: nextProcessID()}
	for _, o := range opts {
		o(p)
	}
	if p.dde == nil {
		p.dde = &DDETable{}
	}
	return p
}

// ID returns the process identifier.
func (p *Process) ID() ProcessID { return p.id }

// DDE returns the handle-pairing table of the process.
func (p *Process) DDE() *DDETable { return p.dde }

// Thread is a logical actor with one inbound queue. A Thread must only
// be used from one goroutine at a time.
type Thread struct {
	sys   *System
	proc  *Process
	id    ThreadID
	log   *zap.Logger
	recv  *received
	depth int
	click clickState
}

// NewThread creates a thread in process p and attaches its queue.
func (s *System) NewThread(p *Process) (*Thread, error) {
	t := &Thread{sys: s, proc: p, id: nextThreadID()}
	if err := s.queues.Attach(t.id); err != nil {
		return nil, fmt.Errorf("new thread: %w", err)
	}
	t.log = s.log.With(zapThread(t.id), zapProcess(p.id))
	s.mu.Lock()
	s.threads[t.id] = p.id
	s.mu.Unlock()
	return t, nil
}

// processOf returns the process of a live thread.
func (s *System) processOf(tid ThreadID) (ProcessID, bool) {
	s.mu.RLock()
	pid, ok := s.threads[tid]
	s.mu.RUnlock()
	return pid, ok
}

// ID returns the thread identifier.
func (t *Thread) ID() ThreadID { return t.id }

// Process returns the owning process.
func (t *Thread) Process() *Process { return t.proc }

// System returns the system the thread belongs to.
func (t *Thread) System() *System { return t.sys }

// CreateWindow registers a window owned by t. It needs the built-in
// window registry.
func (t *Thread) CreateWindow(proc WndProc, opts ...WindowOption) (Handle, error) {
	ws, ok := t.sys.windows.(*Windows)
	if !ok {
		return 0, fmt.Errorf("create window: %w: custom window manager", ErrUnsupported)
	}
	return ws.Create(t, proc, opts...), nil
}

// Exit detaches the thread's queue. Every queued synchronous send is
// answered neutrally and later sends fail with ErrInvalidWindow.
func (t *Thread) Exit() {
	t.sys.mu.Lock()
	delete(t.sys.threads, t.id)
	t.sys.mu.Unlock()
	left := t.sys.queues.Detach(t.id)
	for _, env := range left {
		t.sys.queues.Release(env)
	}
	if ws, ok := t.sys.windows.(*Windows); ok {
		ws.destroyThread(t.id)
	}
	t.log.Debug("thread exit", zap.Int("released", len(left)))
}
