// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Send delivers m synchronously and returns the handler's result.
// Sends to a window of the calling thread invoke the handler directly;
// other sends block, servicing inbound sent messages meanwhile, until
// the reply arrives or opts gives up.
func (t *Thread) Send(m Message, opts SendOptions) (uintptr, error) {
	return t.send(m, KindUnicode, opts)
}

// SendAscii is Send for callers whose text payloads are narrow
// ([]byte, Windows-1252). The receiver sees wide text.
func (t *Thread) SendAscii(m Message, opts SendOptions) (uintptr, error) {
	return t.send(m, KindAscii, opts)
}

// SendNotify delivers m without waiting for the result. Sends to the
// calling thread still run the handler before returning.
func (t *Thread) SendNotify(m Message) error {
	return t.sendAsync(m, KindNotify, nil)
}

// SendCallback delivers m without waiting; cb later receives the result
// on t, from inside Peek or Get.
func (t *Thread) SendCallback(m Message, cb CallbackFunc) error {
	return t.sendAsync(m, KindCallback, cb)
}

// BroadcastResult is the outcome of one recipient of Broadcast.
type BroadcastResult struct {
	Window Handle
	Result uintptr
	Err    error
}

// Broadcast sends m to every top-level window, one independent send per
// window. A failing recipient does not stop the batch.
func (t *Thread) Broadcast(m Message, opts SendOptions) []BroadcastResult {
	wins := t.sys.windows.TopLevel()
	out := make([]BroadcastResult, 0, len(wins))
	for _, w := range wins {
		m.Window = w
		r, err := t.send(m, KindUnicode, opts)
		out = append(out, BroadcastResult{Window: w, Result: r, Err: err})
	}
	return out
}

// callHandler runs the handler of m on t. Past the recursion cap the
// handler is skipped and zero returned.
func (t *Thread) callHandler(m Message) uintptr {
	if t.depth >= t.sys.cfg.MaxRecursion {
		return 0
	}
	t.depth++
	defer func() { t.depth-- }()
	if t.sys.hooks != nil {
		hm := m
		t.sys.hooks.RunHooks(t, HookCallWndProc, &hm)
	}
	return t.sys.windows.InvokeHandler(t, m)
}

// resolve finds the thread and process owning w.
func (t *Thread) resolve(op string, w Handle) (ThreadID, ProcessID, error) {
	if w == Broadcast {
		return 0, 0, fmt.Errorf("%s: %w: broadcast handle", op, ErrInvalidWindow)
	}
	tid, pid, err := t.sys.windows.OwningThread(w)
	if err != nil {
		return 0, 0, fmt.Errorf("%s to 0x%x: %w", op, uintptr(w), err)
	}
	return tid, pid, nil
}

// envelope packs m for delivery to process pid. Process-local payloads
// stay by reference inside one process.
func (t *Thread) envelope(m Message, kind Kind, pid ProcessID) (*Envelope, error) {
	env := &Envelope{Msg: m, Kind: kind, Sender: t.id, Process: t.proc.id}
	cls := Classify(m.ID)
	if !cls.Pointer {
		return env, nil
	}
	if pid == t.proc.id && cls.Family == FamilyLocalOnly {
		return env, nil
	}
	pl, err := Pack(&m, Request, 0)
	if err != nil {
		return nil, err
	}
	env.Payload = pl.Bytes()
	env.Packed = true
	env.Msg.Data = nil
	return env, nil
}

func (t *Thread) send(m Message, kind Kind, opts SendOptions) (uintptr, error) {
	tid, pid, err := t.resolve("send", m.Window)
	if err != nil {
		return 0, err
	}
	if tid == t.id {
		if kind == KindAscii {
			if m, err = widenText(m); err != nil {
				return 0, fmt.Errorf("send: %w", err)
			}
		}
		return t.callHandler(m), nil
	}
	return t.sendQueued(m, kind, tid, pid, opts)
}

// sendQueued delivers m through the queue of thread tid and waits for
// the reply.
func (t *Thread) sendQueued(m Message, kind Kind, tid ThreadID, pid ProcessID, opts SendOptions) (uintptr, error) {
	if pid != t.proc.id {
		kind = KindCrossProcess
	}
	env, err := t.envelope(m, kind, pid)
	if err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}
	q := t.sys.queues
	if q.IsThreadExiting(tid) {
		return 0, fmt.Errorf("send to thread %d: %w", tid, ErrInvalidWindow)
	}
	if opts.AbortIfHung && q.IsHung(tid) {
		return 0, fmt.Errorf("send to thread %d: %w", tid, ErrTargetHung)
	}

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = time.Now().Add(opts.Timeout)
	}
	replier, waiter := newEndpointPair()
	env.reply = replier
	if err := t.enqueueWait(tid, env, deadline); err != nil {
		return 0, fmt.Errorf("send: %w", err)
	}
	if ce := t.log.Check(zap.DebugLevel, "send"); ce != nil {
		ce.Write(zapMsg(&m), zapKind(kind), zap.Uint32("serial", env.serial), zapThread(tid))
	}

	v, err := t.waitReply(waiter, tid, env.serial, deadline, opts.AbortIfHung)
	if err != nil {
		return 0, err
	}
	if v.neutral {
		if q.IsThreadExiting(tid) {
			return 0, fmt.Errorf("send to thread %d: %w", tid, ErrInvalidWindow)
		}
		return 0, nil
	}
	if env.Packed && carriesReply(&m) {
		out, err := Unpack(&m, NewBuffer(v.Payload), Reply)
		if err != nil {
			return 0, fmt.Errorf("send: %w", err)
		}
		copyReply(m.Data, out.Data)
	}
	return v.Result, nil
}

// enqueueWait retries a full destination queue, servicing inbound sent
// messages between attempts.
func (t *Thread) enqueueWait(tid ThreadID, env *Envelope, deadline time.Time) error {
	var bo iox.Backoff
	for {
		err := t.sys.queues.Enqueue(tid, env)
		if !iox.IsWouldBlock(err) {
			return err
		}
		if t.processSent() {
			bo.Reset()
			continue
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrTimeout
		}
		bo.Wait()
	}
}

func awaitReply() kont.Expr[ReplyValue] {
	return exprOfferBranch(onReply, onNeutral)
}

func onReply() kont.Expr[ReplyValue] { return exprRecvBind(returnReply) }

func returnReply(v ReplyValue) kont.Expr[ReplyValue] { return kont.ExprReturn(v) }

func onNeutral() kont.Expr[ReplyValue] {
	return kont.ExprReturn(ReplyValue{neutral: true})
}

// waitReply steps the sender's half of the reply channel. Whenever the
// reply is not ready it services one inbound sent message, so two
// threads sending to each other both make progress.
func (t *Thread) waitReply(ep *endpoint, tid ThreadID, serial Serial, deadline time.Time, abortIfHung bool) (ReplyValue, error) {
	q := t.sys.queues
	v, susp := step(awaitReply())
	var bo iox.Backoff
	for susp != nil {
		var err error
		v, susp, err = advance(ep, susp)
		if err == nil {
			bo.Reset()
			continue
		}
		if t.processSent() {
			bo.Reset()
			continue
		}
		var fail error
		switch {
		case !deadline.IsZero() && time.Now().After(deadline):
			fail = ErrTimeout
		case q.IsThreadExiting(tid) && !ep.peerClosed():
			fail = ErrInvalidWindow
		case abortIfHung && q.IsHung(tid):
			fail = ErrTargetHung
		}
		if fail != nil {
			susp.Discard()
			t.log.Warn("send abandoned", zap.Uint32("target", uint32(tid)), zap.Uint32("serial", serial), zap.Error(fail))
			return ReplyValue{}, fmt.Errorf("send to thread %d: %w", tid, fail)
		}
		bo.Wait()
	}
	return v, nil
}

// sendAsync is the fire-and-forget path of SendNotify and SendCallback.
func (t *Thread) sendAsync(m Message, kind Kind, cb CallbackFunc) error {
	op := "send notify"
	if kind == KindCallback {
		op = "send callback"
	}
	if IsPointer(m.ID) {
		return fmt.Errorf("%s 0x%04x: %w", op, m.ID, ErrSyncOnly)
	}
	tid, _, err := t.resolve(op, m.Window)
	if err != nil {
		return err
	}
	if tid == t.id {
		r := t.callHandler(m)
		if cb != nil {
			cb(t, m, r)
		}
		return nil
	}
	env := &Envelope{Msg: m, Kind: kind, Sender: t.id, Process: t.proc.id, Callback: cb}
	return wrapErr(op, t.sys.queues.Enqueue(tid, env))
}

// Post queues m for the thread owning m.Window and returns at once.
// A zero window posts to the calling thread; Broadcast posts to every
// top-level window.
func (t *Thread) Post(m Message) error {
	if m.Window == 0 {
		return t.PostThread(t.id, m)
	}
	if m.Window == Broadcast {
		var errs error
		for _, w := range t.sys.windows.TopLevel() {
			m.Window = w
			errs = multierr.Append(errs, t.Post(m))
		}
		return errs
	}
	if IsPointer(m.ID) {
		return fmt.Errorf("post 0x%04x: %w", m.ID, ErrSyncOnly)
	}
	tid, pid, err := t.resolve("post", m.Window)
	if err != nil {
		return err
	}
	return t.post(tid, pid, m)
}

// PostThread queues m for thread tid with no window.
func (t *Thread) PostThread(tid ThreadID, m Message) error {
	if IsPointer(m.ID) {
		return fmt.Errorf("post thread 0x%04x: %w", m.ID, ErrSyncOnly)
	}
	pid, ok := t.sys.processOf(tid)
	if !ok {
		return fmt.Errorf("post thread %d: %w", tid, ErrInvalidWindow)
	}
	m.Window = 0
	return t.post(tid, pid, m)
}

func (t *Thread) post(tid ThreadID, pid ProcessID, m Message) error {
	env := &Envelope{Msg: m, Kind: KindPosted, Sender: t.id, Process: t.proc.id}
	if isDDE(m.ID) && pid != t.proc.id {
		msg, pl, err := packDDE(t.proc, &m)
		if err != nil {
			return fmt.Errorf("post: %w", err)
		}
		env.Msg = msg
		env.Payload = pl.Bytes()
		env.Packed = true
	}
	if m.Time == 0 {
		env.Msg.Time = t.sys.tick()
	}
	return wrapErr("post", t.sys.queues.Enqueue(tid, env))
}
