// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
	"go.uber.org/zap"
)

// QueueMask selects which message lists a dequeue may take from.
type QueueMask uint8

const (
	QSSend QueueMask = 1 << iota
	QSPost
	QSInput

	QSAll = QSSend | QSPost | QSInput
)

// Filter narrows a dequeue. Zero fields match everything.
// Window and the identifier range apply to posted and hardware
// messages; sent messages are always eligible under QSSend.
type Filter struct {
	Window Handle
	Min    uint32
	Max    uint32
	Kinds  QueueMask
}

func (f Filter) match(m *Message) bool {
	if f.Window != 0 && m.Window != f.Window {
		return false
	}
	if f.Min == 0 && f.Max == 0 {
		return true
	}
	return m.ID >= f.Min && m.ID <= f.Max
}

// CallbackFunc receives the result of a SendCallback on the sending
// thread.
type CallbackFunc func(t *Thread, m Message, result uintptr)

// WinEvent is an accessibility event.
type WinEvent struct {
	Event  uint32
	Window Handle
	Object int32
	Child  int32
	Thread ThreadID
	Time   uint32
}

// WinEventProc consumes a WinEvent on the thread that registered it.
type WinEventProc func(t *Thread, ev WinEvent)

// Envelope is a message as it travels through a queue.
type Envelope struct {
	Msg     Message
	Kind    Kind
	Sender  ThreadID
	Process ProcessID
	// Payload is the packed request when Packed is set. The receiver
	// rebuilds Msg.Data from it.
	Payload []byte
	Packed  bool
	// Callback is the continuation of a KindCallback send, carried back
	// on the KindCallbackResult envelope together with Result.
	Callback CallbackFunc
	Result   uintptr
	// Event and Proc belong to KindWinEvent.
	Event WinEvent
	Proc  WinEventProc

	serial   Serial
	reply    *endpoint
	signaled bool
	local    *Message
}

// Serial returns the serial stamped on env when it was queued.
func (env *Envelope) Serial() Serial { return env.serial }

// QueueService stores and delivers envelopes per thread.
type QueueService interface {
	// Attach creates the inbound queue of tid.
	Attach(tid ThreadID) error
	// Detach removes the queue of tid and returns what was still queued.
	Detach(tid ThreadID) []*Envelope
	// Enqueue appends env to the queue of dest. It fails with
	// ErrInvalidWindow when dest does not exist or is exiting and with
	// iox.ErrWouldBlock when the queue is full.
	Enqueue(dest ThreadID, env *Envelope) error
	// Dequeue returns the next eligible envelope for tid. Sent messages
	// come first and are always removed; posted messages are removed when
	// remove is set; hardware messages stay until Accept.
	Dequeue(tid ThreadID, f Filter, remove bool) (*Envelope, bool)
	// Accept commits a hardware envelope returned by Dequeue. With
	// consume set the envelope leaves the queue; this also drops a
	// posted envelope that was peeked without removal.
	Accept(tid ThreadID, env *Envelope, consume bool)
	// SignalReply delivers the result of a sent message to its sender.
	SignalReply(env *Envelope, v ReplyValue)
	// Release retires a sent message, answering it neutrally if no reply
	// was signalled.
	Release(env *Envelope)
	IsThreadExiting(tid ThreadID) bool
	IsHung(tid ThreadID) bool
}

// threadQueue is the inbound queue of one thread. Producers serialize on
// mu to share the single-producer ring; the owner drains the ring into
// its private lists.
type threadQueue struct {
	mu       sync.Mutex
	ring     lfq.SPSC[*Envelope]
	exiting  atomix.Uint32
	lastPoll atomix.Int64

	sent     []*Envelope
	posted   []*Envelope
	hardware []*Envelope
}

func (q *threadQueue) drain() {
	for {
		env, err := q.ring.Dequeue()
		if err != nil {
			return
		}
		switch {
		case env.Kind.sent(), env.Kind.outOfBand():
			q.sent = append(q.sent, env)
		case env.Kind == KindHardware:
			q.hardware = append(q.hardware, env)
		default:
			q.posted = append(q.posted, env)
		}
	}
}

// Queues is the in-memory QueueService.
type Queues struct {
	mu       sync.RWMutex
	threads  map[ThreadID]*threadQueue
	capacity int
	hang     time.Duration
	log      *zap.Logger
}

// NewQueues creates an empty queue service sized by cfg.
func NewQueues(cfg Config) *Queues {
	cfg = cfg.normalize()
	return &Queues{
		threads:  make(map[ThreadID]*threadQueue),
		capacity: cfg.QueueCapacity,
		hang:     cfg.HangThreshold,
		log:      cfg.Logger.Named("queue"),
	}
}

func (qs *Queues) lookup(tid ThreadID) *threadQueue {
	qs.mu.RLock()
	q := qs.threads[tid]
	qs.mu.RUnlock()
	return q
}

// Attach implements QueueService.
func (qs *Queues) Attach(tid ThreadID) error {
	q := &threadQueue{}
	q.ring.Init(qs.capacity)
	q.lastPoll.Store(time.Now().UnixNano())
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if _, ok := qs.threads[tid]; ok {
		return fmt.Errorf("attach thread %d: %w", tid, ErrInvalidWindow)
	}
	qs.threads[tid] = q
	return nil
}

// Detach implements QueueService.
func (qs *Queues) Detach(tid ThreadID) []*Envelope {
	qs.mu.Lock()
	q := qs.threads[tid]
	delete(qs.threads, tid)
	qs.mu.Unlock()
	if q == nil {
		return nil
	}
	q.mu.Lock()
	q.exiting.Store(1)
	q.mu.Unlock()
	q.drain()
	left := slices.Concat(q.sent, q.posted, q.hardware)
	q.sent, q.posted, q.hardware = nil, nil, nil
	return left
}

// Enqueue implements QueueService.
func (qs *Queues) Enqueue(dest ThreadID, env *Envelope) error {
	q := qs.lookup(dest)
	if q == nil {
		return fmt.Errorf("enqueue to thread %d: %w", dest, ErrInvalidWindow)
	}
	if env.serial == 0 {
		env.serial = nextSerial()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.exiting.Load() != 0 {
		return fmt.Errorf("enqueue to thread %d: %w", dest, ErrInvalidWindow)
	}
	return q.ring.Enqueue(&env)
}

// Dequeue implements QueueService.
func (qs *Queues) Dequeue(tid ThreadID, f Filter, remove bool) (*Envelope, bool) {
	q := qs.lookup(tid)
	if q == nil {
		return nil, false
	}
	q.lastPoll.Store(time.Now().UnixNano())
	q.drain()
	if f.Kinds == 0 {
		f.Kinds = QSAll
	}
	if f.Kinds&QSSend != 0 && len(q.sent) > 0 {
		env := q.sent[0]
		q.sent[0] = nil
		q.sent = q.sent[1:]
		return env, true
	}
	if f.Kinds&QSPost != 0 {
		for i, env := range q.posted {
			if !f.match(&env.Msg) {
				continue
			}
			if remove {
				q.posted = slices.Delete(q.posted, i, i+1)
			}
			return env, true
		}
	}
	if f.Kinds&QSInput != 0 {
		for _, env := range q.hardware {
			if f.match(&env.Msg) {
				return env, true
			}
		}
	}
	return nil, false
}

// Accept implements QueueService.
func (qs *Queues) Accept(tid ThreadID, env *Envelope, consume bool) {
	if !consume {
		return
	}
	q := qs.lookup(tid)
	if q == nil {
		return
	}
	if i := slices.Index(q.hardware, env); i >= 0 {
		q.hardware = slices.Delete(q.hardware, i, i+1)
		return
	}
	if i := slices.Index(q.posted, env); i >= 0 {
		q.posted = slices.Delete(q.posted, i, i+1)
	}
}

// SignalReply implements QueueService.
func (qs *Queues) SignalReply(env *Envelope, v ReplyValue) {
	if env.signaled {
		return
	}
	env.signaled = true
	switch {
	case env.reply != nil:
		if v.neutral {
			execExpr(env.reply, exprSelectNeutralThen(kont.ExprReturn(struct{}{})))
		} else {
			execExpr(env.reply, exprSelectReplyThen(exprSendThen(v, kont.ExprReturn(struct{}{}))))
		}
	case env.Kind == KindCallback && env.Callback != nil:
		res := &Envelope{
			Msg:      env.Msg,
			Kind:     KindCallbackResult,
			Callback: env.Callback,
			Result:   v.Result,
		}
		if err := qs.Enqueue(env.Sender, res); err != nil {
			qs.log.Debug("callback result dropped", zapThread(env.Sender), zap.Error(err))
		}
	}
}

// Release implements QueueService.
func (qs *Queues) Release(env *Envelope) {
	if !env.signaled && (env.reply != nil || env.Kind == KindCallback) {
		qs.SignalReply(env, ReplyValue{neutral: true})
	}
	if env.reply != nil {
		execExpr(env.reply, exprCloseDone(struct{}{}))
	}
}

// IsThreadExiting implements QueueService. Unknown threads count as
// exiting.
func (qs *Queues) IsThreadExiting(tid ThreadID) bool {
	q := qs.lookup(tid)
	return q == nil || q.exiting.Load() != 0
}

// IsHung implements QueueService. A thread is hung when it has not
// polled its queue for the hang threshold.
func (qs *Queues) IsHung(tid ThreadID) bool {
	q := qs.lookup(tid)
	if q == nil {
		return false
	}
	return time.Since(time.Unix(0, q.lastPoll.Load())) > qs.hang
}
