// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"sync"
)

// ddeGrowth is the number of slots added each time the table is full.
const ddeGrowth = 4

// ddeMinBlock is the smallest valid advise, data or poke block: the
// flags word and the clipboard format word.
const ddeMinBlock = 4

type ddePair struct {
	local       Handle
	counterpart Handle
}

// DDETable pairs the block handle an execute request arrived with
// (local to the requesting process) with the block allocated for it on
// receipt (the counterpart, local to the receiving process). The pair
// is taken back when the receiver acknowledges the request, so the
// acknowledgement can name the requester's own block.
//
// The zero value is an empty table. A table is shared by every thread
// of a process.
type DDETable struct {
	mu    sync.Mutex
	pairs []ddePair
	live  int
	// Limit caps the number of live pairs. Zero means unbounded.
	Limit int
}

// Record stores the pair (local, counterpart) in the first free slot.
func (t *DDETable) Record(local, counterpart Handle) error {
	if counterpart == 0 {
		return fmt.Errorf("%w: zero counterpart", ErrInvalidHandle)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Limit > 0 && t.live >= t.Limit {
		return fmt.Errorf("%w: %d dde pairs", ErrOutOfMemory, t.live)
	}
	for i := range t.pairs {
		if t.pairs[i].counterpart == 0 {
			t.pairs[i] = ddePair{local: local, counterpart: counterpart}
			t.live++
			return nil
		}
	}
	n := len(t.pairs)
	grown := make([]ddePair, n+ddeGrowth)
	copy(grown, t.pairs)
	grown[n] = ddePair{local: local, counterpart: counterpart}
	t.pairs = grown
	t.live++
	return nil
}

// Take removes the pair whose counterpart matches and returns its local
// handle. A pair is returned at most once.
func (t *DDETable) Take(counterpart Handle) (Handle, bool) {
	if counterpart == 0 {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.pairs {
		if t.pairs[i].counterpart == counterpart {
			local := t.pairs[i].local
			t.pairs[i] = ddePair{}
			t.live--
			return local, true
		}
	}
	return 0, false
}

// Len returns the number of live pairs.
func (t *DDETable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// DDEParam is the (low, high) pair carried by acknowledge, advise, data
// and poke messages in Message.Data. Without one, the pair is read from
// the two words of LParam.
type DDEParam struct {
	Lo, Hi uintptr
}

func ddeParam(m *Message) DDEParam {
	if p, ok := m.Data.(DDEParam); ok {
		return p
	}
	return DDEParam{Lo: uintptr(loWord(m.LParam)), Hi: uintptr(hiWord(m.LParam))}
}

// packDDE prepares a posted DDE message of process p for transport.
// Blocks travel by value; handles in the returned message are rewritten
// so the receiver can rebuild them.
func packDDE(p *Process, m *Message) (Message, PackedPayload, error) {
	var pl PackedPayload
	out := *m
	switch m.ID {
	case WM_DDE_ACK:
		prm := ddeParam(m)
		if prm.Hi <= 0xffff {
			// atom or status only
			return out, pl, nil
		}
		local, ok := p.dde.Take(Handle(prm.Hi))
		if !ok {
			return out, pl, nil
		}
		var w writer
		w.handle(local)
		if err := pl.add(w.b); err != nil {
			return Message{}, PackedPayload{}, err
		}
		out.Data = DDEParam{Lo: prm.Lo}
	case WM_DDE_ADVISE, WM_DDE_DATA, WM_DDE_POKE:
		prm := ddeParam(m)
		if prm.Lo == 0 {
			if m.ID != WM_DDE_DATA {
				return Message{}, PackedPayload{}, fmt.Errorf("%w: 0x%04x without a block", ErrMalformed, m.ID)
			}
		} else {
			b, err := p.GlobalLock(Handle(prm.Lo))
			if err != nil {
				return Message{}, PackedPayload{}, err
			}
			if len(b) < ddeMinBlock {
				return Message{}, PackedPayload{}, fmt.Errorf("%w: %d byte block for 0x%04x", ErrMalformed, len(b), m.ID)
			}
			if err := pl.add(append([]byte(nil), b...)); err != nil {
				return Message{}, PackedPayload{}, err
			}
		}
		out.Data = DDEParam{Hi: prm.Hi}
	case WM_DDE_EXECUTE:
		if m.LParam == 0 {
			return out, pl, nil
		}
		b, err := p.GlobalLock(Handle(m.LParam))
		if err != nil {
			return Message{}, PackedPayload{}, err
		}
		if err := pl.add(append([]byte(nil), b...)); err != nil {
			return Message{}, PackedPayload{}, err
		}
	}
	return out, pl, nil
}

// unpackDDE rebuilds a received DDE message inside process p. Blocks are
// reallocated locally; an execute block is paired with the requester's
// handle until the acknowledgement comes back.
func unpackDDE(p *Process, m *Message, buf *Buffer) (Message, error) {
	out := *m
	switch m.ID {
	case WM_DDE_ACK:
		if buf.Len() == 0 {
			return out, nil
		}
		hi, err := buf.Uint64(0)
		if err != nil {
			return Message{}, err
		}
		out.Data = DDEParam{Lo: ddeParam(m).Lo, Hi: uintptr(hi)}
	case WM_DDE_ADVISE, WM_DDE_DATA, WM_DDE_POKE:
		prm := ddeParam(m)
		var lo uintptr
		if buf.Len() > 0 {
			if buf.Len() < ddeMinBlock {
				return Message{}, fmt.Errorf("%w: %d byte block for 0x%04x", ErrMalformed, buf.Len(), m.ID)
			}
			lo = uintptr(p.GlobalAlloc(buf.Bytes()))
		} else if m.ID != WM_DDE_DATA {
			return Message{}, fmt.Errorf("%w: 0x%04x without a block", ErrMalformed, m.ID)
		}
		out.Data = DDEParam{Lo: lo, Hi: prm.Hi}
	case WM_DDE_EXECUTE:
		if buf.Len() == 0 {
			return out, nil
		}
		h := p.GlobalAlloc(buf.Bytes())
		if err := p.dde.Record(Handle(m.LParam), h); err != nil {
			_ = p.GlobalFree(h)
			return Message{}, err
		}
		out.LParam = uintptr(h)
	}
	return out, nil
}
