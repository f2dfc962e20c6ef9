// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/wmsg"
)

func TestDDETableTakeOnce(t *testing.T) {
	var tab wmsg.DDETable
	if err := tab.Record(0x10010, 0x20010); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tab.Record(0x10020, 0x20020); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if tab.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tab.Len())
	}
	local, ok := tab.Take(0x20010)
	if !ok || local != 0x10010 {
		t.Fatalf("Take = %#x, %v, want 0x10010, true", local, ok)
	}
	if _, ok := tab.Take(0x20010); ok {
		t.Fatalf("second Take succeeded")
	}
	if _, ok := tab.Take(0); ok {
		t.Fatalf("Take(0) succeeded")
	}
	if tab.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tab.Len())
	}
}

func TestDDETableReuse(t *testing.T) {
	var tab wmsg.DDETable
	for i := range 4 {
		if err := tab.Record(wmsg.Handle(0x100+i), wmsg.Handle(0x200+i)); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}
	tab.Take(0x201)
	if err := tab.Record(0x1ff, 0x2ff); err != nil {
		t.Fatalf("Record into freed slot: %v", err)
	}
	if local, ok := tab.Take(0x2ff); !ok || local != 0x1ff {
		t.Fatalf("Take(0x2ff) = %#x, %v", local, ok)
	}
	for i := range 4 {
		if i == 1 {
			continue
		}
		if local, ok := tab.Take(wmsg.Handle(0x200 + i)); !ok || local != wmsg.Handle(0x100+i) {
			t.Fatalf("Take(%#x) = %#x, %v", 0x200+i, local, ok)
		}
	}
	if tab.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tab.Len())
	}
}

func TestDDETableErrors(t *testing.T) {
	tab := wmsg.DDETable{Limit: 2}
	if err := tab.Record(1, 0); !errors.Is(err, wmsg.ErrInvalidHandle) {
		t.Fatalf("zero counterpart err = %v", err)
	}
	_ = tab.Record(1, 0x201)
	_ = tab.Record(2, 0x202)
	if err := tab.Record(3, 0x203); !errors.Is(err, wmsg.ErrOutOfMemory) {
		t.Fatalf("over limit err = %v, want ErrOutOfMemory", err)
	}
	tab.Take(0x201)
	if err := tab.Record(3, 0x203); err != nil {
		t.Fatalf("Record after Take: %v", err)
	}
}

func TestGlobalBlocks(t *testing.T) {
	p := wmsg.NewProcess()
	h := p.GlobalAlloc([]byte("abc"))
	if h <= 0xffff {
		t.Fatalf("GlobalAlloc handle %#x collides with atoms", h)
	}
	b, err := p.GlobalLock(h)
	if err != nil || string(b) != "abc" {
		t.Fatalf("GlobalLock = %q, %v", b, err)
	}
	if _, err := wmsg.NewProcess().GlobalLock(h); !errors.Is(err, wmsg.ErrInvalidHandle) {
		t.Fatalf("foreign GlobalLock err = %v", err)
	}
	if err := p.GlobalFree(h); err != nil {
		t.Fatalf("GlobalFree: %v", err)
	}
	if err := p.GlobalFree(h); !errors.Is(err, wmsg.ErrInvalidHandle) {
		t.Fatalf("double GlobalFree err = %v", err)
	}
	if p.GlobalCount() != 0 {
		t.Fatalf("GlobalCount() = %d", p.GlobalCount())
	}
}

// ddePeers is a client window in one process talking to a server window
// in another. Everything runs on the test goroutine.
type ddePeers struct {
	sys                    *wmsg.System
	clientProc, serverProc *wmsg.Process
	client, server         *wmsg.Thread
	cw, sw                 wmsg.Handle
}

func newDDEPeers(t *testing.T) *ddePeers {
	d := &ddePeers{sys: newSystem(t)}
	d.clientProc = wmsg.NewProcess()
	d.serverProc = wmsg.NewProcess()
	d.client = newThread(t, d.sys, d.clientProc)
	d.server = newThread(t, d.sys, d.serverProc)
	d.cw = newWindow(t, d.client, nil)
	d.sw = newWindow(t, d.server, nil)
	return d
}

func TestDDEExecuteAck(t *testing.T) {
	d := newDDEPeers(t)
	req := d.clientProc.GlobalAlloc([]byte("[open(\"a.txt\")]\x00"))

	err := d.client.Post(wmsg.Message{Window: d.sw, ID: wmsg.WM_DDE_EXECUTE, WParam: uintptr(d.cw), LParam: uintptr(req)})
	if err != nil {
		t.Fatalf("post execute: %v", err)
	}
	m, ok := d.server.Peek(wmsg.Filter{}, true)
	if !ok || m.ID != wmsg.WM_DDE_EXECUTE {
		t.Fatalf("server Peek = %+v, %v", m, ok)
	}
	got := wmsg.Handle(m.LParam)
	if got == req {
		t.Fatalf("execute block not reallocated")
	}
	b, err := d.serverProc.GlobalLock(got)
	if err != nil || string(b) != "[open(\"a.txt\")]\x00" {
		t.Fatalf("server block = %q, %v", b, err)
	}
	if d.serverProc.DDE().Len() != 1 {
		t.Fatalf("server DDE Len() = %d, want 1", d.serverProc.DDE().Len())
	}

	ack := wmsg.Message{Window: d.cw, ID: wmsg.WM_DDE_ACK, WParam: uintptr(d.sw), Data: wmsg.DDEParam{Lo: 0x8000, Hi: uintptr(got)}}
	if err := d.server.Post(ack); err != nil {
		t.Fatalf("post ack: %v", err)
	}
	m, ok = d.client.Peek(wmsg.Filter{}, true)
	if !ok || m.ID != wmsg.WM_DDE_ACK {
		t.Fatalf("client Peek = %+v, %v", m, ok)
	}
	prm, _ := m.Data.(wmsg.DDEParam)
	if prm.Lo != 0x8000 || wmsg.Handle(prm.Hi) != req {
		t.Fatalf("ack param = %+v, want Lo 0x8000 Hi %#x", prm, req)
	}
	if d.serverProc.DDE().Len() != 0 {
		t.Fatalf("pair not taken, Len() = %d", d.serverProc.DDE().Len())
	}
}

func TestDDEThreadPost(t *testing.T) {
	d := newDDEPeers(t)
	req := d.clientProc.GlobalAlloc([]byte("[close()]\x00"))

	err := d.client.PostThread(d.server.ID(), wmsg.Message{ID: wmsg.WM_DDE_EXECUTE, WParam: uintptr(d.cw), LParam: uintptr(req)})
	if err != nil {
		t.Fatalf("post thread execute: %v", err)
	}
	m, ok := d.server.Peek(wmsg.Filter{}, true)
	if !ok || m.ID != wmsg.WM_DDE_EXECUTE || m.Window != 0 {
		t.Fatalf("server Peek = %+v, %v", m, ok)
	}
	got := wmsg.Handle(m.LParam)
	if got == req {
		t.Fatalf("execute block not reallocated")
	}
	b, err := d.serverProc.GlobalLock(got)
	if err != nil || string(b) != "[close()]\x00" {
		t.Fatalf("server block = %q, %v", b, err)
	}

	d.server.Exit()
	err = d.client.PostThread(d.server.ID(), wmsg.Message{ID: wmsg.WM_USER})
	if !errors.Is(err, wmsg.ErrInvalidWindow) {
		t.Fatalf("post to exited thread err = %v, want ErrInvalidWindow", err)
	}
}

func TestDDEDataBlock(t *testing.T) {
	d := newDDEPeers(t)
	blk := d.serverProc.GlobalAlloc([]byte{0x00, 0x20, 0x01, 0x00, 'h', 'i'})
	err := d.server.Post(wmsg.Message{Window: d.cw, ID: wmsg.WM_DDE_DATA, WParam: uintptr(d.sw), Data: wmsg.DDEParam{Lo: uintptr(blk), Hi: 0xc001}})
	if err != nil {
		t.Fatalf("post data: %v", err)
	}
	m, ok := d.client.Peek(wmsg.Filter{}, true)
	if !ok {
		t.Fatalf("client Peek found nothing")
	}
	prm := m.Data.(wmsg.DDEParam)
	if prm.Hi != 0xc001 || prm.Lo == 0 || wmsg.Handle(prm.Lo) == blk {
		t.Fatalf("data param = %+v", prm)
	}
	b, err := d.clientProc.GlobalLock(wmsg.Handle(prm.Lo))
	if err != nil || string(b[4:]) != "hi" {
		t.Fatalf("client block = %q, %v", b, err)
	}
}

func TestDDEPostErrors(t *testing.T) {
	d := newDDEPeers(t)
	err := d.client.Post(wmsg.Message{Window: d.sw, ID: wmsg.WM_DDE_POKE, Data: wmsg.DDEParam{Hi: 0xc001}})
	if !errors.Is(err, wmsg.ErrMalformed) {
		t.Fatalf("poke without block err = %v, want ErrMalformed", err)
	}
	small := d.clientProc.GlobalAlloc([]byte{1})
	err = d.client.Post(wmsg.Message{Window: d.sw, ID: wmsg.WM_DDE_ADVISE, Data: wmsg.DDEParam{Lo: uintptr(small), Hi: 0xc001}})
	if !errors.Is(err, wmsg.ErrMalformed) {
		t.Fatalf("advise with short block err = %v, want ErrMalformed", err)
	}
	err = d.client.Post(wmsg.Message{Window: d.sw, ID: wmsg.WM_DDE_EXECUTE, LParam: 0x7ffff0})
	if !errors.Is(err, wmsg.ErrInvalidHandle) {
		t.Fatalf("execute with unknown block err = %v, want ErrInvalidHandle", err)
	}
	if msgs := drain(d.server); len(msgs) != 0 {
		t.Fatalf("server received %d messages", len(msgs))
	}
}

func TestDDESameProcessByReference(t *testing.T) {
	sys := newSystem(t)
	p := wmsg.NewProcess()
	a := newThread(t, sys, p)
	b := newThread(t, sys, p)
	wb := newWindow(t, b, nil)
	req := p.GlobalAlloc([]byte("cmd"))
	if err := a.Post(wmsg.Message{Window: wb, ID: wmsg.WM_DDE_EXECUTE, LParam: uintptr(req)}); err != nil {
		t.Fatalf("post: %v", err)
	}
	m, ok := b.Peek(wmsg.Filter{}, true)
	if !ok || wmsg.Handle(m.LParam) != req {
		t.Fatalf("same-process execute = %+v, %v", m, ok)
	}
	if p.DDE().Len() != 0 {
		t.Fatalf("same-process execute recorded a pair")
	}
}
