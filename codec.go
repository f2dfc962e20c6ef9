// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"bytes"
	"fmt"
)

// Direction selects which half of a round trip is being marshalled.
type Direction uint8

const (
	// Request is the sender to receiver half.
	Request Direction = iota
	// Reply is the receiver to sender half. Only families whose receiver
	// fills in the payload carry a reply.
	Reply
)

func (d Direction) String() string {
	if d == Reply {
		return "reply"
	}
	return "request"
}

// maxSelItemsHint caps the capacity preallocated for a selection
// reply; WParam comes from another process.
const maxSelItemsHint = 1 << 12

// MaxChunks is the most chunks a single payload may be split into.
const MaxChunks = 4

// PackedPayload is the ordered chunk sequence extracted from a message's
// pointer parameter. The zero value is an empty payload.
type PackedPayload struct {
	chunks [MaxChunks][]byte
	n      int
}

func (p *PackedPayload) add(b []byte) error {
	if p.n == MaxChunks {
		return fmt.Errorf("%w: more than %d chunks", ErrUnsupported, MaxChunks)
	}
	p.chunks[p.n] = b
	p.n++
	return nil
}

// Count returns the number of chunks.
func (p *PackedPayload) Count() int { return p.n }

// Chunk returns chunk i.
func (p *PackedPayload) Chunk(i int) []byte { return p.chunks[i] }

// Len returns the total payload size in bytes.
func (p *PackedPayload) Len() int {
	n := 0
	for i := range p.n {
		n += len(p.chunks[i])
	}
	return n
}

// Bytes concatenates the chunks into one freshly allocated slice, or
// nil when the payload is empty.
func (p *PackedPayload) Bytes() []byte {
	n := p.Len()
	if n == 0 {
		return nil
	}
	b := make([]byte, 0, n)
	for i := range p.n {
		b = append(b, p.chunks[i]...)
	}
	return b
}

// wireStruct is a fixed-layout payload.
type wireStruct interface {
	put(w *writer)
	get(r *reader)
}

func badData(m *Message, want string) error {
	return fmt.Errorf("%w: %s payload for 0x%04x must be %s, got %T",
		ErrUnsupported, Classify(m.ID).Family, m.ID, want, m.Data)
}

func packStruct[T any, PT interface {
	*T
	wireStruct
}](m *Message, p *PackedPayload) error {
	v, ok := m.Data.(PT)
	if !ok || v == nil {
		var zero T
		return badData(m, fmt.Sprintf("%T", &zero))
	}
	var w writer
	v.put(&w)
	return p.add(w.b)
}

func unpackStruct[T any, PT interface {
	*T
	wireStruct
}](r *reader) any {
	v := PT(new(T))
	v.get(r)
	return v
}

func packText(m *Message, p *PackedPayload) error {
	var (
		b   []byte
		err error
	)
	switch v := m.Data.(type) {
	case nil:
		return nil
	case string:
		b, err = encodeWide(v)
	case []byte:
		var s string
		if s, err = narrowString(v); err == nil {
			b, err = encodeWide(s)
		}
	default:
		return badData(m, "string or []byte")
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return p.add(b)
}

func packStrings(p *PackedPayload, ss ...string) error {
	for _, s := range ss {
		b, err := encodeWide(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if err := p.add(b); err != nil {
			return err
		}
	}
	return nil
}

// carriesReply reports whether the receiver's copy of m's payload has
// to travel back to the sender.
func carriesReply(m *Message) bool {
	switch Classify(m.ID).Family {
	case FamilyTextOut, FamilyEditLine, FamilyRectOut, FamilyRectInOut,
		FamilyMinMax, FamilyNCCalcSize, FamilyMeasureItem, FamilyNextMenu,
		FamilySelItems, FamilyMDIGetActive:
		return true
	case FamilyWindowPos:
		return m.ID == WM_WINDOWPOSCHANGING
	case FamilyStyle:
		return m.ID == WM_STYLECHANGING
	case FamilyDlgCode:
		v, _ := m.Data.(*MsgInfo)
		return v != nil
	}
	return false
}

// Pack extracts the payload addressed by m for transport. result is the
// handler's return value and is only consulted in the Reply direction.
// Process-local payloads fail with ErrUnsupported.
func Pack(m *Message, dir Direction, result uintptr) (PackedPayload, error) {
	var p PackedPayload
	var err error
	if dir == Reply {
		if carriesReply(m) {
			err = packReply(m, result, &p)
		}
	} else {
		err = packRequest(m, &p)
	}
	if err != nil {
		return PackedPayload{}, err
	}
	return p, nil
}

func packRequest(m *Message, p *PackedPayload) error {
	switch Classify(m.ID).Family {
	case FamilyOther, FamilyDDE:
		return nil
	case FamilyTextIn:
		return packText(m, p)
	case FamilyTextOut:
		if _, ok := m.Data.(*TextBuffer); !ok {
			return badData(m, "*TextBuffer")
		}
		return nil
	case FamilyEditLine:
		v, ok := m.Data.(*EditLine)
		if !ok || v == nil {
			return badData(m, "*EditLine")
		}
		w := writer{}
		w.u16(v.Max)
		return p.add(w.b)
	case FamilyCreate:
		v, ok := m.Data.(*CreateStruct)
		if !ok || v == nil {
			return badData(m, "*CreateStruct")
		}
		var w writer
		v.put(&w)
		if err := p.add(w.b); err != nil {
			return err
		}
		return packStrings(p, v.Name, v.Class)
	case FamilyMDICreate:
		v, ok := m.Data.(*MDICreateStruct)
		if !ok || v == nil {
			return badData(m, "*MDICreateStruct")
		}
		var w writer
		v.put(&w)
		if err := p.add(w.b); err != nil {
			return err
		}
		return packStrings(p, v.Class, v.Title)
	case FamilyRectIn, FamilyRectInOut:
		return packStruct[Rect](m, p)
	case FamilyRectOut, FamilySelItems:
		return checkOut(m)
	case FamilyWindowPos:
		return packStruct[WindowPos](m, p)
	case FamilyMinMax:
		return packStruct[MinMaxInfo](m, p)
	case FamilyNCCalcSize:
		return packNCCalcSize(m, p)
	case FamilyMeasureItem:
		return packStruct[MeasureItem](m, p)
	case FamilyDrawItem:
		return packStruct[DrawItem](m, p)
	case FamilyCompareItem:
		return packStruct[CompareItem](m, p)
	case FamilyDeleteItem:
		return packStruct[DeleteItem](m, p)
	case FamilyCopyData:
		v, ok := m.Data.(*CopyData)
		if !ok || v == nil {
			return badData(m, "*CopyData")
		}
		var w writer
		w.u64(v.Data)
		w.u32(uint32(len(v.Bytes)))
		if err := p.add(w.b); err != nil {
			return err
		}
		if len(v.Bytes) == 0 {
			return nil
		}
		return p.add(bytes.Clone(v.Bytes))
	case FamilyHelp:
		return packStruct[HelpInfo](m, p)
	case FamilyStyle:
		return packStruct[StyleStruct](m, p)
	case FamilyNextMenu:
		return packStruct[NextMenu](m, p)
	case FamilyDlgCode:
		if v, ok := m.Data.(*MsgInfo); ok && v == nil || m.Data == nil {
			return nil
		}
		return packStruct[MsgInfo](m, p)
	case FamilyTabStops:
		v, ok := m.Data.([]int32)
		if !ok || uintptr(len(v)) < m.WParam {
			return badData(m, fmt.Sprintf("[]int32 with %d entries", m.WParam))
		}
		if m.WParam == 0 {
			return nil
		}
		w := writer{b: make([]byte, 0, 4*len(v))}
		for _, n := range v[:m.WParam] {
			w.i32(n)
		}
		return p.add(w.b)
	case FamilyMDIGetActive:
		if _, ok := m.Data.(*bool); !ok && m.Data != nil {
			return badData(m, "*bool or nil")
		}
		return nil
	case FamilyLocalOnly:
		return fmt.Errorf("%w: 0x%04x cannot cross a process boundary", ErrUnsupported, m.ID)
	}
	return fmt.Errorf("%w: 0x%04x", ErrUnsupported, m.ID)
}

// checkOut validates the caller buffer of an output-only family.
func checkOut(m *Message) error {
	switch Classify(m.ID).Family {
	case FamilyRectOut:
		if v, ok := m.Data.(*Rect); !ok || v == nil {
			return badData(m, "*Rect")
		}
	case FamilySelItems:
		if v, ok := m.Data.(*SelItems); !ok || v == nil {
			return badData(m, "*SelItems")
		}
	}
	return nil
}

func packNCCalcSize(m *Message, p *PackedPayload) error {
	if m.WParam == 0 {
		return packStruct[Rect](m, p)
	}
	v, ok := m.Data.(*NCCalcSizeParams)
	if !ok || v == nil {
		return badData(m, "*NCCalcSizeParams")
	}
	var w writer
	v.put(&w)
	if err := p.add(w.b); err != nil {
		return err
	}
	var pw writer
	v.Pos.put(&pw)
	return p.add(pw.b)
}

func packReply(m *Message, result uintptr, p *PackedPayload) error {
	switch Classify(m.ID).Family {
	case FamilyTextOut:
		v, ok := m.Data.(*TextBuffer)
		if !ok || v == nil {
			return badData(m, "*TextBuffer")
		}
		if m.WParam == 0 {
			return nil
		}
		b, err := encodeWideN(v.Text, int(m.WParam)-1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return p.add(append(b, 0, 0))
	case FamilyEditLine:
		v, ok := m.Data.(*EditLine)
		if !ok || v == nil {
			return badData(m, "*EditLine")
		}
		b, err := encodeWideN(v.Text, min(int(result), int(v.Max)))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if len(b) == 0 {
			return nil
		}
		return p.add(b)
	case FamilyRectOut, FamilyRectInOut:
		return packStruct[Rect](m, p)
	case FamilyWindowPos:
		return packStruct[WindowPos](m, p)
	case FamilyMinMax:
		return packStruct[MinMaxInfo](m, p)
	case FamilyNCCalcSize:
		return packNCCalcSize(m, p)
	case FamilyMeasureItem:
		return packStruct[MeasureItem](m, p)
	case FamilyStyle:
		return packStruct[StyleStruct](m, p)
	case FamilyNextMenu:
		return packStruct[NextMenu](m, p)
	case FamilyDlgCode:
		return packStruct[MsgInfo](m, p)
	case FamilySelItems:
		v, ok := m.Data.(*SelItems)
		if !ok || v == nil {
			return badData(m, "*SelItems")
		}
		n := min(int(result), int(m.WParam), len(v.Items))
		if n <= 0 {
			return nil
		}
		w := writer{b: make([]byte, 0, 4*n)}
		for _, it := range v.Items[:n] {
			w.i32(it)
		}
		return p.add(w.b)
	case FamilyMDIGetActive:
		var w writer
		if v, ok := m.Data.(*bool); ok && v != nil && *v {
			w.u32(1)
		} else {
			w.u32(0)
		}
		return p.add(w.b)
	}
	return nil
}

// Unpack rebuilds a local message from a received payload. The returned
// message owns fresh Data that shares no memory with the sender. In the
// Reply direction Data holds the receiver's output, ready to be copied
// into the caller's buffer.
func Unpack(m *Message, buf *Buffer, dir Direction) (Message, error) {
	if buf == nil {
		buf = NewBuffer(nil)
	}
	local := *m
	var err error
	if dir == Reply {
		local.Data, err = unpackReply(m, buf)
	} else {
		local.Data, err = unpackRequest(m, buf)
	}
	if err != nil {
		return Message{}, fmt.Errorf("unpack %s 0x%04x: %w", dir, m.ID, err)
	}
	return local, nil
}

func unpackRequest(m *Message, buf *Buffer) (any, error) {
	r := newReader(buf)
	var data any
	switch Classify(m.ID).Family {
	case FamilyOther, FamilyDDE:
		return m.Data, nil
	case FamilyTextIn:
		if buf.Len() == 0 {
			return nil, nil
		}
		data = r.wideString()
	case FamilyTextOut:
		return &TextBuffer{}, nil
	case FamilyEditLine:
		n, err := buf.Uint16(0)
		if err != nil {
			return nil, err
		}
		data = &EditLine{Max: n}
	case FamilyCreate:
		v := &CreateStruct{}
		v.get(r)
		v.Name = r.wideString()
		v.Class = r.wideString()
		data = v
	case FamilyMDICreate:
		v := &MDICreateStruct{}
		v.get(r)
		v.Class = r.wideString()
		v.Title = r.wideString()
		data = v
	case FamilyRectIn, FamilyRectInOut:
		data = unpackStruct[Rect](r)
	case FamilyRectOut:
		return &Rect{}, nil
	case FamilyWindowPos:
		data = unpackStruct[WindowPos](r)
	case FamilyMinMax:
		data = unpackStruct[MinMaxInfo](r)
	case FamilyNCCalcSize:
		data = unpackNCCalcSize(m, r)
	case FamilyMeasureItem:
		data = unpackStruct[MeasureItem](r)
	case FamilyDrawItem:
		data = unpackStruct[DrawItem](r)
	case FamilyCompareItem:
		data = unpackStruct[CompareItem](r)
	case FamilyDeleteItem:
		data = unpackStruct[DeleteItem](r)
	case FamilyCopyData:
		v := &CopyData{Data: r.u64()}
		n := int(r.u32())
		if n > 0 {
			v.Bytes = bytes.Clone(r.bytes(n))
		}
		data = v
	case FamilyHelp:
		data = unpackStruct[HelpInfo](r)
	case FamilyStyle:
		data = unpackStruct[StyleStruct](r)
	case FamilyNextMenu:
		data = unpackStruct[NextMenu](r)
	case FamilyDlgCode:
		if buf.Len() == 0 {
			return nil, nil
		}
		data = unpackStruct[MsgInfo](r)
	case FamilyTabStops:
		if m.WParam > uintptr(buf.Len()/4) {
			return nil, fmt.Errorf("%w: %d tab stops in %d bytes", ErrMalformed, m.WParam, buf.Len())
		}
		v := make([]int32, m.WParam)
		for i := range v {
			v[i] = r.i32()
		}
		data = v
	case FamilySelItems:
		return &SelItems{Items: make([]int32, 0, min(m.WParam, maxSelItemsHint))}, nil
	case FamilyMDIGetActive:
		return new(bool), nil
	case FamilyLocalOnly:
		return nil, fmt.Errorf("%w: 0x%04x cannot cross a process boundary", ErrUnsupported, m.ID)
	}
	if r.err != nil {
		return nil, r.err
	}
	return data, nil
}

func unpackNCCalcSize(m *Message, r *reader) any {
	if m.WParam == 0 {
		return unpackStruct[Rect](r)
	}
	v := &NCCalcSizeParams{}
	v.get(r)
	v.Pos.get(r)
	return v
}

func unpackReply(m *Message, buf *Buffer) (any, error) {
	if !carriesReply(m) {
		return nil, nil
	}
	r := newReader(buf)
	var data any
	switch Classify(m.ID).Family {
	case FamilyTextOut:
		v := &TextBuffer{}
		if buf.Len() > 0 {
			v.Text = r.wideString()
		}
		data = v
	case FamilyEditLine:
		s, err := decodeWide(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		data = &EditLine{Text: s}
	case FamilyRectOut, FamilyRectInOut:
		data = unpackStruct[Rect](r)
	case FamilyWindowPos:
		data = unpackStruct[WindowPos](r)
	case FamilyMinMax:
		data = unpackStruct[MinMaxInfo](r)
	case FamilyNCCalcSize:
		data = unpackNCCalcSize(m, r)
	case FamilyMeasureItem:
		data = unpackStruct[MeasureItem](r)
	case FamilyStyle:
		data = unpackStruct[StyleStruct](r)
	case FamilyNextMenu:
		data = unpackStruct[NextMenu](r)
	case FamilyDlgCode:
		data = unpackStruct[MsgInfo](r)
	case FamilySelItems:
		v := &SelItems{Items: make([]int32, r.remaining()/4)}
		for i := range v.Items {
			v.Items[i] = r.i32()
		}
		data = v
	case FamilyMDIGetActive:
		b := r.u32() != 0
		data = &b
	}
	if r.err != nil {
		return nil, r.err
	}
	return data, nil
}

// copyReply stores the receiver's output src into the caller's
// buffer dst. Fields the receiver cannot change are left alone.
func copyReply(dst, src any) {
	switch d := dst.(type) {
	case *TextBuffer:
		if s, ok := src.(*TextBuffer); ok && d != nil {
			d.Text = s.Text
		}
	case *EditLine:
		if s, ok := src.(*EditLine); ok && d != nil {
			d.Text = s.Text
		}
	case *SelItems:
		if s, ok := src.(*SelItems); ok && d != nil {
			d.Items = append(d.Items[:0], s.Items...)
		}
	case *MsgInfo:
		if s, ok := src.(*MsgInfo); ok && d != nil {
			*d = *s
		}
	case *bool:
		if s, ok := src.(*bool); ok && d != nil {
			*d = *s
		}
	case *Rect:
		copyValue(d, src)
	case *WindowPos:
		copyValue(d, src)
	case *MinMaxInfo:
		copyValue(d, src)
	case *NCCalcSizeParams:
		copyValue(d, src)
	case *MeasureItem:
		copyValue(d, src)
	case *StyleStruct:
		copyValue(d, src)
	case *NextMenu:
		copyValue(d, src)
	}
}

func copyValue[T any](dst *T, src any) {
	if s, ok := src.(*T); ok && dst != nil && s != nil {
		*dst = *s
	}
}
