// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"encoding/binary"
	"fmt"
)

// Buffer is an owned, growable byte buffer with length-checked views.
// Received payloads are wrapped in a Buffer before they are decoded so
// that every read is bounds checked.
type Buffer struct {
	b []byte
}

// NewBuffer takes ownership of p.
func NewBuffer(p []byte) *Buffer {
	return &Buffer{b: p}
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int { return len(b.b) }

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte { return b.b }

// Grow makes the buffer at least n bytes long. Existing bytes keep
// their offsets and the new tail is zeroed.
func (b *Buffer) Grow(n int) {
	if n <= len(b.b) {
		return
	}
	if n <= cap(b.b) {
		tail := b.b[len(b.b):n]
		clear(tail)
		b.b = b.b[:n]
		return
	}
	nb := make([]byte, n)
	copy(nb, b.b)
	b.b = nb
}

func (b *Buffer) check(off, n int) error {
	if off < 0 || n < 0 || off+n > len(b.b) {
		return fmt.Errorf("%w: %d bytes at offset %d of %d", ErrMalformed, n, off, len(b.b))
	}
	return nil
}

// Slice returns n bytes at off.
func (b *Buffer) Slice(off, n int) ([]byte, error) {
	if err := b.check(off, n); err != nil {
		return nil, err
	}
	return b.b[off : off+n], nil
}

// Uint16 reads a little-endian uint16 at off.
func (b *Buffer) Uint16(off int) (uint16, error) {
	if err := b.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.b[off:]), nil
}

// Uint32 reads a little-endian uint32 at off.
func (b *Buffer) Uint32(off int) (uint32, error) {
	if err := b.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.b[off:]), nil
}

// Uint64 reads a little-endian uint64 at off.
func (b *Buffer) Uint64(off int) (uint64, error) {
	if err := b.check(off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.b[off:]), nil
}

// PutUint16 writes a little-endian uint16 at off.
func (b *Buffer) PutUint16(off int, v uint16) error {
	if err := b.check(off, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b.b[off:], v)
	return nil
}

// PutUint32 writes a little-endian uint32 at off.
func (b *Buffer) PutUint32(off int, v uint32) error {
	if err := b.check(off, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.b[off:], v)
	return nil
}

// reader decodes fields sequentially from a Buffer.
// The first failure sticks; later reads return zero values.
type reader struct {
	buf *Buffer
	off int
	err error
}

func newReader(buf *Buffer) *reader { return &reader{buf: buf} }

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	p, err := r.buf.Slice(r.off, n)
	if err != nil {
		r.err = err
		return nil
	}
	r.off += n
	return p
}

func (r *reader) u16() uint16 {
	if p := r.bytes(2); p != nil {
		return binary.LittleEndian.Uint16(p)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if p := r.bytes(4); p != nil {
		return binary.LittleEndian.Uint32(p)
	}
	return 0
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) u64() uint64 {
	if p := r.bytes(8); p != nil {
		return binary.LittleEndian.Uint64(p)
	}
	return 0
}

func (r *reader) handle() Handle { return Handle(r.u64()) }

func (r *reader) point() Point {
	return Point{X: r.i32(), Y: r.i32()}
}

func (r *reader) rect() Rect {
	return Rect{Left: r.i32(), Top: r.i32(), Right: r.i32(), Bottom: r.i32()}
}

// wideString consumes a terminated UTF-16LE string.
func (r *reader) wideString() string {
	if r.err != nil {
		return ""
	}
	rest, _ := r.buf.Slice(r.off, r.buf.Len()-r.off)
	n, ok := wideTerminator(rest)
	if !ok {
		r.err = fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, r.off)
		return ""
	}
	s, err := decodeWide(rest[:n])
	if err != nil {
		r.err = fmt.Errorf("%w: %v", ErrMalformed, err)
		return ""
	}
	r.off += n + 2
	return s
}

func (r *reader) remaining() int { return r.buf.Len() - r.off }

// writer encodes fields into one chunk.
type writer struct {
	b []byte
}

func (w *writer) u16(v uint16) { w.b = binary.LittleEndian.AppendUint16(w.b, v) }
func (w *writer) u32(v uint32) { w.b = binary.LittleEndian.AppendUint32(w.b, v) }
func (w *writer) i32(v int32)  { w.u32(uint32(v)) }
func (w *writer) u64(v uint64) { w.b = binary.LittleEndian.AppendUint64(w.b, v) }

func (w *writer) handle(h Handle) { w.u64(uint64(h)) }

func (w *writer) point(p Point) {
	w.i32(p.X)
	w.i32(p.Y)
}

func (w *writer) rect(rc Rect) {
	w.i32(rc.Left)
	w.i32(rc.Top)
	w.i32(rc.Right)
	w.i32(rc.Bottom)
}
