// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"fmt"
	"sync"
)

// blockTable holds the shared memory blocks of one process.
// A block handle is only meaningful inside the process that allocated it.
type blockTable struct {
	mu     sync.Mutex
	blocks map[Handle][]byte
}

func (t *blockTable) alloc(data []byte) Handle {
	h := nextHandle()
	t.mu.Lock()
	if t.blocks == nil {
		t.blocks = make(map[Handle][]byte)
	}
	t.blocks[h] = data
	t.mu.Unlock()
	return h
}

func (t *blockTable) lock(h Handle) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.blocks[h]
	if !ok {
		return nil, fmt.Errorf("%w: block 0x%x", ErrInvalidHandle, uintptr(h))
	}
	return b, nil
}

func (t *blockTable) free(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.blocks[h]; !ok {
		return fmt.Errorf("%w: block 0x%x", ErrInvalidHandle, uintptr(h))
	}
	delete(t.blocks, h)
	return nil
}

func (t *blockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.blocks)
}

// GlobalAlloc stores data in a new block owned by p and returns its
// handle. The block takes ownership of data.
func (p *Process) GlobalAlloc(data []byte) Handle {
	return p.blocks.alloc(data)
}

// GlobalLock returns the contents of block h. The slice aliases the block.
func (p *Process) GlobalLock(h Handle) ([]byte, error) {
	return p.blocks.lock(h)
}

// GlobalFree releases block h.
func (p *Process) GlobalFree(h Handle) error {
	return p.blocks.free(h)
}

// GlobalCount returns the number of live blocks in p.
func (p *Process) GlobalCount() int {
	return p.blocks.len()
}
