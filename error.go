// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrInvalidWindow reports a destination that does not resolve to a
	// live window or thread, or whose thread is exiting.
	ErrInvalidWindow = errors.New("wmsg: invalid window")
	// ErrUnsupported reports a payload that cannot be marshalled across
	// the transport in use.
	ErrUnsupported = errors.New("wmsg: unsupported payload")
	// ErrMalformed reports a received buffer that is too small or lacks
	// a required terminator.
	ErrMalformed = errors.New("wmsg: malformed payload")
	// ErrTimeout reports that a synchronous send was not answered in time.
	// The message stays queued at the destination.
	ErrTimeout = errors.New("wmsg: timeout")
	// ErrTargetHung reports that the destination stopped servicing its
	// queue while an abort-if-hung send was waiting.
	ErrTargetHung = errors.New("wmsg: target hung")
	// ErrOutOfMemory reports payload or table growth failure.
	ErrOutOfMemory = errors.New("wmsg: out of memory")
	// ErrSyncOnly reports an attempt to post or notify an identifier
	// that requires synchronous, pointer-carrying delivery.
	ErrSyncOnly = errors.New("wmsg: message requires synchronous send")
	// ErrQueueFull reports that the destination queue stayed full.
	ErrQueueFull = errors.New("wmsg: queue full")
	// ErrInvalidHandle reports an unknown shared memory block.
	ErrInvalidHandle = errors.New("wmsg: invalid handle")
)

// wrapErr attaches op context to err, mapping transport back-pressure.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if iox.IsWouldBlock(err) {
		err = ErrQueueFull
	}
	return fmt.Errorf("%s: %w", op, err)
}
