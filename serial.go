// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing message identifier.
// Each queued message is stamped with the next serial value.
type Serial = uint32

// Global monotonic counters. Identifiers are never reused within the
// lifetime of the program.
var (
	serialCounter  atomix.Uint32
	threadCounter  atomix.Uint32
	processCounter atomix.Uint32
	handleCounter  atomix.Uint32
)

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return serialCounter.Add(1)
}

func nextThreadID() ThreadID {
	return ThreadID(threadCounter.Add(1))
}

func nextProcessID() ProcessID {
	return ProcessID(processCounter.Add(1))
}

// handleBase keeps handles clear of the 16-bit atom range.
const handleBase = 0x10000

// nextHandle returns a fresh window or block handle. Handles are
// multiples of four above handleBase.
func nextHandle() Handle {
	return Handle(handleBase + uintptr(handleCounter.Add(1))<<2)
}
