// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func zapThread(id ThreadID) zap.Field { return zap.Uint32("thread", uint32(id)) }

func zapProcess(id ProcessID) zap.Field { return zap.Uint32("process", uint32(id)) }

func zapKind(k Kind) zap.Field { return zap.Stringer("kind", k) }

// zapMsg logs the identifier and parameters of m as one object.
func zapMsg(m *Message) zap.Field {
	return zap.Object("msg", msgMarshaler{m})
}

type msgMarshaler struct{ m *Message }

func (mm msgMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUintptr("window", uintptr(mm.m.Window))
	enc.AddUint32("id", mm.m.ID)
	enc.AddUintptr("wparam", mm.m.WParam)
	enc.AddUintptr("lparam", mm.m.LParam)
	if c := Classify(mm.m.ID); c.Family != FamilyOther {
		enc.AddString("family", c.Family.String())
	}
	return nil
}
