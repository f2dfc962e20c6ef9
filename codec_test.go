// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg_test

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"code.hybscloud.com/wmsg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// transfer packs m as a request and unpacks it on the other side.
func transfer(t *testing.T, m wmsg.Message) wmsg.Message {
	t.Helper()
	p, err := wmsg.Pack(&m, wmsg.Request, 0)
	if err != nil {
		t.Fatalf("Pack(0x%04x): %v", m.ID, err)
	}
	out, err := wmsg.Unpack(&m, wmsg.NewBuffer(p.Bytes()), wmsg.Request)
	if err != nil {
		t.Fatalf("Unpack(0x%04x): %v", m.ID, err)
	}
	return out
}

// roundTrip returns a function reporting whether v survives a request
// transfer under id.
func roundTrip[T any](id uint32) func(v T) bool {
	return func(v T) bool {
		m := wmsg.Message{ID: id, Data: &v}
		p, err := wmsg.Pack(&m, wmsg.Request, 0)
		if err != nil {
			return false
		}
		out, err := wmsg.Unpack(&m, wmsg.NewBuffer(p.Bytes()), wmsg.Request)
		if err != nil {
			return false
		}
		got, ok := out.Data.(*T)
		return ok && cmp.Equal(*got, v) && got != &v
	}
}

func TestFixedLayoutRoundTrip(t *testing.T) {
	checks := map[string]any{
		"rect":        roundTrip[wmsg.Rect](wmsg.EM_SETRECT),
		"windowpos":   roundTrip[wmsg.WindowPos](wmsg.WM_WINDOWPOSCHANGED),
		"minmax":      roundTrip[wmsg.MinMaxInfo](wmsg.WM_GETMINMAXINFO),
		"measureitem": roundTrip[wmsg.MeasureItem](wmsg.WM_MEASUREITEM),
		"drawitem":    roundTrip[wmsg.DrawItem](wmsg.WM_DRAWITEM),
		"compareitem": roundTrip[wmsg.CompareItem](wmsg.WM_COMPAREITEM),
		"deleteitem":  roundTrip[wmsg.DeleteItem](wmsg.WM_DELETEITEM),
		"help":        roundTrip[wmsg.HelpInfo](wmsg.WM_HELP),
		"style":       roundTrip[wmsg.StyleStruct](wmsg.WM_STYLECHANGED),
		"nextmenu":    roundTrip[wmsg.NextMenu](wmsg.WM_NEXTMENU),
		"msginfo":     roundTrip[wmsg.MsgInfo](wmsg.WM_GETDLGCODE),
	}
	for name, f := range checks {
		if err := quick.Check(f, nil); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

// plain strips what a NUL-terminated wide string cannot carry.
func plain(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}

// sameData reports whether a transfer of m yields want.
func sameData(m wmsg.Message, dir wmsg.Direction, result uintptr, want any) bool {
	p, err := wmsg.Pack(&m, dir, result)
	if err != nil {
		return false
	}
	out, err := wmsg.Unpack(&m, wmsg.NewBuffer(p.Bytes()), dir)
	if err != nil {
		return false
	}
	return cmp.Equal(want, out.Data, cmpopts.EquateEmpty())
}

func TestVariableLayoutRoundTrip(t *testing.T) {
	checks := map[string]any{
		"settext": func(s string) bool {
			s = plain(s)
			return sameData(wmsg.Message{ID: wmsg.WM_SETTEXT, Data: s}, wmsg.Request, 0, s)
		},
		"create": func(v wmsg.CreateStruct) bool {
			v.Name, v.Class = plain(v.Name), plain(v.Class)
			return sameData(wmsg.Message{ID: wmsg.WM_CREATE, Data: &v}, wmsg.Request, 0, &v)
		},
		"mdicreate": func(v wmsg.MDICreateStruct) bool {
			v.Class, v.Title = plain(v.Class), plain(v.Title)
			return sameData(wmsg.Message{ID: wmsg.WM_MDICREATE, Data: &v}, wmsg.Request, 0, &v)
		},
		"copydata": func(v wmsg.CopyData) bool {
			return sameData(wmsg.Message{ID: wmsg.WM_COPYDATA, Data: &v}, wmsg.Request, 0, &v)
		},
		"tabstops": func(v []int32) bool {
			m := wmsg.Message{ID: wmsg.LB_SETTABSTOPS, WParam: uintptr(len(v)), Data: v}
			return sameData(m, wmsg.Request, 0, v)
		},
		"nccalcsize": func(v wmsg.NCCalcSizeParams) bool {
			return sameData(wmsg.Message{ID: wmsg.WM_NCCALCSIZE, WParam: 1, Data: &v}, wmsg.Request, 0, &v)
		},
		"gettext reply": func(s string) bool {
			s = plain(s)
			m := wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: uintptr(4*len(s) + 1), Data: &wmsg.TextBuffer{Text: s}}
			return sameData(m, wmsg.Reply, 0, &wmsg.TextBuffer{Text: s})
		},
		"editline reply": func(s string) bool {
			s = plain(s)
			m := wmsg.Message{ID: wmsg.EM_GETLINE, Data: &wmsg.EditLine{Max: 0xffff, Text: s}}
			return sameData(m, wmsg.Reply, uintptr(2*len(s)), &wmsg.EditLine{Text: s})
		},
		"selitems reply": func(v []int32) bool {
			m := wmsg.Message{ID: wmsg.LB_GETSELITEMS, WParam: uintptr(len(v)), Data: &wmsg.SelItems{Items: v}}
			return sameData(m, wmsg.Reply, uintptr(len(v)), &wmsg.SelItems{Items: v})
		},
	}
	for name, f := range checks {
		if err := quick.Check(f, nil); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestUnpackRequest(t *testing.T) {
	tests := []struct {
		name string
		msg  wmsg.Message
		want any
	}{
		{
			name: "settext",
			msg:  wmsg.Message{ID: wmsg.WM_SETTEXT, Data: "hello"},
			want: "hello",
		},
		{
			name: "settext nil",
			msg:  wmsg.Message{ID: wmsg.WM_SETTEXT},
			want: nil,
		},
		{
			name: "settext narrow",
			msg:  wmsg.Message{ID: wmsg.WM_SETTEXT, Data: []byte{'c', 'a', 'f', 0xe9, 0, 'x'}},
			want: "café",
		},
		{
			name: "create",
			msg: wmsg.Message{ID: wmsg.WM_CREATE, Data: &wmsg.CreateStruct{
				CreateParams: 7, Parent: 0x10004, Cx: 640, Cy: 480, Style: 0x10cf0000,
				Name: "Untitled", Class: "Notepad",
			}},
			want: &wmsg.CreateStruct{
				CreateParams: 7, Parent: 0x10004, Cx: 640, Cy: 480, Style: 0x10cf0000,
				Name: "Untitled", Class: "Notepad",
			},
		},
		{
			name: "mdicreate",
			msg: wmsg.Message{ID: wmsg.WM_MDICREATE, Data: &wmsg.MDICreateStruct{
				Class: "Child", Title: "Doc 1", X: -1, Y: -1, LParam: 42,
			}},
			want: &wmsg.MDICreateStruct{Class: "Child", Title: "Doc 1", X: -1, Y: -1, LParam: 42},
		},
		{
			name: "copydata",
			msg:  wmsg.Message{ID: wmsg.WM_COPYDATA, Data: &wmsg.CopyData{Data: 9, Bytes: []byte("payload")}},
			want: &wmsg.CopyData{Data: 9, Bytes: []byte("payload")},
		},
		{
			name: "copydata empty",
			msg:  wmsg.Message{ID: wmsg.WM_COPYDATA, Data: &wmsg.CopyData{Data: 9}},
			want: &wmsg.CopyData{Data: 9},
		},
		{
			name: "tabstops",
			msg:  wmsg.Message{ID: wmsg.LB_SETTABSTOPS, WParam: 2, Data: []int32{8, 16, 24}},
			want: []int32{8, 16},
		},
		{
			name: "nccalcsize rect",
			msg:  wmsg.Message{ID: wmsg.WM_NCCALCSIZE, Data: &wmsg.Rect{Right: 100, Bottom: 50}},
			want: &wmsg.Rect{Right: 100, Bottom: 50},
		},
		{
			name: "nccalcsize params",
			msg: wmsg.Message{ID: wmsg.WM_NCCALCSIZE, WParam: 1, Data: &wmsg.NCCalcSizeParams{
				Rects: [3]wmsg.Rect{{Right: 10}, {Right: 20}, {Right: 30}},
				Pos:   wmsg.WindowPos{Window: 0x10008, Cx: 10, Flags: 4},
			}},
			want: &wmsg.NCCalcSizeParams{
				Rects: [3]wmsg.Rect{{Right: 10}, {Right: 20}, {Right: 30}},
				Pos:   wmsg.WindowPos{Window: 0x10008, Cx: 10, Flags: 4},
			},
		},
		{
			name: "gettext",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 16, Data: &wmsg.TextBuffer{Text: "stale"}},
			want: &wmsg.TextBuffer{},
		},
		{
			name: "getrect",
			msg:  wmsg.Message{ID: wmsg.EM_GETRECT, Data: &wmsg.Rect{Left: 3}},
			want: &wmsg.Rect{},
		},
		{
			name: "editline",
			msg:  wmsg.Message{ID: wmsg.EM_GETLINE, Data: &wmsg.EditLine{Max: 12, Text: "stale"}},
			want: &wmsg.EditLine{Max: 12},
		},
		{
			name: "dlgcode nil",
			msg:  wmsg.Message{ID: wmsg.WM_GETDLGCODE},
			want: nil,
		},
		{
			name: "plain",
			msg:  wmsg.Message{ID: wmsg.WM_SIZE, WParam: 1, LParam: wmsg.MakeLParam(640, 480)},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := transfer(t, tt.msg)
			if diff := cmp.Diff(tt.want, out.Data); diff != "" {
				t.Fatalf("Data mismatch (-want +got):\n%s", diff)
			}
			if out.ID != tt.msg.ID || out.WParam != tt.msg.WParam || out.LParam != tt.msg.LParam {
				t.Fatalf("header changed: got %+v", out)
			}
		})
	}
}

func TestUnpackDoesNotAlias(t *testing.T) {
	src := &wmsg.CopyData{Bytes: []byte("abc")}
	out := transfer(t, wmsg.Message{ID: wmsg.WM_COPYDATA, Data: src})
	src.Bytes[0] = 'x'
	if got := string(out.Data.(*wmsg.CopyData).Bytes); got != "abc" {
		t.Fatalf("unpacked bytes = %q, want %q", got, "abc")
	}
}

func TestPackChunks(t *testing.T) {
	tests := []struct {
		name string
		msg  wmsg.Message
		n    int
	}{
		{"plain", wmsg.Message{ID: wmsg.WM_SIZE}, 0},
		{"settext", wmsg.Message{ID: wmsg.WM_SETTEXT, Data: "a"}, 1},
		{"create", wmsg.Message{ID: wmsg.WM_CREATE, Data: &wmsg.CreateStruct{Name: "n", Class: "c"}}, 3},
		{"nccalcsize", wmsg.Message{ID: wmsg.WM_NCCALCSIZE, WParam: 1, Data: &wmsg.NCCalcSizeParams{}}, 2},
		{"copydata", wmsg.Message{ID: wmsg.WM_COPYDATA, Data: &wmsg.CopyData{Bytes: []byte{1}}}, 2},
	}
	for _, tt := range tests {
		p, err := wmsg.Pack(&tt.msg, wmsg.Request, 0)
		if err != nil {
			t.Fatalf("%s: Pack: %v", tt.name, err)
		}
		if p.Count() != tt.n || p.Count() > wmsg.MaxChunks {
			t.Fatalf("%s: Count() = %d, want %d", tt.name, p.Count(), tt.n)
		}
		if tt.n == 0 && p.Bytes() != nil {
			t.Fatalf("%s: empty payload has bytes", tt.name)
		}
	}
	m := wmsg.Message{ID: wmsg.WM_SETTEXT, Data: "hi"}
	p, _ := wmsg.Pack(&m, wmsg.Request, 0)
	if got, want := p.Chunk(0), []byte{'h', 0, 'i', 0, 0, 0}; !cmp.Equal(got, want) {
		t.Fatalf("settext chunk = %v, want %v", got, want)
	}
	if p.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", p.Len())
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name string
		msg  wmsg.Message
		want error
	}{
		{"local only", wmsg.Message{ID: wmsg.WM_NOTIFY, Data: struct{}{}}, wmsg.ErrUnsupported},
		{"wrong type", wmsg.Message{ID: wmsg.WM_GETMINMAXINFO, Data: &wmsg.Rect{}}, wmsg.ErrUnsupported},
		{"nil struct", wmsg.Message{ID: wmsg.WM_WINDOWPOSCHANGING}, wmsg.ErrUnsupported},
		{"short tabstops", wmsg.Message{ID: wmsg.EM_SETTABSTOPS, WParam: 3, Data: []int32{1}}, wmsg.ErrUnsupported},
		{"text type", wmsg.Message{ID: wmsg.WM_SETTEXT, Data: 5}, wmsg.ErrUnsupported},
		{"out buffer", wmsg.Message{ID: wmsg.LB_GETSELITEMS, WParam: 4}, wmsg.ErrUnsupported},
	}
	for _, tt := range tests {
		if _, err := wmsg.Pack(&tt.msg, wmsg.Request, 0); !errors.Is(err, tt.want) {
			t.Fatalf("%s: Pack err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestUnpackMalformed(t *testing.T) {
	tests := []struct {
		name string
		msg  wmsg.Message
		data []byte
		want error
	}{
		{"unterminated text", wmsg.Message{ID: wmsg.WM_SETTEXT}, []byte{'h', 0, 'i', 0}, wmsg.ErrMalformed},
		{"short rect", wmsg.Message{ID: wmsg.EM_SETRECT}, make([]byte, 15), wmsg.ErrMalformed},
		{"short create", wmsg.Message{ID: wmsg.WM_CREATE}, make([]byte, 20), wmsg.ErrMalformed},
		{"tabstops count", wmsg.Message{ID: wmsg.LB_SETTABSTOPS, WParam: 1 << 30}, make([]byte, 8), wmsg.ErrMalformed},
		{"copydata length", wmsg.Message{ID: wmsg.WM_COPYDATA}, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0, 0}, wmsg.ErrMalformed},
		{"editline empty", wmsg.Message{ID: wmsg.EM_GETLINE}, nil, wmsg.ErrMalformed},
		{"local only", wmsg.Message{ID: wmsg.WM_SIZECLIPBOARD}, []byte{1}, wmsg.ErrUnsupported},
	}
	for _, tt := range tests {
		if _, err := wmsg.Unpack(&tt.msg, wmsg.NewBuffer(tt.data), wmsg.Request); !errors.Is(err, tt.want) {
			t.Fatalf("%s: Unpack err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

// reply packs the receiver's copy of m and unpacks it for the sender.
func reply(t *testing.T, m wmsg.Message, result uintptr) any {
	t.Helper()
	p, err := wmsg.Pack(&m, wmsg.Reply, result)
	if err != nil {
		t.Fatalf("Pack reply 0x%04x: %v", m.ID, err)
	}
	out, err := wmsg.Unpack(&m, wmsg.NewBuffer(p.Bytes()), wmsg.Reply)
	if err != nil {
		t.Fatalf("Unpack reply 0x%04x: %v", m.ID, err)
	}
	return out.Data
}

func TestReplyPayload(t *testing.T) {
	tests := []struct {
		name   string
		msg    wmsg.Message
		result uintptr
		want   any
	}{
		{
			name: "gettext fits",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 16, Data: &wmsg.TextBuffer{Text: "hello"}},
			want: &wmsg.TextBuffer{Text: "hello"},
		},
		{
			name: "gettext truncated",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 4, Data: &wmsg.TextBuffer{Text: "hello"}},
			want: &wmsg.TextBuffer{Text: "hel"},
		},
		{
			name: "gettext keeps surrogate pairs",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 3, Data: &wmsg.TextBuffer{Text: "a\U0001F600"}},
			want: &wmsg.TextBuffer{Text: "a"},
		},
		{
			name: "gettext whole pair",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 4, Data: &wmsg.TextBuffer{Text: "a\U0001F600"}},
			want: &wmsg.TextBuffer{Text: "a\U0001F600"},
		},
		{
			name:   "editline keeps surrogate pairs",
			msg:    wmsg.Message{ID: wmsg.EM_GETLINE, Data: &wmsg.EditLine{Max: 10, Text: "a\U0001F600"}},
			result: 2,
			want:   &wmsg.EditLine{Text: "a"},
		},
		{
			name: "gettext one unit",
			msg:  wmsg.Message{ID: wmsg.WM_GETTEXT, WParam: 1, Data: &wmsg.TextBuffer{Text: "hello"}},
			want: &wmsg.TextBuffer{},
		},
		{
			name:   "editline result",
			msg:    wmsg.Message{ID: wmsg.EM_GETLINE, Data: &wmsg.EditLine{Max: 10, Text: "abcdef"}},
			result: 3,
			want:   &wmsg.EditLine{Text: "abc"},
		},
		{
			name:   "editline capacity",
			msg:    wmsg.Message{ID: wmsg.EM_GETLINE, Data: &wmsg.EditLine{Max: 2, Text: "abcdef"}},
			result: 6,
			want:   &wmsg.EditLine{Text: "ab"},
		},
		{
			name:   "selitems result",
			msg:    wmsg.Message{ID: wmsg.LB_GETSELITEMS, WParam: 8, Data: &wmsg.SelItems{Items: []int32{1, 3, 5, 7}}},
			result: 2,
			want:   &wmsg.SelItems{Items: []int32{1, 3}},
		},
		{
			name:   "selitems capacity",
			msg:    wmsg.Message{ID: wmsg.LB_GETSELITEMS, WParam: 3, Data: &wmsg.SelItems{Items: []int32{1, 3, 5, 7}}},
			result: 4,
			want:   &wmsg.SelItems{Items: []int32{1, 3, 5}},
		},
		{
			name: "minmax",
			msg:  wmsg.Message{ID: wmsg.WM_GETMINMAXINFO, Data: &wmsg.MinMaxInfo{MaxSize: wmsg.Point{X: 800, Y: 600}}},
			want: &wmsg.MinMaxInfo{MaxSize: wmsg.Point{X: 800, Y: 600}},
		},
		{
			name: "mdigetactive",
			msg:  wmsg.Message{ID: wmsg.WM_MDIGETACTIVE, Data: ptr(true)},
			want: ptr(true),
		},
		{
			name: "windowposchanged",
			msg:  wmsg.Message{ID: wmsg.WM_WINDOWPOSCHANGED, Data: &wmsg.WindowPos{X: 1}},
			want: nil,
		},
		{
			name: "settext",
			msg:  wmsg.Message{ID: wmsg.WM_SETTEXT, Data: "x"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, reply(t, tt.msg, tt.result)); diff != "" {
				t.Fatalf("reply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestDirectionString(t *testing.T) {
	if wmsg.Request.String() != "request" || wmsg.Reply.String() != "reply" {
		t.Fatalf("Direction strings = %q, %q", wmsg.Request, wmsg.Reply)
	}
}
