// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

// Handle identifies a window or a shared memory block.
// Handles handed out by this package are always above 0xffff so they
// never collide with atoms carried in the same parameter slot.
type Handle uintptr

// Broadcast addresses every top-level window.
const Broadcast Handle = 0xffff

// ThreadID identifies a Thread and its inbound queue.
type ThreadID uint32

// ProcessID identifies a Process (an address space).
type ProcessID uint32

// Point is a screen position.
type Point struct {
	X, Y int32
}

// Message is a window message.
//
// For identifiers whose second parameter is a pointer, Data holds the
// pointed-to payload (see the Family documentation for the expected
// Go type) and LParam is ignored by the codec. Data values that the
// receiver fills in must be pointers so the reply can be copied back.
type Message struct {
	Window Handle
	ID     uint32
	WParam uintptr
	LParam uintptr
	Data   any
	Time   uint32
	Pt     Point
}

// Kind is the delivery kind a message is queued with.
// It is assigned at send time and carried unchanged through delivery.
type Kind uint8

const (
	KindUnicode Kind = iota
	KindAscii
	KindCrossProcess
	KindNotify
	KindCallback
	KindPosted
	KindHardware
	KindWinEvent
	KindCallbackResult
)

var kindNames = [...]string{
	KindUnicode:        "unicode",
	KindAscii:          "ascii",
	KindCrossProcess:   "cross-process",
	KindNotify:         "notify",
	KindCallback:       "callback",
	KindPosted:         "posted",
	KindHardware:       "hardware",
	KindWinEvent:       "winevent",
	KindCallbackResult: "callback-result",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// sent reports whether the kind travels on the sent-message list,
// which is drained ahead of posted and hardware messages.
func (k Kind) sent() bool {
	switch k {
	case KindUnicode, KindAscii, KindCrossProcess, KindNotify, KindCallback:
		return true
	}
	return false
}

// outOfBand reports whether the kind is consumed by the dispatch loop
// without ever being surfaced to its caller.
func (k Kind) outOfBand() bool {
	return k == KindWinEvent || k == KindCallbackResult
}

// Window message identifiers.
const (
	WM_NULL              = 0x0000
	WM_CREATE            = 0x0001
	WM_MOVE              = 0x0003
	WM_SIZE              = 0x0005
	WM_SETTEXT           = 0x000C
	WM_GETTEXT           = 0x000D
	WM_GETTEXTLENGTH     = 0x000E
	WM_PAINT             = 0x000F
	WM_CLOSE             = 0x0010
	WM_QUIT              = 0x0012
	WM_WININICHANGE      = 0x001A
	WM_DEVMODECHANGE     = 0x001B
	WM_GETMINMAXINFO     = 0x0024
	WM_DRAWITEM          = 0x002B
	WM_MEASUREITEM       = 0x002C
	WM_DELETEITEM        = 0x002D
	WM_COMPAREITEM       = 0x0039
	WM_WINDOWPOSCHANGING = 0x0046
	WM_WINDOWPOSCHANGED  = 0x0047
	WM_COPYDATA          = 0x004A
	WM_NOTIFY            = 0x004E
	WM_HELP              = 0x0053
	WM_STYLECHANGING     = 0x007C
	WM_STYLECHANGED      = 0x007D
	WM_NCCREATE          = 0x0081
	WM_NCCALCSIZE        = 0x0083
	WM_NCHITTEST         = 0x0084
	WM_GETDLGCODE        = 0x0087

	WM_NCMOUSEMOVE     = 0x00A0
	WM_NCLBUTTONDOWN   = 0x00A1
	WM_NCLBUTTONDBLCLK = 0x00A3
	WM_NCRBUTTONDOWN   = 0x00A4
	WM_NCMBUTTONDOWN   = 0x00A7
	WM_NCXBUTTONDOWN   = 0x00AB
	WM_NCXBUTTONDBLCLK = 0x00AD
	WM_KEYFIRST        = 0x0100
	WM_KEYDOWN         = 0x0100
	WM_KEYUP           = 0x0101
	WM_CHAR            = 0x0102
	WM_SYSKEYDOWN      = 0x0104
	WM_SYSKEYUP        = 0x0105
	WM_KEYLAST         = 0x0109
	WM_MOUSEFIRST      = 0x0200
	WM_MOUSEMOVE       = 0x0200
	WM_LBUTTONDOWN     = 0x0201
	WM_LBUTTONUP       = 0x0202
	WM_LBUTTONDBLCLK   = 0x0203
	WM_RBUTTONDOWN     = 0x0204
	WM_RBUTTONUP       = 0x0205
	WM_RBUTTONDBLCLK   = 0x0206
	WM_MBUTTONDOWN     = 0x0207
	WM_MBUTTONUP       = 0x0208
	WM_MBUTTONDBLCLK   = 0x0209
	WM_MOUSEWHEEL      = 0x020A
	WM_XBUTTONDOWN     = 0x020B
	WM_XBUTTONUP       = 0x020C
	WM_XBUTTONDBLCLK   = 0x020D
	WM_MOUSEHWHEEL     = 0x020E
	WM_MOUSELAST       = 0x020E
	WM_NEXTMENU        = 0x0213
	WM_SIZING          = 0x0214
	WM_MOVING          = 0x0216
	WM_MDICREATE       = 0x0220
	WM_MDIGETACTIVE    = 0x0229
	WM_PAINTCLIPBOARD  = 0x0309
	WM_SIZECLIPBOARD   = 0x030B
	WM_ASKCBFORMATNAME = 0x030C
	WM_DDE_FIRST       = 0x03E0
	WM_DDE_INITIATE    = 0x03E0
	WM_DDE_TERMINATE   = 0x03E1
	WM_DDE_ADVISE      = 0x03E2
	WM_DDE_UNADVISE    = 0x03E3
	WM_DDE_ACK         = 0x03E4
	WM_DDE_DATA        = 0x03E5
	WM_DDE_REQUEST     = 0x03E6
	WM_DDE_POKE        = 0x03E7
	WM_DDE_EXECUTE     = 0x03E8
	WM_DDE_LAST        = 0x03E8
	WM_USER            = 0x0400
)

// Edit, list box and combo box identifiers that carry pointers.
const (
	EM_GETRECT               = 0x00B2
	EM_SETRECT               = 0x00B3
	EM_SETRECTNP             = 0x00B4
	EM_REPLACESEL            = 0x00C2
	EM_GETLINE               = 0x00C4
	EM_SETTABSTOPS           = 0x00CB
	CB_ADDSTRING             = 0x0143
	CB_DIR                   = 0x0145
	CB_INSERTSTRING          = 0x014A
	CB_FINDSTRING            = 0x014C
	CB_SELECTSTRING          = 0x014D
	CB_GETDROPPEDCONTROLRECT = 0x0152
	CB_FINDSTRINGEXACT       = 0x0158
	LB_ADDSTRING             = 0x0180
	LB_INSERTSTRING          = 0x0181
	LB_SELECTSTRING          = 0x018C
	LB_DIR                   = 0x018D
	LB_FINDSTRING            = 0x018F
	LB_GETSELITEMS           = 0x0191
	LB_SETTABSTOPS           = 0x0192
	LB_ADDFILE               = 0x0196
	LB_GETITEMRECT           = 0x0198
	LB_FINDSTRINGEXACT       = 0x01A2
)

// Hit-test codes returned by the window manager.
const (
	HTTRANSPARENT = -1
	HTNOWHERE     = 0
	HTCLIENT      = 1
	HTCAPTION     = 2
)

// MakeLParam packs two 16-bit values the way mouse and DDE messages do.
func MakeLParam(lo, hi uint16) uintptr {
	return uintptr(lo) | uintptr(hi)<<16
}

func loWord(v uintptr) uint16 { return uint16(v) }
func hiWord(v uintptr) uint16 { return uint16(v >> 16) }
