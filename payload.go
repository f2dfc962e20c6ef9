// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

// Rect is a rectangle in screen or client coordinates.
type Rect struct {
	Left, Top, Right, Bottom int32
}

const rectSize = 16

// TextBuffer receives text from WM_GETTEXT style requests.
// The capacity, in UTF-16 units including the terminator, is the
// message's WParam.
type TextBuffer struct {
	Text string
}

// EditLine is the EM_GETLINE buffer. Max is the capacity in UTF-16
// units and travels as the first word of the request payload.
type EditLine struct {
	Max  uint16
	Text string
}

// CreateStruct is the WM_CREATE / WM_NCCREATE payload.
type CreateStruct struct {
	CreateParams uint64
	Instance     Handle
	Menu         Handle
	Parent       Handle
	Cy, Cx, Y, X int32
	Style        uint32
	ExStyle      uint32
	Name         string
	Class        string
}

const createHeaderSize = 4*8 + 6*4

// MDICreateStruct is the WM_MDICREATE payload.
type MDICreateStruct struct {
	Class  string
	Title  string
	Owner  Handle
	X, Y   int32
	Cx, Cy int32
	Style  uint32
	LParam uint64
}

const mdiCreateHeaderSize = 8 + 4*4 + 4 + 8

// WindowPos is the WM_WINDOWPOSCHANGING / WM_WINDOWPOSCHANGED payload.
type WindowPos struct {
	Window      Handle
	InsertAfter Handle
	X, Y        int32
	Cx, Cy      int32
	Flags       uint32
}

const windowPosSize = 2*8 + 5*4

// MinMaxInfo is the WM_GETMINMAXINFO payload.
type MinMaxInfo struct {
	Reserved     Point
	MaxSize      Point
	MaxPosition  Point
	MinTrackSize Point
	MaxTrackSize Point
}

const minMaxSize = 5 * 8

// NCCalcSizeParams is the WM_NCCALCSIZE payload when WParam is set.
type NCCalcSizeParams struct {
	Rects [3]Rect
	Pos   WindowPos
}

// MeasureItem is the WM_MEASUREITEM payload.
type MeasureItem struct {
	CtlType    uint32
	CtlID      uint32
	ItemID     uint32
	ItemWidth  uint32
	ItemHeight uint32
	ItemData   uint64
}

const measureItemSize = 5*4 + 8

// DrawItem is the WM_DRAWITEM payload.
type DrawItem struct {
	CtlType    uint32
	CtlID      uint32
	ItemID     uint32
	ItemAction uint32
	ItemState  uint32
	Item       Handle
	DC         Handle
	RcItem     Rect
	ItemData   uint64
}

const drawItemSize = 5*4 + 2*8 + rectSize + 8

// CompareItem is the WM_COMPAREITEM payload.
type CompareItem struct {
	CtlType   uint32
	CtlID     uint32
	Item      Handle
	ItemID1   uint32
	ItemData1 uint64
	ItemID2   uint32
	ItemData2 uint64
	Locale    uint32
}

const compareItemSize = 4 + 4 + 8 + 4 + 8 + 4 + 8 + 4

// DeleteItem is the WM_DELETEITEM payload.
type DeleteItem struct {
	CtlType  uint32
	CtlID    uint32
	ItemID   uint32
	Item     Handle
	ItemData uint64
}

const deleteItemSize = 3*4 + 8 + 8

// CopyData is the WM_COPYDATA payload.
type CopyData struct {
	Data  uint64
	Bytes []byte
}

const copyDataHeaderSize = 8 + 4

// HelpInfo is the WM_HELP payload.
type HelpInfo struct {
	ContextType int32
	CtrlID      int32
	Item        Handle
	ContextID   uint64
	MousePos    Point
}

const helpInfoSize = 4 + 4 + 8 + 8 + 8

// StyleStruct is the WM_STYLECHANGING / WM_STYLECHANGED payload.
type StyleStruct struct {
	Old, New uint32
}

const styleSize = 8

// NextMenu is the WM_NEXTMENU payload.
type NextMenu struct {
	Menu       Handle
	MenuNext   Handle
	WindowNext Handle
}

const nextMenuSize = 3 * 8

// MsgInfo is the optional WM_GETDLGCODE payload.
type MsgInfo struct {
	Window  Handle
	Message uint32
	WParam  uint64
	LParam  uint64
}

const msgInfoSize = 8 + 4 + 8 + 8

// SelItems receives LB_GETSELITEMS results. The capacity is WParam.
type SelItems struct {
	Items []int32
}

func (c *CreateStruct) put(w *writer) {
	w.u64(c.CreateParams)
	w.handle(c.Instance)
	w.handle(c.Menu)
	w.handle(c.Parent)
	w.i32(c.Cy)
	w.i32(c.Cx)
	w.i32(c.Y)
	w.i32(c.X)
	w.u32(c.Style)
	w.u32(c.ExStyle)
}

func (c *CreateStruct) get(r *reader) {
	c.CreateParams = r.u64()
	c.Instance = r.handle()
	c.Menu = r.handle()
	c.Parent = r.handle()
	c.Cy = r.i32()
	c.Cx = r.i32()
	c.Y = r.i32()
	c.X = r.i32()
	c.Style = r.u32()
	c.ExStyle = r.u32()
}

func (c *MDICreateStruct) put(w *writer) {
	w.handle(c.Owner)
	w.i32(c.X)
	w.i32(c.Y)
	w.i32(c.Cx)
	w.i32(c.Cy)
	w.u32(c.Style)
	w.u64(c.LParam)
}

func (c *MDICreateStruct) get(r *reader) {
	c.Owner = r.handle()
	c.X = r.i32()
	c.Y = r.i32()
	c.Cx = r.i32()
	c.Cy = r.i32()
	c.Style = r.u32()
	c.LParam = r.u64()
}

func (p *WindowPos) put(w *writer) {
	w.handle(p.Window)
	w.handle(p.InsertAfter)
	w.i32(p.X)
	w.i32(p.Y)
	w.i32(p.Cx)
	w.i32(p.Cy)
	w.u32(p.Flags)
}

func (p *WindowPos) get(r *reader) {
	p.Window = r.handle()
	p.InsertAfter = r.handle()
	p.X = r.i32()
	p.Y = r.i32()
	p.Cx = r.i32()
	p.Cy = r.i32()
	p.Flags = r.u32()
}

func (m *MinMaxInfo) put(w *writer) {
	w.point(m.Reserved)
	w.point(m.MaxSize)
	w.point(m.MaxPosition)
	w.point(m.MinTrackSize)
	w.point(m.MaxTrackSize)
}

func (m *MinMaxInfo) get(r *reader) {
	m.Reserved = r.point()
	m.MaxSize = r.point()
	m.MaxPosition = r.point()
	m.MinTrackSize = r.point()
	m.MaxTrackSize = r.point()
}

func (m *MeasureItem) put(w *writer) {
	w.u32(m.CtlType)
	w.u32(m.CtlID)
	w.u32(m.ItemID)
	w.u32(m.ItemWidth)
	w.u32(m.ItemHeight)
	w.u64(m.ItemData)
}

func (m *MeasureItem) get(r *reader) {
	m.CtlType = r.u32()
	m.CtlID = r.u32()
	m.ItemID = r.u32()
	m.ItemWidth = r.u32()
	m.ItemHeight = r.u32()
	m.ItemData = r.u64()
}

func (d *DrawItem) put(w *writer) {
	w.u32(d.CtlType)
	w.u32(d.CtlID)
	w.u32(d.ItemID)
	w.u32(d.ItemAction)
	w.u32(d.ItemState)
	w.handle(d.Item)
	w.handle(d.DC)
	w.rect(d.RcItem)
	w.u64(d.ItemData)
}

func (d *DrawItem) get(r *reader) {
	d.CtlType = r.u32()
	d.CtlID = r.u32()
	d.ItemID = r.u32()
	d.ItemAction = r.u32()
	d.ItemState = r.u32()
	d.Item = r.handle()
	d.DC = r.handle()
	d.RcItem = r.rect()
	d.ItemData = r.u64()
}

func (c *CompareItem) put(w *writer) {
	w.u32(c.CtlType)
	w.u32(c.CtlID)
	w.handle(c.Item)
	w.u32(c.ItemID1)
	w.u64(c.ItemData1)
	w.u32(c.ItemID2)
	w.u64(c.ItemData2)
	w.u32(c.Locale)
}

func (c *CompareItem) get(r *reader) {
	c.CtlType = r.u32()
	c.CtlID = r.u32()
	c.Item = r.handle()
	c.ItemID1 = r.u32()
	c.ItemData1 = r.u64()
	c.ItemID2 = r.u32()
	c.ItemData2 = r.u64()
	c.Locale = r.u32()
}

func (d *DeleteItem) put(w *writer) {
	w.u32(d.CtlType)
	w.u32(d.CtlID)
	w.u32(d.ItemID)
	w.handle(d.Item)
	w.u64(d.ItemData)
}

func (d *DeleteItem) get(r *reader) {
	d.CtlType = r.u32()
	d.CtlID = r.u32()
	d.ItemID = r.u32()
	d.Item = r.handle()
	d.ItemData = r.u64()
}

func (h *HelpInfo) put(w *writer) {
	w.i32(h.ContextType)
	w.i32(h.CtrlID)
	w.handle(h.Item)
	w.u64(h.ContextID)
	w.point(h.MousePos)
}

func (h *HelpInfo) get(r *reader) {
	h.ContextType = r.i32()
	h.CtrlID = r.i32()
	h.Item = r.handle()
	h.ContextID = r.u64()
	h.MousePos = r.point()
}

func (s *StyleStruct) put(w *writer) {
	w.u32(s.Old)
	w.u32(s.New)
}

func (s *StyleStruct) get(r *reader) {
	s.Old = r.u32()
	s.New = r.u32()
}

func (n *NextMenu) put(w *writer) {
	w.handle(n.Menu)
	w.handle(n.MenuNext)
	w.handle(n.WindowNext)
}

func (n *NextMenu) get(r *reader) {
	n.Menu = r.handle()
	n.MenuNext = r.handle()
	n.WindowNext = r.handle()
}

func (m *MsgInfo) put(w *writer) {
	w.handle(m.Window)
	w.u32(m.Message)
	w.u64(m.WParam)
	w.u64(m.LParam)
}

func (m *MsgInfo) get(r *reader) {
	m.Window = r.handle()
	m.Message = r.u32()
	m.WParam = r.u64()
	m.LParam = r.u64()
}

func (rc *Rect) put(w *writer) { w.rect(*rc) }
func (rc *Rect) get(r *reader) { *rc = r.rect() }

func (n *NCCalcSizeParams) put(w *writer) {
	for _, rc := range n.Rects {
		w.rect(rc)
	}
}

func (n *NCCalcSizeParams) get(r *reader) {
	for i := range n.Rects {
		n.Rects[i] = r.rect()
	}
}
