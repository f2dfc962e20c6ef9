// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wmsg

// Family is the closed set of marshalling rules an identifier can follow.
// Identifiers outside the table are FamilyOther: their parameters are
// plain words and need no marshalling.
type Family uint8

const (
	FamilyOther        Family = iota
	FamilyTextIn              // Data: string, or []byte (Windows-1252) for ascii sends
	FamilyTextOut             // Data: *TextBuffer, capacity in WParam characters
	FamilyEditLine            // Data: *EditLine
	FamilyCreate              // Data: *CreateStruct
	FamilyMDICreate           // Data: *MDICreateStruct
	FamilyRectIn              // Data: *Rect
	FamilyRectOut             // Data: *Rect
	FamilyRectInOut           // Data: *Rect
	FamilyWindowPos           // Data: *WindowPos
	FamilyMinMax              // Data: *MinMaxInfo
	FamilyNCCalcSize          // Data: *NCCalcSizeParams when WParam != 0, else *Rect
	FamilyMeasureItem         // Data: *MeasureItem
	FamilyDrawItem            // Data: *DrawItem
	FamilyCompareItem         // Data: *CompareItem
	FamilyDeleteItem          // Data: *DeleteItem
	FamilyCopyData            // Data: *CopyData
	FamilyHelp                // Data: *HelpInfo
	FamilyStyle               // Data: *StyleStruct
	FamilyNextMenu            // Data: *NextMenu
	FamilyDlgCode             // Data: *MsgInfo or nil
	FamilyTabStops            // Data: []int32 with WParam entries
	FamilySelItems            // Data: *SelItems, capacity in WParam entries
	FamilyMDIGetActive        // Data: *bool or nil
	FamilyLocalOnly           // payload is only meaningful inside its own process
	FamilyDDE                 // legacy data exchange, see dde.go
)

var familyNames = [...]string{
	FamilyOther:        "other",
	FamilyTextIn:       "text-in",
	FamilyTextOut:      "text-out",
	FamilyEditLine:     "edit-line",
	FamilyCreate:       "create",
	FamilyMDICreate:    "mdi-create",
	FamilyRectIn:       "rect-in",
	FamilyRectOut:      "rect-out",
	FamilyRectInOut:    "rect-inout",
	FamilyWindowPos:    "windowpos",
	FamilyMinMax:       "minmax",
	FamilyNCCalcSize:   "nccalcsize",
	FamilyMeasureItem:  "measureitem",
	FamilyDrawItem:     "drawitem",
	FamilyCompareItem:  "compareitem",
	FamilyDeleteItem:   "deleteitem",
	FamilyCopyData:     "copydata",
	FamilyHelp:         "help",
	FamilyStyle:        "style",
	FamilyNextMenu:     "nextmenu",
	FamilyDlgCode:      "dlgcode",
	FamilyTabStops:     "tabstops",
	FamilySelItems:     "selitems",
	FamilyMDIGetActive: "mdigetactive",
	FamilyLocalOnly:    "local-only",
	FamilyDDE:          "dde",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// Class is the classification of a message identifier.
type Class struct {
	// Pointer is set when the second parameter addresses a payload.
	Pointer bool
	// Text is set when the payload is character data that needs
	// narrow/wide conversion.
	Text   bool
	Family Family
}

// tableSize covers every system identifier below WM_USER.
const tableSize = WM_USER

// idSet is a fixed bitset over identifiers below tableSize.
type idSet [tableSize / 64]uint64

func (s *idSet) add(ids ...uint32) {
	for _, id := range ids {
		s[id/64] |= 1 << (id % 64)
	}
}

func (s *idSet) has(id uint32) bool {
	if id >= tableSize {
		return false
	}
	return s[id/64]&(1<<(id%64)) != 0
}

// classTable holds the two lookup bitsets and the family of every
// identifier. It is built once and never mutated afterwards.
type classTable struct {
	pointer  idSet
	text     idSet
	families [tableSize]Family
}

var classes = newClassTable()

func newClassTable() *classTable {
	t := &classTable{}
	fam := func(f Family, ids ...uint32) {
		for _, id := range ids {
			t.families[id] = f
		}
		if f != FamilyDDE {
			t.pointer.add(ids...)
		}
	}

	fam(FamilyTextIn, WM_SETTEXT, WM_WININICHANGE, WM_DEVMODECHANGE, EM_REPLACESEL,
		CB_ADDSTRING, CB_DIR, CB_INSERTSTRING, CB_FINDSTRING, CB_SELECTSTRING, CB_FINDSTRINGEXACT,
		LB_ADDSTRING, LB_INSERTSTRING, LB_SELECTSTRING, LB_DIR, LB_FINDSTRING, LB_ADDFILE,
		LB_FINDSTRINGEXACT)
	fam(FamilyTextOut, WM_GETTEXT, WM_ASKCBFORMATNAME)
	fam(FamilyEditLine, EM_GETLINE)
	fam(FamilyCreate, WM_CREATE, WM_NCCREATE)
	fam(FamilyMDICreate, WM_MDICREATE)
	fam(FamilyRectIn, EM_SETRECT, EM_SETRECTNP)
	fam(FamilyRectOut, EM_GETRECT, LB_GETITEMRECT, CB_GETDROPPEDCONTROLRECT)
	fam(FamilyRectInOut, WM_SIZING, WM_MOVING)
	fam(FamilyWindowPos, WM_WINDOWPOSCHANGING, WM_WINDOWPOSCHANGED)
	fam(FamilyMinMax, WM_GETMINMAXINFO)
	fam(FamilyNCCalcSize, WM_NCCALCSIZE)
	fam(FamilyMeasureItem, WM_MEASUREITEM)
	fam(FamilyDrawItem, WM_DRAWITEM)
	fam(FamilyCompareItem, WM_COMPAREITEM)
	fam(FamilyDeleteItem, WM_DELETEITEM)
	fam(FamilyCopyData, WM_COPYDATA)
	fam(FamilyHelp, WM_HELP)
	fam(FamilyStyle, WM_STYLECHANGING, WM_STYLECHANGED)
	fam(FamilyNextMenu, WM_NEXTMENU)
	fam(FamilyDlgCode, WM_GETDLGCODE)
	fam(FamilyTabStops, LB_SETTABSTOPS, EM_SETTABSTOPS)
	fam(FamilySelItems, LB_GETSELITEMS)
	fam(FamilyMDIGetActive, WM_MDIGETACTIVE)
	fam(FamilyLocalOnly, WM_NOTIFY, WM_PAINTCLIPBOARD, WM_SIZECLIPBOARD)
	fam(FamilyDDE, WM_DDE_INITIATE, WM_DDE_TERMINATE, WM_DDE_ADVISE, WM_DDE_UNADVISE,
		WM_DDE_ACK, WM_DDE_DATA, WM_DDE_REQUEST, WM_DDE_POKE, WM_DDE_EXECUTE)

	t.text.add(WM_SETTEXT, WM_WININICHANGE, WM_DEVMODECHANGE, EM_REPLACESEL,
		CB_ADDSTRING, CB_DIR, CB_INSERTSTRING, CB_FINDSTRING, CB_SELECTSTRING, CB_FINDSTRINGEXACT,
		LB_ADDSTRING, LB_INSERTSTRING, LB_SELECTSTRING, LB_DIR, LB_FINDSTRING, LB_ADDFILE,
		LB_FINDSTRINGEXACT, WM_GETTEXT, WM_ASKCBFORMATNAME, EM_GETLINE,
		WM_CREATE, WM_NCCREATE, WM_MDICREATE)
	return t
}

// Classify returns the classification of id.
func Classify(id uint32) Class {
	if id >= tableSize {
		return Class{}
	}
	return Class{
		Pointer: classes.pointer.has(id),
		Text:    classes.text.has(id),
		Family:  classes.families[id],
	}
}

// IsPointer reports whether the second parameter of id is a pointer.
func IsPointer(id uint32) bool { return classes.pointer.has(id) }

// IsText reports whether the payload of id is character data.
func IsText(id uint32) bool { return classes.text.has(id) }

func isDDE(id uint32) bool { return id >= WM_DDE_FIRST && id <= WM_DDE_LAST }

func isMouse(id uint32) bool { return id >= WM_MOUSEFIRST && id <= WM_MOUSELAST }

func isKeyboard(id uint32) bool { return id >= WM_KEYFIRST && id <= WM_KEYLAST }
