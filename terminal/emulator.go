// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"slices"
	"strings"

	"github.com/ericwq/vtcore/util"
)

type (
	OriginMode    uint
	CursorKeyMode uint
	KeypadMode    uint
	ColMode       uint
)

const (
	OriginMode_Absolute OriginMode = iota
	OriginMode_ScrollingRegion
)

const (
	CursorKeyMode_ANSI CursorKeyMode = iota
	CursorKeyMode_Application
)

const (
	KeypadMode_Normal KeypadMode = iota
	KeypadMode_Application
)

const (
	ColMode_C80 ColMode = iota
	ColMode_C132
)

const (
	defaultTabWidth  = 8
	defaultSaveLines = 500
)

// position of the last written grapheme, the target for combining
// marks and ZWJ continuations.
type lastGraphic struct {
	y, x int
	ok   bool
}

// Emulator is the terminal screen: it parses the input stream, applies
// the control functions to the active framebuffer and reports side
// effects to the Host.
//
// it is not safe for concurrent use: the embedder serializes access.
type Emulator struct {
	nRows     int
	nCols     int
	cf        *Framebuffer // current framebuffer
	frame_pri *Framebuffer // normal screen buffer
	frame_alt *Framebuffer // alternate screen buffer

	posX         int  // current cursor cols position (on-screen)
	posY         int  // current cursor rows position (on-screen)
	marginTop    int  // current margin top (screen view)
	marginBottom int  // current margin bottom (screen view)
	lastCol      bool // the pending-wrap flag

	attrs Cell // prototype cell with current attributes

	parser *Parser
	host   Host

	// terminal state, reset by resetTerminal()
	reverseVideo         bool
	showCursorMode       bool // default true
	cursorBlinkMode      bool
	altScreenBufferMode  bool // Alternate Screen Buffer
	autoWrapMode         bool // default true
	autoNewlineMode      bool
	keyboardLocked       bool
	insertMode           bool
	localEcho            bool
	bracketedPasteMode   bool
	reverseWrapMode      bool
	autoRepeatMode       bool // default true
	smoothScrollMode     bool
	showToolbarMode      bool
	privateColorRegsMode bool // default true
	altScrollMode        bool

	horizMarginMode bool // left and right margins support
	nColsEff        int  // right margin
	hMargin         int  // left margin

	tabStops []int // tab stop columns, empty means the default grid
	tabWidth int

	cursorKeyMode CursorKeyMode
	keypadMode    KeypadMode
	originMode    OriginMode
	colMode       ColMode
	cursorStyle   CursorStyle

	charsetState CharsetState

	savedCursor_SCO     SavedCursor_SCO
	savedCursor_DEC_pri SavedCursor_DEC
	savedCursor_DEC_alt SavedCursor_DEC
	savedCursor_DEC     *SavedCursor_DEC

	mouseTrk MouseTrackingState

	// dynamic colors and the palette overrides from OSC 4
	dynamicColors   [3]Color // foreground, background, cursor
	paletteOverride map[int]Color

	currentLink      int // hyperlink handle applied to new cells
	lastGraphic      lastGraphic
	lastGraphicRunes []rune
	zwjPending       bool

	selectionStore map[rune]string // storage for OSC 52 selection data
	selector       *Selector

	terminalToHost strings.Builder // terminal write back
}

// create an emulator with the specified screen size and scrollback
// capacity. saveLines applies to the normal screen buffer only.
func NewEmulator3(nCols, nRows, saveLines int) *Emulator {
	if nCols < 1 {
		nCols = 1
	}
	if nRows < 1 {
		nRows = 1
	}

	emu := &Emulator{}
	emu.parser = NewParser()
	emu.host = NoopHost{}

	emu.frame_pri = NewFramebuffer3(nCols, nRows, saveLines)
	emu.frame_alt = NewFramebuffer3(nCols, nRows, 0)
	emu.cf = emu.frame_pri

	emu.nCols = nCols
	emu.nRows = nRows
	emu.tabWidth = defaultTabWidth

	emu.paletteOverride = make(map[int]Color)
	emu.lastGraphicRunes = make([]rune, 0, 8)
	emu.initSelectionData()

	emu.savedCursor_DEC = &emu.savedCursor_DEC_pri

	emu.resetTerminal()
	return emu
}

// NewEmulator creates an emulator with the default scrollback capacity.
func NewEmulator(nCols, nRows int) *Emulator {
	return NewEmulator3(nCols, nRows, defaultSaveLines)
}

// SetHost connects the embedder capabilities. nil restores the no-op
// host.
func (emu *Emulator) SetHost(host Host) {
	if host == nil {
		host = NoopHost{}
	}
	emu.host = host
}

/*
input
*/

// Write feeds input bytes to the terminal. it implements io.Writer;
// the error is always nil.
func (emu *Emulator) Write(p []byte) (n int, err error) {
	emu.HandleStream(string(p))
	return len(p), nil
}

// WriteString feeds input text to the terminal.
func (emu *Emulator) WriteString(seq string) {
	emu.HandleStream(seq)
}

// parse and handle the stream together. returns the handled control
// functions.
func (emu *Emulator) HandleStream(seq string) (hds []*Handler) {
	if len(seq) == 0 {
		return
	}

	hds = make([]*Handler, 0, 16)
	hds = emu.parser.processStream(seq, hds)

	names := make([]string, 0, len(hds))
	for _, hd := range hds {
		hd.handle(emu)
		names = append(names, hd.name)
	}
	emu.showCursor()

	if len(names) > 0 {
		emu.host.Commands(names)
	}

	// deliver replies queued while no host was connected. with no host
	// connected the replies stay buffered for ReadOctetsToHost.
	if emu.terminalToHost.Len() > 0 {
		if _, noop := emu.host.(NoopHost); !noop {
			emu.host.Reply(emu.ReadOctetsToHost())
		}
	}
	return
}

// send response bytes to the host. a connected host receives them at
// once, in input order; otherwise they are queued for ReadOctetsToHost.
func (emu *Emulator) writePty(resp string) {
	if _, noop := emu.host.(NoopHost); !noop {
		emu.host.Reply(resp)
		return
	}
	if emu.terminalToHost.Len()+len(resp) <= stringCap {
		emu.terminalToHost.WriteString(resp)
	}
}

// return the terminal feedback, clean feedback buffer.
func (emu *Emulator) ReadOctetsToHost() string {
	ret := emu.terminalToHost.String()
	emu.terminalToHost.Reset()
	return ret
}

/*
reset
*/

func (emu *Emulator) resetTerminal() {
	emu.parser.reset()

	emu.resetScreen()
	emu.resetAttrs()

	emu.frame_pri.dropScrollbackHistory()
	emu.frame_pri.links.reset()
	emu.frame_alt.links.reset()
	emu.switchScreenBufferMode(false)
	emu.clearScreen()

	emu.colMode = ColMode_C80
	emu.altScrollMode = false
	emu.horizMarginMode = false
	emu.hMargin = 0
	emu.nColsEff = emu.nCols

	emu.dynamicColors = [3]Color{ColorDefault, ColorDefault, ColorDefault}
	clear(emu.paletteOverride)
	emu.initSelectionData()
	emu.selector = nil
}

func (emu *Emulator) resetScreen() {
	emu.showCursorMode = true
	emu.cursorBlinkMode = false
	emu.autoWrapMode = true
	emu.autoNewlineMode = false
	emu.keyboardLocked = false
	emu.insertMode = false
	emu.localEcho = false
	emu.bracketedPasteMode = false
	emu.reverseVideo = false
	emu.reverseWrapMode = false
	emu.autoRepeatMode = true
	emu.smoothScrollMode = false
	emu.showToolbarMode = false
	emu.privateColorRegsMode = true
	emu.cursorStyle = CursorStyle_BlinkBlock

	emu.cursorKeyMode = CursorKeyMode_ANSI
	emu.keypadMode = KeypadMode_Normal
	emu.originMode = OriginMode_Absolute
	emu.resetCharsetState()

	emu.resetMargins()
	emu.tabStops = emu.tabStops[:0]

	emu.savedCursor_SCO.isSet = false
	emu.savedCursor_DEC_pri.isSet = false
	emu.savedCursor_DEC_alt.isSet = false

	emu.mouseTrk = MouseTrackingState{}
	emu.currentLink = 0
	emu.lastGraphic = lastGraphic{}
	emu.zwjPending = false
}

func (emu *Emulator) resetAttrs() {
	emu.attrs = Cell{}
	emu.attrs.renditions.buildRendition(0)
}

// ResetSoft is the DECSTR soft reset: cursor, renditions and margins
// back to defaults, the screen contents are preserved.
func (emu *Emulator) ResetSoft() {
	emu.resetSoft()
	emu.showCursor()
}

func (emu *Emulator) resetSoft() {
	emu.showCursorMode = true
	emu.insertMode = false
	emu.originMode = OriginMode_Absolute
	emu.autoWrapMode = true
	emu.keyboardLocked = false
	emu.lastCol = false

	emu.resetMargins()
	emu.horizMarginMode = false
	emu.hMargin = 0
	emu.nColsEff = emu.nCols

	emu.resetCharsetState()
	emu.resetAttrs()
	emu.savedCursor_DEC.isSet = false
	emu.savedCursor_SCO.isSet = false
	emu.currentLink = 0
}

// ResetHard is the RIS reset: everything back to the initial state,
// the scrollback is cleared.
func (emu *Emulator) ResetHard() {
	emu.resetTerminal()
	emu.showCursor()
}

func (emu *Emulator) clearScreen() {
	emu.posX = 0
	emu.posY = 0
	emu.lastCol = false
	for pY := 0; pY < emu.nRows; pY++ {
		emu.cf.eraseInRow(pY, 0, emu.nCols, emu.attrs)
	}
}

func (emu *Emulator) resetMargins() {
	emu.marginTop = 0
	emu.marginBottom = emu.nRows
}

func (emu *Emulator) initSelectionData() {
	// selection data storage for OSC 52:
	// c: clipboard, p: primary, q: secondary, s: select, 0~7: cut-buffers
	emu.selectionStore = make(map[rune]string)
	for _, ch := range "cpqs01234567" {
		emu.selectionStore[ch] = ""
	}
}

/*
cursor positioning helpers
*/

func (emu *Emulator) normalizeCursorPos() {
	if emu.nColsEff < emu.posX+1 {
		emu.posX = emu.nColsEff - 1
	}
	if emu.nRows < emu.posY+1 {
		emu.posY = emu.nRows - 1
	}

	emu.lastCol = false
}

func (emu *Emulator) isCursorInsideMargins() bool {
	return emu.posX >= emu.hMargin && emu.posX < emu.nColsEff &&
		emu.posY >= emu.marginTop && emu.posY < emu.marginBottom
}

func (emu *Emulator) isCursorInsideVerticalMargins() bool {
	return emu.posY >= emu.marginTop && emu.posY < emu.marginBottom
}

// map a 1-based row parameter to the on-screen row, honoring origin
// mode and clamping to the addressable area.
func (emu *Emulator) originRow(row int) int {
	if emu.originMode == OriginMode_ScrollingRegion {
		return max(emu.marginTop, min(emu.marginTop+row-1, emu.marginBottom-1))
	}
	return max(0, min(row-1, emu.nRows-1))
}

// map a 1-based column parameter to the on-screen column.
func (emu *Emulator) originColumn(col int) int {
	if emu.originMode == OriginMode_ScrollingRegion && emu.horizMarginMode {
		return max(emu.hMargin, min(emu.hMargin+col-1, emu.nColsEff-1))
	}
	return max(0, min(col-1, emu.nCols-1))
}

// cursor position as reported by CPR, origin mode aware, 1-based.
func (emu *Emulator) reportedCursorPos() (row, col int) {
	row = emu.posY + 1
	col = emu.posX + 1
	if emu.originMode == OriginMode_ScrollingRegion {
		row -= emu.marginTop
		if emu.horizMarginMode {
			col -= emu.hMargin
		}
	}
	return
}

// DECSCUSR style code of the current cursor.
func (emu *Emulator) reportedCursorStyle() int {
	switch emu.cursorStyle {
	case CursorStyle_SteadyBlock:
		return 2
	case CursorStyle_BlinkUnderline:
		return 3
	case CursorStyle_SteadyUnderline:
		return 4
	case CursorStyle_BlinkBar:
		return 5
	case CursorStyle_SteadyBar:
		return 6
	default:
		return 1
	}
}

// move the cursor down count rows, scrolling when the cursor sits on
// the bottom margin.
func (emu *Emulator) moveRowsAutoscroll(count int) {
	for i := 0; i < count; i++ {
		if emu.posY == emu.marginBottom-1 {
			emu.scrollUp(1)
		} else if emu.posY < emu.nRows-1 {
			emu.posY++
		}
	}
}

/*
scrolling: every path respects the current margins. only a scroll of
the full-width region whose top is the screen top feeds the scrollback,
and the alternate screen buffer has no scrollback capacity at all.
*/

func (emu *Emulator) scrollUp(count int) {
	count = min(count, emu.marginBottom-emu.marginTop)
	if count <= 0 {
		return
	}

	switch {
	case emu.marginTop > 0 || emu.hMargin > 0 || emu.nColsEff < emu.nCols:
		// confined region: the lines scrolled off the top are discarded
		emu.deleteRows(emu.marginTop, count)
	case emu.marginBottom == emu.nRows:
		// whole screen: the ring rotation feeds the scrollback
		emu.cf.scrollUp(count)
		emu.eraseRows(emu.nRows-count, count)
		emu.invalidateLastGraphic()
	default:
		// top margin at the screen top with a bottom margin: the rows
		// below the region stay in place while the region feeds the
		// scrollback row by row
		for i := 0; i < count; i++ {
			emu.cf.scrollUp(1)
			for pY := emu.nRows - 1; pY > emu.marginBottom-1; pY-- {
				emu.copyRow(pY, pY-1)
			}
			emu.eraseRow(emu.marginBottom - 1)
		}
		emu.invalidateLastGraphic()
	}
}

func (emu *Emulator) scrollDown(count int) {
	count = min(count, emu.marginBottom-emu.marginTop)
	if count <= 0 {
		return
	}
	emu.insertRows(emu.marginTop, count)
	emu.invalidateLastGraphic()
}

func (emu *Emulator) invalidateLastGraphic() {
	emu.lastGraphic = lastGraphic{}
	emu.zwjPending = false
}

/*
row and column editing, confined to the margins
*/

func (emu *Emulator) eraseRow(pY int) {
	emu.cf.eraseInRow(pY, emu.hMargin, emu.nColsEff-emu.hMargin, emu.attrs)
}

// erase rows at and below startY, within the scrolling area
func (emu *Emulator) eraseRows(startY, count int) {
	for pY := startY; pY < startY+count; pY++ {
		emu.eraseRow(pY)
	}
}

// copy row from src to dst, within the left-right margins.
func (emu *Emulator) copyRow(dstY, srcY int) {
	emu.cf.copyRow(dstY, srcY, emu.hMargin, emu.nColsEff-emu.hMargin)
}

// insert blank rows at and below startY, within the scrolling area
func (emu *Emulator) insertRows(startY, count int) {
	for pY := emu.marginBottom - count - 1; pY >= startY; pY-- {
		emu.copyRow(pY+count, pY)
		if pY == 0 {
			break
		}
	}
	for pY := startY; pY < startY+count; pY++ {
		emu.eraseRow(pY)
	}
}

// delete rows at and below startY, within the scrolling area
func (emu *Emulator) deleteRows(startY, count int) {
	for pY := startY; pY < emu.marginBottom-count; pY++ {
		emu.copyRow(pY, pY+count)
	}

	for pY := emu.marginBottom - count; pY < emu.marginBottom; pY++ {
		emu.eraseRow(pY)
	}
}

// insert count blank cols at startX, within the scrolling area
func (emu *Emulator) insertCols(startX, count int) {
	for r := emu.marginTop; r < emu.marginBottom; r++ {
		emu.cf.moveInRow(r, startX+count, startX, emu.nColsEff-startX-count)
		emu.cf.eraseInRow(r, startX, count, emu.attrs)
	}
}

// delete count cols at startX, within the scrolling area
func (emu *Emulator) deleteCols(startX, count int) {
	for r := emu.marginTop; r < emu.marginBottom; r++ {
		emu.cf.moveInRow(r, startX, startX+count, emu.nColsEff-startX-count)
		emu.cf.eraseInRow(r, emu.nColsEff-count, count, emu.attrs)
	}
}

/*
tab stops
*/

func (emu *Emulator) setTabStop(col int) {
	idx, found := slices.BinarySearch(emu.tabStops, col)
	if !found {
		emu.tabStops = slices.Insert(emu.tabStops, idx, col)
	}
}

func (emu *Emulator) clearTabStop(col int) {
	idx, found := slices.BinarySearch(emu.tabStops, col)
	if found {
		emu.tabStops = slices.Delete(emu.tabStops, idx, idx+1)
	}
}

// move the cursor to the count-th next tab stop, stopping at the right
// margin.
func (emu *Emulator) jumpToNextTabStop(count int) {
	for i := 0; i < count; i++ {
		if len(emu.tabStops) == 0 {
			// the default tab grid, limited to the right margin
			emu.posX = min(((emu.posX/emu.tabWidth)+1)*emu.tabWidth, emu.nColsEff-1)
		} else {
			idx, _ := slices.BinarySearch(emu.tabStops, emu.posX+1)
			if idx >= len(emu.tabStops) {
				emu.posX = emu.nColsEff - 1
			} else {
				emu.posX = min(emu.tabStops[idx], emu.nColsEff-1)
			}
		}
	}
	emu.lastCol = false
}

// move the cursor to the count-th previous tab stop.
func (emu *Emulator) jumpToPrevTabStop(count int) {
	for i := 0; i < count; i++ {
		if len(emu.tabStops) == 0 {
			emu.posX = max(((emu.posX-1)/emu.tabWidth)*emu.tabWidth, 0)
		} else {
			idx, _ := slices.BinarySearch(emu.tabStops, emu.posX)
			if idx == 0 {
				emu.posX = 0
			} else {
				emu.posX = emu.tabStops[idx-1]
			}
		}
	}
	emu.lastCol = false
}

/*
charset
*/

func (emu *Emulator) resetCharsetState() {
	emu.charsetState.vtMode = false

	// default nil will fall to UTF-8
	emu.charsetState.g[0] = nil
	emu.charsetState.g[1] = nil
	emu.charsetState.g[2] = nil
	emu.charsetState.g[3] = nil

	// Locking shift states (index into g[]):
	emu.charsetState.gl = 0 // G0 in GL
	emu.charsetState.gr = 2 // G2 in GR

	// Single shift state (0 if none active):
	emu.charsetState.ss = 0
}

func (emu *Emulator) updateCharsetMode() {
	cs := emu.charsetState
	emu.charsetState.vtMode = cs.g[cs.gl] != nil || cs.g[cs.gr] != nil || cs.ss > 0
}

func (emu *Emulator) lookupCharset(p rune) (r rune) {
	// choose the charset based on the shift state
	var cs *map[byte]rune
	if emu.charsetState.ss > 0 {
		cs = emu.charsetState.g[emu.charsetState.ss]
		emu.charsetState.ss = 0
		emu.updateCharsetMode()
	} else {
		if p < 0x80 {
			cs = emu.charsetState.g[emu.charsetState.gl]
		} else {
			cs = emu.charsetState.g[emu.charsetState.gr]
		}
	}

	if cs == nil || p > 0xFF {
		return p
	}
	r = lookupTable(cs, byte(p))
	return r
}

/*
modes
*/

func (emu *Emulator) setAnsiMode(mode int, set bool) {
	switch mode {
	case 2: // KAM: keyboard action
		emu.keyboardLocked = set
	case 4: // IRM: insert mode
		emu.insertMode = set
	case 12: // SRM: send/receive
		emu.localEcho = !set
	case 20: // LNM: automatic newline
		emu.autoNewlineMode = set
	default:
		util.Logger.Trace("unhandled ANSI mode", "mode", mode, "set", set)
	}
}

func (emu *Emulator) setPrivateMode(mode int, set bool) {
	switch mode {
	case 1: // DECCKM: cursor keys
		if set {
			emu.cursorKeyMode = CursorKeyMode_Application
		} else {
			emu.cursorKeyMode = CursorKeyMode_ANSI
		}
		emu.host.UseApplicationCursorKeys(set)
	case 2: // DECANM: VT52 mode is not supported
		util.Logger.Trace("DECANM ignored", "set", set)
	case 3: // DECCOLM: 80/132 columns
		emu.switchColMode(set)
	case 4: // DECSCLM: smooth scroll
		emu.smoothScrollMode = set
	case 5: // DECSCNM: reverse video
		emu.reverseVideo = set
	case 6: // DECOM: origin mode
		if set {
			emu.originMode = OriginMode_ScrollingRegion
		} else {
			emu.originMode = OriginMode_Absolute
		}
		emu.posY = emu.originRow(1)
		emu.posX = emu.originColumn(1)
		emu.lastCol = false
	case 7: // DECAWM: auto wrap
		emu.autoWrapMode = set
		if !set {
			emu.lastCol = false
		}
	case 8: // DECARM: auto repeat
		emu.autoRepeatMode = set
	case 9: // X10 mouse protocol
		emu.setMouseMode(MouseTrackingMode_X10, set)
	case 10: // show toolbar
		emu.showToolbarMode = set
	case 12: // cursor blinking
		emu.cursorBlinkMode = set
	case 25: // DECTCEM: cursor visible
		emu.showCursorMode = set
	case 45: // reverse wrap-around
		emu.reverseWrapMode = set
	case 47: // alternate screen buffer
		emu.switchScreenBufferMode(set)
	case 69: // DECLRMM: left and right margins
		emu.horizMarginMode = set
		emu.hMargin = 0
		emu.nColsEff = emu.nCols
	case 1000: // VT200 mouse protocol
		emu.setMouseMode(MouseTrackingMode_VT200, set)
	case 1002: // button event mouse protocol
		emu.setMouseMode(MouseTrackingMode_VT200_ButtonEvent, set)
	case 1003: // any event mouse protocol
		emu.setMouseMode(MouseTrackingMode_VT200_AnyEvent, set)
	case 1004: // focus events
		emu.mouseTrk.focusEventMode = set
		emu.host.FocusEventsChanged(set)
	case 1005: // UTF-8 mouse encoding
		emu.setMouseEnc(MouseTrackingEnc_UTF8, set)
	case 1006: // SGR mouse encoding
		emu.setMouseEnc(MouseTrackingEnc_SGR, set)
	case 1007: // alternate scroll
		emu.altScrollMode = set
		emu.host.MouseWheelModeChanged(set)
	case 1015: // URXVT mouse encoding
		emu.setMouseEnc(MouseTrackingEnc_URXVT, set)
	case 1070: // use private color registers
		emu.privateColorRegsMode = set
	case 1047: // alternate screen buffer, clear on entry
		emu.switchScreenBufferMode(set)
		if set {
			emu.clearScreen()
		}
	case 1048: // save/restore cursor
		if set {
			hdl_esc_decsc(emu)
		} else {
			hdl_esc_decrc(emu)
		}
	case 1049: // save cursor and switch to the cleared alternate buffer
		if set {
			hdl_esc_decsc(emu)
			emu.switchScreenBufferMode(true)
			emu.clearScreen()
		} else {
			emu.switchScreenBufferMode(false)
			hdl_esc_decrc(emu)
		}
	case 2004: // bracketed paste
		emu.bracketedPasteMode = set
		emu.host.UseBracketedPaste(set)
	default:
		util.Logger.Trace("unhandled DEC private mode", "mode", mode, "set", set)
	}
}

func (emu *Emulator) setMouseMode(mode MouseTrackingMode, set bool) {
	if set {
		emu.mouseTrk.mode = mode
	} else {
		emu.mouseTrk.mode = MouseTrackingMode_Disable
	}
	emu.host.MouseTrackingChanged(emu.mouseTrk.mode)
}

func (emu *Emulator) setMouseEnc(enc MouseTrackingEnc, set bool) {
	if set {
		emu.mouseTrk.enc = enc
	} else {
		emu.mouseTrk.enc = MouseTrackingEnc_Default
	}
	emu.host.MouseEncodingChanged(emu.mouseTrk.enc)
}

// DECRQM state codes: 0 unknown, 1 set, 2 reset, 4 permanently reset.
func (emu *Emulator) privateModeState(mode int) int {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 2
	}
	switch mode {
	case 1:
		return b2i(emu.cursorKeyMode == CursorKeyMode_Application)
	case 2:
		return 4
	case 3:
		return b2i(emu.colMode == ColMode_C132)
	case 4:
		return b2i(emu.smoothScrollMode)
	case 5:
		return b2i(emu.reverseVideo)
	case 6:
		return b2i(emu.originMode == OriginMode_ScrollingRegion)
	case 7:
		return b2i(emu.autoWrapMode)
	case 8:
		return b2i(emu.autoRepeatMode)
	case 9:
		return b2i(emu.mouseTrk.mode == MouseTrackingMode_X10)
	case 12:
		return b2i(emu.cursorBlinkMode)
	case 25:
		return b2i(emu.showCursorMode)
	case 45:
		return b2i(emu.reverseWrapMode)
	case 47, 1047, 1049:
		return b2i(emu.altScreenBufferMode)
	case 69:
		return b2i(emu.horizMarginMode)
	case 1000:
		return b2i(emu.mouseTrk.mode == MouseTrackingMode_VT200)
	case 1002:
		return b2i(emu.mouseTrk.mode == MouseTrackingMode_VT200_ButtonEvent)
	case 1003:
		return b2i(emu.mouseTrk.mode == MouseTrackingMode_VT200_AnyEvent)
	case 1004:
		return b2i(emu.mouseTrk.focusEventMode)
	case 1005:
		return b2i(emu.mouseTrk.enc == MouseTrackingEnc_UTF8)
	case 1006:
		return b2i(emu.mouseTrk.enc == MouseTrackingEnc_SGR)
	case 1007:
		return b2i(emu.altScrollMode)
	case 1015:
		return b2i(emu.mouseTrk.enc == MouseTrackingEnc_URXVT)
	case 1070:
		return b2i(emu.privateColorRegsMode)
	case 2004:
		return b2i(emu.bracketedPasteMode)
	default:
		return 0
	}
}

func (emu *Emulator) ansiModeState(mode int) int {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 2
	}
	switch mode {
	case 2:
		return b2i(emu.keyboardLocked)
	case 4:
		return b2i(emu.insertMode)
	case 12:
		return b2i(!emu.localEcho)
	case 20:
		return b2i(emu.autoNewlineMode)
	default:
		return 0
	}
}

// DECCOLM: switching the column mode clears the screen, resets the
// margins and homes the cursor.
func (emu *Emulator) switchColMode(wide bool) {
	colMode := ColMode_C80
	if wide {
		colMode = ColMode_C132
	}
	if emu.colMode == colMode {
		return
	}

	emu.colMode = colMode
	emu.resetMargins()
	hdl_csi_ed(emu, 2)
	emu.posX = 0
	emu.posY = 0
	emu.lastCol = false
}

// switch between the normal and the alternate screen buffer. the
// buffers persist: switching selects, it does not destroy.
func (emu *Emulator) switchScreenBufferMode(altScreenBufferMode bool) {
	if emu.altScreenBufferMode == altScreenBufferMode {
		return
	}

	if altScreenBufferMode {
		if emu.frame_alt.cells == nil ||
			emu.frame_alt.nCols != emu.nCols || emu.frame_alt.nRows != emu.nRows {
			emu.frame_alt = NewFramebuffer3(emu.nCols, emu.nRows, 0)
		}
		emu.cf = emu.frame_alt
		emu.savedCursor_DEC = &emu.savedCursor_DEC_alt
	} else {
		emu.cf = emu.frame_pri
		emu.savedCursor_DEC_alt.isSet = false
		emu.savedCursor_DEC = &emu.savedCursor_DEC_pri
		emu.cf.expose()
	}

	emu.altScreenBufferMode = altScreenBufferMode
	emu.invalidateLastGraphic()
	emu.host.BufferChanged(altScreenBufferMode)
}

/*
dynamic colors
*/

// dynamic color by OSC name: 10 foreground, 11 background, 12 cursor.
func (emu *Emulator) dynamicColor(name int) Color {
	c := emu.dynamicColors[name-10]
	if c != ColorDefault {
		return c
	}
	// report something sensible for an unset color
	if name == 11 {
		return NewRGBColor(0, 0, 0)
	}
	return NewRGBColor(255, 255, 255)
}

func (emu *Emulator) setDynamicColor(name int, c Color) {
	emu.dynamicColors[name-10] = c
}

// palette color with the OSC 4 overrides applied.
func (emu *Emulator) paletteColor(idx int) Color {
	if c, ok := emu.paletteOverride[idx]; ok {
		return c
	}
	return PaletteColor(idx)
}

/*
cursor reporting for the render layer
*/

func (emu *Emulator) showCursor() {
	if emu.showCursorMode && emu.parser.getState() == InputState_Normal {
		emu.cf.setCursorPos(emu.posY, emu.posX)
		emu.cf.setCursorStyle(emu.cursorStyle)
	} else {
		emu.cf.setCursorStyle(CursorStyle_Hidden)
	}
}

func (emu *Emulator) GetCursorRow() int {
	return emu.posY
}

func (emu *Emulator) GetCursorCol() int {
	return emu.posX
}

func (emu *Emulator) GetParser() *Parser {
	return emu.parser
}

func (emu *Emulator) GetFramebuffer() *Framebuffer {
	return emu.cf
}

func (emu *Emulator) GetWindowTitle() string {
	return emu.cf.getWindowTitle()
}

func (emu *Emulator) GetIconName() string {
	return emu.cf.getIconName()
}

func (emu *Emulator) PrefixWindowTitle(prefix string) {
	emu.cf.prefixWindowTitle(prefix)
}

func (emu *Emulator) GetSize() (nCols, nRows int) {
	return emu.nCols, emu.nRows
}

/*
resize
*/

// Resize the screen. columns pad or truncate on the right. on the
// normal screen buffer, shrinking rows moves the top rows into the
// scrollback only when the cursor row would fall below the new last
// row; otherwise the bottom rows are dropped and the scrollback is left
// as it is. growing rows pulls rows back out of the scrollback, as many
// as it holds. the alternate buffer is recreated blank. margins reset
// to the full screen and the cursor is clamped to the new bounds.
func (emu *Emulator) Resize(nCols, nRows int) {
	if nCols < 1 || nRows < 1 {
		util.Logger.Trace("resize ignored", "nCols", nCols, "nRows", nRows)
		return
	}
	if emu.nCols == nCols && emu.nRows == nRows {
		return
	}

	emu.cf.pageToBottom()

	if emu.altScreenBufferMode {
		// the alternate buffer is simply recreated at the new size
		emu.frame_alt = NewFramebuffer3(nCols, nRows, 0)
		emu.frame_pri.resize(nCols, nRows)
		emu.cf = emu.frame_alt
	} else {
		// adjust the cursor position if the rows shrink
		if nRows < emu.posY+1 {
			nScroll := emu.nRows - nRows
			emu.cf.scrollUp(nScroll)
			emu.posY -= nScroll
		}

		emu.frame_pri.resize(nCols, nRows)

		// adjust the cursor position if the rows expand
		if emu.nRows < nRows {
			nScroll := min(nRows-emu.nRows, emu.cf.getHistoryRows())
			emu.cf.scrollDown(nScroll)
			emu.posY += nScroll
		}

		emu.frame_alt = NewFramebuffer3(nCols, nRows, 0)
	}

	emu.nCols = nCols
	emu.nRows = nRows

	emu.resetMargins()
	emu.horizMarginMode = false
	emu.hMargin = 0
	emu.nColsEff = emu.nCols

	emu.normalizeCursorPos()
	emu.invalidateLastGraphic()
	emu.showCursor()
}

// SetMaxHistoryLineCount changes the scrollback capacity of the normal
// screen buffer.
func (emu *Emulator) SetMaxHistoryLineCount(n int) {
	emu.frame_pri.resizeSaveLines(n)
}

func (emu *Emulator) GetMaxHistoryLineCount() int {
	return emu.frame_pri.saveLines
}
