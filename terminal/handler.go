// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericwq/vtcore/util"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

/* 64 - VT420 family
 *  1 - 132 columns
 *  9 - National Replacement Character-sets
 * 15 - DEC technical set
 * 21 - horizontal scrolling
 * 22 - color
 */
const (
	DEVICE_ID = "64;1;9;15;21;22c"
)

// display width of a grapheme cluster.
func runesWidth(runes []rune) (width int) {
	// quick pass for iso8859-1
	if len(runes) == 1 && runes[0] < 0x00fe {
		if runes[0] == 0 {
			return 0
		}
		return 1
	}

	if len(runes) == 1 {
		cond := runewidth.NewCondition()
		cond.StrictEmojiNeutral = false
		cond.EastAsianWidth = false
		return cond.RuneWidth(runes[0])
	}

	// a multi-rune cluster is measured as one grapheme
	return uniseg.StringWidth(string(runes))
}

/*
graphic characters
*/

func hdl_graphic_char(emu *Emulator, ch rune) {
	if emu.charsetState.vtMode {
		ch = emu.lookupCharset(ch)
	}

	w := runesWidth([]rune{ch})

	// combining marks and ZWJ continuations extend the previous cluster
	if emu.lastGraphic.ok && (w == 0 || ch == '\u200d' || emu.zwjPending) {
		cell := emu.cf.getMutableCell(emu.lastGraphic.y, emu.lastGraphic.x)
		cell.Append(ch)
		emu.zwjPending = ch == '\u200d'
		return
	}
	if w == 0 {
		// orphan combining mark: place it on a space base
		emu.printGrapheme([]rune{' ', ch}, 1)
		return
	}
	emu.zwjPending = false

	emu.printGrapheme([]rune{ch}, w)
}

// the append-character algorithm: deferred wrap, insert mode, wide
// cluster placement and the pending-wrap flag.
func (emu *Emulator) printGrapheme(chs []rune, chWidth int) {
	if chWidth < 1 || chWidth > emu.nColsEff-emu.hMargin {
		return
	}

	if emu.autoWrapMode && emu.lastCol {
		// the deferred wrap: mark the soft wrap and move on
		emu.cf.setWrap(emu.posY, true)
		emu.posX = emu.hMargin
		emu.lastCol = false
		emu.moveRowsAutoscroll(1)
	} else if emu.autoWrapMode && chWidth == 2 && emu.posX == emu.nColsEff-1 {
		// wrap a 2-cell cluster if no room, even without the wrap flag
		emu.cf.eraseInRow(emu.posY, emu.posX, 1, emu.attrs)
		emu.posX = emu.hMargin
		emu.moveRowsAutoscroll(1)
	}

	if !emu.autoWrapMode && emu.posX+chWidth > emu.nColsEff {
		emu.posX = emu.nColsEff - chWidth
	}

	if emu.insertMode {
		emu.cf.moveInRow(emu.posY, emu.posX+chWidth, emu.posX, emu.nColsEff-emu.posX-chWidth)
		emu.cf.eraseInRow(emu.posY, emu.posX, chWidth, emu.attrs)
	}

	// a wide pair is overwritten atomically: clear the other half
	emu.cleanupWideAt(emu.posY, emu.posX)
	if chWidth == 2 {
		emu.cleanupWideAt(emu.posY, emu.posX+1)
	}

	cell := emu.cf.getMutableCell(emu.posY, emu.posX)
	cell.Reset2(emu.attrs)
	cell.SetContents(chs)
	cell.SetDoubleWidth(chWidth == 2)
	cell.SetLinkIndex(emu.currentLink)
	if chWidth == 2 {
		cont := emu.cf.getMutableCell(emu.posY, emu.posX+1)
		cont.Reset2(emu.attrs)
		cont.SetDoubleWidthCont(true)
		cont.SetLinkIndex(emu.currentLink)
	}

	emu.lastGraphic = lastGraphic{y: emu.posY, x: emu.posX, ok: true}
	emu.lastGraphicRunes = append(emu.lastGraphicRunes[:0], chs...)

	newX := emu.posX + chWidth
	if newX >= emu.nColsEff {
		if emu.autoWrapMode {
			emu.posX = emu.nColsEff - 1
			emu.lastCol = true
		} else {
			emu.posX = emu.nColsEff - 1
		}
	} else {
		emu.posX = newX
		emu.lastCol = false
	}
}

// clear both halves of the wide pair that covers (pY,pX), if any.
func (emu *Emulator) cleanupWideAt(pY, pX int) {
	cell := emu.cf.getMutableCell(pY, pX)
	if cell.IsDoubleWidthCont() && pX > 0 {
		leader := emu.cf.getMutableCell(pY, pX-1)
		if leader.IsDoubleWidth() {
			leader.Reset2(emu.attrs)
		}
	}
	if cell.IsDoubleWidth() && pX < emu.nCols-1 {
		cont := emu.cf.getMutableCell(pY, pX+1)
		if cont.IsDoubleWidthCont() {
			cont.Reset2(emu.attrs)
		}
	}
}

/*
C0 control functions
*/

// Bell
func hdl_c0_bel(emu *Emulator) {
	emu.cf.ringBell()
	emu.host.Bell()
}

// Carriage Return
func hdl_c0_cr(emu *Emulator) {
	emu.lastCol = false
	if emu.posX < emu.hMargin {
		emu.posX = 0
	} else {
		emu.posX = emu.hMargin
	}
}

// Line Feed. FF, VT and IND are handled the same way.
func hdl_c0_lf(emu *Emulator) {
	emu.lastCol = false
	emu.moveRowsAutoscroll(1)
	if emu.autoNewlineMode {
		hdl_c0_cr(emu)
	}
}

// Horizontal Tab
func hdl_c0_ht(emu *Emulator) {
	emu.jumpToNextTabStop(1)
}

// Backspace, honoring reverse wrap-around mode.
func hdl_c0_bs(emu *Emulator) {
	emu.lastCol = false

	leftEdge := 0
	if emu.posX >= emu.hMargin {
		leftEdge = emu.hMargin
	}

	if emu.posX == leftEdge {
		if emu.reverseWrapMode && emu.autoWrapMode && emu.posY > emu.marginTop {
			emu.posY--
			emu.posX = emu.nColsEff - 1
		}
		return
	}
	emu.posX--
}

// SO: switch to G1
func hdl_c0_so(emu *Emulator) {
	emu.charsetState.gl = 1
	emu.updateCharsetMode()
}

// SI: switch to G0
func hdl_c0_si(emu *Emulator) {
	emu.charsetState.gl = 0
	emu.updateCharsetMode()
}

/*
escape sequences
*/

// DECSC: save cursor
func hdl_esc_decsc(emu *Emulator) {
	emu.savedCursor_DEC.posX = emu.posX
	emu.savedCursor_DEC.posY = emu.posY
	emu.savedCursor_DEC.lastCol = emu.lastCol
	emu.savedCursor_DEC.attrs = emu.attrs
	emu.savedCursor_DEC.originMode = emu.originMode
	emu.savedCursor_DEC.charsetState = emu.charsetState
	emu.savedCursor_DEC.linkIndex = emu.currentLink
	emu.savedCursor_DEC.isSet = true
}

// DECRC: restore cursor
func hdl_esc_decrc(emu *Emulator) {
	if !emu.savedCursor_DEC.isSet {
		util.Logger.Trace("DECRC without DECSC")
		return
	}
	emu.posX = emu.savedCursor_DEC.posX
	emu.posY = emu.savedCursor_DEC.posY
	emu.lastCol = emu.savedCursor_DEC.lastCol
	emu.attrs = emu.savedCursor_DEC.attrs
	emu.originMode = emu.savedCursor_DEC.originMode
	emu.charsetState = emu.savedCursor_DEC.charsetState
	emu.currentLink = emu.savedCursor_DEC.linkIndex
	emu.normalizeCursorPos()
}

// NEL: next line
func hdl_esc_nel(emu *Emulator) {
	hdl_c0_lf(emu)
	hdl_c0_cr(emu)
}

// RI: reverse index
func hdl_esc_ri(emu *Emulator) {
	emu.lastCol = false
	if emu.posY == emu.marginTop {
		emu.scrollDown(1)
	} else if emu.posY > 0 {
		emu.posY--
	}
}

// HTS: set tab stop at the current column
func hdl_esc_hts(emu *Emulator) {
	emu.setTabStop(emu.posX)
}

// RIS: hard reset
func hdl_esc_ris(emu *Emulator) {
	emu.resetTerminal()
}

// DECALN: fill the screen with 'E', reset margins, home the cursor.
func hdl_esc_decaln(emu *Emulator) {
	emu.resetMargins()
	emu.posX = 0
	emu.posY = 0
	emu.lastCol = false
	emu.cf.fillCells('E', emu.attrs)
}

// DOCS: select UTF-8 / default character set
func hdl_esc_docs(emu *Emulator) {
	emu.resetCharsetState()
}

// designate G0~G3 character set
func hdl_esc_dcs(emu *Emulator, dst int, final rune) {
	cs, ok := lookupCharsetTable(final)
	if !ok {
		util.Logger.Trace("unsupported charset designation", "final", final)
		return
	}
	emu.charsetState.g[dst] = cs
	emu.updateCharsetMode()
}

// SS2 / SS3: single shift
func hdl_esc_ss(emu *Emulator, index int) {
	emu.charsetState.ss = index
	emu.updateCharsetMode()
}

// LS2 / LS3: locking shift into GL
func hdl_esc_ls(emu *Emulator, index int) {
	emu.charsetState.gl = index
	emu.updateCharsetMode()
}

// LS1R / LS2R / LS3R: locking shift into GR
func hdl_esc_lsr(emu *Emulator, index int) {
	emu.charsetState.gr = index
	emu.updateCharsetMode()
}

// DECKPAM / DECKPNM
func hdl_esc_keypad(emu *Emulator, application bool) {
	if application {
		emu.keypadMode = KeypadMode_Application
	} else {
		emu.keypadMode = KeypadMode_Normal
	}
}

/*
CSI control functions
*/

func hdl_csi_cuu(emu *Emulator, num int) {
	topLimit := 0
	if emu.posY >= emu.marginTop {
		topLimit = emu.marginTop
	}
	emu.posY = max(emu.posY-num, topLimit)
	emu.lastCol = false
}

func hdl_csi_cud(emu *Emulator, num int) {
	bottomLimit := emu.nRows - 1
	if emu.posY < emu.marginBottom {
		bottomLimit = emu.marginBottom - 1
	}
	emu.posY = min(emu.posY+num, bottomLimit)
	emu.lastCol = false
}

func hdl_csi_cuf(emu *Emulator, num int) {
	emu.posX = min(emu.posX+num, emu.nColsEff-1)
	emu.lastCol = false
}

func hdl_csi_cub(emu *Emulator, num int) {
	leftLimit := 0
	if emu.posX >= emu.hMargin {
		leftLimit = emu.hMargin
	}
	emu.posX = max(emu.posX-num, leftLimit)
	emu.lastCol = false
}

// CNL: cursor next line
func hdl_csi_cnl(emu *Emulator, num int) {
	hdl_csi_cud(emu, num)
	hdl_c0_cr(emu)
}

// CPL: cursor previous line
func hdl_csi_cpl(emu *Emulator, num int) {
	hdl_csi_cuu(emu, num)
	hdl_c0_cr(emu)
}

// CHA: cursor horizontal absolute
func hdl_csi_cha(emu *Emulator, num int) {
	emu.posX = emu.originColumn(num)
	emu.lastCol = false
}

// CUP: cursor position
func hdl_csi_cup(emu *Emulator, row, col int) {
	emu.posY = emu.originRow(row)
	emu.posX = emu.originColumn(col)
	emu.lastCol = false
}

// HPA: horizontal position absolute, same addressing as CHA
func hdl_csi_hpa(emu *Emulator, num int) {
	hdl_csi_cha(emu, num)
}

// HPR: horizontal position relative
func hdl_csi_hpr(emu *Emulator, num int) {
	emu.posX = min(emu.posX+num, emu.nColsEff-1)
	emu.lastCol = false
}

// VPA: vertical position absolute
func hdl_csi_vpa(emu *Emulator, num int) {
	emu.posY = emu.originRow(num)
	emu.lastCol = false
}

// VPR: vertical position relative
func hdl_csi_vpr(emu *Emulator, num int) {
	emu.posY = min(emu.posY+num, emu.nRows-1)
	emu.lastCol = false
}

// CHT: forward tabulation
func hdl_csi_cht(emu *Emulator, num int) {
	emu.jumpToNextTabStop(num)
}

// CBT: backward tabulation
func hdl_csi_cbt(emu *Emulator, num int) {
	emu.jumpToPrevTabStop(num)
}

// ED: erase in display
func hdl_csi_ed(emu *Emulator, cmd int) {
	emu.lastCol = false
	switch cmd {
	case 0: // erase below, including the cursor position
		emu.cf.eraseInRow(emu.posY, emu.posX, emu.nCols-emu.posX, emu.attrs)
		for pY := emu.posY + 1; pY < emu.nRows; pY++ {
			emu.cf.eraseInRow(pY, 0, emu.nCols, emu.attrs)
		}
	case 1: // erase above, including the cursor position
		for pY := 0; pY < emu.posY; pY++ {
			emu.cf.eraseInRow(pY, 0, emu.nCols, emu.attrs)
		}
		emu.cf.eraseInRow(emu.posY, 0, emu.posX+1, emu.attrs)
	case 2: // erase all
		for pY := 0; pY < emu.nRows; pY++ {
			emu.cf.eraseInRow(pY, 0, emu.nCols, emu.attrs)
		}
	case 3: // erase the scrollback
		emu.cf.dropScrollbackHistory()
	default:
		util.Logger.Trace("unhandled ED", "cmd", cmd)
	}
}

// EL: erase in line
func hdl_csi_el(emu *Emulator, cmd int) {
	emu.lastCol = false
	switch cmd {
	case 0: // erase to the right, including the cursor position
		emu.cf.eraseInRow(emu.posY, emu.posX, emu.nCols-emu.posX, emu.attrs)
	case 1: // erase to the left, including the cursor position
		emu.cf.eraseInRow(emu.posY, 0, emu.posX+1, emu.attrs)
	case 2: // erase the whole line
		emu.cf.eraseInRow(emu.posY, 0, emu.nCols, emu.attrs)
	default:
		util.Logger.Trace("unhandled EL", "cmd", cmd)
	}
}

// IL: insert lines
func hdl_csi_il(emu *Emulator, num int) {
	if !emu.isCursorInsideVerticalMargins() {
		return
	}
	num = min(num, emu.marginBottom-emu.posY)
	emu.insertRows(emu.posY, num)
	emu.lastCol = false
	hdl_c0_cr(emu)
}

// DL: delete lines
func hdl_csi_dl(emu *Emulator, num int) {
	if !emu.isCursorInsideVerticalMargins() {
		return
	}
	num = min(num, emu.marginBottom-emu.posY)
	emu.deleteRows(emu.posY, num)
	emu.lastCol = false
	hdl_c0_cr(emu)
}

// ICH: insert blank characters
func hdl_csi_ich(emu *Emulator, num int) {
	num = min(num, emu.nColsEff-emu.posX)
	emu.cf.moveInRow(emu.posY, emu.posX+num, emu.posX, emu.nColsEff-emu.posX-num)
	emu.cf.eraseInRow(emu.posY, emu.posX, num, emu.attrs)
	emu.lastCol = false
}

// DCH: delete characters
func hdl_csi_dch(emu *Emulator, num int) {
	num = min(num, emu.nColsEff-emu.posX)
	emu.cf.moveInRow(emu.posY, emu.posX, emu.posX+num, emu.nColsEff-emu.posX-num)
	emu.cf.eraseInRow(emu.posY, emu.nColsEff-num, num, emu.attrs)
	emu.lastCol = false
}

// ECH: erase characters
func hdl_csi_ech(emu *Emulator, num int) {
	num = min(num, emu.nCols-emu.posX)
	emu.cf.eraseInRow(emu.posY, emu.posX, num, emu.attrs)
	emu.lastCol = false
}

// SU: scroll up
func hdl_csi_su(emu *Emulator, num int) {
	num = min(num, emu.marginBottom-emu.marginTop)
	emu.scrollUp(num)
}

// SD: scroll down
func hdl_csi_sd(emu *Emulator, num int) {
	num = min(num, emu.marginBottom-emu.marginTop)
	emu.scrollDown(num)
}

// REP: repeat the preceding graphic character
func hdl_csi_rep(emu *Emulator, num int) {
	if len(emu.lastGraphicRunes) == 0 {
		return
	}
	chs := make([]rune, len(emu.lastGraphicRunes))
	copy(chs, emu.lastGraphicRunes)
	w := runesWidth(chs)
	for i := 0; i < num; i++ {
		emu.printGrapheme(chs, w)
	}
}

// DA1: primary device attributes
func hdl_csi_da1(emu *Emulator) {
	emu.writePty("\x1B[?" + DEVICE_ID)
}

// DA2: secondary device attributes
func hdl_csi_da2(emu *Emulator) {
	emu.writePty("\x1B[>64;0;0c")
}

// DSR: device status report
func hdl_csi_dsr(emu *Emulator, cmd int) {
	switch cmd {
	case 5: // operating status: OK
		emu.writePty("\x1B[0n")
	case 6: // report cursor position, origin mode aware
		row, col := emu.reportedCursorPos()
		emu.writePty(fmt.Sprintf("\x1B[%d;%dR", row, col))
	default:
		util.Logger.Trace("unhandled DSR", "cmd", cmd)
	}
}

// DECDSR: DEC specific device status report
func hdl_csi_decdsr(emu *Emulator, cmd int) {
	switch cmd {
	case 6: // DECXCPR: extended cursor position report
		row, col := emu.reportedCursorPos()
		emu.writePty(fmt.Sprintf("\x1B[?%d;%dR", row, col))
	case 15: // printer status: no printer
		emu.writePty("\x1B[?13n")
	default:
		util.Logger.Trace("unhandled DECDSR", "cmd", cmd)
	}
}

// DECSTBM: set top and bottom margins
func hdl_csi_decstbm(emu *Emulator, top, bottom int) {
	if bottom == 0 || bottom > emu.nRows {
		bottom = emu.nRows
	}
	if top < 1 {
		top = 1
	}
	if top >= bottom {
		util.Logger.Trace("DECSTBM ignored", "top", top, "bottom", bottom)
		return
	}

	emu.marginTop = top - 1
	emu.marginBottom = bottom

	// home the cursor, origin mode aware
	emu.posY = emu.originRow(1)
	emu.posX = emu.originColumn(1)
	emu.lastCol = false
}

// DECSLRM: set left and right margins, only reachable with mode 69 on
func hdl_csi_decslrm(emu *Emulator, left, right int) {
	if right == 0 || right > emu.nCols {
		right = emu.nCols
	}
	if left < 1 {
		left = 1
	}
	if left >= right {
		util.Logger.Trace("DECSLRM ignored", "left", left, "right", right)
		return
	}

	emu.hMargin = left - 1
	emu.nColsEff = right

	emu.posY = emu.originRow(1)
	emu.posX = emu.originColumn(1)
	emu.lastCol = false
}

// SCO save cursor
func hdl_csi_scosc(emu *Emulator) {
	emu.savedCursor_SCO.posX = emu.posX
	emu.savedCursor_SCO.posY = emu.posY
	emu.savedCursor_SCO.isSet = true
}

// SCO restore cursor
func hdl_csi_scorc(emu *Emulator) {
	if !emu.savedCursor_SCO.isSet {
		return
	}
	emu.posX = emu.savedCursor_SCO.posX
	emu.posY = emu.savedCursor_SCO.posY
	emu.savedCursor_SCO.isSet = false
	emu.normalizeCursorPos()
}

// SM: set ANSI mode
func hdl_csi_sm(emu *Emulator, params []int) {
	for _, mode := range params {
		emu.setAnsiMode(mode, true)
	}
}

// RM: reset ANSI mode
func hdl_csi_rm(emu *Emulator, params []int) {
	for _, mode := range params {
		emu.setAnsiMode(mode, false)
	}
}

// DECSET: set DEC private mode
func hdl_csi_decset(emu *Emulator, params []int) {
	for _, mode := range params {
		emu.setPrivateMode(mode, true)
	}
}

// DECRST: reset DEC private mode
func hdl_csi_decrst(emu *Emulator, params []int) {
	for _, mode := range params {
		emu.setPrivateMode(mode, false)
	}
}

// TBC: tabulation clear
func hdl_csi_tbc(emu *Emulator, cmd int) {
	switch cmd {
	case 0: // clear the tab stop at the current column
		emu.clearTabStop(emu.posX)
	case 3: // clear all tab stops
		emu.tabStops = emu.tabStops[:0]
	default:
		util.Logger.Trace("unhandled TBC", "cmd", cmd)
	}
}

// XTWINOPS: window manipulation
func hdl_csi_xtwinops(emu *Emulator, op, arg1, arg2 int) {
	switch op {
	case 8: // resize the text area to [arg1] rows x [arg2] cols
		emu.host.ResizeWindow(arg2, arg1)
	case 18: // report the text area size
		emu.writePty(fmt.Sprintf("\x1B[8;%d;%dt", emu.nRows, emu.nCols))
	case 22: // push the title onto the stack
		if arg1 == 0 || arg1 == 2 {
			emu.cf.pushTitle()
		}
	case 23: // pop the title from the stack
		if arg1 == 0 || arg1 == 2 {
			emu.cf.popTitle()
			emu.host.WindowTitleChanged(emu.cf.getWindowTitle())
		}
	default:
		util.Logger.Trace("unhandled XTWINOPS", "op", op)
	}
}

// DECSCUSR: set cursor style
func hdl_csi_decscusr(emu *Emulator, style int) {
	var cs CursorStyle
	switch style {
	case 0, 1:
		cs = CursorStyle_BlinkBlock
	case 2:
		cs = CursorStyle_SteadyBlock
	case 3:
		cs = CursorStyle_BlinkUnderline
	case 4:
		cs = CursorStyle_SteadyUnderline
	case 5:
		cs = CursorStyle_BlinkBar
	case 6:
		cs = CursorStyle_SteadyBar
	default:
		util.Logger.Trace("unhandled DECSCUSR", "style", style)
		return
	}
	emu.cursorStyle = cs
	emu.cf.setCursorStyle(cs)
	emu.host.CursorStyleChanged(cs)
}

// DECSTR: soft terminal reset
func hdl_csi_decstr(emu *Emulator) {
	emu.resetSoft()
}

// DECRQM / ANSI RQM: request mode state.
// reply is CSI ? Pd;Ps $ y for private modes and CSI Pd;Ps $ y for
// ANSI modes, Ps: 0 unknown, 1 set, 2 reset, 4 permanently reset
func hdl_csi_decrqm(emu *Emulator, mode int, private bool) {
	if private {
		emu.writePty(fmt.Sprintf("\x1B[?%d;%d$y", mode, emu.privateModeState(mode)))
	} else {
		emu.writePty(fmt.Sprintf("\x1B[%d;%d$y", mode, emu.ansiModeState(mode)))
	}
}

// DECIC: insert columns
func hdl_csi_decic(emu *Emulator, num int) {
	if !emu.isCursorInsideMargins() {
		return
	}
	num = min(num, emu.nColsEff-emu.posX)
	emu.insertCols(emu.posX, num)
}

// DECDC: delete columns
func hdl_csi_decdc(emu *Emulator, num int) {
	if !emu.isCursorInsideMargins() {
		return
	}
	num = min(num, emu.nColsEff-emu.posX)
	emu.deleteCols(emu.posX, num)
}

/*
SGR: the raw parameter string is re-parsed here so that ':' delimited
sub-parameters (extended colors, underline styles) are understood.
*/

func hdl_csi_sgr(emu *Emulator, raw string) {
	rend := &emu.attrs.renditions

	if raw == "" {
		rend.buildRendition(0)
		return
	}

	groups := strings.Split(raw, ";")
	for gi := 0; gi < len(groups); gi++ {
		sub := strings.Split(groups[gi], ":")
		attr := atoiDef(sub[0], 0)

		switch attr {
		case 38, 48, 58:
			var c Color
			var ok bool
			if len(sub) > 1 {
				// colon form carries its own arguments
				c, ok = parseExtColor(sub[1:])
			} else {
				// semicolon form consumes the following groups
				var used int
				c, ok, used = parseExtColorGroups(groups[gi+1:])
				gi += used
			}
			if !ok {
				util.Logger.Trace("malformed SGR extended color", "raw", raw)
				return
			}
			switch attr {
			case 38:
				rend.fgColor = c
			case 48:
				rend.bgColor = c
			case 58:
				rend.ulColor = c
			}
		case 4:
			if len(sub) > 1 {
				// underline style 4:n
				switch atoiDef(sub[1], 0) {
				case 0:
					rend.SetUnderline(false, UnderlineStyle_None)
				case 1:
					rend.SetUnderline(true, UnderlineStyle_Single)
				case 2:
					rend.SetUnderline(true, UnderlineStyle_Double)
				case 3:
					rend.SetUnderline(true, UnderlineStyle_Curly)
				case 4:
					rend.SetUnderline(true, UnderlineStyle_Dotted)
				case 5:
					rend.SetUnderline(true, UnderlineStyle_Dashed)
				}
			} else {
				rend.buildRendition(4)
			}
		default:
			if !rend.buildRendition(attr) {
				util.Logger.Trace("unhandled SGR attribute", "attr", attr)
			}
		}
	}
}

// parse the arguments after 38/48/58 in colon form: 5:n or 2::r:g:b or 2:r:g:b
func parseExtColor(args []string) (c Color, ok bool) {
	if len(args) == 0 {
		return ColorDefault, false
	}
	switch atoiDef(args[0], -1) {
	case 5:
		if len(args) >= 2 {
			return PaletteColor(atoiDef(args[1], 0)), true
		}
	case 2:
		rgb := args[1:]
		if len(rgb) >= 4 {
			// 2::r:g:b carries a colorspace id, skip it
			rgb = rgb[1:]
		}
		if len(rgb) >= 3 {
			return NewRGBColor(
				int32(atoiDef(rgb[0], 0)),
				int32(atoiDef(rgb[1], 0)),
				int32(atoiDef(rgb[2], 0))), true
		}
	}
	return ColorDefault, false
}

// parse the arguments after 38/48/58 in semicolon form: 5;n or 2;r;g;b.
// returns how many groups were consumed.
func parseExtColorGroups(groups []string) (c Color, ok bool, used int) {
	if len(groups) == 0 {
		return ColorDefault, false, 0
	}
	switch atoiDef(groups[0], -1) {
	case 5:
		if len(groups) >= 2 {
			return PaletteColor(atoiDef(groups[1], 0)), true, 2
		}
	case 2:
		if len(groups) >= 4 {
			return NewRGBColor(
				int32(atoiDef(groups[1], 0)),
				int32(atoiDef(groups[2], 0)),
				int32(atoiDef(groups[3], 0))), true, 4
		}
	}
	return ColorDefault, false, 0
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

/*
OSC control functions
*/

// OSC 0,1,2: set icon name and/or window title
func hdl_osc_0(emu *Emulator, cmd int, arg string) {
	setIcon := cmd == 0 || cmd == 1
	setTitle := cmd == 0 || cmd == 2

	if setIcon {
		emu.cf.setIconName(arg)
		emu.host.IconNameChanged(arg)
	}
	if setTitle {
		emu.cf.setWindowTitle(arg)
		emu.host.WindowTitleChanged(arg)
	}
}

// OSC 4: set or query the color palette: "i;spec[;i;spec...]"
func hdl_osc_4(emu *Emulator, arg string) {
	parts := strings.Split(arg, ";")
	for i := 0; i+1 < len(parts); i += 2 {
		idx := atoiDef(parts[i], -1)
		if idx < 0 || idx > 255 {
			continue
		}
		spec := parts[i+1]
		if spec == "?" {
			emu.writePty(fmt.Sprintf("\x1B]4;%d;%s\x1B\\", idx, formatColorSpec(emu.paletteColor(idx))))
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			emu.paletteOverride[idx] = c
		}
	}
}

// OSC 8: hyperlink: "params;uri", params may carry id=...
func hdl_osc_8(emu *Emulator, arg string) {
	idx := strings.IndexByte(arg, ';')
	if idx < 0 {
		return
	}
	params := arg[:idx]
	uri := arg[idx+1:]

	if uri == "" {
		emu.currentLink = 0
		return
	}

	id := ""
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			id = kv[3:]
		}
	}
	emu.currentLink = emu.cf.links.addLink(id, uri)
}

// OSC 10,11,12: set or query the dynamic colors.
func hdl_osc_10(emu *Emulator, cmd int, arg string) {
	// consecutive specs address consecutive dynamic colors
	for _, spec := range strings.Split(arg, ";") {
		if cmd > 12 {
			break
		}
		if spec == "?" {
			emu.writePty(fmt.Sprintf("\x1B]%d;%s\x1B\\", cmd, formatColorSpec(emu.dynamicColor(cmd))))
		} else if c, ok := parseColorSpec(spec); ok {
			emu.setDynamicColor(cmd, c)
			emu.host.DynamicColorChanged(cmd, c)
		}
		cmd++
	}
}

// OSC 52: manipulate the selection data: "Pc;Pd"
func hdl_osc_52(emu *Emulator, arg string) {
	idx := strings.IndexByte(arg, ';')
	if idx < 0 {
		return
	}
	pc := arg[:idx]
	pd := arg[idx+1:]
	if pc == "" {
		pc = "s0"
	}

	if pd == "?" {
		// report the first requested selection
		for _, sel := range pc {
			if data, ok := emu.selectionStore[sel]; ok {
				emu.writePty(fmt.Sprintf("\x1B]52;%s;%s\x1B\\", pc,
					base64.StdEncoding.EncodeToString([]byte(data))))
				return
			}
		}
		return
	}

	data, err := base64.StdEncoding.DecodeString(pd)
	for _, sel := range pc {
		if _, ok := emu.selectionStore[sel]; !ok {
			continue
		}
		if err != nil {
			// invalid base64 clears the selection
			emu.selectionStore[sel] = ""
		} else {
			emu.selectionStore[sel] = string(data)
		}
	}
}

// OSC 104: reset palette entries: empty means all
func hdl_osc_104(emu *Emulator, arg string) {
	if arg == "" {
		clear(emu.paletteOverride)
		return
	}
	for _, p := range strings.Split(arg, ";") {
		idx := atoiDef(p, -1)
		if 0 <= idx && idx <= 255 {
			delete(emu.paletteOverride, idx)
		}
	}
}

// OSC 110,111,112: reset a dynamic color to its default
func hdl_osc_110(emu *Emulator, cmd int) {
	name := cmd - 100
	emu.setDynamicColor(name, ColorDefault)
	emu.host.DynamicColorReset(name)
}

// OSC 133: shell integration marks. "A" marks a prompt line.
func hdl_osc_133(emu *Emulator, arg string) {
	if arg == "" {
		return
	}
	switch arg[0] {
	case 'A':
		emu.cf.addMark(emu.posY)
	case 'B', 'C', 'D':
		// command output boundaries are accepted, not tracked
	default:
		util.Logger.Trace("unhandled OSC 133", "arg", arg)
	}
}

// OSC 777: desktop notification: "notify;title;body"
func hdl_osc_777(emu *Emulator, arg string) {
	parts := strings.SplitN(arg, ";", 3)
	if len(parts) < 2 || parts[0] != "notify" {
		util.Logger.Trace("unhandled OSC 777", "arg", arg)
		return
	}
	title := parts[1]
	body := ""
	if len(parts) == 3 {
		body = parts[2]
	}
	emu.host.Notify(title, body)
}

/*
DCS control functions
*/

// DECRQSS: request selection or setting
func hdl_dcs_decrqss(emu *Emulator, request string) {
	switch request {
	case "m": // SGR
		sgr := emu.attrs.renditions.SGR()
		emu.writePty("\x1BP1$r" + strings.TrimPrefix(sgr, "\x1B[") + "\x1B\\")
	case "r": // DECSTBM
		emu.writePty(fmt.Sprintf("\x1BP1$r%d;%dr\x1B\\", emu.marginTop+1, emu.marginBottom))
	case "s": // DECSLRM
		emu.writePty(fmt.Sprintf("\x1BP1$r%d;%ds\x1B\\", emu.hMargin+1, emu.nColsEff))
	case " q": // DECSCUSR
		emu.writePty(fmt.Sprintf("\x1BP1$r%d q\x1B\\", emu.reportedCursorStyle()))
	default:
		emu.writePty("\x1BP0$r\x1B\\")
	}
}
