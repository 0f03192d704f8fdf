// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strings"
)

// RenderFunc receives one visible cell. row and col are 1-based. the
// cell reference is only valid for the duration of the call: the
// renderer copies what it keeps.
type RenderFunc func(row, col int, cell *Cell)

// Render walks the visible region in row-major order and invokes cb
// exactly once per cell. scrollOffset selects how many history rows
// are shown above the active area; it is clamped to the available
// history.
func (emu *Emulator) Render(cb RenderFunc, scrollOffset int) {
	fb := emu.cf
	scrollOffset = max(0, min(scrollOffset, fb.historyRows))

	for pY := 0; pY < emu.nRows; pY++ {
		start := fb.getPhysicalRowIndex(pY - scrollOffset)
		for pX := 0; pX < emu.nCols; pX++ {
			cb(pY+1, pX+1, &fb.cells[start+pX])
		}
	}
}

// text of one logical row. pY may be negative to reach the history.
func (emu *Emulator) rowText(pY int) string {
	fb := emu.cf
	var b strings.Builder
	for pX := 0; pX < emu.nCols; pX++ {
		cell := fb.getCell(pY, pX)
		if cell.IsDoubleWidthCont() {
			continue
		}
		b.WriteString(cell.GetContents())
	}
	return strings.TrimRight(b.String(), " ")
}

// RenderText returns the decoded text of the current view, rows joined
// with newlines.
func (emu *Emulator) RenderText() string {
	lines := make([]string, emu.nRows)
	for pY := 0; pY < emu.nRows; pY++ {
		lines[pY] = emu.rowText(pY - emu.cf.viewOffset)
	}
	return strings.Join(lines, "\n")
}

// RenderTextLine returns the decoded text of one visible row, 1-based.
func (emu *Emulator) RenderTextLine(row int) string {
	if row < 1 || row > emu.nRows {
		return ""
	}
	return emu.rowText(row - 1 - emu.cf.viewOffset)
}

// RenderHistoryTextLine returns the decoded text of the n-th history
// row, 1-based from the oldest retained row.
func (emu *Emulator) RenderHistoryTextLine(n int) string {
	if n < 1 || n > emu.cf.historyRows {
		return ""
	}
	return emu.rowText(n - 1 - emu.cf.historyRows)
}

/*
screenshot: serialize the visible state as a VT byte sequence. feeding
the result to a fresh emulator of the same size reproduces the text,
colors, attributes, window title and cursor position.
*/

func (emu *Emulator) Screenshot() string {
	fb := emu.cf
	var b strings.Builder

	b.WriteString("\x1B[H\x1B[0m")

	if fb.isTitleInitialized() {
		fmt.Fprintf(&b, "\x1B]1;%s\x1B\\", fb.getIconName())
		fmt.Fprintf(&b, "\x1B]2;%s\x1B\\", fb.getWindowTitle())
	}

	lastRend := Renditions{}
	lastLink := 0
	for pY := 0; pY < emu.nRows; pY++ {
		fmt.Fprintf(&b, "\x1B[%d;1H", pY+1)

		// find the last cell worth emitting
		lastX := emu.nCols - 1
		for ; lastX >= 0; lastX-- {
			cell := fb.getCell(pY, lastX)
			if !cell.IsBlank() || cell.renditions != (Renditions{}) || cell.linkIndex != 0 {
				break
			}
		}

		for pX := 0; pX <= lastX; pX++ {
			cell := fb.getCell(pY, pX)
			if cell.IsDoubleWidthCont() {
				continue
			}
			if cell.renditions != lastRend {
				b.WriteString(cell.renditions.SGR())
				lastRend = cell.renditions
			}
			if cell.linkIndex != lastLink {
				if url, id, ok := fb.links.getLink(cell.linkIndex); ok {
					if id != "" {
						fmt.Fprintf(&b, "\x1B]8;id=%s;%s\x1B\\", id, url)
					} else {
						fmt.Fprintf(&b, "\x1B]8;;%s\x1B\\", url)
					}
				} else {
					b.WriteString("\x1B]8;;\x1B\\")
				}
				lastLink = cell.linkIndex
			}
			b.WriteString(cell.GetContents())
		}
	}
	if lastLink != 0 {
		b.WriteString("\x1B]8;;\x1B\\")
	}

	// restore the current renditions and the cursor
	b.WriteString(emu.attrs.renditions.SGR())
	fmt.Fprintf(&b, "\x1B[%d;%dH", emu.posY+1, emu.posX+1)
	if !emu.showCursorMode {
		b.WriteString("\x1B[?25l")
	}

	return b.String()
}

// GetCursorStyle reports the shape a renderer should draw the cursor
// with; Hidden while the cursor is switched off or a control sequence
// is in flight.
func (emu *Emulator) GetCursorStyle() CursorStyle {
	return emu.cf.getCursor().style
}

// GetDamage reports the dirty cell index range of the active buffer
// since the last ResetDamage.
func (emu *Emulator) GetDamage() (start, end int) {
	return emu.cf.damage.start, emu.cf.damage.end
}

func (emu *Emulator) ResetDamage() {
	emu.cf.resetDamage()
}

/*
viewport scrolling
*/

// ScrollUp moves the view up (towards the history) by n rows.
func (emu *Emulator) ScrollUp(n int) {
	emu.cf.pageUp(max(1, n))
}

// ScrollDown moves the view down by n rows.
func (emu *Emulator) ScrollDown(n int) {
	emu.cf.pageDown(max(1, n))
}

func (emu *Emulator) ScrollToTop() {
	emu.cf.pageToTop()
}

func (emu *Emulator) ScrollToBottom() {
	emu.cf.pageToBottom()
}

// ScrollOffset reports how many history rows are above the view.
func (emu *Emulator) ScrollOffset() int {
	return emu.cf.getViewOffset()
}

// ScrollMarkUp scrolls the view to the previous shell-integration mark.
func (emu *Emulator) ScrollMarkUp() {
	fb := emu.cf
	top := fb.viewTopAbs()
	for i := len(fb.marks) - 1; i >= 0; i-- {
		if fb.marks[i] < top {
			fb.pageUp(top - fb.marks[i])
			return
		}
	}
}

// ScrollMarkDown scrolls the view to the next shell-integration mark.
func (emu *Emulator) ScrollMarkDown() {
	fb := emu.cf
	top := fb.viewTopAbs()
	for _, m := range fb.marks {
		if m > top {
			fb.pageDown(m - top)
			return
		}
	}
	fb.pageToBottom()
}

// SetMark records a mark at the cursor row, like OSC 133;A does.
func (emu *Emulator) SetMark() {
	emu.cf.addMark(emu.posY)
}

/*
selection
*/

// SetSelector installs the selection overlay. the emulator owns the
// selector until it is cleared.
func (emu *Emulator) SetSelector(sel *Selector) {
	emu.selector = sel
}

func (emu *Emulator) GetSelector() *Selector {
	return emu.selector
}

func (emu *Emulator) ClearSelection() {
	emu.selector = nil
}

// text of the logical row holding the given absolute row, "" when the
// row was evicted.
func (emu *Emulator) absRowText(absRow int) string {
	fb := emu.cf
	pY := absRow - fb.scrolledTotal
	if pY < -fb.historyRows || pY >= emu.nRows {
		return ""
	}
	return emu.rowText(pY)
}

// Selection returns the selected ranges in absolute coordinates,
// oldest row first. empty when there is no complete selection.
func (emu *Emulator) Selection() []Range {
	if emu.selector == nil {
		return nil
	}
	return emu.selector.Ranges(emu.absRowText, emu.nCols)
}

// RenderSelection invokes cb for every visible cell inside the
// selection, in row-major order. row and col are 1-based.
func (emu *Emulator) RenderSelection(cb RenderFunc) {
	fb := emu.cf
	topAbs := fb.viewTopAbs()

	for _, r := range emu.Selection() {
		pY := r.Row - topAbs
		if pY < 0 || pY >= emu.nRows {
			continue
		}
		start := fb.getPhysicalRowIndex(pY - fb.viewOffset)
		for i := 0; i < r.Length && r.StartCol+i < emu.nCols; i++ {
			pX := r.StartCol + i
			cb(pY+1, pX+1, &fb.cells[start+pX])
		}
	}
}

// SelectedText extracts the text covered by the selection.
func (emu *Emulator) SelectedText() string {
	ranges := emu.Selection()
	if len(ranges) == 0 {
		return ""
	}

	fb := emu.cf
	lines := make([]string, 0, len(ranges))
	for _, r := range ranges {
		pY := r.Row - fb.scrolledTotal
		if pY < -fb.historyRows || pY >= emu.nRows {
			continue
		}
		var b strings.Builder
		for i := 0; i < r.Length && r.StartCol+i < emu.nCols; i++ {
			cell := fb.getCell(pY, r.StartCol+i)
			if cell.IsDoubleWidthCont() {
				continue
			}
			b.WriteString(cell.GetContents())
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}
