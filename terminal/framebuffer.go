// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "slices"

const (
	SaveLineUpperLimit = 50000
	titleStackMax      = 10
)

// Framebuffer is one screen buffer: the cell grid, its scrollback
// history, window title state, hyperlink table and marks.
//
// the cell storage is a flat ring of (nRows+saveLines)*nCols cells.
// scrollHead is the physical index of the logical top visible row;
// a full-screen scroll moves scrollHead instead of moving cells, and
// the rows left behind the logical top (up to historyRows of them)
// are the scrollback.
type Framebuffer struct {
	cells       []Cell // the cells
	nCols       int    // cols number per window
	nRows       int    // rows number per window
	saveLines   int    // scrollback capacity in rows
	scrollHead  int    // physical row index of the logical top row
	historyRows int    // number of history (off-screen) rows with data
	viewOffset  int    // how many rows above the top row does the view start?

	// scrolledTotal counts the rows ever pushed into history. together
	// with an on-screen row number it forms a stable absolute row
	// number for marks and selection.
	scrolledTotal int

	damage Damage
	cursor Cursor // current cursor style, color and position

	windowTitle      string
	iconName         string
	titleInitialized bool
	titleStack       []string
	bellCount        int

	links *links
	marks []int // absolute row numbers of shell-integration marks
}

// create a framebuffer with the specified nCols, nRows and saveLines.
// for the alternate screen buffer saveLines is 0; max is 50000.
func NewFramebuffer3(nCols, nRows, saveLines int) *Framebuffer {
	fb := &Framebuffer{}

	if saveLines < 0 {
		saveLines = 0
	}
	if saveLines > SaveLineUpperLimit {
		saveLines = SaveLineUpperLimit
	}

	fb.cells = make([]Cell, nCols*(nRows+saveLines))
	fb.nCols = nCols
	fb.nRows = nRows
	fb.saveLines = saveLines
	fb.scrollHead = 0
	fb.historyRows = 0
	fb.viewOffset = 0

	fb.damage.totalCells = nCols * (nRows + saveLines)
	fb.links = newLinks()
	fb.titleStack = make([]string, 0, titleStackMax)

	return fb
}

// ringSize is the total row count of the cell ring.
func (fb *Framebuffer) ringSize() int {
	return fb.nRows + fb.saveLines
}

// drop the scrollback history and view offset
func (fb *Framebuffer) dropScrollbackHistory() {
	fb.viewOffset = 0
	fb.historyRows = 0
	fb.scrolledTotal = 0
	fb.marks = fb.marks[:0]
	fb.expose()
}

func (fb *Framebuffer) resize(nCols, nRows int) {
	if fb.nCols == nCols && fb.nRows == nRows {
		return
	}

	// adjust the internal cell storage according to the new size
	newCells := make([]Cell, nCols*(nRows+fb.saveLines))

	rowLen := min(fb.nCols, nCols)    // minimal row length
	nCopyRows := min(fb.nRows, nRows) // minimal row number

	// copy the active area
	for pY := 0; pY < nCopyRows; pY++ {
		srcStartIdx := fb.getPhysicalRowIndex(pY)
		srcEndIdx := srcStartIdx + rowLen
		dstStartIdx := nCols * pY
		copy(newCells[dstStartIdx:], fb.cells[srcStartIdx:srcEndIdx])
	}
	// copy the history rows to the tail of the new storage, so the
	// ring stays contiguous: ... history | visible ...
	base := (nRows + fb.saveLines - fb.historyRows) * nCols
	j := 0
	for pY := -fb.historyRows; pY < 0; pY++ {
		srcStartIdx := fb.getPhysicalRowIndex(pY)
		srcEndIdx := srcStartIdx + rowLen
		dstStartIdx := base + nCols*j
		copy(newCells[dstStartIdx:], fb.cells[srcStartIdx:srcEndIdx])
		j++
	}

	fb.cells = newCells
	fb.nCols = nCols
	fb.nRows = nRows
	fb.scrollHead = 0
	fb.viewOffset = 0
	fb.damage.totalCells = fb.nCols * (fb.nRows + fb.saveLines)
	fb.expose()
}

// change the scrollback capacity, preserving the visible area and as
// much history as fits.
func (fb *Framebuffer) resizeSaveLines(saveLines int) {
	if saveLines < 0 {
		saveLines = 0
	}
	if saveLines > SaveLineUpperLimit {
		saveLines = SaveLineUpperLimit
	}
	if saveLines == fb.saveLines {
		return
	}

	keepHistory := min(fb.historyRows, saveLines)
	newCells := make([]Cell, fb.nCols*(fb.nRows+saveLines))

	for pY := 0; pY < fb.nRows; pY++ {
		srcStartIdx := fb.getPhysicalRowIndex(pY)
		copy(newCells[fb.nCols*pY:], fb.cells[srcStartIdx:srcStartIdx+fb.nCols])
	}
	base := (fb.nRows + saveLines - keepHistory) * fb.nCols
	j := 0
	for pY := -keepHistory; pY < 0; pY++ {
		srcStartIdx := fb.getPhysicalRowIndex(pY)
		copy(newCells[base+fb.nCols*j:], fb.cells[srcStartIdx:srcStartIdx+fb.nCols])
		j++
	}

	fb.cells = newCells
	fb.saveLines = saveLines
	fb.historyRows = keepHistory
	fb.scrollHead = 0
	fb.viewOffset = min(fb.viewOffset, fb.historyRows)
	fb.damage.totalCells = fb.nCols * (fb.nRows + fb.saveLines)
	fb.trimMarks()
	fb.expose()
}

func (fb *Framebuffer) expose() {
	fb.damage.expose()
}

func (fb *Framebuffer) resetDamage() {
	fb.damage.reset()
}

func (fb *Framebuffer) getHistoryRows() int {
	return fb.historyRows
}

func (fb *Framebuffer) getViewOffset() int {
	return fb.viewOffset
}

func (fb *Framebuffer) setCursorPos(pY, pX int) {
	fb.cursor.posY = pY
	fb.cursor.posX = pX
}

func (fb *Framebuffer) setCursorStyle(cs CursorStyle) {
	fb.cursor.style = cs
}

func (fb *Framebuffer) getCursor() Cursor {
	return fb.cursor
}

// text up, screen down count rows
func (fb *Framebuffer) pageUp(count int) {
	fb.viewOffset = min(fb.viewOffset+count, fb.historyRows)
	fb.expose()
}

// text down, screen up count rows
func (fb *Framebuffer) pageDown(count int) {
	fb.viewOffset = max(0, fb.viewOffset-count)
	fb.expose()
}

// scroll the view to the oldest history row
func (fb *Framebuffer) pageToTop() {
	fb.pageUp(fb.historyRows)
}

func (fb *Framebuffer) pageToBottom() {
	if fb.viewOffset == 0 {
		return
	}

	fb.viewOffset = 0
	fb.expose()
}

// text up count rows. the rows scrolled off the top become history
// (the ring keeps them; the caller erases the newly exposed rows at
// the bottom).
func (fb *Framebuffer) scrollUp(count int) {
	fb.scrollHead = (fb.scrollHead + count) % fb.ringSize()
	fb.historyRows = min(fb.historyRows+count, fb.saveLines)
	fb.scrolledTotal += count
	fb.trimMarks()
	fb.expose()
}

// text down count rows, giving rows back to the history. used by the
// resize cursor preservation rules only.
func (fb *Framebuffer) scrollDown(count int) {
	fb.scrollHead -= count
	for fb.scrollHead < 0 {
		fb.scrollHead += fb.ringSize()
	}
	fb.historyRows = max(0, fb.historyRows-count)
	fb.scrolledTotal = max(0, fb.scrolledTotal-count)
	fb.expose()
}

// drop marks that point to evicted history rows.
func (fb *Framebuffer) trimMarks() {
	if len(fb.marks) == 0 {
		return
	}
	oldest := fb.scrolledTotal - fb.historyRows
	fb.marks = slices.DeleteFunc(fb.marks, func(m int) bool { return m < oldest })
}

// addMark records the absolute row number of the given on-screen row.
func (fb *Framebuffer) addMark(pY int) {
	abs := fb.scrolledTotal + pY
	if len(fb.marks) > 0 && fb.marks[len(fb.marks)-1] == abs {
		return
	}
	fb.marks = append(fb.marks, abs)
}

// absolute row number of the top row of the current view.
func (fb *Framebuffer) viewTopAbs() int {
	return fb.scrolledTotal - fb.viewOffset
}

// return a reference of the specified cell
func (fb *Framebuffer) getMutableCell(pY, pX int) (cell *Cell) {
	idx := fb.getIdx(pY, pX)
	fb.damage.add(idx, idx+1)

	cell = &(fb.cells[idx])
	return
}

// return a copy of the specified cell
func (fb *Framebuffer) getCell(pY, pX int) (cell Cell) {
	idx := fb.getIdx(pY, pX)
	cell = fb.cells[idx]
	return
}

// erase (reset) from start to end with the prototype renditions
func (fb *Framebuffer) eraseRange(start, end int, attrs Cell) {
	for i := range fb.cells[start:end] {
		fb.cells[start+i].Reset2(attrs)
	}
	fb.damage.add(start, end)
}

// erase (count) cells from startX column
func (fb *Framebuffer) eraseInRow(pY, startX, count int, attrs Cell) {
	if count <= 0 {
		return
	}

	idx := fb.getIdx(pY, startX)
	fb.eraseRange(idx, idx+count, attrs)
}

// move (count) cells from srcX column to dstX column in row pY
func (fb *Framebuffer) moveInRow(pY, dstX, srcX, count int) {
	if count <= 0 {
		return
	}

	dstIdx := fb.getIdx(pY, dstX)
	srcIdx := fb.getIdx(pY, srcX)
	fb.moveCells(dstIdx, srcIdx, count)
}

// move (count) cells from srcIx to dstIx. Both parameters are cell indexes.
func (fb *Framebuffer) moveCells(dstIx, srcIx, count int) {
	copy(fb.cells[dstIx:dstIx+count], fb.cells[srcIx:srcIx+count])
	fb.damage.add(dstIx, dstIx+count)
}

// copy a row from srcY to dstY within the (startX,count) column span.
func (fb *Framebuffer) copyRow(dstY, srcY, startX, count int) {
	if count <= 0 {
		return
	}

	dstIdx := fb.getIdx(dstY, startX)
	srcIdx := fb.getIdx(srcY, startX)
	fb.moveCells(dstIdx, srcIdx, count)
}

// fill every visible cell with the specified rune, for DECALN.
func (fb *Framebuffer) fillCells(ch rune, attrs Cell) {
	for pY := 0; pY < fb.nRows; pY++ {
		start := fb.getPhysicalRowIndex(pY)
		for i := start; i < start+fb.nCols; i++ {
			fb.cells[i].Reset2(attrs)
			fb.cells[i].contents = string(ch)
		}
		fb.damage.add(start, start+fb.nCols)
	}
}

// wrap flag of a row lives in its last cell.
func (fb *Framebuffer) getWrap(pY int) bool {
	return fb.cells[fb.getIdx(pY, fb.nCols-1)].GetWrap()
}

func (fb *Framebuffer) setWrap(pY int, wrap bool) {
	fb.cells[fb.getIdx(pY, fb.nCols-1)].SetWrap(wrap)
}

func (fb *Framebuffer) getPhysicalRowIndex(pY int) int {
	return fb.nCols * fb.getPhysicalRow(pY)
}

func (fb *Framebuffer) getIdx(pY, pX int) int {
	return fb.nCols*fb.getPhysicalRow(pY) + pX
}

// map a logical row to a physical row in the ring. negative pY reaches
// into the history.
func (fb *Framebuffer) getPhysicalRow(pY int) int {
	pY += fb.scrollHead
	n := fb.ringSize()
	if pY < 0 {
		pY += n
	} else if pY >= n {
		pY -= n
	}
	return pY
}

/*
window title, icon name and the xterm title stack
*/

func (fb *Framebuffer) setWindowTitle(title string) {
	fb.windowTitle = title
	fb.titleInitialized = true
}

func (fb *Framebuffer) getWindowTitle() string {
	return fb.windowTitle
}

func (fb *Framebuffer) setIconName(name string) {
	fb.iconName = name
	fb.titleInitialized = true
}

func (fb *Framebuffer) getIconName() string {
	return fb.iconName
}

func (fb *Framebuffer) isTitleInitialized() bool {
	return fb.titleInitialized
}

func (fb *Framebuffer) prefixWindowTitle(prefix string) {
	fb.windowTitle = prefix + fb.windowTitle
}

// XTWINOPS 22: push the title onto the stack, drop the bottom entry
// when the stack is full.
func (fb *Framebuffer) pushTitle() {
	if len(fb.titleStack) >= titleStackMax {
		fb.titleStack = fb.titleStack[1:]
	}
	fb.titleStack = append(fb.titleStack, fb.windowTitle)
}

// XTWINOPS 23: pop the title from the stack.
func (fb *Framebuffer) popTitle() {
	if len(fb.titleStack) > 0 {
		fb.windowTitle = fb.titleStack[len(fb.titleStack)-1]
		fb.titleStack = fb.titleStack[:len(fb.titleStack)-1]
		fb.titleInitialized = true
	}
}

func (fb *Framebuffer) ringBell() {
	fb.bellCount += 1
}

func (fb *Framebuffer) getBellCount() int {
	return fb.bellCount
}
