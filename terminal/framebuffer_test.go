// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"testing"
)

// write a marker into the first cell of each visible row.
func fillRowMarkers(fb *Framebuffer, round int) {
	for pY := 0; pY < fb.nRows; pY++ {
		cell := fb.getMutableCell(pY, 0)
		cell.Reset(ColorDefault)
		cell.contents = fmt.Sprintf("%d", round*fb.nRows+pY)
	}
}

func rowMarker(fb *Framebuffer, pY int) string {
	return fb.getCell(pY, 0).contents
}

func TestFramebufferScrollHistory(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 6)

	fillRowMarkers(fb, 0)
	fb.scrollUp(2)

	if fb.getHistoryRows() != 2 {
		t.Fatalf("scrollUp: expect 2 history rows, got %d\n", fb.getHistoryRows())
	}
	if rowMarker(fb, -2) != "0" || rowMarker(fb, -1) != "1" {
		t.Errorf("scrollUp: history expect 0,1, got %s,%s\n", rowMarker(fb, -2), rowMarker(fb, -1))
	}
	if rowMarker(fb, 0) != "2" {
		t.Errorf("scrollUp: top row expect 2, got %s\n", rowMarker(fb, 0))
	}

	// history saturates at saveLines and the oldest rows are evicted
	for i := 0; i < 5; i++ {
		fb.scrollUp(4)
	}
	if fb.getHistoryRows() != 6 {
		t.Errorf("scrollUp saturation: expect 6 history rows, got %d\n", fb.getHistoryRows())
	}
}

func TestFramebufferScrollDown(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 6)
	fillRowMarkers(fb, 0)
	fb.scrollUp(3)

	fb.scrollDown(2)
	if fb.getHistoryRows() != 1 {
		t.Errorf("scrollDown: expect 1 history row, got %d\n", fb.getHistoryRows())
	}
	if rowMarker(fb, 0) != "1" {
		t.Errorf("scrollDown: top row expect 1, got %s\n", rowMarker(fb, 0))
	}
}

func TestFramebufferViewOffset(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 6)
	fillRowMarkers(fb, 0)
	fb.scrollUp(3)

	fb.pageUp(2)
	if fb.getViewOffset() != 2 {
		t.Errorf("pageUp: expect offset 2, got %d\n", fb.getViewOffset())
	}
	// the view reaches into the history
	if got := fb.getCell(0-fb.getViewOffset(), 0).contents; got != "1" {
		t.Errorf("pageUp: view top expect 1, got %s\n", got)
	}

	fb.pageUp(99)
	if fb.getViewOffset() != 3 {
		t.Errorf("pageUp clamp: expect offset 3, got %d\n", fb.getViewOffset())
	}

	fb.pageToBottom()
	if fb.getViewOffset() != 0 {
		t.Errorf("pageToBottom: expect offset 0, got %d\n", fb.getViewOffset())
	}
}

func TestFramebufferResizePreservesHistory(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 6)
	fillRowMarkers(fb, 0)
	fb.scrollUp(2)

	fb.resize(10, 4)
	if fb.getHistoryRows() != 2 {
		t.Fatalf("resize: expect 2 history rows, got %d\n", fb.getHistoryRows())
	}
	if rowMarker(fb, -2) != "0" || rowMarker(fb, 0) != "2" {
		t.Errorf("resize: expect history 0 and top 2, got %s and %s\n", rowMarker(fb, -2), rowMarker(fb, 0))
	}
}

func TestFramebufferResizeSaveLines(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 6)
	fillRowMarkers(fb, 0)
	fb.scrollUp(4)
	fillRowMarkers(fb, 1)
	fb.scrollUp(2)

	if fb.getHistoryRows() != 6 {
		t.Fatalf("setup: expect 6 history rows, got %d\n", fb.getHistoryRows())
	}

	fb.resizeSaveLines(3)
	if fb.getHistoryRows() != 3 {
		t.Errorf("resizeSaveLines: expect 3 history rows, got %d\n", fb.getHistoryRows())
	}
	// the newest history rows are the ones kept
	if rowMarker(fb, -1) != "5" {
		t.Errorf("resizeSaveLines: newest history expect 5, got %s\n", rowMarker(fb, -1))
	}

	fb.resizeSaveLines(10)
	if fb.getHistoryRows() != 3 {
		t.Errorf("growing saveLines must keep the history, got %d\n", fb.getHistoryRows())
	}
}

func TestFramebufferMarks(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 2)

	fb.addMark(0)
	fb.addMark(0) // duplicates collapse
	fb.addMark(2)
	if len(fb.marks) != 2 {
		t.Fatalf("addMark: expect 2 marks, got %d\n", len(fb.marks))
	}

	// scrolling far enough evicts the mark at absolute row 0
	fb.scrollUp(4)
	if len(fb.marks) != 1 || fb.marks[0] != 2 {
		t.Errorf("trimMarks: expect the mark at 2 only, got %v\n", fb.marks)
	}
}

func TestFramebufferTitleStack(t *testing.T) {
	fb := NewFramebuffer3(8, 4, 0)

	fb.setWindowTitle("one")
	fb.pushTitle()
	fb.setWindowTitle("two")
	fb.pushTitle()
	fb.popTitle()
	if fb.getWindowTitle() != "two" {
		t.Errorf("popTitle: expect %q, got %q\n", "two", fb.getWindowTitle())
	}
	fb.popTitle()
	if fb.getWindowTitle() != "one" {
		t.Errorf("popTitle: expect %q, got %q\n", "one", fb.getWindowTitle())
	}

	// the stack is bounded: the oldest entry is dropped
	for i := 0; i < titleStackMax+5; i++ {
		fb.setWindowTitle(fmt.Sprintf("t%d", i))
		fb.pushTitle()
	}
	if len(fb.titleStack) != titleStackMax {
		t.Errorf("pushTitle: expect stack of %d, got %d\n", titleStackMax, len(fb.titleStack))
	}
}

func TestFramebufferEraseAndMove(t *testing.T) {
	fb := NewFramebuffer3(8, 2, 0)
	for i := 0; i < 8; i++ {
		fb.getMutableCell(0, i).contents = string(rune('a' + i))
	}

	fb.moveInRow(0, 2, 0, 3)
	if got := fb.getCell(0, 2).contents; got != "a" {
		t.Errorf("moveInRow: expect a at col 2, got %q\n", got)
	}

	var attrs Cell
	fb.eraseInRow(0, 0, 2, attrs)
	if !fb.getCell(0, 0).IsBlank() || !fb.getCell(0, 1).IsBlank() {
		t.Errorf("eraseInRow: expect blank cells\n")
	}
}

func TestFramebufferWrapFlag(t *testing.T) {
	fb := NewFramebuffer3(8, 2, 2)
	fb.setWrap(0, true)
	if !fb.getWrap(0) {
		t.Errorf("setWrap: expect the wrap flag on row 0\n")
	}

	// the flag travels with the row into the history
	fb.scrollUp(1)
	if !fb.getWrap(-1) {
		t.Errorf("scrollUp: expect the wrap flag on the history row\n")
	}
}

func TestFramebufferDamage(t *testing.T) {
	fb := NewFramebuffer3(8, 2, 0)
	fb.resetDamage()

	fb.getMutableCell(1, 3)
	start, end := fb.damage.start, fb.damage.end
	if start != 11 || end != 12 {
		t.Errorf("damage: expect [11,12), got [%d,%d)\n", start, end)
	}

	fb.getMutableCell(0, 0)
	if fb.damage.start != 0 || fb.damage.end != 12 {
		t.Errorf("damage merge: expect [0,12), got [%d,%d)\n", fb.damage.start, fb.damage.end)
	}
}
