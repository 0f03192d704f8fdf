// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strings"
	"testing"
)

func TestEmulatorHello(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	emu.HandleStream("Hello")

	want := "Hello"
	for i, ch := range want {
		cell := emu.cf.getCell(0, i)
		if cell.GetContents() != string(ch) {
			t.Errorf("cell (1,%d): expect %q, got %q\n", i+1, string(ch), cell.GetContents())
		}
	}
	if emu.posY != 0 || emu.posX != 5 {
		t.Errorf("cursor: expect (0,5), got (%d,%d)\n", emu.posY, emu.posX)
	}
}

func TestEmulatorClearAndHome(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	emu.HandleStream("some text\r\nmore text")
	emu.HandleStream("\x1B[2J\x1B[H")

	if got := emu.RenderText(); got != strings.Repeat("\n", 23) {
		t.Errorf("clear: expect an empty screen, got %q\n", got)
	}
	if emu.posY != 0 || emu.posX != 0 {
		t.Errorf("home: expect (0,0), got (%d,%d)\n", emu.posY, emu.posX)
	}
}

func TestEmulatorSGRCells(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	emu.HandleStream("\x1B[31mA\x1B[0mB")

	cellA := emu.cf.getCell(0, 0)
	if cellA.GetRenditions().fgColor != PaletteColor(1) {
		t.Errorf("cell A: expect fg %v, got %v\n", PaletteColor(1), cellA.GetRenditions().fgColor)
	}
	cellB := emu.cf.getCell(0, 1)
	if cellB.GetRenditions().fgColor != ColorDefault {
		t.Errorf("cell B: expect default fg, got %v\n", cellB.GetRenditions().fgColor)
	}
}

func TestEmulatorAltScreenToggle(t *testing.T) {
	emu := NewEmulator3(80, 24, 50)
	emu.HandleStream("primary")

	emu.HandleStream("\x1B[?1049h")
	if !emu.altScreenBufferMode {
		t.Fatalf("DECSET 1049: expect the alternate buffer\n")
	}
	emu.HandleStream("X")
	if got := emu.cf.getCell(0, 0).GetContents(); got != "X" {
		t.Errorf("alt buffer: expect X at (1,1), got %q\n", got)
	}

	emu.HandleStream("\x1B[?1049l")
	if emu.altScreenBufferMode {
		t.Fatalf("DECRST 1049: expect the primary buffer\n")
	}
	if got := emu.RenderTextLine(1); got != "primary" {
		t.Errorf("primary buffer: expect %q, got %q\n", "primary", got)
	}
	if emu.posY != 0 || emu.posX != 7 {
		t.Errorf("cursor restore: expect (0,7), got (%d,%d)\n", emu.posY, emu.posX)
	}
}

func TestEmulatorCombining(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	// e + combining acute accent, then a plain char
	emu.HandleStream("é!")

	cell := emu.cf.getCell(0, 0)
	if cell.GetContents() != "é" {
		t.Errorf("cell (1,1): expect %q, got %q\n", "é", cell.GetContents())
	}
	cell = emu.cf.getCell(0, 1)
	if cell.GetContents() != "!" {
		t.Errorf("cell (1,2): expect %q, got %q\n", "!", cell.GetContents())
	}

	// precomposed form arrives as a single cluster
	emu = NewEmulator3(80, 24, 0)
	emu.HandleStream("\xC3\xA9!")
	if got := emu.cf.getCell(0, 0).GetContents(); got != "é" {
		t.Errorf("cell (1,1): expect %q, got %q\n", "é", got)
	}
	if got := emu.cf.getCell(0, 1).GetContents(); got != "!" {
		t.Errorf("cell (1,2): expect %q, got %q\n", "!", got)
	}
}

func TestEmulatorWideChar(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	emu.HandleStream("中")

	cell := emu.cf.getCell(0, 0)
	if cell.GetContents() != "中" || !cell.IsDoubleWidth() {
		t.Errorf("wide cell: expect 中 double width, got %q (wide=%t)\n", cell.GetContents(), cell.IsDoubleWidth())
	}
	cont := emu.cf.getCell(0, 1)
	if !cont.IsDoubleWidthCont() {
		t.Errorf("wide cell: expect a trailing half at (1,2)\n")
	}
	if emu.posX != 2 {
		t.Errorf("wide cell: expect cursor col 2, got %d\n", emu.posX)
	}
}

func TestEmulatorWideCharWrap(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	// place the cursor on the last column: the wide char does not fit
	// and wraps to the next row without the soft-wrap flag
	emu.HandleStream("\x1B[1;80H中")

	if got := emu.cf.getCell(1, 0); got.GetContents() != "中" || !got.IsDoubleWidth() {
		t.Errorf("wide wrap: expect 中 at (2,1), got %q\n", got.GetContents())
	}
	if !emu.cf.getCell(1, 1).IsDoubleWidthCont() {
		t.Errorf("wide wrap: expect the trailing half at (2,2)\n")
	}
	for _, x := range []int{78, 79} {
		if got := emu.cf.getCell(0, x); !got.IsBlank() {
			t.Errorf("wide wrap: expect (1,%d) untouched, got %q\n", x+1, got.GetContents())
		}
	}
	if emu.cf.getWrap(0) {
		t.Errorf("wide wrap: the first row must not carry the wrap flag\n")
	}
}

func TestEmulatorLastColumnWrap(t *testing.T) {
	emu := NewEmulator3(80, 24, 0)
	emu.HandleStream("\x1B[1;80Ha")

	// the cursor stays on the last column with the wrap pending
	if emu.posX != 79 || !emu.lastCol {
		t.Fatalf("pending wrap: expect col 79 pending, got col %d pending=%t\n", emu.posX, emu.lastCol)
	}

	// CR on the pending cell must not wrap
	emu.HandleStream("\r")
	if emu.posY != 0 || emu.posX != 0 {
		t.Errorf("pending wrap + CR: expect (0,0), got (%d,%d)\n", emu.posY, emu.posX)
	}

	// the next char triggers the wrap and sets the soft-wrap flag
	emu.HandleStream("\x1B[1;80Hab")
	if emu.posY != 1 || emu.posX != 1 {
		t.Errorf("deferred wrap: expect (1,1), got (%d,%d)\n", emu.posY, emu.posX)
	}
	if got := emu.cf.getCell(1, 0).GetContents(); got != "b" {
		t.Errorf("deferred wrap: expect b at (2,1), got %q\n", got)
	}
	if !emu.cf.getWrap(0) {
		t.Errorf("deferred wrap: the first row must carry the wrap flag\n")
	}
}

func TestEmulatorRenderWalk(t *testing.T) {
	emu := NewEmulator3(40, 10, 20)
	emu.HandleStream(strings.Repeat("scroll me down\r\n", 30))

	for _, offset := range []int{0, 5, 99} {
		count := 0
		emu.Render(func(row, col int, cell *Cell) {
			if cell == nil {
				t.Fatalf("render: nil cell at (%d,%d)\n", row, col)
			}
			count++
		}, offset)
		if count != 40*10 {
			t.Errorf("render walk at offset %d: expect %d cells, got %d\n", offset, 40*10, count)
		}
	}
}

func TestEmulatorScreenshotRoundTrip(t *testing.T) {
	tc := []struct {
		name string
		seq  string
	}{
		{"text     ", "Hello, World!\r\nsecond line"},
		{"colors   ", "\x1B[31mred\x1B[42mgreen bg\x1B[0m plain"},
		{"attrs    ", "\x1B[1;4mbold underline\x1B[0m\x1B[3mitalic"},
		{"rgb      ", "\x1B[38;2;1;2;3mrgb text\x1B[0m"},
		{"title    ", "\x1B]2;the title\x07body"},
		{"wide     ", "中文 mixed content"},
		{"cursor   ", "text\x1B[5;7H"},
		{"link     ", "\x1B]8;;http://example.com\x1B\\link\x1B]8;;\x1B\\"},
	}

	for _, v := range tc {
		emu := NewEmulator3(40, 10, 0)
		emu.HandleStream(v.seq)

		fresh := NewEmulator3(40, 10, 0)
		fresh.HandleStream(emu.Screenshot())

		if emu.RenderText() != fresh.RenderText() {
			t.Errorf("%s: screenshot text mismatch\nwant:\n%s\ngot:\n%s\n", v.name, emu.RenderText(), fresh.RenderText())
		}
		if emu.posY != fresh.posY || emu.posX != fresh.posX {
			t.Errorf("%s: screenshot cursor expect (%d,%d), got (%d,%d)\n", v.name,
				emu.posY, emu.posX, fresh.posY, fresh.posX)
		}
		if emu.GetWindowTitle() != fresh.GetWindowTitle() {
			t.Errorf("%s: screenshot title expect %q, got %q\n", v.name, emu.GetWindowTitle(), fresh.GetWindowTitle())
		}

		// colors and attributes round trip per cell
		for pY := 0; pY < 10; pY++ {
			for pX := 0; pX < 40; pX++ {
				a := emu.cf.getCell(pY, pX)
				b := fresh.cf.getCell(pY, pX)
				if a.renditions != b.renditions {
					t.Errorf("%s: cell (%d,%d) renditions expect %+v, got %+v\n", v.name, pY, pX, a.renditions, b.renditions)
				}
			}
		}
	}
}

func TestEmulatorResizeIdempotent(t *testing.T) {
	seq := "some text\r\nanother row of text\r\nthird"

	emu := NewEmulator3(40, 10, 20)
	emu.HandleStream(seq)
	before := emu.RenderText()

	emu.Resize(40, 10)
	if emu.RenderText() != before {
		t.Errorf("resize to the same size must not change the content\n")
	}

	// grow then shrink back preserves the visible text
	emu.Resize(60, 14)
	emu.Resize(40, 10)
	if got := emu.RenderText(); got != before {
		t.Errorf("resize round trip: expect\n%s\ngot\n%s\n", before, got)
	}
}

func TestEmulatorResizeRows(t *testing.T) {
	emu := NewEmulator3(20, 6, 50)
	emu.HandleStream("r1\r\nr2\r\nr3\r\nr4\r\nr5\r\nr6")

	// shrinking rows moves the top rows into the scrollback
	emu.Resize(20, 4)
	if emu.cf.getHistoryRows() != 2 {
		t.Fatalf("shrink rows: expect 2 history rows, got %d\n", emu.cf.getHistoryRows())
	}
	if got := emu.RenderHistoryTextLine(1); got != "r1" {
		t.Errorf("shrink rows: history line 1 expect %q, got %q\n", "r1", got)
	}
	if got := emu.RenderTextLine(1); got != "r3" {
		t.Errorf("shrink rows: row 1 expect %q, got %q\n", "r3", got)
	}

	// growing pulls them back
	emu.Resize(20, 6)
	if got := emu.RenderTextLine(1); got != "r1" {
		t.Errorf("grow rows: row 1 expect %q, got %q\n", "r1", got)
	}
	if emu.cf.getHistoryRows() != 0 {
		t.Errorf("grow rows: expect 0 history rows, got %d\n", emu.cf.getHistoryRows())
	}
}

func TestEmulatorResizeCols(t *testing.T) {
	emu := NewEmulator3(10, 3, 0)
	emu.HandleStream("0123456789")

	emu.Resize(6, 3)
	if got := emu.RenderTextLine(1); got != "012345" {
		t.Errorf("shrink cols: expect %q, got %q\n", "012345", got)
	}

	emu.Resize(12, 3)
	if got := emu.RenderTextLine(1); got != "012345" {
		t.Errorf("grow cols: expect %q, got %q\n", "012345", got)
	}
}

func TestEmulatorScrollbackBounded(t *testing.T) {
	emu := NewEmulator3(20, 5, 10)
	emu.HandleStream(strings.Repeat("row\r\n", 100))

	if emu.cf.getHistoryRows() > 10 {
		t.Errorf("scrollback: expect at most 10 rows, got %d\n", emu.cf.getHistoryRows())
	}

	emu.SetMaxHistoryLineCount(4)
	if emu.cf.getHistoryRows() > 4 {
		t.Errorf("scrollback shrink: expect at most 4 rows, got %d\n", emu.cf.getHistoryRows())
	}
	if emu.GetMaxHistoryLineCount() != 4 {
		t.Errorf("max history: expect 4, got %d\n", emu.GetMaxHistoryLineCount())
	}
}

func TestEmulatorAltScreenNoScrollback(t *testing.T) {
	emu := NewEmulator3(20, 5, 10)
	emu.HandleStream("\x1B[?1049h")
	emu.HandleStream(strings.Repeat("row\r\n", 20))

	if emu.cf.getHistoryRows() != 0 {
		t.Errorf("alternate buffer must not keep scrollback, got %d rows\n", emu.cf.getHistoryRows())
	}
}

func TestEmulatorViewport(t *testing.T) {
	emu := NewEmulator3(20, 5, 50)
	for i := 1; i <= 25; i++ {
		emu.HandleStream(fmt.Sprintf("line %d\r\n", i))
	}
	// 25 lines plus the trailing newline scrolled 21 rows into history

	if emu.ScrollOffset() != 0 {
		t.Fatalf("viewport: expect offset 0, got %d\n", emu.ScrollOffset())
	}

	emu.ScrollUp(3)
	if emu.ScrollOffset() != 3 {
		t.Errorf("scroll up: expect offset 3, got %d\n", emu.ScrollOffset())
	}
	if got := emu.RenderTextLine(1); got != "line 19" {
		t.Errorf("scroll up: top row expect %q, got %q\n", "line 19", got)
	}

	emu.ScrollToTop()
	if emu.ScrollOffset() != 21 {
		t.Errorf("scroll to top: expect offset 21, got %d\n", emu.ScrollOffset())
	}
	if got := emu.RenderTextLine(1); got != "line 1" {
		t.Errorf("scroll to top: top row expect %q, got %q\n", "line 1", got)
	}

	emu.ScrollToBottom()
	if emu.ScrollOffset() != 0 {
		t.Errorf("scroll to bottom: expect offset 0, got %d\n", emu.ScrollOffset())
	}

	// writes keep targeting the active area while scrolled back
	emu.ScrollUp(5)
	emu.HandleStream("\x1B[5;1HX")
	emu.ScrollToBottom()
	if got := emu.cf.getCell(4, 0).GetContents(); got != "X" {
		t.Errorf("write while scrolled: expect X on the active row, got %q\n", got)
	}
}

func TestEmulatorMarks(t *testing.T) {
	emu := NewEmulator3(20, 5, 50)
	emu.HandleStream("\x1B]133;A\x07prompt 1\r\n")
	emu.HandleStream(strings.Repeat("out\r\n", 10))
	emu.HandleStream("\x1B]133;A\x07prompt 2\r\n")
	emu.HandleStream(strings.Repeat("out\r\n", 10))

	emu.ScrollMarkUp()
	if got := emu.RenderTextLine(1); got != "prompt 2" {
		t.Errorf("mark up: top row expect %q, got %q\n", "prompt 2", got)
	}
	emu.ScrollMarkUp()
	if got := emu.RenderTextLine(1); got != "prompt 1" {
		t.Errorf("mark up twice: top row expect %q, got %q\n", "prompt 1", got)
	}
	emu.ScrollMarkDown()
	if got := emu.RenderTextLine(1); got != "prompt 2" {
		t.Errorf("mark down: top row expect %q, got %q\n", "prompt 2", got)
	}
	emu.ScrollMarkDown()
	if emu.ScrollOffset() != 0 {
		t.Errorf("mark down past the last mark: expect the bottom, got offset %d\n", emu.ScrollOffset())
	}
}

func TestEmulatorResetSoftHard(t *testing.T) {
	emu := NewEmulator3(20, 5, 50)
	emu.HandleStream(strings.Repeat("fill\r\n", 10))
	emu.HandleStream("\x1B[31m\x1B[4h\x1B[2;4r")

	emu.ResetSoft()
	if emu.insertMode || emu.attrs.renditions != (Renditions{}) {
		t.Errorf("soft reset: modes and renditions must be defaults\n")
	}
	if emu.marginTop != 0 || emu.marginBottom != 5 {
		t.Errorf("soft reset: margins must cover the screen, got %d,%d\n", emu.marginTop, emu.marginBottom)
	}
	if emu.cf.getHistoryRows() == 0 {
		t.Errorf("soft reset must preserve the scrollback\n")
	}
	if got := emu.RenderTextLine(1); got != "fill" {
		t.Errorf("soft reset must preserve the screen, got %q\n", got)
	}

	emu.ResetHard()
	if emu.cf.getHistoryRows() != 0 {
		t.Errorf("hard reset must clear the scrollback, got %d rows\n", emu.cf.getHistoryRows())
	}
	if got := emu.RenderText(); got != strings.Repeat("\n", 4) {
		t.Errorf("hard reset must clear the screen, got %q\n", got)
	}
}

func TestEmulatorDECSTRSequence(t *testing.T) {
	emu := NewEmulator3(20, 5, 0)
	emu.HandleStream("\x1B[?6h\x1B[4h\x1B[!p")
	if emu.originMode != OriginMode_Absolute || emu.insertMode {
		t.Errorf("DECSTR: expect absolute origin and no insert mode\n")
	}
}

func TestEmulatorInsertMode(t *testing.T) {
	emu := NewEmulator3(20, 3, 0)
	emu.HandleStream("abcd\x1B[1;1H\x1B[4hXY")
	if got := emu.RenderTextLine(1); got != "XYabcd" {
		t.Errorf("insert mode: expect %q, got %q\n", "XYabcd", got)
	}
}

func TestEmulatorWriteInterface(t *testing.T) {
	emu := NewEmulator3(20, 3, 0)
	n, err := emu.Write([]byte("hello"))
	if n != 5 || err != nil {
		t.Errorf("Write: expect (5,nil), got (%d,%v)\n", n, err)
	}
	if got := emu.RenderTextLine(1); got != "hello" {
		t.Errorf("Write: expect %q, got %q\n", "hello", got)
	}
}

func TestEmulatorReverseWrap(t *testing.T) {
	emu := NewEmulator3(20, 3, 0)
	emu.HandleStream("\x1B[?45h\x1B[2;1H\x08")
	if emu.posY != 0 || emu.posX != 19 {
		t.Errorf("reverse wrap: expect (0,19), got (%d,%d)\n", emu.posY, emu.posX)
	}
}

func TestEmulatorSelection(t *testing.T) {
	emu := NewEmulator3(20, 5, 10)
	emu.HandleStream("alpha beta gamma\r\nsecond line here")

	// linear selection across two rows
	sel := NewSelector(SelectionMode_Linear)
	sel.Start(0, 6)
	sel.Extend(1, 5)
	sel.Complete()
	emu.SetSelector(sel)

	if got := emu.SelectedText(); got != "beta gamma\nsecond" {
		t.Errorf("linear selection: expect %q, got %q\n", "beta gamma\nsecond", got)
	}

	// word selection expands to the word boundaries
	sel = NewSelector(SelectionMode_Word)
	sel.Start(0, 7)
	sel.Extend(0, 7)
	sel.Complete()
	emu.SetSelector(sel)
	if got := emu.SelectedText(); got != "beta" {
		t.Errorf("word selection: expect %q, got %q\n", "beta", got)
	}

	// line selection covers the whole row
	sel = NewSelector(SelectionMode_Line)
	sel.Start(1, 3)
	sel.Extend(1, 3)
	sel.Complete()
	emu.SetSelector(sel)
	if got := emu.SelectedText(); got != "second line here" {
		t.Errorf("line selection: expect %q, got %q\n", "second line here", got)
	}

	// block selection is rectangular
	sel = NewSelector(SelectionMode_Block)
	sel.Start(0, 0)
	sel.Extend(1, 4)
	sel.Complete()
	emu.SetSelector(sel)
	if got := emu.SelectedText(); got != "alpha\nsecon" {
		t.Errorf("block selection: expect %q, got %q\n", "alpha\nsecon", got)
	}

	emu.ClearSelection()
	if emu.Selection() != nil {
		t.Errorf("clear selection: expect no ranges\n")
	}
}

func TestEmulatorRenderSelection(t *testing.T) {
	emu := NewEmulator3(20, 5, 10)
	emu.HandleStream("0123456789")

	sel := NewSelector(SelectionMode_Linear)
	sel.Start(0, 2)
	sel.Extend(0, 5)
	sel.Complete()
	emu.SetSelector(sel)

	var cells []string
	emu.RenderSelection(func(row, col int, cell *Cell) {
		cells = append(cells, fmt.Sprintf("%d,%d:%s", row, col, cell.GetContents()))
	})
	want := []string{"1,3:2", "1,4:3", "1,5:4", "1,6:5"}
	if len(cells) != len(want) {
		t.Fatalf("render selection: expect %v, got %v\n", want, cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("render selection: expect %v, got %v\n", want, cells)
			break
		}
	}
}

func TestEmulatorHyperlinkSurvivesEviction(t *testing.T) {
	emu := NewEmulator3(20, 3, 2)
	emu.HandleStream("\x1B]8;;http://keep.me\x1B\\top\x1B]8;;\x1B\\\r\n")
	emu.HandleStream(strings.Repeat("x\r\n", 10))

	// the row with the link is long evicted, the table entry persists
	url, _, ok := emu.cf.links.getLink(1)
	if !ok || url != "http://keep.me" {
		t.Errorf("hyperlink table: expect %q, got %q (ok=%t)\n", "http://keep.me", url, ok)
	}
}
