// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

type SelectorState uint

const (
	SelectorState_Waiting SelectorState = iota
	SelectorState_InProgress
	SelectorState_Complete
)

type SelectionMode uint

const (
	SelectionMode_Linear SelectionMode = iota
	SelectionMode_Block
	SelectionMode_Word
	SelectionMode_Line
)

// Range is one selected span: a row in absolute coordinates plus the
// covered columns. the render walk and text extraction consume these.
type Range struct {
	Row      int // absolute row number, history inclusive
	StartCol int // 0-based first column
	Length   int // number of columns
}

// Selector describes a selection overlay in absolute coordinates. it
// has no reference to the screen: the text needed for word boundary
// expansion is supplied at query time.
type Selector struct {
	state SelectorState
	mode  SelectionMode
	from  Point // x: column, y: absolute row
	to    Point
}

func NewSelector(mode SelectionMode) *Selector {
	return &Selector{mode: mode}
}

func (s *Selector) GetState() SelectorState {
	return s.state
}

func (s *Selector) GetMode() SelectionMode {
	return s.mode
}

// Start anchors the selection.
func (s *Selector) Start(absRow, col int) {
	s.from = Point{x: col, y: absRow}
	s.to = s.from
	s.state = SelectorState_InProgress
}

// Extend moves the free end of the selection.
func (s *Selector) Extend(absRow, col int) {
	if s.state == SelectorState_Waiting {
		s.Start(absRow, col)
		return
	}
	s.to = Point{x: col, y: absRow}
}

// Complete finishes the selection.
func (s *Selector) Complete() {
	if s.state == SelectorState_InProgress {
		s.state = SelectorState_Complete
	}
}

// ordered returns the anchor points with the earlier one first.
func (s *Selector) ordered() (tl, br Point) {
	if s.to.less(s.from) {
		return s.to, s.from
	}
	return s.from, s.to
}

// Ranges computes the selected spans, one per row, oldest row first.
// lineText supplies the text of an absolute row for word boundary
// expansion; nCols bounds the spans.
func (s *Selector) Ranges(lineText func(absRow int) string, nCols int) []Range {
	if s.state == SelectorState_Waiting {
		return nil
	}

	tl, br := s.ordered()

	switch s.mode {
	case SelectionMode_Block:
		left := min(tl.x, br.x)
		right := max(tl.x, br.x)
		ranges := make([]Range, 0, br.y-tl.y+1)
		for row := tl.y; row <= br.y; row++ {
			ranges = append(ranges, Range{Row: row, StartCol: left, Length: min(right, nCols-1) - left + 1})
		}
		return ranges
	case SelectionMode_Line:
		ranges := make([]Range, 0, br.y-tl.y+1)
		for row := tl.y; row <= br.y; row++ {
			ranges = append(ranges, Range{Row: row, StartCol: 0, Length: nCols})
		}
		return ranges
	case SelectionMode_Word:
		start := wordStart(lineText(tl.y), tl.x)
		end := wordEnd(lineText(br.y), br.x)
		return linearRanges(Point{x: start, y: tl.y}, Point{x: end, y: br.y}, nCols)
	default:
		return linearRanges(tl, br, nCols)
	}
}

// spans of a linear selection: first row from the anchor column, the
// rows between full width, the last row up to the end column.
func linearRanges(tl, br Point, nCols int) []Range {
	if tl.y == br.y {
		return []Range{{Row: tl.y, StartCol: tl.x, Length: br.x - tl.x + 1}}
	}

	ranges := make([]Range, 0, br.y-tl.y+1)
	ranges = append(ranges, Range{Row: tl.y, StartCol: tl.x, Length: nCols - tl.x})
	for row := tl.y + 1; row < br.y; row++ {
		ranges = append(ranges, Range{Row: row, StartCol: 0, Length: nCols})
	}
	ranges = append(ranges, Range{Row: br.y, StartCol: 0, Length: br.x + 1})
	return ranges
}

/*
word boundary expansion per UAX #29. the tokens partition the line, so
walking them with a running offset finds the word covering a column.
*/

func wordStart(text string, col int) int {
	if start, _ := wordSpan(text, col); start >= 0 {
		return start
	}
	return col
}

func wordEnd(text string, col int) int {
	if _, end := wordSpan(text, col); end >= 0 {
		return end
	}
	return col
}

// wordSpan returns the column span [start,end] of the word covering
// col, or (-1,-1) when col is outside the text or on a space.
func wordSpan(text string, col int) (int, int) {
	offset := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		token := tokens.Value()
		width := len([]rune(token))
		if col < offset+width {
			if strings.TrimFunc(token, unicode.IsSpace) == "" {
				return -1, -1
			}
			return offset, offset + width - 1
		}
		offset += width
	}
	return -1, -1
}
