// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "testing"

func lineTextStub(lines map[int]string) func(int) string {
	return func(absRow int) string {
		return lines[absRow]
	}
}

func TestSelectorStates(t *testing.T) {
	sel := NewSelector(SelectionMode_Linear)
	if sel.GetState() != SelectorState_Waiting {
		t.Fatalf("new selector: expect Waiting, got %d\n", sel.GetState())
	}

	sel.Start(3, 4)
	if sel.GetState() != SelectorState_InProgress {
		t.Errorf("Start: expect InProgress, got %d\n", sel.GetState())
	}

	sel.Extend(5, 2)
	sel.Complete()
	if sel.GetState() != SelectorState_Complete {
		t.Errorf("Complete: expect Complete, got %d\n", sel.GetState())
	}

	// a waiting selector yields no ranges
	empty := NewSelector(SelectionMode_Linear)
	if got := empty.Ranges(lineTextStub(nil), 80); got != nil {
		t.Errorf("waiting selector: expect nil ranges, got %v\n", got)
	}
}

func TestSelectorLinear(t *testing.T) {
	sel := NewSelector(SelectionMode_Linear)
	sel.Start(10, 5)
	sel.Extend(12, 2)
	sel.Complete()

	got := sel.Ranges(lineTextStub(nil), 20)
	want := []Range{
		{Row: 10, StartCol: 5, Length: 15},
		{Row: 11, StartCol: 0, Length: 20},
		{Row: 12, StartCol: 0, Length: 3},
	}
	assertRanges(t, "linear", want, got)

	// selecting backwards produces the same ranges
	sel = NewSelector(SelectionMode_Linear)
	sel.Start(12, 2)
	sel.Extend(10, 5)
	sel.Complete()
	assertRanges(t, "linear reversed", want, sel.Ranges(lineTextStub(nil), 20))
}

func TestSelectorSingleRow(t *testing.T) {
	sel := NewSelector(SelectionMode_Linear)
	sel.Start(4, 7)
	sel.Extend(4, 3)
	sel.Complete()

	want := []Range{{Row: 4, StartCol: 3, Length: 5}}
	assertRanges(t, "single row", want, sel.Ranges(lineTextStub(nil), 20))
}

func TestSelectorBlock(t *testing.T) {
	sel := NewSelector(SelectionMode_Block)
	sel.Start(2, 8)
	sel.Extend(4, 3)
	sel.Complete()

	got := sel.Ranges(lineTextStub(nil), 20)
	want := []Range{
		{Row: 2, StartCol: 3, Length: 6},
		{Row: 3, StartCol: 3, Length: 6},
		{Row: 4, StartCol: 3, Length: 6},
	}
	assertRanges(t, "block", want, got)
}

func TestSelectorLine(t *testing.T) {
	sel := NewSelector(SelectionMode_Line)
	sel.Start(6, 10)
	sel.Extend(7, 0)
	sel.Complete()

	got := sel.Ranges(lineTextStub(nil), 32)
	want := []Range{
		{Row: 6, StartCol: 0, Length: 32},
		{Row: 7, StartCol: 0, Length: 32},
	}
	assertRanges(t, "line", want, got)
}

func TestSelectorWord(t *testing.T) {
	lines := map[int]string{
		0: "alpha beta-gamma delta",
	}

	tc := []struct {
		name string
		col  int
		want Range
	}{
		{"first word ", 2, Range{Row: 0, StartCol: 0, Length: 5}},
		{"hyphenated ", 7, Range{Row: 0, StartCol: 6, Length: 4}},
		{"last word  ", 18, Range{Row: 0, StartCol: 17, Length: 5}},
	}

	for _, v := range tc {
		sel := NewSelector(SelectionMode_Word)
		sel.Start(0, v.col)
		sel.Extend(0, v.col)
		sel.Complete()

		got := sel.Ranges(lineTextStub(lines), 80)
		assertRanges(t, v.name, []Range{v.want}, got)
	}
}

func TestSelectorWordOnSpace(t *testing.T) {
	lines := map[int]string{0: "one two"}

	sel := NewSelector(SelectionMode_Word)
	sel.Start(0, 3)
	sel.Extend(0, 3)
	sel.Complete()

	// a space anchor falls back to the anchor column itself
	got := sel.Ranges(lineTextStub(lines), 80)
	want := []Range{{Row: 0, StartCol: 3, Length: 1}}
	assertRanges(t, "word on space", want, got)
}

func assertRanges(t *testing.T, name string, want, got []Range) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: expect %v, got %v\n", name, want, got)
		return
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("%s: range %d expect %v, got %v\n", name, i, want[i], got[i])
			return
		}
	}
}
