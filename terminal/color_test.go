// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "testing"

func TestPaletteColor(t *testing.T) {
	tc := []struct {
		name  string
		index int
		valid bool
	}{
		{"black   ", 0, true},
		{"white   ", 15, true},
		{"cube    ", 100, true},
		{"gray    ", 255, true},
		{"negative", -1, false},
		{"too big ", 256, false},
	}

	for _, v := range tc {
		c := PaletteColor(v.index)
		if c.Valid() != v.valid {
			t.Errorf("%s: index %d expect valid=%t, got %t\n", v.name, v.index, v.valid, c.Valid())
		}
		if v.valid && c.Index() != v.index {
			t.Errorf("%s: expect index %d, got %d\n", v.name, v.index, c.Index())
		}
	}
}

func TestRGBColor(t *testing.T) {
	c := NewRGBColor(10, 20, 30)
	if !c.IsRGB() {
		t.Fatalf("NewRGBColor: expect an RGB color\n")
	}
	r, g, b := c.RGB()
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGB: expect (10,20,30), got (%d,%d,%d)\n", r, g, b)
	}
	if c.Index() != -1 {
		t.Errorf("RGB color has no palette index, got %d\n", c.Index())
	}
}

func TestPalette256Values(t *testing.T) {
	tc := []struct {
		index int
		want  int32
	}{
		{0, 0x000000},
		{1, 0x800000},
		{9, 0xff0000},
		{15, 0xffffff},
		{16, 0x000000},  // cube origin
		{196, 0xff0000}, // pure red in the cube
		{231, 0xffffff}, // cube end
		{232, 0x080808}, // gray ramp start
		{255, 0xeeeeee}, // gray ramp end
	}

	for _, v := range tc {
		r, g, b := PaletteColor(v.index).RGB()
		got := r<<16 | g<<8 | b
		if got != v.want {
			t.Errorf("palette %d: expect %06x, got %06x\n", v.index, v.want, got)
		}
	}
}

func TestParseColorSpec(t *testing.T) {
	tc := []struct {
		name string
		spec string
		want Color
		ok   bool
	}{
		{"hex        ", "#ff8000", NewRGBColor(255, 128, 0), true},
		{"rgb 2-digit", "rgb:12/34/56", NewRGBColor(0x12, 0x34, 0x56), true},
		{"rgb 1-digit", "rgb:f/8/0", NewRGBColor(0xff, 0x88, 0x00), true},
		{"rgb 4-digit", "rgb:ffff/8080/0000", NewRGBColor(0xff, 0x80, 0x00), true},
		{"spaces     ", " #ff8000 ", NewRGBColor(255, 128, 0), true},
		{"garbage    ", "notacolor", ColorDefault, false},
		{"bad rgb    ", "rgb:zz/00/00", ColorDefault, false},
		{"short      ", "rgb:12/34", ColorDefault, false},
	}

	for _, v := range tc {
		got, ok := parseColorSpec(v.spec)
		if ok != v.ok || got != v.want {
			t.Errorf("%s: %q expect (%v,%t), got (%v,%t)\n", v.name, v.spec, v.want, v.ok, got, ok)
		}
	}
}

func TestFormatColorSpec(t *testing.T) {
	got := formatColorSpec(NewRGBColor(0xff, 0x80, 0x00))
	want := "rgb:ffff/8080/0000"
	if got != want {
		t.Errorf("formatColorSpec: expect %q, got %q\n", want, got)
	}

	// format and parse must agree
	c := NewRGBColor(1, 2, 3)
	back, ok := parseColorSpec(formatColorSpec(c))
	if !ok || back != c {
		t.Errorf("round trip: expect %v, got %v (ok=%t)\n", c, back, ok)
	}
}
