// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "testing"

func TestBuildRendition(t *testing.T) {
	tc := []struct {
		name  string
		attrs []int
		want  Renditions
	}{
		{"bold      ", []int{1}, Renditions{bold: true}},
		{"faint     ", []int{2}, Renditions{faint: true}},
		{"italic    ", []int{3}, Renditions{italic: true}},
		{"underline ", []int{4}, Renditions{ulStyle: UnderlineStyle_Single}},
		{"blink     ", []int{5}, Renditions{blink: true}},
		{"inverse   ", []int{7}, Renditions{inverse: true}},
		{"invisible ", []int{8}, Renditions{invisible: true}},
		{"crossed   ", []int{9}, Renditions{crossedOut: true}},
		{"double ul ", []int{21}, Renditions{ulStyle: UnderlineStyle_Double}},
		{"fg color  ", []int{33}, Renditions{fgColor: PaletteColor(3)}},
		{"bg color  ", []int{41}, Renditions{bgColor: PaletteColor(1)}},
		{"bright fg ", []int{95}, Renditions{fgColor: PaletteColor(13)}},
		{"bright bg ", []int{105}, Renditions{bgColor: PaletteColor(13)}},
		{"set+clear ", []int{1, 4, 0}, Renditions{}},
		{"defaults  ", []int{31, 39, 41, 49}, Renditions{}},
	}

	for _, v := range tc {
		var rend Renditions
		for _, a := range v.attrs {
			if !rend.buildRendition(a) {
				t.Errorf("%s: attribute %d not processed\n", v.name, a)
			}
		}
		if rend != v.want {
			t.Errorf("%s: expect %+v, got %+v\n", v.name, v.want, rend)
		}
	}
}

func TestBuildRenditionUnknown(t *testing.T) {
	var rend Renditions
	if rend.buildRendition(77) {
		t.Errorf("unknown attribute must not be processed\n")
	}
}

func TestRenditionsSGR(t *testing.T) {
	tc := []struct {
		name string
		prep func(r *Renditions)
		want string
	}{
		{"default", func(r *Renditions) {}, "\x1B[0m"},
		{"bold", func(r *Renditions) { r.bold = true }, "\x1B[0;1m"},
		{"fg 8", func(r *Renditions) { r.SetForegroundColor(3) }, "\x1B[0;33m"},
		{"fg 256", func(r *Renditions) { r.SetForegroundColor(130) }, "\x1B[0;38:5:130m"},
		{"bg rgb", func(r *Renditions) { r.SetBgColor(1, 2, 3) }, "\x1B[0;48:2::1:2:3m"},
		{"curly", func(r *Renditions) { r.SetUnderline(true, UnderlineStyle_Curly) }, "\x1B[0;4:3m"},
		{"ul color", func(r *Renditions) { r.SetUlColor(PaletteColor(100)) }, "\x1B[0;58:5:100m"},
	}

	for _, v := range tc {
		var rend Renditions
		v.prep(&rend)
		if got := rend.SGR(); got != v.want {
			t.Errorf("%s: expect %q, got %q\n", v.name, v.want, got)
		}
	}
}

// the SGR string must rebuild the identical renditions when parsed.
func TestRenditionsSGRRoundTrip(t *testing.T) {
	samples := []Renditions{
		{},
		{bold: true, italic: true, fgColor: PaletteColor(5)},
		{faint: true, bgColor: NewRGBColor(9, 8, 7)},
		{ulStyle: UnderlineStyle_Dashed, ulColor: NewRGBColor(1, 2, 3)},
		{inverse: true, invisible: true, crossedOut: true, blink: true},
		{fgColor: PaletteColor(231), bgColor: PaletteColor(16)},
	}

	for i, rend := range samples {
		emu := NewEmulator3(4, 2, 0)
		emu.HandleStream(rend.SGR())
		if got := emu.attrs.renditions; got != rend {
			t.Errorf("sample %d: expect %+v, got %+v\n", i, rend, got)
		}
	}
}
