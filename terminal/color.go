// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a terminal color. The low numeric values are the
// same as used by ECMA-48, and beyond that XTerm. A 24-bit RGB value
// may be used by adding in the ColorIsRGB flag. The zero value is the
// default (unset) color, which means: use the terminal default.
//
// the design is based on https://github.com/gdamore/tcell/blob/master/color.go
type Color uint64

const (
	// ColorDefault is used to leave the Color unchanged from whatever
	// system or terminal default may exist. It's also the zero value.
	ColorDefault Color = 0

	// ColorValid is used to indicate the color value is actually
	// valid (initialized). This is useful to permit the zero value
	// to be treated as the default.
	ColorValid Color = 1 << 32

	// ColorIsRGB is used to indicate that the numeric value is not
	// a known color constant, but rather an RGB value. The lower
	// order 3 bytes are RGB.
	ColorIsRGB Color = 1 << 33

	// ColorSpecial is a flag used to indicate that the values have
	// special meaning, and live outside of the color space(s).
	ColorSpecial Color = 1 << 34
)

// the special colors are used by the dynamic color machinery (OSC 10,
// OSC 11) to mean "whatever the default foreground/background is".
const (
	ColorDefaultForeground = ColorSpecial | 1
	ColorDefaultBackground = ColorSpecial | 2
)

// PaletteColor creates a Color from a palette index in [0,255].
func PaletteColor(index int) Color {
	if index < 0 || index > 255 {
		return ColorDefault
	}
	return Color(index) | ColorValid
}

// BrightColor creates a Color from a bright (aixterm) index in [0,7].
func BrightColor(index int) Color {
	if index < 0 || index > 7 {
		return ColorDefault
	}
	return Color(index+8) | ColorValid
}

// NewRGBColor creates a Color from the r,g,b components.
func NewRGBColor(r, g, b int32) Color {
	return Color(uint64(r)<<16|uint64(g)<<8|uint64(b)) | ColorIsRGB | ColorValid
}

// IsRGB is true if the color is an RGB specific value.
func (c Color) IsRGB() bool {
	return c&(ColorValid|ColorIsRGB) == ColorValid|ColorIsRGB
}

// Valid indicates the color is a valid value (not the default).
func (c Color) Valid() bool {
	return c&ColorValid != 0
}

// Index returns the palette index for a palette color, -1 otherwise.
func (c Color) Index() int {
	if !c.Valid() || c.IsRGB() {
		return -1
	}
	return int(c & 0xff)
}

// RGB returns the red, green and blue components of the color. Palette
// colors are resolved through the xterm 256-color palette.
func (c Color) RGB() (int32, int32, int32) {
	if c.IsRGB() {
		v := int32(c & 0xffffff)
		return v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff
	}
	if idx := c.Index(); idx >= 0 {
		v := palette256[idx]
		return v >> 16 & 0xff, v >> 8 & 0xff, v & 0xff
	}
	return 0, 0, 0
}

func (c Color) String() string {
	if !c.Valid() {
		return "default"
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("%d", c.Index())
}

// palette256 holds the RGB value of the xterm 256-color palette. The
// first 16 entries are the VGA colors, 16~231 is a 6x6x6 color cube,
// 232~255 is a gray ramp.
var palette256 = buildPalette256()

func buildPalette256() [256]int32 {
	var p [256]int32

	base := []int32{
		0x000000, 0x800000, 0x008000, 0x808000,
		0x000080, 0x800080, 0x008080, 0xc0c0c0,
		0x808080, 0xff0000, 0x00ff00, 0xffff00,
		0x0000ff, 0xff00ff, 0x00ffff, 0xffffff,
	}
	copy(p[:16], base)

	// 6x6x6 color cube, the levels used by xterm
	levels := []int32{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
	idx := 16
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p[idx] = r<<16 | g<<8 | b
				idx++
			}
		}
	}

	// gray ramp
	for i := 0; i < 24; i++ {
		v := int32(8 + i*10)
		p[idx] = v<<16 | v<<8 | v
		idx++
	}

	return p
}

// parseColorSpec parses a color specification from OSC 4, OSC 10~12.
// Both the XParseColor form "rgb:RR/GG/BB" (1~4 hex digit per channel)
// and the "#rrggbb" form are accepted.
func parseColorSpec(spec string) (c Color, ok bool) {
	spec = strings.TrimSpace(spec)

	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[4:], "/")
		if len(parts) != 3 {
			return ColorDefault, false
		}
		var ch [3]int32
		for i, part := range parts {
			if len(part) == 0 || len(part) > 4 {
				return ColorDefault, false
			}
			v, err := strconv.ParseUint(part, 16, 32)
			if err != nil {
				return ColorDefault, false
			}
			// scale to 8-bit per channel
			switch len(part) {
			case 1:
				ch[i] = int32(v * 0x11)
			case 2:
				ch[i] = int32(v)
			case 3:
				ch[i] = int32(v >> 4)
			case 4:
				ch[i] = int32(v >> 8)
			}
		}
		return NewRGBColor(ch[0], ch[1], ch[2]), true
	}

	if strings.HasPrefix(spec, "#") {
		cf, err := colorful.Hex(spec)
		if err != nil {
			return ColorDefault, false
		}
		r, g, b := cf.RGB255()
		return NewRGBColor(int32(r), int32(g), int32(b)), true
	}

	return ColorDefault, false
}

// formatColorSpec formats a color the way xterm answers a color query:
// 16-bit per channel XParseColor form.
func formatColorSpec(c Color) string {
	r, g, b := c.RGB()
	return fmt.Sprintf("rgb:%04x/%04x/%04x", r*0x101, g*0x101, b*0x101)
}
