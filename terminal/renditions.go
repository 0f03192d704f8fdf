// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"fmt"
	"strings"
)

// UnderlineStyle is the extended underline style selected by SGR 4:n.
type UnderlineStyle uint8

const (
	UnderlineStyle_None UnderlineStyle = iota
	UnderlineStyle_Single
	UnderlineStyle_Double
	UnderlineStyle_Curly
	UnderlineStyle_Dotted
	UnderlineStyle_Dashed
)

// Renditions determines the foreground color, background color,
// underline color and character attributes of a cell. it is comparable.
// default background/foreground is ColorDefault.
type Renditions struct {
	fgColor Color
	bgColor Color
	ulColor Color
	// character attributes
	bold       bool
	faint      bool
	italic     bool
	blink      bool
	rapidBlink bool
	inverse    bool
	invisible  bool
	crossedOut bool
	ulStyle    UnderlineStyle
}

// set the ANSI foreground indexed color. The index start from 0.
func (rend *Renditions) SetForegroundColor(index int) {
	rend.fgColor = PaletteColor(index)
}

// set the ANSI background indexed color. The index start from 0.
func (rend *Renditions) SetBackgroundColor(index int) {
	rend.bgColor = PaletteColor(index)
}

func (rend *Renditions) setAnsiForeground(c Color) {
	rend.fgColor = c
}

func (rend *Renditions) setAnsiBackground(c Color) {
	rend.bgColor = c
}

// set the RGB foreground color
func (rend *Renditions) SetFgColor(r, g, b int) {
	rend.fgColor = NewRGBColor(int32(r), int32(g), int32(b))
}

// set the RGB background color
func (rend *Renditions) SetBgColor(r, g, b int) {
	rend.bgColor = NewRGBColor(int32(r), int32(g), int32(b))
}

// set the underline color, SGR 58/59.
func (rend *Renditions) SetUlColor(c Color) {
	rend.ulColor = c
}

func (rend *Renditions) GetForegroundColor() Color { return rend.fgColor }
func (rend *Renditions) GetBackgroundColor() Color { return rend.bgColor }
func (rend *Renditions) GetUnderlineColor() Color  { return rend.ulColor }

func (rend *Renditions) SetUnderline(on bool, style UnderlineStyle) {
	if on {
		rend.ulStyle = style
	} else {
		rend.ulStyle = UnderlineStyle_None
	}
}

func (rend *Renditions) GetUnderlineStyle() UnderlineStyle {
	return rend.ulStyle
}

// reset all character attributes, keep colors untouched.
func (rend *Renditions) ClearAttributes() {
	rend.bold = false
	rend.faint = false
	rend.italic = false
	rend.blink = false
	rend.rapidBlink = false
	rend.inverse = false
	rend.invisible = false
	rend.crossedOut = false
	rend.ulStyle = UnderlineStyle_None
}

// build renditions based on a single numeric SGR attribute. This method
// can process the character attributes, 8-color set, 16-color set and
// default colors. It can be called multiple times for one SGR sequence.
// return true if buildRendition() processed the attribute.
func (rend *Renditions) buildRendition(attribute int) (processed bool) {
	processed = true
	switch attribute {
	case 0:
		rend.ClearAttributes()
		rend.setAnsiForeground(ColorDefault)
		rend.setAnsiBackground(ColorDefault)
		rend.SetUlColor(ColorDefault)
	case 1:
		rend.bold = true
	case 2:
		rend.faint = true
	case 3:
		rend.italic = true
	case 4:
		rend.ulStyle = UnderlineStyle_Single
	case 5:
		rend.blink = true
	case 6:
		rend.rapidBlink = true
	case 7:
		rend.inverse = true
	case 8:
		rend.invisible = true
	case 9:
		rend.crossedOut = true
	case 21:
		rend.ulStyle = UnderlineStyle_Double
	case 22:
		rend.bold = false
		rend.faint = false
	case 23:
		rend.italic = false
	case 24:
		rend.ulStyle = UnderlineStyle_None
	case 25:
		rend.blink = false
		rend.rapidBlink = false
	case 27:
		rend.inverse = false
	case 28:
		rend.invisible = false
	case 29:
		rend.crossedOut = false

	// standard foregrounds
	case 30, 31, 32, 33, 34, 35, 36, 37:
		rend.SetForegroundColor(attribute - 30)
	case 39:
		rend.setAnsiForeground(ColorDefault)
	// standard backgrounds
	case 40, 41, 42, 43, 44, 45, 46, 47:
		rend.SetBackgroundColor(attribute - 40)
	case 49:
		rend.setAnsiBackground(ColorDefault)
	case 59:
		rend.SetUlColor(ColorDefault)

	// bright colored foregrounds
	case 90, 91, 92, 93, 94, 95, 96, 97:
		rend.SetForegroundColor(attribute - 82)
	// bright colored backgrounds
	case 100, 101, 102, 103, 104, 105, 106, 107:
		rend.SetBackgroundColor(attribute - 92)
	default:
		processed = false
	}

	return processed
}

// generate the SGR sequence that rebuilds this Renditions on a fresh
// terminal. used by the screenshot machinery.
// https://invisible-island.net/xterm/ctlseqs/ctlseqs.html#h3-Functions-using-CSI-_-ordered-by-the-final-character_s_
func (rend *Renditions) SGR() string {
	var sgr strings.Builder

	// starts with reset rendition
	sgr.WriteString("\x1B[0")

	if rend.bold {
		sgr.WriteString(";1")
	}
	if rend.faint {
		sgr.WriteString(";2")
	}
	if rend.italic {
		sgr.WriteString(";3")
	}
	switch rend.ulStyle {
	case UnderlineStyle_Single:
		sgr.WriteString(";4")
	case UnderlineStyle_Double:
		sgr.WriteString(";4:2")
	case UnderlineStyle_Curly:
		sgr.WriteString(";4:3")
	case UnderlineStyle_Dotted:
		sgr.WriteString(";4:4")
	case UnderlineStyle_Dashed:
		sgr.WriteString(";4:5")
	}
	if rend.blink {
		sgr.WriteString(";5")
	}
	if rend.rapidBlink {
		sgr.WriteString(";6")
	}
	if rend.inverse {
		sgr.WriteString(";7")
	}
	if rend.invisible {
		sgr.WriteString(";8")
	}
	if rend.crossedOut {
		sgr.WriteString(";9")
	}

	writeColor := func(c Color, base int) {
		if !c.Valid() {
			return
		}
		if c.IsRGB() {
			r, g, b := c.RGB()
			fmt.Fprintf(&sgr, ";%d:2::%d:%d:%d", base+8, r, g, b)
		} else if idx := c.Index(); idx < 8 && base != 50 {
			fmt.Fprintf(&sgr, ";%d", base+idx)
		} else {
			fmt.Fprintf(&sgr, ";%d:5:%d", base+8, c.Index())
		}
	}
	writeColor(rend.fgColor, 30)
	writeColor(rend.bgColor, 40)
	writeColor(rend.ulColor, 50)

	sgr.WriteString("m")
	return sgr.String()
}
