// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "strings"

// Cell is the grid atom: one grapheme cluster, its renditions and the
// hyperlink handle. A double-width cluster occupies its cell plus the
// immediately following cell, which is marked dwidthCont and carries no
// contents of its own.
type Cell struct {
	contents   string // the grapheme cluster: base rune plus combining marks
	renditions Renditions
	wide       bool // true if the cluster occupies two columns
	dwidthCont bool // true for the trailing half of a wide cluster
	wrap       bool // true if the next row continues this row (soft wrap)
	linkIndex  int  // hyperlink handle, 0 means no hyperlink
}

// return the contents of the cell. empty cell returns " ".
func (c Cell) GetContents() string {
	if len(c.contents) == 0 {
		return " "
	}
	return c.contents
}

// return the raw contents, empty string for a blank cell.
func (c Cell) String() string {
	return c.contents
}

func (c Cell) GetRenditions() Renditions {
	return c.renditions
}

func (c *Cell) SetRenditions(rend Renditions) {
	c.renditions = rend
}

func (c Cell) IsBlank() bool {
	return c.contents == "" || c.contents == " "
}

func (c Cell) IsDoubleWidth() bool {
	return c.wide
}

func (c Cell) IsDoubleWidthCont() bool {
	return c.dwidthCont
}

func (c *Cell) SetDoubleWidth(value bool) {
	c.wide = value
}

func (c *Cell) SetDoubleWidthCont(value bool) {
	c.dwidthCont = value
}

func (c Cell) GetWrap() bool {
	return c.wrap
}

func (c *Cell) SetWrap(value bool) {
	c.wrap = value
}

func (c Cell) GetLinkIndex() int {
	return c.linkIndex
}

func (c *Cell) SetLinkIndex(idx int) {
	c.linkIndex = idx
}

// replace the contents with the given grapheme cluster.
func (c *Cell) SetContents(chs []rune) {
	c.contents = string(chs)
}

// append a combining mark or ZWJ continuation to the cluster.
func (c *Cell) Append(r rune) {
	var sb strings.Builder
	sb.WriteString(c.contents)
	sb.WriteRune(r)
	c.contents = sb.String()
}

// Reset makes the cell blank, keeping only the background color of the
// given renditions. erase operations use the current background.
func (c *Cell) Reset(bgColor Color) {
	c.contents = ""
	c.renditions = Renditions{bgColor: bgColor}
	c.wide = false
	c.dwidthCont = false
	c.wrap = false
	c.linkIndex = 0
}

// Reset2 makes the cell blank, copying the renditions of the prototype
// cell. the prototype carries the emulator's current attributes.
func (c *Cell) Reset2(attrs Cell) {
	c.contents = ""
	c.renditions = attrs.renditions
	c.wide = false
	c.dwidthCont = false
	c.wrap = false
	c.linkIndex = 0
}

// ContentsMatch reports whether two cells show the same text.
func (c Cell) ContentsMatch(x Cell) bool {
	return (c.IsBlank() && x.IsBlank()) || c.contents == x.contents
}
