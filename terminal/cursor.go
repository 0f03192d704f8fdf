// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

// CursorStyle is the shape reported to the host, DECSCUSR values.
type CursorStyle uint

const (
	CursorStyle_Hidden CursorStyle = iota
	CursorStyle_FillBlock
	CursorStyle_HollowBlock
	CursorStyle_BlinkBlock
	CursorStyle_SteadyBlock
	CursorStyle_BlinkUnderline
	CursorStyle_SteadyUnderline
	CursorStyle_BlinkBar
	CursorStyle_SteadyBar
)

type Cursor struct {
	posX  int // current cursor horizontal position (on-screen)
	posY  int // current cursor vertical position (on-screen)
	color Color
	style CursorStyle
}

// SavedCursor_SCO is the cursor state saved by CSI s / CSI u.
type SavedCursor_SCO struct {
	posX  int
	posY  int
	isSet bool
}

// SavedCursor_DEC is the cursor state saved by DECSC: position, the
// prototype cell with the current renditions, charset state, origin
// mode and the pending wrap flag. DECRC restores a deep copy.
type SavedCursor_DEC struct {
	SavedCursor_SCO
	attrs        Cell
	originMode   OriginMode
	charsetState CharsetState
	lastCol      bool
	linkIndex    int
}
