// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

// MouseTrackingMode is the mouse reporting protocol requested by the
// application, DECSET 9/1000/1002/1003.
type MouseTrackingMode uint

const (
	MouseTrackingMode_Disable MouseTrackingMode = iota
	MouseTrackingMode_X10
	MouseTrackingMode_VT200
	MouseTrackingMode_VT200_ButtonEvent
	MouseTrackingMode_VT200_AnyEvent
)

// MouseTrackingEnc is the mouse report encoding, DECSET 1005/1006/1015.
type MouseTrackingEnc uint

const (
	MouseTrackingEnc_Default MouseTrackingEnc = iota
	MouseTrackingEnc_UTF8
	MouseTrackingEnc_SGR
	MouseTrackingEnc_URXVT
)

// MouseTrackingState is the complete mouse reporting state.
type MouseTrackingState struct {
	mode           MouseTrackingMode
	enc            MouseTrackingEnc
	focusEventMode bool
}

func (m MouseTrackingState) String() string {
	return "MouseTrackingState"
}

// Host is the capability interface through which the emulator reaches
// its embedder. every method is invoked synchronously from within the
// triggering HandleStream/Write call, in input order; implementations
// must not reenter the emulator.
//
// embedders implement the methods they care about and embed NoopHost
// for the rest.
type Host interface {
	// Reply delivers response bytes bound for the application (DSR,
	// DA, color queries, ...).
	Reply(resp string)

	Bell()
	WindowTitleChanged(title string)
	IconNameChanged(name string)
	CursorStyleChanged(style CursorStyle)

	UseApplicationCursorKeys(use bool)
	UseBracketedPaste(use bool)
	MouseTrackingChanged(mode MouseTrackingMode)
	MouseEncodingChanged(enc MouseTrackingEnc)
	MouseWheelModeChanged(altScroll bool)
	FocusEventsChanged(on bool)

	// ResizeWindow is the XTWINOPS 8 resize request. the embedder may
	// honor it by calling Resize on the emulator afterwards.
	ResizeWindow(nCols, nRows int)

	DynamicColorChanged(name int, color Color)
	DynamicColorRequested(name int)
	DynamicColorReset(name int)

	Notify(title, body string)

	// BufferChanged fires when the active screen buffer switches.
	BufferChanged(alt bool)

	// Commands receives the names of the control functions handled by
	// one HandleStream call, for tracing.
	Commands(names []string)
}

// NoopHost is the default Host: every capability is a no-op.
type NoopHost struct{}

func (NoopHost) Reply(resp string)                           {}
func (NoopHost) Bell()                                       {}
func (NoopHost) WindowTitleChanged(title string)             {}
func (NoopHost) IconNameChanged(name string)                 {}
func (NoopHost) CursorStyleChanged(style CursorStyle)        {}
func (NoopHost) UseApplicationCursorKeys(use bool)           {}
func (NoopHost) UseBracketedPaste(use bool)                  {}
func (NoopHost) MouseTrackingChanged(mode MouseTrackingMode) {}
func (NoopHost) MouseEncodingChanged(enc MouseTrackingEnc)   {}
func (NoopHost) MouseWheelModeChanged(altScroll bool)        {}
func (NoopHost) FocusEventsChanged(on bool)                  {}
func (NoopHost) ResizeWindow(nCols, nRows int)               {}
func (NoopHost) DynamicColorChanged(name int, color Color)   {}
func (NoopHost) DynamicColorRequested(name int)              {}
func (NoopHost) DynamicColorReset(name int)                  {}
func (NoopHost) Notify(title, body string)                   {}
func (NoopHost) BufferChanged(alt bool)                      {}
func (NoopHost) Commands(names []string)                     {}
