// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import (
	"strconv"
	"strings"

	"github.com/ericwq/vtcore/util"
)

const (
	InputState_Normal = iota
	InputState_Escape
	InputState_Esc_Space
	InputState_Esc_Hash
	InputState_Esc_Pct
	InputState_Select_Charset
	InputState_CSI
	InputState_CSI_Priv
	InputState_CSI_Priv_Dollar
	InputState_CSI_GT
	InputState_CSI_Bang
	InputState_CSI_SPC
	InputState_CSI_Dollar
	InputState_CSI_Quote
	InputState_CSI_DblQuote
	InputState_CSI_Ignore
	InputState_DCS
	InputState_DCS_Esc
	InputState_DCS_Ignore
	InputState_DCS_Ignore_Esc
	InputState_OSC
	InputState_OSC_Esc
	InputState_SOS_PM_APC
	InputState_SOS_PM_APC_Esc
)

// cap for OSC/DCS string payloads. beyond the cap the sequence is
// dropped and the remaining bytes are consumed in an ignore state.
const stringCap = 1 << 20

// Handler is the parsing result: one control function with its
// parameters bound, ready to act on the emulator.
type Handler struct {
	name   string              // the name of the control function
	ch     rune                // the last byte of the sequence
	handle func(emu *Emulator) // will perform the control function on the emulator
}

// GetName returns the control function name, for tracing.
func (hd *Handler) GetName() string {
	return hd.name
}

// incremental UTF-8 decoder. invalid input produces U+FFFD and
// resynchronizes on the offending byte.
type utf8Decoder struct {
	acc  rune // accumulated codepoint bits
	need int  // continuation bytes still expected
}

// feed consumes one byte. r is valid when done is true. when malformed
// is true the offending byte must be fed again after the U+FFFD has
// been processed.
func (d *utf8Decoder) feed(b byte) (r rune, done bool, malformed bool) {
	if d.need == 0 {
		switch {
		case b < 0x80:
			return rune(b), true, false
		case b >= 0xc2 && b <= 0xdf:
			d.acc = rune(b & 0x1f)
			d.need = 1
		case b >= 0xe0 && b <= 0xef:
			d.acc = rune(b & 0x0f)
			d.need = 2
		case b >= 0xf0 && b <= 0xf4:
			d.acc = rune(b & 0x07)
			d.need = 3
		default:
			// stray continuation byte or invalid lead byte
			return '�', true, false
		}
		return 0, false, false
	}

	if b&0xc0 != 0x80 {
		// expected a continuation byte: resynchronize
		d.need = 0
		return '�', true, true
	}

	d.acc = d.acc<<6 | rune(b&0x3f)
	d.need--
	if d.need == 0 {
		r = d.acc
		if r > 0x10FFFF || (r >= 0xD800 && r <= 0xDFFF) {
			r = '�'
		}
		return r, true, false
	}
	return 0, false, false
}

func (d *utf8Decoder) reset() {
	d.need = 0
}

type Parser struct {
	// big switch state machine
	inputState int
	ch         rune

	// numeric parameters
	inputOps  []int
	nInputOps int
	maxEscOps int

	// raw CSI parameter characters, for sub-parameter aware commands
	paramBuf strings.Builder

	// string parameter for OSC / DCS
	argBuf strings.Builder

	// which of G0~G3 the pending charset designation targets
	scsDst int

	decoder utf8Decoder
}

func NewParser() *Parser {
	p := new(Parser)
	p.maxEscOps = 32
	p.inputOps = make([]int, p.maxEscOps)
	p.reset()
	return p
}

func (p *Parser) reset() {
	p.inputState = InputState_Normal
	p.nInputOps = 0
	p.inputOps[0] = 0
	p.paramBuf.Reset()
	p.argBuf.Reset()
	p.decoder.reset()
}

func (p *Parser) getState() int {
	return p.inputState
}

func (p *Parser) setState(newState int) {
	if newState == p.inputState {
		return
	}

	if newState == InputState_Normal {
		p.nInputOps = 0
		p.inputOps[0] = 0
		p.paramBuf.Reset()
	}

	p.inputState = newState
}

// collect numeric parameters and store them in the inputOps array. the
// raw characters also go to paramBuf so sub-parameter aware commands
// (SGR) can re-parse them.
func (p *Parser) collectNumericParameters(ch rune) (isBreak bool) {
	if '0' <= ch && ch <= '9' {
		isBreak = true
		p.paramBuf.WriteRune(ch)
		if p.nInputOps == 0 {
			p.nInputOps = 1
		}
		if p.inputOps[p.nInputOps-1] < 65535 { // no more digits once the value reaches 65535
			p.inputOps[p.nInputOps-1] *= 10
			p.inputOps[p.nInputOps-1] += int(ch - '0')
		} else {
			util.Logger.Trace("inputOp overflow", "ch", ch)
			p.setState(InputState_Normal)
		}
	} else if ch == ';' || ch == ':' {
		isBreak = true
		p.paramBuf.WriteRune(ch)
		if p.nInputOps == 0 {
			p.nInputOps = 1
		}
		if p.nInputOps < p.maxEscOps { // move to the next parameter
			p.inputOps[p.nInputOps] = 0
			p.nInputOps += 1
		} else {
			util.Logger.Trace("inputOps full", "ch", ch)
			p.setState(InputState_Normal)
		}
	}

	return isBreak
}

// get the number n parameter from the parser.
// if the parameter is zero, use defaultVal instead.
func (p *Parser) getPs(n int, defaultVal int) int {
	ret := defaultVal
	if n < p.nInputOps {
		ret = p.inputOps[n]
	}

	if ret < 1 {
		ret = defaultVal
	}
	return ret
}

// get the string parameter from the parser.
func (p *Parser) getArg() (arg string) {
	if p.argBuf.Len() > 0 {
		arg = p.argBuf.String()
	}

	return arg
}

// get the raw CSI parameter string, ';' and ':' included.
func (p *Parser) getRawParams() string {
	return p.paramBuf.String()
}

// append a rune to the string payload, with the cap enforced. returns
// false when the cap is exceeded.
func (p *Parser) collectString(ch rune) bool {
	if p.argBuf.Len() >= stringCap {
		return false
	}
	p.argBuf.WriteRune(ch)
	return true
}

/*
the handle_* methods are the command builder: they bind the collected
parameters into a Handler value and reset the parser state.
*/

func (p *Parser) makeHandler(name string, f func(emu *Emulator)) (hd *Handler) {
	hd = &Handler{name: name, ch: p.ch, handle: f}
	return hd
}

// bind a motion command with one count parameter (default 1).
func (p *Parser) handleMotion(name string, f func(emu *Emulator, num int)) (hd *Handler) {
	num := p.getPs(0, 1)

	hd = p.makeHandler(name, func(emu *Emulator) { f(emu, num) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_CUP() (hd *Handler) {
	row := p.getPs(0, 1)
	col := p.getPs(1, 1)

	hd = p.makeHandler("csi-cup", func(emu *Emulator) { hdl_csi_cup(emu, row, col) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_ED() (hd *Handler) {
	cmd := p.getPs(0, 0)
	hd = p.makeHandler("csi-ed", func(emu *Emulator) { hdl_csi_ed(emu, cmd) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_EL() (hd *Handler) {
	cmd := p.getPs(0, 0)
	hd = p.makeHandler("csi-el", func(emu *Emulator) { hdl_csi_el(emu, cmd) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_TBC() (hd *Handler) {
	cmd := p.getPs(0, 0)
	hd = p.makeHandler("csi-tbc", func(emu *Emulator) { hdl_csi_tbc(emu, cmd) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_SGR() (hd *Handler) {
	raw := p.getRawParams()
	hd = p.makeHandler("csi-sgr", func(emu *Emulator) { hdl_csi_sgr(emu, raw) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DSR() (hd *Handler) {
	cmd := p.getPs(0, 0)
	hd = p.makeHandler("csi-dsr", func(emu *Emulator) { hdl_csi_dsr(emu, cmd) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECDSR() (hd *Handler) {
	cmd := p.getPs(0, 0)
	hd = p.makeHandler("csi-priv-dsr", func(emu *Emulator) { hdl_csi_decdsr(emu, cmd) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DA1() (hd *Handler) {
	hd = p.makeHandler("csi-da1", hdl_csi_da1)
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DA2() (hd *Handler) {
	hd = p.makeHandler("csi-da2", hdl_csi_da2)
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECSTBM() (hd *Handler) {
	top := p.getPs(0, 1)
	bottom := p.getPs(1, 0)

	hd = p.makeHandler("csi-decstbm", func(emu *Emulator) { hdl_csi_decstbm(emu, top, bottom) })
	p.setState(InputState_Normal)
	return hd
}

// CSI s is DECSLRM when the left-right margin mode is on, otherwise the
// SCO save cursor. the decision is made at dispatch time.
func (p *Parser) handle_DECSLRM_Or_SCOSC() (hd *Handler) {
	hasParams := p.paramBuf.Len() > 0
	left := p.getPs(0, 1)
	right := p.getPs(1, 0)

	hd = p.makeHandler("csi-decslrm/scosc", func(emu *Emulator) {
		if emu.horizMarginMode {
			hdl_csi_decslrm(emu, left, right)
		} else if !hasParams {
			hdl_csi_scosc(emu)
		}
		// CSI Ps s with parameters and mode 69 off: silently ignored
	})
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_SCORC() (hd *Handler) {
	hd = p.makeHandler("csi-scorc", hdl_csi_scorc)
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_SM() (hd *Handler) {
	params := make([]int, p.nInputOps)
	copy(params, p.inputOps[:p.nInputOps])

	hd = p.makeHandler("csi-sm", func(emu *Emulator) { hdl_csi_sm(emu, params) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_RM() (hd *Handler) {
	params := make([]int, p.nInputOps)
	copy(params, p.inputOps[:p.nInputOps])

	hd = p.makeHandler("csi-rm", func(emu *Emulator) { hdl_csi_rm(emu, params) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECSET() (hd *Handler) {
	params := make([]int, p.nInputOps)
	copy(params, p.inputOps[:p.nInputOps])

	hd = p.makeHandler("csi-decset", func(emu *Emulator) { hdl_csi_decset(emu, params) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECRST() (hd *Handler) {
	params := make([]int, p.nInputOps)
	copy(params, p.inputOps[:p.nInputOps])

	hd = p.makeHandler("csi-decrst", func(emu *Emulator) { hdl_csi_decrst(emu, params) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_XTWINOPS() (hd *Handler) {
	op := p.getPs(0, 0)
	arg1 := p.getPs(1, 0)
	arg2 := p.getPs(2, 0)

	hd = p.makeHandler("csi-xtwinops", func(emu *Emulator) { hdl_csi_xtwinops(emu, op, arg1, arg2) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECSCUSR() (hd *Handler) {
	style := p.getPs(0, 0)
	hd = p.makeHandler("csi-decscusr", func(emu *Emulator) { hdl_csi_decscusr(emu, style) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECSTR() (hd *Handler) {
	hd = p.makeHandler("csi-decstr", hdl_csi_decstr)
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DECRQM(private bool) (hd *Handler) {
	mode := p.getPs(0, 0)
	hd = p.makeHandler("csi-decrqm", func(emu *Emulator) { hdl_csi_decrqm(emu, mode, private) })
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_OSC() (hd *Handler) {
	arg := p.getArg()

	// OSC: Ps ; Pt
	cmd := -1
	body := ""
	if idx := strings.IndexByte(arg, ';'); idx >= 0 {
		if n, err := strconv.Atoi(arg[:idx]); err == nil {
			cmd = n
		}
		body = arg[idx+1:]
	} else if n, err := strconv.Atoi(arg); err == nil {
		cmd = n
	}

	switch cmd {
	case 0, 1, 2:
		hd = p.makeHandler("osc-0,1,2", func(emu *Emulator) { hdl_osc_0(emu, cmd, body) })
	case 4:
		hd = p.makeHandler("osc-4", func(emu *Emulator) { hdl_osc_4(emu, body) })
	case 8:
		hd = p.makeHandler("osc-8", func(emu *Emulator) { hdl_osc_8(emu, body) })
	case 10, 11, 12:
		hd = p.makeHandler("osc-10,11,12", func(emu *Emulator) { hdl_osc_10(emu, cmd, body) })
	case 52:
		hd = p.makeHandler("osc-52", func(emu *Emulator) { hdl_osc_52(emu, body) })
	case 104:
		hd = p.makeHandler("osc-104", func(emu *Emulator) { hdl_osc_104(emu, body) })
	case 110, 111, 112:
		hd = p.makeHandler("osc-110,111,112", func(emu *Emulator) { hdl_osc_110(emu, cmd) })
	case 133:
		hd = p.makeHandler("osc-133", func(emu *Emulator) { hdl_osc_133(emu, body) })
	case 777:
		hd = p.makeHandler("osc-777", func(emu *Emulator) { hdl_osc_777(emu, body) })
	default:
		util.Logger.Trace("unhandled OSC", "cmd", cmd, "arg", arg)
	}

	p.argBuf.Reset()
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_DCS() (hd *Handler) {
	arg := p.getArg()

	if strings.HasPrefix(arg, "$q") {
		request := arg[2:]
		hd = p.makeHandler("dcs-decrqss", func(emu *Emulator) { hdl_dcs_decrqss(emu, request) })
	} else {
		util.Logger.Trace("unhandled DCS", "arg", arg)
	}

	p.argBuf.Reset()
	p.setState(InputState_Normal)
	return hd
}

func (p *Parser) handle_SelectCharset() (hd *Handler) {
	dst := p.scsDst
	final := p.ch

	hd = p.makeHandler("esc-dcs", func(emu *Emulator) { hdl_esc_dcs(emu, dst, final) })
	p.setState(InputState_Normal)
	return hd
}

// process one rune. the caller applies the UTF-8 decoder to the
// incoming byte stream before interpreting any control characters.
func (p *Parser) processInput(ch rune) (hd *Handler) {
	p.ch = ch

	switch p.inputState {
	case InputState_Normal:
		switch ch {
		case '\x00': // ignore NUL
		case '\x1B':
			p.setState(InputState_Escape)
			p.inputOps[0] = 0
			p.nInputOps = 1
		case '\x0D': // CR is \r
			hd = p.makeHandler("c0-cr", hdl_c0_cr)
		case '\x0C', '\x0B', '\x0A': // FF is \f, VT is \v, LF is \n: all handled as IND
			hd = p.makeHandler("c0-lf", hdl_c0_lf)
		case '\x09': // HT is \t
			hd = p.makeHandler("c0-ht", hdl_c0_ht)
		case '\x08': // BS is \b
			hd = p.makeHandler("c0-bs", hdl_c0_bs)
		case '\x07': // BEL is \a
			hd = p.makeHandler("c0-bel", hdl_c0_bel)
		case '\x05': // ENQ: answerback is not configured, ignore
		case '\x0E': // SO
			hd = p.makeHandler("c0-so", hdl_c0_so)
		case '\x0F': // SI
			hd = p.makeHandler("c0-si", hdl_c0_si)
		case '\x7F': // DEL is ignored on input
		default:
			if ch < 0x20 {
				// the remaining C0 controls are ignored
				break
			}
			r := ch
			hd = p.makeHandler("graphic-char", func(emu *Emulator) { hdl_graphic_char(emu, r) })
		}
	case InputState_Escape:
		switch ch {
		case '\x18', '\x1A': // CAN and SUB interrupt the sequence
			p.setState(InputState_Normal)
		case '[':
			p.paramBuf.Reset()
			p.setState(InputState_CSI)
		case ']':
			p.argBuf.Reset()
			p.setState(InputState_OSC)
		case 'P':
			p.argBuf.Reset()
			p.setState(InputState_DCS)
		case 'X', '^', '_': // SOS, PM, APC: consumed and ignored
			p.setState(InputState_SOS_PM_APC)
		case ' ':
			p.setState(InputState_Esc_Space)
		case '#':
			p.setState(InputState_Esc_Hash)
		case '%':
			p.setState(InputState_Esc_Pct)
		case '(', ')', '*', '+':
			p.scsDst = int(ch - '(')
			p.setState(InputState_Select_Charset)
		case '7':
			hd = p.makeHandler("esc-decsc", hdl_esc_decsc)
			p.setState(InputState_Normal)
		case '8':
			hd = p.makeHandler("esc-decrc", hdl_esc_decrc)
			p.setState(InputState_Normal)
		case 'D':
			hd = p.makeHandler("esc-ind", hdl_c0_lf)
			p.setState(InputState_Normal)
		case 'E':
			hd = p.makeHandler("esc-nel", hdl_esc_nel)
			p.setState(InputState_Normal)
		case 'H':
			hd = p.makeHandler("esc-hts", hdl_esc_hts)
			p.setState(InputState_Normal)
		case 'M':
			hd = p.makeHandler("esc-ri", hdl_esc_ri)
			p.setState(InputState_Normal)
		case 'N': // SS2
			hd = p.makeHandler("esc-ss2", func(emu *Emulator) { hdl_esc_ss(emu, 2) })
			p.setState(InputState_Normal)
		case 'O': // SS3
			hd = p.makeHandler("esc-ss3", func(emu *Emulator) { hdl_esc_ss(emu, 3) })
			p.setState(InputState_Normal)
		case 'Z': // DECID
			hd = p.makeHandler("esc-decid", hdl_csi_da1)
			p.setState(InputState_Normal)
		case 'c':
			hd = p.makeHandler("esc-ris", hdl_esc_ris)
			p.setState(InputState_Normal)
		case '=':
			hd = p.makeHandler("esc-deckpam", func(emu *Emulator) { hdl_esc_keypad(emu, true) })
			p.setState(InputState_Normal)
		case '>':
			hd = p.makeHandler("esc-deckpnm", func(emu *Emulator) { hdl_esc_keypad(emu, false) })
			p.setState(InputState_Normal)
		case 'n': // LS2
			hd = p.makeHandler("esc-ls2", func(emu *Emulator) { hdl_esc_ls(emu, 2) })
			p.setState(InputState_Normal)
		case 'o': // LS3
			hd = p.makeHandler("esc-ls3", func(emu *Emulator) { hdl_esc_ls(emu, 3) })
			p.setState(InputState_Normal)
		case '~': // LS1R
			hd = p.makeHandler("esc-ls1r", func(emu *Emulator) { hdl_esc_lsr(emu, 1) })
			p.setState(InputState_Normal)
		case '}': // LS2R
			hd = p.makeHandler("esc-ls2r", func(emu *Emulator) { hdl_esc_lsr(emu, 2) })
			p.setState(InputState_Normal)
		case '|': // LS3R
			hd = p.makeHandler("esc-ls3r", func(emu *Emulator) { hdl_esc_lsr(emu, 3) })
			p.setState(InputState_Normal)
		case '\\': // ST with nothing to terminate
			p.setState(InputState_Normal)
		default:
			util.Logger.Trace("unhandled escape sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_Esc_Space:
		switch ch {
		case 'F', 'G': // S7C1T / S8C1T: 7-bit responses are always used
			p.setState(InputState_Normal)
		default:
			util.Logger.Trace("unhandled ESC SP sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_Esc_Hash:
		switch ch {
		case '8':
			hd = p.makeHandler("esc-decaln", hdl_esc_decaln)
			p.setState(InputState_Normal)
		default:
			util.Logger.Trace("unhandled ESC # sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_Esc_Pct:
		switch ch {
		case '@', 'G': // charset is always UTF-8
			hd = p.makeHandler("esc-docs", hdl_esc_docs)
			p.setState(InputState_Normal)
		default:
			util.Logger.Trace("unhandled ESC % sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_Select_Charset:
		if ch < 0x30 {
			// multi-character designations are not supported; wait for
			// the final character
			break
		}
		hd = p.handle_SelectCharset()
	case InputState_CSI:
		if p.collectNumericParameters(ch) {
			break
		}
		switch ch {
		case '\x18', '\x1A':
			p.setState(InputState_Normal)
		case '\x1B':
			p.setState(InputState_Escape)
			p.inputOps[0] = 0
			p.nInputOps = 1
		case '?':
			p.setState(InputState_CSI_Priv)
		case '>':
			p.setState(InputState_CSI_GT)
		case '!':
			p.setState(InputState_CSI_Bang)
		case ' ':
			p.setState(InputState_CSI_SPC)
		case '$':
			p.setState(InputState_CSI_Dollar)
		case '\'':
			p.setState(InputState_CSI_Quote)
		case '"':
			p.setState(InputState_CSI_DblQuote)
		case '@':
			hd = p.handleMotion("csi-ich", hdl_csi_ich)
		case 'A':
			hd = p.handleMotion("csi-cuu", hdl_csi_cuu)
		case 'B':
			hd = p.handleMotion("csi-cud", hdl_csi_cud)
		case 'C':
			hd = p.handleMotion("csi-cuf", hdl_csi_cuf)
		case 'D':
			hd = p.handleMotion("csi-cub", hdl_csi_cub)
		case 'E':
			hd = p.handleMotion("csi-cnl", hdl_csi_cnl)
		case 'F':
			hd = p.handleMotion("csi-cpl", hdl_csi_cpl)
		case 'G':
			hd = p.handleMotion("csi-cha", hdl_csi_cha)
		case 'H', 'f':
			hd = p.handle_CUP()
		case 'I':
			hd = p.handleMotion("csi-cht", hdl_csi_cht)
		case 'J':
			hd = p.handle_ED()
		case 'K':
			hd = p.handle_EL()
		case 'L':
			hd = p.handleMotion("csi-il", hdl_csi_il)
		case 'M':
			hd = p.handleMotion("csi-dl", hdl_csi_dl)
		case 'P':
			hd = p.handleMotion("csi-dch", hdl_csi_dch)
		case 'S':
			hd = p.handleMotion("csi-su", hdl_csi_su)
		case 'T':
			hd = p.handleMotion("csi-sd", hdl_csi_sd)
		case 'X':
			hd = p.handleMotion("csi-ech", hdl_csi_ech)
		case 'Z':
			hd = p.handleMotion("csi-cbt", hdl_csi_cbt)
		case '`':
			hd = p.handleMotion("csi-hpa", hdl_csi_hpa)
		case 'a':
			hd = p.handleMotion("csi-hpr", hdl_csi_hpr)
		case 'b':
			hd = p.handleMotion("csi-rep", hdl_csi_rep)
		case 'c':
			hd = p.handle_DA1()
		case 'd':
			hd = p.handleMotion("csi-vpa", hdl_csi_vpa)
		case 'e':
			hd = p.handleMotion("csi-vpr", hdl_csi_vpr)
		case 'g':
			hd = p.handle_TBC()
		case 'h':
			hd = p.handle_SM()
		case 'l':
			hd = p.handle_RM()
		case 'm':
			hd = p.handle_SGR()
		case 'n':
			hd = p.handle_DSR()
		case 'r':
			hd = p.handle_DECSTBM()
		case 's':
			hd = p.handle_DECSLRM_Or_SCOSC()
		case 't':
			hd = p.handle_XTWINOPS()
		case 'u':
			hd = p.handle_SCORC()
		default:
			if 0x40 <= ch && ch <= 0x7E {
				util.Logger.Trace("unhandled CSI sequence", "ch", ch)
				p.setState(InputState_Normal)
			} else {
				// unexpected intermediate: ignore the rest
				p.setState(InputState_CSI_Ignore)
			}
		}
	case InputState_CSI_Priv:
		if p.collectNumericParameters(ch) {
			break
		}
		switch ch {
		case '\x18', '\x1A':
			p.setState(InputState_Normal)
		case 'h':
			hd = p.handle_DECSET()
		case 'l':
			hd = p.handle_DECRST()
		case 'n':
			hd = p.handle_DECDSR()
		case '$':
			p.setState(InputState_CSI_Priv_Dollar)
		default:
			if 0x40 <= ch && ch <= 0x7E {
				util.Logger.Trace("unhandled CSI ? sequence", "ch", ch)
				p.setState(InputState_Normal)
			} else {
				p.setState(InputState_CSI_Ignore)
			}
		}
	case InputState_CSI_Priv_Dollar:
		switch ch {
		case 'p':
			hd = p.handle_DECRQM(true)
		default:
			util.Logger.Trace("unhandled CSI ? $ sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_GT:
		if p.collectNumericParameters(ch) {
			break
		}
		switch ch {
		case '\x18', '\x1A':
			p.setState(InputState_Normal)
		case 'c':
			hd = p.handle_DA2()
		case 'm', 'n', 'p', 'q':
			// XTMODKEYS / XTVERSION and friends: accepted, no effect
			p.setState(InputState_Normal)
		default:
			if 0x40 <= ch && ch <= 0x7E {
				util.Logger.Trace("unhandled CSI > sequence", "ch", ch)
				p.setState(InputState_Normal)
			} else {
				p.setState(InputState_CSI_Ignore)
			}
		}
	case InputState_CSI_Bang:
		switch ch {
		case 'p':
			hd = p.handle_DECSTR()
		default:
			util.Logger.Trace("unhandled CSI ! sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_SPC:
		switch ch {
		case 'q':
			hd = p.handle_DECSCUSR()
		default:
			util.Logger.Trace("unhandled CSI SP sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_Dollar:
		switch ch {
		case 'p':
			hd = p.handle_DECRQM(false)
		default:
			util.Logger.Trace("unhandled CSI $ sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_Quote:
		switch ch {
		case '}':
			hd = p.handleMotion("csi-decic", hdl_csi_decic)
		case '~':
			hd = p.handleMotion("csi-decdc", hdl_csi_decdc)
		default:
			util.Logger.Trace("unhandled CSI ' sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_DblQuote:
		switch ch {
		case 'p', 'q': // DECSCL / DECSCA: accepted, no effect
			p.setState(InputState_Normal)
		default:
			util.Logger.Trace("unhandled CSI \" sequence", "ch", ch)
			p.setState(InputState_Normal)
		}
	case InputState_CSI_Ignore:
		if ch == '\x18' || ch == '\x1A' {
			p.setState(InputState_Normal)
		} else if ch == '\x1B' {
			p.setState(InputState_Escape)
			p.inputOps[0] = 0
			p.nInputOps = 1
		} else if 0x40 <= ch && ch <= 0x7E {
			p.setState(InputState_Normal)
		}
	case InputState_DCS:
		switch ch {
		case '\x18', '\x1A':
			p.argBuf.Reset()
			p.setState(InputState_Normal)
		case '\x1B':
			p.setState(InputState_DCS_Esc)
		default:
			if !p.collectString(ch) {
				util.Logger.Trace("DCS string overflow")
				p.argBuf.Reset()
				p.setState(InputState_DCS_Ignore)
			}
		}
	case InputState_DCS_Esc:
		switch ch {
		case '\\': // ESC \ is ST
			hd = p.handle_DCS()
		default:
			// broken string: drop it, restart escape processing
			p.argBuf.Reset()
			p.setState(InputState_Escape)
			hd = p.processInput(ch)
		}
	case InputState_DCS_Ignore:
		switch ch {
		case '\x18', '\x1A', '\x07':
			p.setState(InputState_Normal)
		case '\x1B':
			p.setState(InputState_DCS_Ignore_Esc)
		}
	case InputState_DCS_Ignore_Esc:
		switch ch {
		case '\\':
			p.setState(InputState_Normal)
		default:
			p.setState(InputState_DCS_Ignore)
		}
	case InputState_OSC:
		switch ch {
		case '\x18', '\x1A':
			p.argBuf.Reset()
			p.setState(InputState_Normal)
		case '\x07': // BEL terminator, xterm compatibility
			hd = p.handle_OSC()
		case '\x1B':
			p.setState(InputState_OSC_Esc)
		default:
			if !p.collectString(ch) {
				util.Logger.Trace("OSC string overflow")
				p.argBuf.Reset()
				p.setState(InputState_DCS_Ignore)
			}
		}
	case InputState_OSC_Esc:
		switch ch {
		case '\\': // ESC \ is ST
			hd = p.handle_OSC()
		default:
			// the ESC did not open an ST: keep both characters
			p.argBuf.WriteRune('\x1b')
			p.argBuf.WriteRune(ch)
			p.setState(InputState_OSC)
		}
	case InputState_SOS_PM_APC:
		switch ch {
		case '\x18', '\x1A', '\x07':
			p.setState(InputState_Normal)
		case '\x1B':
			p.setState(InputState_SOS_PM_APC_Esc)
		}
	case InputState_SOS_PM_APC_Esc:
		switch ch {
		case '\\':
			p.setState(InputState_Normal)
		default:
			p.setState(InputState_SOS_PM_APC)
		}
	}
	return hd
}

// processStream decodes the byte stream and drives the state machine,
// appending the resulting handlers to hds. feeding the stream byte by
// byte produces the same handlers as feeding it whole.
func (p *Parser) processStream(seq string, hds []*Handler) []*Handler {
	for i := 0; i < len(seq); i++ {
		b := seq[i]

		var r rune
		if b < 0x80 && p.decoder.need == 0 {
			// control bytes and ASCII go straight to the state machine
			r = rune(b)
		} else {
			rr, done, malformed := p.decoder.feed(b)
			if !done {
				continue
			}
			r = rr
			if malformed {
				// process the replacement, then re-feed the offending byte
				if hd := p.processInput(r); hd != nil {
					hds = append(hds, hd)
				}
				i--
				continue
			}
		}

		if hd := p.processInput(r); hd != nil {
			hds = append(hds, hd)
		}
	}
	return hds
}
