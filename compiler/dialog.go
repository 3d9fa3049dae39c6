package compiler

import (
	"unicode/utf16"

	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
)

const (
	dsSetFont       = 0x00000040
	defaultDlgStyle = 0x80880000 // WS_POPUP | WS_BORDER | WS_SYSMENU
)

// dialogStyle computes the final style DWORD: the dialog default, overlaid
// with the STYLE expression's OR terms, minus its NOT terms, plus DS_SETFONT
// when a FONT statement is present.
func dialogStyle(body *parser.DialogBody) uint32 {
	style := uint32(defaultDlgStyle)
	if body.StyleGiven {
		style = (style | body.Style.Value) &^ body.Style.NotMask
	}
	if body.FontGiven {
		style |= dsSetFont
	}
	return style
}

func flagsValue(f parser.FlagsExpression, base uint32) uint32 {
	return (base | f.Value) &^ f.NotMask
}

func (c *compiler) serializeDialog(body *parser.DialogBody) []byte {
	c.checkDuplicateControlIDs(body)
	if body.Ex {
		return c.serializeDialogEx(body)
	}

	var w buffer
	w.u32(dialogStyle(body))
	w.u32(flagsValue(body.ExStyle, 0))
	w.u16(uint16(len(body.Controls)))
	w.u16(body.X)
	w.u16(body.Y)
	w.u16(body.W)
	w.u16(body.H)
	c.writeDialogMenuClass(&w, body)
	c.writeDialogCaption(&w, body)
	if body.FontGiven {
		w.u16(body.FontSize)
		w.sz(utf16.Encode([]rune(body.FontName)))
	}

	for i := range body.Controls {
		control := &body.Controls[i]
		w.align4()
		w.u32(flagsValue(control.Style, control.DefaultStyle))
		w.u32(flagsValue(control.ExStyle, 0))
		w.u16(control.X)
		w.u16(control.Y)
		w.u16(control.W)
		w.u16(control.H)
		w.u16(uint16(control.ID))
		c.writeControlClass(&w, control)
		c.writeControlText(&w, control)
		w.u16(0) // no creation data
	}
	return w.b
}

func (c *compiler) serializeDialogEx(body *parser.DialogBody) []byte {
	var w buffer
	w.u16(1)      // dlgVer
	w.u16(0xFFFF) // signature
	w.u32(body.HelpID)
	w.u32(flagsValue(body.ExStyle, 0))
	w.u32(dialogStyle(body))
	w.u16(uint16(len(body.Controls)))
	w.u16(body.X)
	w.u16(body.Y)
	w.u16(body.W)
	w.u16(body.H)
	c.writeDialogMenuClass(&w, body)
	c.writeDialogCaption(&w, body)
	if body.FontGiven {
		w.u16(body.FontSize)
		w.u16(body.FontWeight)
		italic := uint8(0)
		if body.FontItalic {
			italic = 1
		}
		w.u8(italic)
		w.u8(body.FontCharset)
		w.sz(utf16.Encode([]rune(body.FontName)))
	}

	for i := range body.Controls {
		control := &body.Controls[i]
		w.align4()
		w.u32(control.HelpID)
		w.u32(flagsValue(control.ExStyle, 0))
		w.u32(flagsValue(control.Style, control.DefaultStyle))
		w.u16(control.X)
		w.u16(control.Y)
		w.u16(control.W)
		w.u16(control.H)
		w.u32(control.ID)
		c.writeControlClass(&w, control)
		c.writeControlText(&w, control)
		w.u16(0)
	}
	return w.b
}

func (c *compiler) writeDialogMenuClass(w *buffer, body *parser.DialogBody) {
	if body.Menu != nil {
		w.nameOrOrdinal(nameID(*body.Menu))
	} else {
		w.u16(0)
	}
	if body.Class != nil {
		w.nameOrOrdinal(nameID(*body.Class))
	} else {
		w.u16(0)
	}
}

func (c *compiler) writeDialogCaption(w *buffer, body *parser.DialogBody) {
	if body.Caption != nil {
		w.sz(lexer.ParseStringLiteralUTF16(body.Caption.Slice(c.src), c.decoder, body.CaptionWide))
	} else {
		w.u16(0)
	}
}

func (c *compiler) writeControlClass(w *buffer, control *parser.DialogControl) {
	if control.UseClassName {
		w.sz(utf16.Encode([]rune(control.ClassName)))
		return
	}
	w.u16(0xFFFF)
	w.u16(uint16(control.ClassOrdinal))
}

func (c *compiler) writeControlText(w *buffer, control *parser.DialogControl) {
	if control.Text == nil {
		w.u16(0)
		return
	}
	if control.Text.IsString {
		w.sz(lexer.ParseStringLiteralUTF16(control.Text.StringTok.Slice(c.src), c.decoder, control.Text.Wide))
		return
	}
	// Numeric text is an ordinal reference (ICON controls).
	w.u16(0xFFFF)
	w.u16(uint16(control.Text.Number.Value))
}

// checkDuplicateControlIDs warns on reused control ids; rc.exe is silent
// about these, which hides real bugs. /y restores the silence.
func (c *compiler) checkDuplicateControlIDs(body *parser.DialogBody) {
	if c.opts.SilenceDuplicateControlIDs {
		return
	}
	seen := make(map[uint32]bool, len(body.Controls))
	for i := range body.Controls {
		control := &body.Controls[i]
		// -1 is the conventional "don't care" id
		if control.ID == 0xFFFFFFFF {
			continue
		}
		if seen[control.ID] {
			c.warnAt(control.IDTok, diagnostics.DuplicateControlID, diagnostics.NumberExtra{Value: control.ID})
			continue
		}
		seen[control.ID] = true
	}
}
