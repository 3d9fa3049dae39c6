package compiler

import (
	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
)

const (
	mfPopup = 0x0010
	mfEnd   = 0x0080

	mfexPopup = 0x01
	mfexEnd   = 0x80
)

// serializeMenu emits MENUHEADER + item records, or the MENUEX template for
// MENUEX resources. The last item of every list carries the end marker.
func serializeMenu(c *compiler, body *parser.MenuBody) []byte {
	var w buffer
	if body.Ex {
		w.u16(1) // wVersion
		w.u16(4) // wOffset to the first item
		w.u32(0) // dwHelpId
		serializeMenuExItems(c, &w, body.Items)
		return w.b
	}
	w.u16(0) // wVersion
	w.u16(0) // cbHeaderSize
	serializeMenuItems(c, &w, body.Items)
	return w.b
}

func menuText(c *compiler, item *parser.MenuItem) []uint16 {
	if item.IsSeparator {
		return nil
	}
	return lexer.ParseStringLiteralUTF16(item.TextTok.Slice(c.src), c.decoder, item.TextWide)
}

func serializeMenuItems(c *compiler, w *buffer, items []parser.MenuItem) {
	for i := range items {
		item := &items[i]
		flags := uint16(item.Flags)
		if i == len(items)-1 {
			flags |= mfEnd
		}
		if item.IsPopup {
			w.u16(flags | mfPopup)
			w.sz(menuText(c, item))
			serializeMenuItems(c, w, item.Items)
			continue
		}
		w.u16(flags)
		w.u16(uint16(item.ID))
		w.sz(menuText(c, item))
	}
}

func serializeMenuExItems(c *compiler, w *buffer, items []parser.MenuItem) {
	for i := range items {
		item := &items[i]
		w.align4()
		w.u32(item.Type)
		w.u32(item.State)
		w.u32(item.ID)
		resInfo := uint16(0)
		if item.IsPopup {
			resInfo |= mfexPopup
		}
		if i == len(items)-1 {
			resInfo |= mfexEnd
		}
		w.u16(resInfo)
		w.sz(menuText(c, item))
		if item.IsPopup {
			w.align4()
			w.u32(item.HelpID)
			serializeMenuExItems(c, w, item.Items)
		}
	}
}

// serializeAccelerators emits the fixed-size ACCELTABLEENTRY array. The last
// entry sets bit 0x80 in its flags in addition to its own.
func serializeAccelerators(body *parser.AcceleratorsBody) []byte {
	var w buffer
	for i := range body.Entries {
		entry := &body.Entries[i]
		flags := uint16(entry.Flags)
		if i == len(body.Entries)-1 {
			flags |= uint16(parser.AccLastEntry)
		}
		w.u16(flags)
		w.u16(entry.Event)
		w.u16(entry.ID)
		w.u16(0) // padding
	}
	return w.b
}
