package compiler

import (
	"unicode/utf16"

	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
)

const (
	vsFixedFileInfoSignature = 0xFEEF04BD
	vsFixedFileInfoVersion   = 0x00010000
	vsFixedFileInfoLen       = 52
)

// serializeVersionInfo builds the VS_VERSIONINFO tree. Every node is a
// length-prefixed, WORD-typed, DWORD-aligned structure whose length is
// back-patched once its children are known.
func (c *compiler) serializeVersionInfo(body *parser.VersionInfoBody) []byte {
	var w buffer
	start := beginVersionNode(&w, vsFixedFileInfoLen, 0, utf16.Encode([]rune("VS_VERSION_INFO")))

	w.u32(vsFixedFileInfoSignature)
	w.u32(vsFixedFileInfoVersion)
	w.u32(uint32(body.FileVersion[0])<<16 | uint32(body.FileVersion[1]))
	w.u32(uint32(body.FileVersion[2])<<16 | uint32(body.FileVersion[3]))
	w.u32(uint32(body.ProductVersion[0])<<16 | uint32(body.ProductVersion[1]))
	w.u32(uint32(body.ProductVersion[2])<<16 | uint32(body.ProductVersion[3]))
	w.u32(body.FileFlagsMask)
	w.u32(body.FileFlags)
	w.u32(body.FileOS)
	w.u32(body.FileType)
	w.u32(body.FileSubtype)
	w.u32(0) // dwFileDateMS
	w.u32(0) // dwFileDateLS

	for _, node := range body.Nodes {
		c.serializeVersionNode(&w, node)
	}
	endVersionNode(&w, start)
	return w.b
}

// beginVersionNode writes the node header and returns the offset of its
// wLength field for back-patching.
func beginVersionNode(w *buffer, valueLen, nodeType uint16, key []uint16) int {
	w.align4()
	start := w.len()
	w.u16(0) // wLength, patched later
	w.u16(valueLen)
	w.u16(nodeType)
	w.sz(key)
	w.align4()
	return start
}

func endVersionNode(w *buffer, start int) {
	w.patchU16(start, uint16(w.len()-start))
}

func (c *compiler) serializeVersionNode(w *buffer, node parser.VersionNode) {
	switch n := node.(type) {
	case *parser.VersionBlock:
		key := lexer.ParseStringLiteralUTF16(n.NameTok.Slice(c.src), c.decoder, false)
		start := beginVersionNode(w, 0, 1, key)
		for _, child := range n.Children {
			c.serializeVersionNode(w, child)
		}
		endVersionNode(w, start)
	case *parser.VersionValue:
		c.serializeVersionValue(w, n)
	}
}

// serializeVersionValue writes a VALUE node. String values are wType 1 with
// the value length in WORDs (terminator included); numeric values are wType
// 0 with the length in bytes.
func (c *compiler) serializeVersionValue(w *buffer, value *parser.VersionValue) {
	key := lexer.ParseStringLiteralUTF16(value.KeyTok.Slice(c.src), c.decoder, false)

	allStrings := len(value.Values) > 0
	for _, item := range value.Values {
		if !item.IsString {
			allStrings = false
			break
		}
	}

	if allStrings {
		var units []uint16
		for _, item := range value.Values {
			units = append(units, lexer.ParseStringLiteralUTF16(item.StringTok.Slice(c.src), c.decoder, item.Wide)...)
		}
		units = append(units, 0)
		start := beginVersionNode(w, uint16(len(units)), 1, key)
		w.units(units)
		endVersionNode(w, start)
		return
	}

	var data buffer
	for _, item := range value.Values {
		if item.IsString {
			data.units(lexer.ParseStringLiteralUTF16(item.StringTok.Slice(c.src), c.decoder, item.Wide))
			continue
		}
		if item.Number.IsLong {
			data.u32(item.Number.Value)
		} else {
			data.u16(uint16(item.Number.Value))
		}
	}
	start := beginVersionNode(w, uint16(data.len()), 0, key)
	w.raw(data.b)
	endVersionNode(w, start)
}
