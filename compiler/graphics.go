package compiler

import (
	"encoding/binary"

	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/parser"
)

// .ico/.cur file layout: ICONDIR (6 bytes), then 16-byte directory entries,
// then the image payloads the entries point at.
const (
	iconDirLen      = 6
	iconDirEntryLen = 16

	bitmapFileHeaderLen = 14
)

type iconDirEntry struct {
	width      uint8
	height     uint8
	colorCount uint8
	planes     uint16 // hotspot X in .cur files
	bitCount   uint16 // hotspot Y in .cur files
	bytesInRes uint32
	offset     uint32
}

// compileIconOrCursor splits a multi-image .ico/.cur file into one RT_ICON /
// RT_CURSOR record per image plus a group record referencing them by the
// per-compilation image id counter.
func (c *compiler) compileIconOrCursor(res *parser.Resource, group *Record, body *parser.FileBody, data []byte, cursor bool) error {
	if len(data) < iconDirLen {
		c.errorAt(body.FilenameTok, diagnostics.FileOpenError, diagnostics.StringExtra{Value: "file too small to be an icon or cursor"})
		return nil
	}
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if len(data) < iconDirLen+count*iconDirEntryLen {
		c.errorAt(body.FilenameTok, diagnostics.FileOpenError, diagnostics.StringExtra{Value: "icon or cursor directory is truncated"})
		return nil
	}

	entries := make([]iconDirEntry, count)
	ids := make([]uint16, count)
	for i := 0; i < count; i++ {
		off := iconDirLen + i*iconDirEntryLen
		entries[i] = iconDirEntry{
			width:      data[off],
			height:     data[off+1],
			colorCount: data[off+2],
			planes:     binary.LittleEndian.Uint16(data[off+4:]),
			bitCount:   binary.LittleEndian.Uint16(data[off+6:]),
			bytesInRes: binary.LittleEndian.Uint32(data[off+8:]),
			offset:     binary.LittleEndian.Uint32(data[off+12:]),
		}
	}

	childType := Ordinal(RTIcon)
	groupType := Ordinal(RTGroupIcon)
	if cursor {
		childType = Ordinal(RTCursor)
		groupType = Ordinal(RTGroupCursor)
	}

	version, characteristics := c.headerValues(&res.Options)
	language := c.resourceLanguage(&res.Options)

	for i, entry := range entries {
		end := int(entry.offset) + int(entry.bytesInRes)
		if int(entry.offset) > len(data) || end > len(data) {
			c.errorAt(body.FilenameTok, diagnostics.FileOpenError, diagnostics.StringExtra{Value: "image data out of bounds"})
			return nil
		}
		image := data[entry.offset:end]

		var w buffer
		if cursor {
			// Cursor image records are prefixed with the hotspot, which the
			// .cur directory stores in the planes/bitCount slots.
			w.u16(entry.planes)
			w.u16(entry.bitCount)
		}
		w.raw(image)

		ids[i] = c.nextIconID
		c.nextIconID++

		child := &Record{
			Type:            childType,
			Name:            Ordinal(ids[i]),
			MemoryFlags:     MemFlagMoveable | MemFlagDiscardable,
			Language:        language,
			Version:         version,
			Characteristics: characteristics,
			Data:            w.b,
		}
		if err := c.emit(child); err != nil {
			return err
		}
	}

	// Group record: GRPICONDIR / GRPCURSORDIR with per-image entries that
	// reference the child records.
	var w buffer
	w.u16(0) // reserved
	if cursor {
		w.u16(2)
	} else {
		w.u16(1)
	}
	w.u16(uint16(count))
	for i, entry := range entries {
		if cursor {
			w.u16(uint16(entry.width))
			w.u16(uint16(entry.height) * 2)
			w.u16(1) // planes
			w.u16(bitCountFromImage(data, entry))
			w.u32(entry.bytesInRes + 4)
		} else {
			w.u8(entry.width)
			w.u8(entry.height)
			w.u8(entry.colorCount)
			w.u8(0)
			w.u16(entry.planes)
			w.u16(entry.bitCount)
			w.u32(entry.bytesInRes)
		}
		w.u16(ids[i])
	}

	group.Type = groupType
	group.MemoryFlags = applyMemoryFlags(MemFlagMoveable|MemFlagPure|MemFlagDiscardable, res.Options.MemoryFlags)
	group.Data = w.b
	return c.emit(group)
}

// bitCountFromImage reads the bit depth out of the image's BITMAPINFOHEADER,
// since .cur directory entries repurpose that slot for the hotspot.
func bitCountFromImage(data []byte, entry iconDirEntry) uint16 {
	// biBitCount sits 14 bytes into the BITMAPINFOHEADER.
	off := int(entry.offset) + 14
	if off+2 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint16(data[off:])
}

// stripBitmapFileHeader drops the 14-byte BITMAPFILEHEADER a .bmp file
// starts with; the resource stores only the DIB.
func stripBitmapFileHeader(data []byte) []byte {
	if len(data) >= bitmapFileHeaderLen && data[0] == 'B' && data[1] == 'M' {
		return data[bitmapFileHeaderLen:]
	}
	return data
}
