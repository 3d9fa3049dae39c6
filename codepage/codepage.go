// Package codepage maps Windows code page identifiers to decoders producing
// Unicode scalar values from raw bytes.
package codepage

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Sentinel errors
var (
	// ErrInvalidCodePage indicates the identifier is not a Windows code page.
	ErrInvalidCodePage = errors.New("invalid code page")
	// ErrUnsupportedCodePage indicates a real code page this compiler cannot decode.
	ErrUnsupportedCodePage = errors.New("unsupported code page")
)

// UTF8 is the identifier Windows assigns to UTF-8.
const UTF8 = 65001

// Windows1252 is the default code page rc.exe assumes on western systems.
const Windows1252 = 1252

// Decoder produces Unicode scalar values from a byte stream. DecodeNext
// returns the next scalar and the number of bytes consumed; invalid sequences
// decode to the code page's replacement value and still make progress.
type Decoder interface {
	// DecodeNext decodes the scalar at the start of src. size is at least 1
	// whenever len(src) > 0, and 0 only on empty input.
	DecodeNext(src []byte) (r rune, size int)
}

// singleByte decodes one byte at a time through an x/text charmap table.
type singleByte struct {
	table *charmap.Charmap
}

func (d singleByte) DecodeNext(src []byte) (rune, int) {
	if len(src) == 0 {
		return 0, 0
	}
	return d.table.DecodeByte(src[0]), 1
}

// utf8Decoder decodes UTF-8 with U+FFFD substitution on invalid sequences.
type utf8Decoder struct{}

func (utf8Decoder) DecodeNext(src []byte) (rune, int) {
	if len(src) == 0 {
		return 0, 0
	}
	r, size := utf8.DecodeRune(src)
	return r, size
}

// singleByteTables covers every single-byte Windows code page x/text ships a
// table for.
var singleByteTables = map[uint32]*charmap.Charmap{
	437:  charmap.CodePage437,
	850:  charmap.CodePage850,
	852:  charmap.CodePage852,
	855:  charmap.CodePage855,
	858:  charmap.CodePage858,
	860:  charmap.CodePage860,
	862:  charmap.CodePage862,
	863:  charmap.CodePage863,
	865:  charmap.CodePage865,
	866:  charmap.CodePage866,
	874:  charmap.Windows874,
	1250: charmap.Windows1250,
	1251: charmap.Windows1251,
	1252: charmap.Windows1252,
	1253: charmap.Windows1253,
	1254: charmap.Windows1254,
	1255: charmap.Windows1255,
	1256: charmap.Windows1256,
	1257: charmap.Windows1257,
	1258: charmap.Windows1258,
}

// multiByteCodePages are real Windows code pages whose DBCS decoding this
// compiler does not implement.
var multiByteCodePages = map[uint32]bool{
	932:   true, // Shift-JIS
	936:   true, // GBK
	949:   true, // Unified Hangul
	950:   true, // Big5
	1361:  true, // Johab
	10001: true,
	10002: true,
	10003: true,
	10008: true,
	20932: true,
	50220: true,
	50221: true,
	50222: true,
	51932: true,
	51936: true,
	51949: true,
	54936: true,
}

// Get returns a decoder for the code page identifier. Real-but-undecodable
// pages return ErrUnsupportedCodePage; anything else returns
// ErrInvalidCodePage.
func Get(id uint32) (Decoder, error) {
	if id == UTF8 {
		return utf8Decoder{}, nil
	}
	if table, ok := singleByteTables[id]; ok {
		return singleByte{table: table}, nil
	}
	if multiByteCodePages[id] {
		return nil, ErrUnsupportedCodePage
	}
	return nil, ErrInvalidCodePage
}

// IsValid reports whether id names a code page this compiler knows about,
// decodable or not.
func IsValid(id uint32) bool {
	if id == UTF8 || multiByteCodePages[id] {
		return true
	}
	_, ok := singleByteTables[id]
	return ok
}
