package lexer

import (
	"unicode/utf16"

	"github.com/resbuild/resc/codepage"
)

// stringLiteralBody strips the L prefix and surrounding quotes from a quoted
// string token's source bytes.
func stringLiteralBody(slice []byte) []byte {
	if len(slice) > 0 && (slice[0] == 'L' || slice[0] == 'l') {
		slice = slice[1:]
	}
	if len(slice) >= 2 && slice[0] == '"' {
		slice = slice[1 : len(slice)-1]
	}
	return slice
}

// ParseStringLiteralBytes evaluates a narrow string literal's source bytes
// into the bytes it contributes to raw resource data. Escapes produce their
// byte value modulo 256; source bytes pass through unchanged.
func ParseStringLiteralBytes(slice []byte, decoder codepage.Decoder) []byte {
	body := stringLiteralBody(slice)
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); {
		b := body[i]
		switch b {
		case '\r':
			i++
		case '"':
			// "" collapses to one quote
			out = append(out, '"')
			i += 2
		case '\\':
			value, consumed, isValue := parseEscape(body[i:], 2, 3)
			if isValue {
				out = append(out, byte(value))
			} else {
				out = append(out, body[i:i+consumed]...)
			}
			i += consumed
		default:
			out = append(out, b)
			i++
		}
	}
	return out
}

// ParseStringLiteralUTF16 evaluates a string literal's source bytes into
// UTF-16 code units. Narrow literals are decoded through the active code
// page first; escapes produce their value modulo 65536.
func ParseStringLiteralUTF16(slice []byte, decoder codepage.Decoder, wide bool) []uint16 {
	body := stringLiteralBody(slice)
	out := make([]uint16, 0, len(body))
	hexDigits, octalDigits := 2, 3
	if wide {
		hexDigits, octalDigits = 4, 7
	}
	for i := 0; i < len(body); {
		b := body[i]
		switch b {
		case '\r':
			i++
		case '"':
			out = append(out, '"')
			i += 2
		case '\\':
			value, consumed, isValue := parseEscape(body[i:], hexDigits, octalDigits)
			if isValue {
				out = append(out, uint16(value))
			} else {
				for _, c := range body[i : i+consumed] {
					out = append(out, uint16(c))
				}
			}
			i += consumed
		default:
			r, size := decoder.DecodeNext(body[i:])
			out = append(out, utf16.Encode([]rune{r})...)
			i += size
		}
	}
	return out
}

// parseEscape evaluates the escape sequence at the start of b (which begins
// with a backslash). It returns the escape's value, the bytes consumed, and
// whether the sequence was a recognized escape; unrecognized sequences are
// emitted verbatim by the caller.
func parseEscape(b []byte, hexDigits, octalDigits int) (value uint32, consumed int, isValue bool) {
	if len(b) < 2 {
		return 0, 1, false
	}
	switch b[1] {
	case 't', 'T':
		return '\t', 2, true
	case 'n', 'N':
		return '\n', 2, true
	case 'r', 'R':
		return '\r', 2, true
	case 'a', 'A':
		// rc.exe maps \a to 0x08, not BEL
		return 0x08, 2, true
	case '\\':
		return '\\', 2, true
	case 'x', 'X':
		n := uint32(0)
		i := 2
		for i < len(b) && i-2 < hexDigits {
			d, ok := digitValue(b[i])
			if !ok {
				break
			}
			n = n*16 + d
			i++
		}
		if i == 2 {
			return 0, 2, false
		}
		return n, i, true
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := uint32(0)
		i := 1
		for i < len(b) && i-1 < octalDigits && b[i] >= '0' && b[i] <= '7' {
			n = n*8 + uint32(b[i]-'0')
			i++
		}
		return n, i, true
	default:
		return 0, 2, false
	}
}
