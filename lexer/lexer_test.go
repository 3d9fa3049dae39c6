package lexer

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/resbuild/resc/codepage"
	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/preprocess"
)

func lexAll(t *testing.T, input string, opts Options) ([]Token, *diagnostics.Collection, error) {
	t.Helper()
	diags := diagnostics.NewCollection()
	lx := New([]byte(input), diags, opts)
	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return tokens, diags, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, diags, nil
		}
	}
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "raw data resource",
			input:    "A RCDATA {1}",
			expected: []TokenType{LITERAL, LITERAL, OPEN_BRACE, NUMBER, CLOSE_BRACE, EOF},
		},
		{
			name:     "begin end duality",
			input:    "BEGIN END begin end",
			expected: []TokenType{BEGIN, END, BEGIN, END, EOF},
		},
		{
			name:     "strings",
			input:    `"a" L"b"`,
			expected: []TokenType{QUOTED_ASCII_STRING, QUOTED_WIDE_STRING, EOF},
		},
		{
			name:     "expression operators",
			input:    "(1 + 2) | ~3 & -4",
			expected: []TokenType{OPEN_PAREN, NUMBER, PLUS, NUMBER, CLOSE_PAREN, PIPE, TILDE, NUMBER, AMPERSAND, MINUS, NUMBER, EOF},
		},
		{
			name:     "commas and equals",
			input:    "1, 2 = 3",
			expected: []TokenType{NUMBER, COMMA, NUMBER, EQUALS, NUMBER, EOF},
		},
		{
			name:     "L not followed by quote is a literal",
			input:    "Lx L",
			expected: []TokenType{LITERAL, LITERAL, EOF},
		},
		{
			name:     "escaped quote stays one token",
			input:    `"a""b"`,
			expected: []TokenType{QUOTED_ASCII_STRING, EOF},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []TokenType{EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, diags, err := lexAll(t, tt.input, Options{})
			assert.NoError(t, err)
			assert.Equal(t, 0, diags.Len())
			assert.Equal(t, tt.expected, tokenTypes(tokens))
		})
	}
}

func TestTokenSpans(t *testing.T) {
	input := "A RCDATA {1}"
	tokens, _, err := lexAll(t, input, Options{})
	assert.NoError(t, err)

	for _, tok := range tokens {
		assert.True(t, tok.Start <= tok.End)
		assert.True(t, tok.End <= len(input))
	}
	assert.Equal(t, "A", string(tokens[0].Slice([]byte(input))))
	assert.Equal(t, "RCDATA", string(tokens[1].Slice([]byte(input))))
	assert.Equal(t, "1", string(tokens[3].Slice([]byte(input))))
}

func TestLineNumbers(t *testing.T) {
	input := "a\nb\r\nc\n\nd"
	tokens, _, err := lexAll(t, input, Options{})
	assert.NoError(t, err)

	lines := []int{1, 2, 3, 5, 5}
	for i, tok := range tokens {
		assert.Equal(t, lines[i], tok.LineNumber)
	}
}

func TestParseNumberLiteral(t *testing.T) {
	tests := []struct {
		input    string
		expected uint32
	}{
		{"0", 0},
		{"1", 1},
		{"123", 123},
		{"0x1A", 26},
		{"0XFF", 255},
		{"017", 15},
		{"123L", 123},
		{"0x10l", 16},
		{"4294967295", 4294967295},
		{"4294967297", 1}, // wraps modulo 2^32
		{"0x", 0},
		{"123abc", 123}, // stops at the first invalid digit
		{"0778", 63},    // octal stops at 8
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumberLiteral([]byte(tt.input)))
		})
	}
}

func TestUnfinishedStringLiteral(t *testing.T) {
	for _, input := range []string{`"abc`, "\"abc\ndef\""} {
		_, diags, err := lexAll(t, input, Options{})
		assert.IsError(t, err, ErrUnfinishedStringLiteral)
		assert.Equal(t, 1, diags.Len())
		assert.Equal(t, diagnostics.UnfinishedStringLiteral, diags.Records()[0].Code)
	}
}

func TestCStyleEscapedQuote(t *testing.T) {
	_, diags, err := lexAll(t, `"a\"b"`, Options{})
	assert.IsError(t, err, ErrFoundCStyleEscapedQuote)
	assert.Equal(t, diagnostics.FoundCStyleEscapedQuote, diags.Records()[0].Code)
}

func TestStringLiteralTooLong(t *testing.T) {
	_, diags, err := lexAll(t, `"abcdef"`, Options{MaxStringLiteralCodepoints: 5})
	assert.IsError(t, err, ErrStringLiteralTooLong)
	assert.Equal(t, diagnostics.StringLiteralTooLong, diags.Records()[0].Code)

	_, diags, err = lexAll(t, `"abcde"`, Options{MaxStringLiteralCodepoints: 5})
	assert.NoError(t, err)
	assert.Equal(t, 0, diags.Len())
}

func TestIllegalBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected diagnostics.Code
	}{
		{"nul is illegal everywhere", "\x00", diagnostics.IllegalByte},
		{"0x1A is illegal everywhere", "\x1A", diagnostics.IllegalByte},
		{"0x01 outside strings", "\x01", diagnostics.IllegalByteOutsideStringLiterals},
		{"0x7F outside strings", "\x7F", diagnostics.IllegalByteOutsideStringLiterals},
		{"nul inside a string", "\"a\x00b\"", diagnostics.IllegalByte},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags, err := lexAll(t, tt.input, Options{})
			assert.IsError(t, err, ErrIllegalByte)
			assert.Equal(t, tt.expected, diags.Records()[0].Code)
		})
	}
}

func TestControlBytesAllowedInsideStrings(t *testing.T) {
	tokens, diags, err := lexAll(t, "\"a\x01b\x7F\"", Options{})
	assert.NoError(t, err)
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, QUOTED_ASCII_STRING, tokens[0].Type)
}

func TestCodePagePragmaSwitchesDecoder(t *testing.T) {
	// 0xE9 is é in 1252; in UTF-8 it opens a three-byte sequence that the
	// following bytes here do not complete.
	input := "\"\xE9\"\n\"\xE9\xE9\""
	pragmas := []preprocess.CodePagePragma{{Line: 2, Value: codepage.UTF8}}
	tokens, diags, err := lexAll(t, input, Options{Pragmas: pragmas})
	assert.NoError(t, err)
	assert.Equal(t, 0, diags.Len())
	assert.Equal(t, 3, len(tokens))
}

func TestInvalidCodePagePragma(t *testing.T) {
	pragmas := []preprocess.CodePagePragma{{Line: 1, Value: 12345}}
	_, diags, err := lexAll(t, "A RCDATA {1}", Options{Pragmas: pragmas})
	assert.NoError(t, err)
	assert.Equal(t, 1, diags.Len())
	record := diags.Records()[0]
	assert.Equal(t, diagnostics.InvalidCodePage, record.Code)
	assert.Equal(t, diagnostics.KindError, record.Kind)

	_, diags, _ = lexAll(t, "A RCDATA {1}", Options{Pragmas: pragmas, DemoteCodePageErrors: true})
	assert.Equal(t, diagnostics.KindWarning, diags.Records()[0].Kind)
}

func TestExtendAsFilename(t *testing.T) {
	diags := diagnostics.NewCollection()
	src := []byte("res/my-icon.ico next")
	lx := New(src, diags, Options{})
	tok, err := lx.Next()
	assert.NoError(t, err)
	extended := lx.ExtendAsFilename(tok)
	assert.Equal(t, "res/my-icon.ico", string(extended.Slice(src)))

	next, err := lx.Next()
	assert.NoError(t, err)
	assert.Equal(t, "next", string(next.Slice(src)))
}

func TestNextFilename(t *testing.T) {
	diags := diagnostics.NewCollection()
	src := []byte(`path\to-file.bmp "quoted name.ico"`)
	lx := New(src, diags, Options{})

	tok, err := lx.NextFilename()
	assert.NoError(t, err)
	assert.Equal(t, LITERAL, tok.Type)
	assert.Equal(t, `path\to-file.bmp`, string(tok.Slice(src)))

	tok, err = lx.NextFilename()
	assert.NoError(t, err)
	assert.Equal(t, QUOTED_ASCII_STRING, tok.Type)
}

func TestParseStringLiteralValues(t *testing.T) {
	decoder, err := codepage.Get(1252)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected []byte
	}{
		{"plain", `"abc"`, []byte("abc")},
		{"doubled quote", `"a""b"`, []byte(`a"b`)},
		{"tab and newline", `"a\tb\n"`, []byte("a\tb\n")},
		{"rc quirk: backslash-a is backspace", `"\a"`, []byte{0x08}},
		{"hex escape", `"\x41"`, []byte("A")},
		{"octal escape", `"\101"`, []byte("A")},
		{"backslash", `"a\\b"`, []byte(`a\b`)},
		{"unrecognized escape kept verbatim", `"\z"`, []byte(`\z`)},
		{"hex escape wraps to a byte", `"\xFF"`, []byte{0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStringLiteralBytes([]byte(tt.input), decoder)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseStringLiteralUTF16(t *testing.T) {
	decoder, err := codepage.Get(1252)
	assert.NoError(t, err)

	units := ParseStringLiteralUTF16([]byte(`"AB"`), decoder, false)
	assert.Equal(t, []uint16{'A', 'B'}, units)

	// 0xE9 decodes through 1252 to é.
	units = ParseStringLiteralUTF16([]byte("\"\xE9\""), decoder, false)
	assert.Equal(t, []uint16{0x00E9}, units)

	// Wide strings accept 4 hex digits.
	units = ParseStringLiteralUTF16([]byte(`L"\x2603"`), decoder, true)
	assert.Equal(t, []uint16{0x2603}, units)

	// Narrow strings cap hex escapes at 2 digits.
	units = ParseStringLiteralUTF16([]byte(`"\x263"`), decoder, false)
	assert.Equal(t, []uint16{0x26, '3'}, units)
}
