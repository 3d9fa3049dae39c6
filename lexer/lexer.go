package lexer

import (
	"github.com/resbuild/resc/codepage"
	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/preprocess"
)

// DefaultMaxStringLiteralCodepoints is rc.exe's limit when /SL is not given.
const DefaultMaxStringLiteralCodepoints = 4097

// Options configures a Lexer.
type Options struct {
	// MaxStringLiteralCodepoints caps string literal length; 0 means the
	// rc.exe default.
	MaxStringLiteralCodepoints int
	// DefaultCodePage governs how narrow string bytes decode; 0 means 1252.
	DefaultCodePage uint32
	// Pragmas are the #pragma code_page directives collected during
	// preprocessing, in source order.
	Pragmas []preprocess.CodePagePragma
	// DemoteCodePageErrors turns invalid code page errors into warnings (/w).
	DemoteCodePageErrors bool
}

// Lexer produces tokens on demand from a source buffer it does not own.
type Lexer struct {
	src   []byte
	pos   int
	line  int
	diags *diagnostics.Collection

	maxCodepoints   int
	defaultCodePage uint32
	decoder         codepage.Decoder
	pragmas         []preprocess.CodePagePragma
	pragmaIdx       int
	demoteCodePage  bool
}

// New returns a Lexer over src appending diagnostics to diags.
func New(src []byte, diags *diagnostics.Collection, opts Options) *Lexer {
	maxCodepoints := opts.MaxStringLiteralCodepoints
	if maxCodepoints == 0 {
		maxCodepoints = DefaultMaxStringLiteralCodepoints
	}
	cp := opts.DefaultCodePage
	if cp == 0 {
		cp = codepage.Windows1252
	}
	decoder, err := codepage.Get(cp)
	if err != nil {
		decoder, _ = codepage.Get(codepage.Windows1252)
	}
	return &Lexer{
		src:             src,
		line:            1,
		diags:           diags,
		maxCodepoints:   maxCodepoints,
		defaultCodePage: cp,
		decoder:         decoder,
		pragmas:         opts.Pragmas,
		demoteCodePage:  opts.DemoteCodePageErrors,
	}
}

// Source returns the buffer tokens point into.
func (l *Lexer) Source() []byte {
	return l.src
}

func illegalEverywhere(b byte) bool {
	return b == 0x00 || b == 0x1A
}

func illegalOutsideStrings(b byte) bool {
	return b <= 0x08 || (b >= 0x0E && b <= 0x1F) || b == 0x7F
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// isLiteralDelimiter reports whether b ends an unquoted literal run in
// normal lexing.
func isLiteralDelimiter(b byte) bool {
	switch b {
	case '"', '{', '}', '(', ')', ',', '=', '+', '-', '|', '&', '~':
		return true
	}
	return isWhitespace(b) || illegalOutsideStrings(b)
}

// applyPragmas activates every code_page pragma whose line has been reached.
// An invalid code page is an error (warning under /w) and leaves the active
// decoder unchanged.
func (l *Lexer) applyPragmas() {
	for l.pragmaIdx < len(l.pragmas) && l.pragmas[l.pragmaIdx].Line <= l.line {
		pragma := l.pragmas[l.pragmaIdx]
		l.pragmaIdx++
		if pragma.IsDefault {
			l.decoder, _ = codepage.Get(l.defaultCodePage)
			continue
		}
		decoder, err := codepage.Get(pragma.Value)
		if err != nil {
			kind := diagnostics.KindError
			if l.demoteCodePage {
				kind = diagnostics.KindWarning
			}
			l.diags.Add(diagnostics.Record{
				Kind:  kind,
				Code:  diagnostics.InvalidCodePage,
				Span:  diagnostics.Span{Start: l.pos, End: l.pos, Line: l.line},
				Extra: diagnostics.NumberExtra{Value: pragma.Value},
			})
			continue
		}
		l.decoder = decoder
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isWhitespace(l.src[l.pos]) {
		if l.src[l.pos] == '\n' {
			l.line++
			l.applyPragmas()
		}
		l.pos++
	}
}

// Next returns the next token in normal lexing mode.
func (l *Lexer) Next() (Token, error) {
	l.applyPragmas()
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Start: l.pos, End: l.pos, LineNumber: l.line}, nil
	}

	start := l.pos
	b := l.src[l.pos]

	if illegalOutsideStrings(b) || illegalEverywhere(b) {
		code := diagnostics.IllegalByteOutsideStringLiterals
		if illegalEverywhere(b) {
			code = diagnostics.IllegalByte
		}
		l.diags.Add(diagnostics.Record{
			Kind:  diagnostics.KindError,
			Code:  code,
			Span:  diagnostics.Span{Start: start, End: start + 1, Line: l.line},
			Extra: diagnostics.NumberExtra{Value: uint32(b)},
		})
		return Token{}, ErrIllegalByte
	}

	switch b {
	case '{':
		return l.singleByteToken(OPEN_BRACE), nil
	case '}':
		return l.singleByteToken(CLOSE_BRACE), nil
	case ',':
		return l.singleByteToken(COMMA), nil
	case '(':
		return l.singleByteToken(OPEN_PAREN), nil
	case ')':
		return l.singleByteToken(CLOSE_PAREN), nil
	case '+':
		return l.singleByteToken(PLUS), nil
	case '-':
		return l.singleByteToken(MINUS), nil
	case '&':
		return l.singleByteToken(AMPERSAND), nil
	case '|':
		return l.singleByteToken(PIPE), nil
	case '~':
		return l.singleByteToken(TILDE), nil
	case '=':
		return l.singleByteToken(EQUALS), nil
	case '"':
		return l.lexString(start, false)
	}

	// L"..." is a wide string literal; any other leading L is a literal.
	if (b == 'L' || b == 'l') && l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
		l.pos++
		return l.lexString(start, true)
	}

	return l.lexLiteralRun(start), nil
}

func (l *Lexer) singleByteToken(t TokenType) Token {
	tok := Token{Type: t, Start: l.pos, End: l.pos + 1, LineNumber: l.line}
	l.pos++
	return tok
}

func (l *Lexer) lexLiteralRun(start int) Token {
	for l.pos < len(l.src) && !isLiteralDelimiter(l.src[l.pos]) {
		l.pos++
	}
	tok := Token{Type: LITERAL, Start: start, End: l.pos, LineNumber: l.line}
	slice := tok.Slice(l.src)
	switch {
	case slice[0] >= '0' && slice[0] <= '9':
		tok.Type = NUMBER
	case tok.MatchesLiteral(l.src, "BEGIN"):
		tok.Type = BEGIN
	case tok.MatchesLiteral(l.src, "END"):
		tok.Type = END
	}
	return tok
}

// lexString scans a quoted string. The opening quote is at l.pos; for wide
// strings the L prefix has been consumed and start points at it.
func (l *Lexer) lexString(start int, wide bool) (Token, error) {
	line := l.line
	l.pos++ // opening quote
	codepoints := 0

	for {
		if l.pos >= len(l.src) {
			l.diags.Add(diagnostics.Record{
				Kind: diagnostics.KindError,
				Code: diagnostics.UnfinishedStringLiteral,
				Span: diagnostics.Span{Start: start, End: l.pos, Line: line},
			})
			return Token{}, ErrUnfinishedStringLiteral
		}
		b := l.src[l.pos]
		switch {
		case b == '\n':
			l.diags.Add(diagnostics.Record{
				Kind: diagnostics.KindError,
				Code: diagnostics.UnfinishedStringLiteral,
				Span: diagnostics.Span{Start: start, End: l.pos, Line: line},
			})
			return Token{}, ErrUnfinishedStringLiteral
		case b == '\r':
			l.pos++
		case b == '"':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
				// "" is an escaped quote
				l.pos += 2
				codepoints++
				continue
			}
			l.pos++
			if codepoints > l.maxCodepoints {
				l.diags.Add(diagnostics.Record{
					Kind:  diagnostics.KindError,
					Code:  diagnostics.StringLiteralTooLong,
					Span:  diagnostics.Span{Start: start, End: l.pos, Line: line},
					Extra: diagnostics.NumberExtra{Value: uint32(l.maxCodepoints)},
				})
				return Token{}, ErrStringLiteralTooLong
			}
			t := QUOTED_ASCII_STRING
			if wide {
				t = QUOTED_WIDE_STRING
			}
			return Token{Type: t, Start: start, End: l.pos, LineNumber: line}, nil
		case b == '\\':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
				l.diags.Add(diagnostics.Record{
					Kind: diagnostics.KindError,
					Code: diagnostics.FoundCStyleEscapedQuote,
					Span: diagnostics.Span{Start: l.pos, End: l.pos + 2, Line: l.line},
				})
				return Token{}, ErrFoundCStyleEscapedQuote
			}
			l.consumeEscape(wide)
			codepoints++
		case illegalEverywhere(b):
			l.diags.Add(diagnostics.Record{
				Kind:  diagnostics.KindError,
				Code:  diagnostics.IllegalByte,
				Span:  diagnostics.Span{Start: l.pos, End: l.pos + 1, Line: l.line},
				Extra: diagnostics.NumberExtra{Value: uint32(b)},
			})
			return Token{}, ErrIllegalByte
		default:
			_, size := l.decoder.DecodeNext(l.src[l.pos:])
			l.pos += size
			codepoints++
		}
	}
}

// consumeEscape advances past an RC escape sequence, backslash included.
// The C-style \" case is rejected before this is called.
func (l *Lexer) consumeEscape(wide bool) {
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return
	}
	b := l.src[l.pos]
	switch b {
	case 'x', 'X':
		l.pos++
		maxDigits := 2
		if wide {
			maxDigits = 4
		}
		for i := 0; i < maxDigits && l.pos < len(l.src); i++ {
			if _, ok := digitValue(l.src[l.pos]); !ok {
				break
			}
			l.pos++
		}
	case '0', '1', '2', '3', '4', '5', '6', '7':
		maxDigits := 3
		if wide {
			maxDigits = 7
		}
		for i := 0; i < maxDigits && l.pos < len(l.src); i++ {
			if l.src[l.pos] < '0' || l.src[l.pos] > '7' {
				break
			}
			l.pos++
		}
	default:
		_, size := l.decoder.DecodeNext(l.src[l.pos:])
		l.pos += size
	}
}

// ExtendAsFilename grows a just-lexed unquoted token through filename bytes
// the normal mode would have split on (dashes, plus signs, parentheses). It
// only applies when the lexer has not moved past the token.
func (l *Lexer) ExtendAsFilename(tok Token) Token {
	if l.pos != tok.End {
		return tok
	}
	for l.pos < len(l.src) && !isWhitespace(l.src[l.pos]) && !illegalOutsideStrings(l.src[l.pos]) && l.src[l.pos] != '"' {
		l.pos++
	}
	if l.pos != tok.End {
		tok.Type = LITERAL
		tok.End = l.pos
	}
	return tok
}

// NextFilename lexes in filename context, where an unquoted run may contain
// bytes that would otherwise be delimiters (dashes, dots, path separators).
func (l *Lexer) NextFilename() (Token, error) {
	l.applyPragmas()
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Start: l.pos, End: l.pos, LineNumber: l.line}, nil
	}
	start := l.pos
	b := l.src[l.pos]
	if b == '"' {
		return l.lexString(start, false)
	}
	if (b == 'L' || b == 'l') && l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
		l.pos++
		return l.lexString(start, true)
	}
	for l.pos < len(l.src) && !isWhitespace(l.src[l.pos]) && !illegalOutsideStrings(l.src[l.pos]) {
		l.pos++
	}
	return Token{Type: LITERAL, Start: start, End: l.pos, LineNumber: l.line}, nil
}
