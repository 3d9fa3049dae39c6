package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lang"
	"github.com/resbuild/resc/lexer"
)

// Sentinel errors
var (
	// ErrParseFailed indicates one or more parse errors were recorded; the
	// file cannot be compiled but diagnostics were still collected.
	ErrParseFailed = errors.New("parse failed")
	// errRecoverable marks an error the parser can resynchronize from.
	errRecoverable = errors.New("recoverable parse error")
)

// maxParseErrors bounds diagnostic collection after the first parse error.
const maxParseErrors = 20

// Parser consumes tokens and produces a File.
type Parser struct {
	lx       *lexer.Lexer
	src      []byte
	diags    *diagnostics.Collection
	tok      lexer.Token
	errCount int
}

// Parse runs the parser over the lexer's token stream. The returned error is
// ErrParseFailed when any parse error was recorded; the partial File is still
// returned for tooling that wants it.
func Parse(lx *lexer.Lexer, diags *diagnostics.Collection) (*File, error) {
	p := &Parser{lx: lx, src: lx.Source(), diags: diags}
	if err := p.advance(); err != nil {
		return nil, err
	}

	file := &File{}
	hadError := false

	for p.tok.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			hadError = true
			p.errCount++
			if p.errCount >= maxParseErrors || !errors.Is(err, errRecoverable) {
				break
			}
			if err := p.resync(); err != nil {
				break
			}
			continue
		}
		file.Statements = append(file.Statements, stmt)
	}

	if hadError {
		return file, ErrParseFailed
	}
	return file, nil
}

// advance pulls the next token. Lexical errors have already been recorded as
// diagnostics; they halt parsing entirely.
func (p *Parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) slice() []byte {
	return p.tok.Slice(p.src)
}

func (p *Parser) isKeyword(k string) bool {
	return p.tok.MatchesLiteral(p.src, k)
}

func (p *Parser) span() diagnostics.Span {
	return diagnostics.Span{Start: p.tok.Start, End: p.tok.End, Line: p.tok.LineNumber}
}

func (p *Parser) expectedToken(expected string) error {
	p.diags.Add(diagnostics.Record{
		Kind:  diagnostics.KindError,
		Code:  diagnostics.ExpectedToken,
		Span:  p.span(),
		Extra: diagnostics.ExpectedTokenExtra{Expected: expected, Found: p.tok.NameForDisplay(p.src)},
	})
	return fmt.Errorf("expected %s: %w", expected, errRecoverable)
}

func (p *Parser) expectedSomethingElse(alternatives ...string) error {
	p.diags.Add(diagnostics.Record{
		Kind:  diagnostics.KindError,
		Code:  diagnostics.ExpectedSomethingElse,
		Span:  p.span(),
		Extra: diagnostics.ExpectedTypesExtra{Types: alternatives, Found: p.tok.NameForDisplay(p.src)},
	})
	return fmt.Errorf("expected %s: %w", strings.Join(alternatives, " or "), errRecoverable)
}

func (p *Parser) expect(t lexer.TokenType) error {
	if p.tok.Type != t {
		return p.expectedToken(t.String())
	}
	return p.advance()
}

// eatComma consumes an optional comma; rc.exe accepts both styles in most
// list positions.
func (p *Parser) eatComma() error {
	if p.tok.Type == lexer.COMMA {
		return p.advance()
	}
	return nil
}

func (p *Parser) expectComma() error {
	if p.tok.Type != lexer.COMMA {
		return p.expectedToken(lexer.COMMA.String())
	}
	return p.advance()
}

func (p *Parser) expectBlockOpen() (lexer.Token, error) {
	if !p.tok.IsBlockOpen() {
		return lexer.Token{}, p.expectedSomethingElse("'{'", "BEGIN")
	}
	open := p.tok
	return open, p.advance()
}

// resync skips tokens until a plausible statement boundary: a block close at
// nesting depth zero, or EOF.
func (p *Parser) resync() error {
	depth := 0
	for p.tok.Type != lexer.EOF {
		switch {
		case p.tok.IsBlockOpen():
			depth++
		case p.tok.IsBlockClose():
			if depth <= 1 {
				return p.advance()
			}
			depth--
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch {
	case p.isKeyword("LANGUAGE"):
		return p.parseLanguageStatement()
	case p.isKeyword("VERSION"):
		tok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &VersionStatement{Tok: tok, Value: e.Value}, nil
	case p.isKeyword("CHARACTERISTICS"):
		tok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &CharacteristicsStatement{Tok: tok, Value: e.Value}, nil
	case p.isKeyword("STRINGTABLE"):
		return p.parseStringTable()
	default:
		return p.parseResource()
	}
}

func (p *Parser) parseLanguageStatement() (Statement, error) {
	tok := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	primary, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectComma(); err != nil {
		return nil, err
	}
	sub, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &LanguageStatement{Tok: tok, ID: lang.ID(uint16(primary.Value), uint16(sub.Value))}, nil
}

// parseNameID reads a resource name or type.
func (p *Parser) parseNameID() (NameID, error) {
	tok := p.tok
	switch tok.Type {
	case lexer.NUMBER:
		value := lexer.ParseNumberLiteral(tok.Slice(p.src))
		if err := p.advance(); err != nil {
			return NameID{}, err
		}
		return NameID{Tok: tok, IsOrdinal: true, Ordinal: uint16(value)}, nil
	case lexer.LITERAL:
		name := string(tok.Slice(p.src))
		if err := p.advance(); err != nil {
			return NameID{}, err
		}
		return NameID{Tok: tok, Name: name}, nil
	case lexer.QUOTED_ASCII_STRING, lexer.QUOTED_WIDE_STRING:
		body := tok.Slice(p.src)
		name := string(body)
		name = strings.TrimPrefix(name, "L")
		name = strings.Trim(name, `"`)
		if err := p.advance(); err != nil {
			return NameID{}, err
		}
		return NameID{Tok: tok, Name: name}, nil
	default:
		return NameID{}, p.expectedSomethingElse("number", "identifier")
	}
}

// memoryFlagKeywords maps option keywords to flags.
var memoryFlagKeywords = map[string]MemoryFlag{
	"MOVEABLE":    MemoryMoveable,
	"FIXED":       MemoryFixed,
	"PURE":        MemoryPure,
	"IMPURE":      MemoryImpure,
	"PRELOAD":     MemoryPreload,
	"LOADONCALL":  MemoryLoadOnCall,
	"DISCARDABLE": MemoryDiscardable,
	"SHARED":      MemoryShared,
	"NONSHARED":   MemoryNonShared,
}

// parseCommonOptions reads the memory flag / LANGUAGE / VERSION /
// CHARACTERISTICS statements allowed between a resource's type and body.
func (p *Parser) parseCommonOptions(opts *CommonOptions) error {
	for p.tok.Type == lexer.LITERAL {
		upper := strings.ToUpper(string(p.slice()))
		if flag, ok := memoryFlagKeywords[upper]; ok {
			opts.MemoryFlags = append(opts.MemoryFlags, flag)
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		switch upper {
		case "LANGUAGE":
			if err := p.advance(); err != nil {
				return err
			}
			primary, err := p.parseExpression()
			if err != nil {
				return err
			}
			if err := p.expectComma(); err != nil {
				return err
			}
			sub, err := p.parseExpression()
			if err != nil {
				return err
			}
			id := lang.ID(uint16(primary.Value), uint16(sub.Value))
			opts.Language = &id
		case "VERSION":
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.parseExpression()
			if err != nil {
				return err
			}
			opts.Version = &e.Value
		case "CHARACTERISTICS":
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.parseExpression()
			if err != nil {
				return err
			}
			opts.Characteristics = &e.Value
		default:
			return nil
		}
	}
	return nil
}

// fileOnlyTypes are predefined types whose body must come from a file; a raw
// data block is an error for them.
var fileOnlyTypes = map[string]bool{
	"ICON":      true,
	"CURSOR":    true,
	"BITMAP":    true,
	"FONT":      true,
	"FONTDIR":   true,
	"ANICURSOR": true,
	"ANIICON":   true,
}

// ordinalIDTypes require the resource name to be an ordinal.
var ordinalIDTypes = map[string]bool{
	"FONT":    true,
	"FONTDIR": true,
}

func (p *Parser) parseResource() (Statement, error) {
	name, err := p.parseNameID()
	if err != nil {
		return nil, err
	}
	typ, err := p.parseNameID()
	if err != nil {
		return nil, err
	}

	res := &Resource{Name: name, Type: typ}

	upperType := strings.ToUpper(typ.Name)
	if !typ.IsOrdinal && ordinalIDTypes[upperType] && !name.IsOrdinal {
		p.diags.Add(diagnostics.Record{
			Kind:  diagnostics.KindError,
			Code:  diagnostics.IDMustBeOrdinal,
			Span:  diagnostics.Span{Start: name.Tok.Start, End: name.Tok.End, Line: name.Tok.LineNumber},
			Extra: diagnostics.ResourceTypeExtra{Name: upperType},
		})
		return nil, fmt.Errorf("id must be ordinal: %w", errRecoverable)
	}

	if !typ.IsOrdinal {
		switch upperType {
		case "DIALOG", "DIALOGEX":
			if err := p.parseCommonOptions(&res.Options); err != nil {
				return nil, err
			}
			body, err := p.parseDialog(upperType == "DIALOGEX", &res.Options)
			if err != nil {
				return nil, err
			}
			res.Body = body
			return res, nil
		case "MENU", "MENUEX":
			if err := p.parseCommonOptions(&res.Options); err != nil {
				return nil, err
			}
			body, err := p.parseMenu(upperType == "MENUEX")
			if err != nil {
				return nil, err
			}
			res.Body = body
			return res, nil
		case "ACCELERATORS":
			if err := p.parseCommonOptions(&res.Options); err != nil {
				return nil, err
			}
			body, err := p.parseAccelerators()
			if err != nil {
				return nil, err
			}
			res.Body = body
			return res, nil
		case "VERSIONINFO":
			body, err := p.parseVersionInfo(&res.Options)
			if err != nil {
				return nil, err
			}
			res.Body = body
			return res, nil
		}
	}

	if err := p.parseCommonOptions(&res.Options); err != nil {
		return nil, err
	}

	fileOnly := !typ.IsOrdinal && fileOnlyTypes[upperType]
	if p.tok.IsBlockOpen() {
		if fileOnly {
			p.diags.Add(diagnostics.Record{
				Kind:  diagnostics.KindError,
				Code:  diagnostics.ResourceTypeCantUseRawData,
				Span:  p.span(),
				Extra: diagnostics.ResourceTypeExtra{Name: upperType},
			})
			return nil, fmt.Errorf("raw data not allowed: %w", errRecoverable)
		}
		body, err := p.parseRawDataBlock()
		if err != nil {
			return nil, err
		}
		res.Body = body
		return res, nil
	}

	// Anything else is a filename; grow the token through filename bytes the
	// normal lexing mode would have split on.
	switch p.tok.Type {
	case lexer.QUOTED_ASCII_STRING, lexer.QUOTED_WIDE_STRING:
		res.Body = &FileBody{FilenameTok: p.tok}
	case lexer.LITERAL, lexer.NUMBER:
		res.Body = &FileBody{FilenameTok: p.lx.ExtendAsFilename(p.tok)}
	default:
		return nil, p.expectedSomethingElse("filename", "'{'", "BEGIN")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return res, nil
}

// parseRawDataBlock reads { item [,] item ... } where items are strings or
// numeric expressions.
func (p *Parser) parseRawDataBlock() (*RawDataBody, error) {
	open, err := p.expectBlockOpen()
	if err != nil {
		return nil, err
	}
	body := &RawDataBody{OpenTok: open}
	for {
		if p.tok.Type == lexer.EOF {
			p.diags.Add(diagnostics.Record{
				Kind: diagnostics.KindError,
				Code: diagnostics.UnfinishedRawDataBlock,
				Span: diagnostics.Span{Start: open.Start, End: open.End, Line: open.LineNumber},
			})
			return nil, fmt.Errorf("unfinished raw data block: %w", errRecoverable)
		}
		if p.tok.IsBlockClose() {
			return body, p.advance()
		}
		item, err := p.parseDataItem()
		if err != nil {
			return nil, err
		}
		body.Items = append(body.Items, item)
		if err := p.eatComma(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseDataItem() (DataItem, error) {
	switch p.tok.Type {
	case lexer.QUOTED_ASCII_STRING:
		item := DataItem{IsString: true, StringTok: p.tok}
		return item, p.advance()
	case lexer.QUOTED_WIDE_STRING:
		item := DataItem{IsString: true, StringTok: p.tok, Wide: true}
		return item, p.advance()
	default:
		e, err := p.parseExpression()
		if err != nil {
			return DataItem{}, err
		}
		return DataItem{Number: e}, nil
	}
}

// parseStringTable reads STRINGTABLE [options] { id [,] "string" ... }.
func (p *Parser) parseStringTable() (Statement, error) {
	typeTok := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	res := &Resource{
		Type: NameID{Tok: typeTok, Name: "STRINGTABLE"},
	}
	if err := p.parseCommonOptions(&res.Options); err != nil {
		return nil, err
	}
	open, err := p.expectBlockOpen()
	if err != nil {
		return nil, err
	}
	body := &StringTableBody{}
	for {
		if p.tok.Type == lexer.EOF {
			p.diags.Add(diagnostics.Record{
				Kind: diagnostics.KindError,
				Code: diagnostics.UnfinishedStringTableBlock,
				Span: diagnostics.Span{Start: open.Start, End: open.End, Line: open.LineNumber},
			})
			return nil, fmt.Errorf("unfinished string table block: %w", errRecoverable)
		}
		if p.tok.IsBlockClose() {
			res.Body = body
			return res, p.advance()
		}
		idTok := p.tok
		id, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.eatComma(); err != nil {
			return nil, err
		}
		if p.tok.Type != lexer.QUOTED_ASCII_STRING && p.tok.Type != lexer.QUOTED_WIDE_STRING {
			return nil, p.expectedToken("quoted string")
		}
		entry := StringTableEntry{
			IDTok:     idTok,
			ID:        uint16(id.Value),
			StringTok: p.tok,
			Wide:      p.tok.Type == lexer.QUOTED_WIDE_STRING,
		}
		body.Entries = append(body.Entries, entry)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseExpression evaluates a numeric expression as u32 with wrap on
// overflow.
func (p *Parser) parseExpression() (Expression, error) {
	e, err := p.parseTerm()
	if err != nil {
		return Expression{}, err
	}
	for {
		var op lexer.TokenType
		switch p.tok.Type {
		case lexer.PLUS, lexer.MINUS, lexer.AMPERSAND, lexer.PIPE:
			op = p.tok.Type
		default:
			return e, nil
		}
		if err := p.advance(); err != nil {
			return Expression{}, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return Expression{}, err
		}
		switch op {
		case lexer.PLUS:
			e.Value += rhs.Value
		case lexer.MINUS:
			e.Value -= rhs.Value
		case lexer.AMPERSAND:
			e.Value &= rhs.Value
		case lexer.PIPE:
			e.Value |= rhs.Value
		}
		e.IsLong = e.IsLong || rhs.IsLong
	}
}

func (p *Parser) parseTerm() (Expression, error) {
	switch p.tok.Type {
	case lexer.NUMBER:
		slice := p.slice()
		e := Expression{
			Value:    lexer.ParseNumberLiteral(slice),
			IsLong:   slice[len(slice)-1] == 'L' || slice[len(slice)-1] == 'l',
			FirstTok: p.tok,
		}
		return e, p.advance()
	case lexer.MINUS:
		tok := p.tok
		if err := p.advance(); err != nil {
			return Expression{}, err
		}
		e, err := p.parseTerm()
		if err != nil {
			return Expression{}, err
		}
		e.Value = -e.Value
		e.FirstTok = tok
		return e, nil
	case lexer.TILDE:
		tok := p.tok
		if err := p.advance(); err != nil {
			return Expression{}, err
		}
		e, err := p.parseTerm()
		if err != nil {
			return Expression{}, err
		}
		e.Value = ^e.Value
		e.FirstTok = tok
		return e, nil
	case lexer.OPEN_PAREN:
		if err := p.advance(); err != nil {
			return Expression{}, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return Expression{}, err
		}
		if err := p.expect(lexer.CLOSE_PAREN); err != nil {
			return Expression{}, err
		}
		return e, nil
	default:
		return Expression{}, p.expectedSomethingElse("number")
	}
}

// parseFlags reads a style expression: [NOT] term separated by | or +.
func (p *Parser) parseFlags() (FlagsExpression, error) {
	f := FlagsExpression{}
	for {
		if p.isKeyword("NOT") {
			if err := p.advance(); err != nil {
				return f, err
			}
			e, err := p.parseTerm()
			if err != nil {
				return f, err
			}
			f.NotMask |= e.Value
			f.Value &^= e.Value
		} else {
			e, err := p.parseTerm()
			if err != nil {
				return f, err
			}
			f.Value |= e.Value
		}
		if p.tok.Type == lexer.PIPE || p.tok.Type == lexer.PLUS {
			if err := p.advance(); err != nil {
				return f, err
			}
			continue
		}
		return f, nil
	}
}
