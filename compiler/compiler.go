package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	resc "github.com/resbuild/resc"
	"github.com/resbuild/resc/codepage"
	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
)

// ErrCompileFailed indicates error diagnostics were recorded during
// compilation; no usable output was produced.
var ErrCompileFailed = errors.New("compile failed")

// Options configures a compilation.
type Options struct {
	// DefaultLanguage attaches to records not covered by a LANGUAGE
	// statement; 0 means en-US.
	DefaultLanguage uint16
	// DefaultCodePage decodes narrow string literals; 0 means 1252.
	DefaultCodePage uint32
	// NullTerminateStringTable appends L'\0' to every non-empty STRINGTABLE
	// entry (/n).
	NullTerminateStringTable bool
	// SilenceDuplicateControlIDs suppresses duplicate control id warnings (/y).
	SilenceDuplicateControlIDs bool
	// IncludePaths is the merged resource file search path.
	IncludePaths []string
	// OnRecord, when set, observes each emitted record for verbose output.
	OnRecord func(typ, name NameOrOrdinal, language uint16, dataSize int)
}

type compiler struct {
	src   []byte
	diags *diagnostics.Collection
	opts  Options
	w     io.Writer

	decoder         codepage.Decoder
	language        uint16
	version         uint32
	characteristics uint32
	nextIconID      uint16
	strings         *stringTables
	hadError        bool
}

// Compile walks the AST and writes a complete .res stream, sentinel record
// included. Error diagnostics suppress nothing mid-walk (later resources
// still get checked) but make Compile return ErrCompileFailed.
func Compile(file *parser.File, src []byte, diags *diagnostics.Collection, opts Options, w io.Writer) error {
	language := opts.DefaultLanguage
	if language == 0 {
		language = 0x0409
	}
	cp := opts.DefaultCodePage
	if cp == 0 {
		cp = codepage.Windows1252
	}
	decoder, err := codepage.Get(cp)
	if err != nil {
		decoder, _ = codepage.Get(codepage.Windows1252)
	}

	c := &compiler{
		src:        src,
		diags:      diags,
		opts:       opts,
		w:          w,
		decoder:    decoder,
		language:   language,
		nextIconID: 1,
		strings:    newStringTables(),
	}

	if err := WriteSentinel(w); err != nil {
		return err
	}

	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *parser.LanguageStatement:
			c.language = s.ID
		case *parser.VersionStatement:
			c.version = s.Value
		case *parser.CharacteristicsStatement:
			c.characteristics = s.Value
		case *parser.Resource:
			if err := c.compileResource(s); err != nil {
				return err
			}
		}
	}

	if err := c.strings.emit(c); err != nil {
		return err
	}

	if c.hadError || c.diags.HasError() {
		return ErrCompileFailed
	}
	return nil
}

func (c *compiler) errorAt(tok lexer.Token, code diagnostics.Code, extra diagnostics.Extra) {
	c.hadError = true
	c.diags.Add(diagnostics.Record{
		Kind:  diagnostics.KindError,
		Code:  code,
		Span:  diagnostics.Span{Start: tok.Start, End: tok.End, Line: tok.LineNumber},
		Extra: extra,
	})
}

func (c *compiler) warnAt(tok lexer.Token, code diagnostics.Code, extra diagnostics.Extra) {
	c.diags.Add(diagnostics.Record{
		Kind:  diagnostics.KindWarning,
		Code:  code,
		Span:  diagnostics.Span{Start: tok.Start, End: tok.End, Line: tok.LineNumber},
		Extra: extra,
	})
}

func (c *compiler) noteAt(tok lexer.Token, code diagnostics.Code, extra diagnostics.Extra) {
	c.diags.Add(diagnostics.Record{
		Kind:  diagnostics.KindNote,
		Code:  code,
		Span:  diagnostics.Span{Start: tok.Start, End: tok.End, Line: tok.LineNumber},
		Extra: extra,
	})
}

// typeOrdinals maps predefined type keywords to RT_* ordinals.
var typeOrdinals = map[string]uint16{
	"CURSOR":       RTCursor,
	"BITMAP":       RTBitmap,
	"ICON":         RTIcon,
	"MENU":         RTMenu,
	"MENUEX":       RTMenu,
	"DIALOG":       RTDialog,
	"DIALOGEX":     RTDialog,
	"STRINGTABLE":  RTString,
	"FONTDIR":      RTFontDir,
	"FONT":         RTFont,
	"ACCELERATORS": RTAccelerator,
	"RCDATA":       RTRCData,
	"MESSAGETABLE": RTMessageTable,
	"VERSIONINFO":  RTVersion,
	"DLGINCLUDE":   RTDlgInclude,
	"PLUGPLAY":     RTPlugPlay,
	"VXD":          RTVxd,
	"ANICURSOR":    RTAniCursor,
	"ANIICON":      RTAniIcon,
	"HTML":         RTHTML,
	"MANIFEST":     RTManifest,
}

func (c *compiler) resolveType(t parser.NameID) (NameOrOrdinal, bool) {
	if t.IsOrdinal {
		if t.Ordinal == RTString {
			c.errorAt(t.Tok, diagnostics.StringResourceAsNumericType, nil)
			return NameOrOrdinal{}, false
		}
		return Ordinal(t.Ordinal), true
	}
	if ord, ok := typeOrdinals[strings.ToUpper(t.Name)]; ok {
		return Ordinal(ord), true
	}
	return Name(t.Name), true
}

func nameID(n parser.NameID) NameOrOrdinal {
	if n.IsOrdinal {
		return Ordinal(n.Ordinal)
	}
	return Name(n.Name)
}

func defaultMemoryFlags(typ NameOrOrdinal) uint16 {
	if typ.IsOrdinal {
		switch typ.Ordinal {
		case RTIcon, RTCursor:
			return MemFlagMoveable | MemFlagDiscardable
		case RTGroupIcon, RTGroupCursor:
			return MemFlagMoveable | MemFlagPure | MemFlagDiscardable
		}
	}
	return MemFlagMoveable | MemFlagPure
}

func applyMemoryFlags(base uint16, flags []parser.MemoryFlag) uint16 {
	for _, f := range flags {
		switch f {
		case parser.MemoryMoveable:
			base |= MemFlagMoveable
		case parser.MemoryFixed:
			base &^= MemFlagMoveable | MemFlagDiscardable
		case parser.MemoryPure, parser.MemoryShared:
			base |= MemFlagPure
		case parser.MemoryImpure, parser.MemoryNonShared:
			base &^= MemFlagPure
		case parser.MemoryPreload:
			base |= MemFlagPreload
		case parser.MemoryLoadOnCall:
			base &^= MemFlagPreload
		case parser.MemoryDiscardable:
			base |= MemFlagDiscardable | MemFlagMoveable
		}
	}
	return base
}

// resourceLanguage picks the resource-level override or the running default.
func (c *compiler) resourceLanguage(opts *parser.CommonOptions) uint16 {
	if opts.Language != nil {
		return *opts.Language
	}
	return c.language
}

func (c *compiler) headerValues(opts *parser.CommonOptions) (version, characteristics uint32) {
	version = c.version
	characteristics = c.characteristics
	if opts.Version != nil {
		version = *opts.Version
	}
	if opts.Characteristics != nil {
		characteristics = *opts.Characteristics
	}
	return version, characteristics
}

func (c *compiler) emit(r *Record) error {
	if c.opts.OnRecord != nil {
		c.opts.OnRecord(r.Type, r.Name, r.Language, len(r.Data))
	}
	return r.Write(c.w)
}

func (c *compiler) compileResource(res *parser.Resource) error {
	if body, ok := res.Body.(*parser.StringTableBody); ok {
		c.strings.add(c, res, body)
		return nil
	}

	typ, ok := c.resolveType(res.Type)
	if !ok {
		return nil
	}

	version, characteristics := c.headerValues(&res.Options)
	record := &Record{
		Type:            typ,
		Name:            nameID(res.Name),
		MemoryFlags:     applyMemoryFlags(defaultMemoryFlags(typ), res.Options.MemoryFlags),
		Language:        c.resourceLanguage(&res.Options),
		Version:         version,
		Characteristics: characteristics,
	}

	switch body := res.Body.(type) {
	case *parser.RawDataBody:
		record.Data = c.rawData(body)
	case *parser.FileBody:
		return c.compileFileResource(res, record, body)
	case *parser.DialogBody:
		record.Data = c.serializeDialog(body)
	case *parser.MenuBody:
		record.Data = serializeMenu(c, body)
	case *parser.AcceleratorsBody:
		record.Data = serializeAccelerators(body)
	case *parser.VersionInfoBody:
		record.Data = c.serializeVersionInfo(body)
	default:
		return nil
	}

	return c.emit(record)
}

// rawData flattens a raw data block: narrow strings contribute their bytes,
// wide strings UTF-16LE units, numbers a WORD or (with the L suffix) a DWORD.
func (c *compiler) rawData(body *parser.RawDataBody) []byte {
	var w buffer
	for _, item := range body.Items {
		switch {
		case item.IsString && item.Wide:
			units := lexer.ParseStringLiteralUTF16(item.StringTok.Slice(c.src), c.decoder, true)
			w.units(units)
		case item.IsString:
			w.raw(lexer.ParseStringLiteralBytes(item.StringTok.Slice(c.src), c.decoder))
		case item.Number.IsLong:
			w.u32(item.Number.Value)
		default:
			w.u16(uint16(item.Number.Value))
		}
	}
	return w.b
}

// resolveFile searches the working directory and the include paths.
func (c *compiler) resolveFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, dir := range c.opts.IncludePaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", resc.ErrFileNotFound, name)
}

func (c *compiler) compileFileResource(res *parser.Resource, record *Record, body *parser.FileBody) error {
	filename := c.filenameFromToken(body.FilenameTok)
	path, err := c.resolveFile(filename)
	if err != nil {
		c.errorAt(body.FilenameTok, diagnostics.FileOpenError, diagnostics.StringExtra{Value: filename})
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.errorAt(body.FilenameTok, diagnostics.FileOpenError, diagnostics.StringExtra{Value: err.Error()})
		return nil
	}

	if record.Type.IsOrdinal {
		switch record.Type.Ordinal {
		case RTIcon:
			return c.compileIconOrCursor(res, record, body, data, false)
		case RTCursor:
			return c.compileIconOrCursor(res, record, body, data, true)
		case RTBitmap:
			record.Data = stripBitmapFileHeader(data)
			return c.emit(record)
		case RTManifest:
			c.checkManifest(body.FilenameTok, data)
		}
	}

	record.Data = data
	return c.emit(record)
}

// filenameFromToken extracts the filename from a quoted or bare token.
func (c *compiler) filenameFromToken(tok lexer.Token) string {
	slice := tok.Slice(c.src)
	if tok.Type == lexer.QUOTED_ASCII_STRING || tok.Type == lexer.QUOTED_WIDE_STRING {
		return string(lexer.ParseStringLiteralBytes(slice, c.decoder))
	}
	return string(slice)
}
