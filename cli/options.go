// Package cli parses the rc.exe-compatible command line: slash options,
// case-insensitive names, packed single-letter runs, and values glued to
// their option.
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/resbuild/resc/codepage"
	"github.com/resbuild/resc/lang"
)

// Sentinel errors
var (
	// ErrParseFailed indicates option parsing recorded at least one error.
	ErrParseFailed = errors.New("option parsing failed")
)

// maxStringLiteralBase is the length /SL percentages scale.
const maxStringLiteralBase = 8192

// defaultMaxStringLiteral is rc.exe's limit when /SL is absent.
const defaultMaxStringLiteral = 4097

// SymbolAction says what the command line did to a preprocessor symbol.
type SymbolAction int

const (
	SymbolDefine SymbolAction = iota
	SymbolUndefine
)

// SymbolValue is the final state of one /D or /U symbol. Undefine is sticky:
// once a symbol is undefined, later defines of it are ignored.
type SymbolValue struct {
	Action SymbolAction
	Value  string
}

// Options is the parsed command line.
type Options struct {
	InputFilename              string
	OutputFilename             string
	ExtraIncludePaths          []string
	IgnoreIncludeEnvVar        bool
	Preprocess                 bool
	DefaultLanguage            uint16
	DefaultCodePage            uint32
	Verbose                    bool
	Symbols                    map[string]SymbolValue
	MaxStringLiteralCodepoints int
	NullTerminateStringTable   bool
	SilenceDuplicateControlIDs bool
	WarnInsteadOfError         bool
	NoLogo                     bool
}

// optionNames is matched longest-prefix-first, so multi-letter names win
// over packed single letters.
var optionNames = []string{
	"no-preprocess", "nologo", "fo", "sl", "ln",
	"l", "c", "v", "x", "i", "r", "n", "y", "w", "d", "u",
}

var valueTakingOptions = map[string]bool{
	"fo": true, "sl": true, "ln": true,
	"l": true, "c": true, "i": true, "d": true, "u": true,
}

type argParser struct {
	args  []string
	diags *Diagnostics
	opts  *Options

	foArgIndex int // argv index of the /fo that set OutputFilename, -1 if none
}

// Defaults seeds option parsing with project-level configuration; zero
// values fall back to the rc.exe defaults.
type Defaults struct {
	Language                 uint16
	CodePage                 uint32
	IncludePaths             []string
	Verbose                  bool
	NullTerminateStringTable bool
}

// Parse scans args (without the program name) into Options, appending CLI
// diagnostics to diags. The returned error is ErrParseFailed when any error
// diagnostic was recorded; the partial Options is still returned.
func Parse(args []string, diags *Diagnostics) (*Options, error) {
	return ParseWithDefaults(args, diags, Defaults{})
}

// ParseWithDefaults is Parse with configuration-supplied defaults.
func ParseWithDefaults(args []string, diags *Diagnostics, def Defaults) (*Options, error) {
	language := def.Language
	if language == 0 {
		language = lang.DefaultLanguage
	}
	cp := def.CodePage
	if cp == 0 {
		cp = codepage.Windows1252
	}
	p := &argParser{
		args:  args,
		diags: diags,
		opts: &Options{
			Preprocess:                 true,
			DefaultLanguage:            language,
			DefaultCodePage:            cp,
			ExtraIncludePaths:          append([]string(nil), def.IncludePaths...),
			Verbose:                    def.Verbose,
			NullTerminateStringTable:   def.NullTerminateStringTable,
			Symbols:                    make(map[string]SymbolValue),
			MaxStringLiteralCodepoints: defaultMaxStringLiteral,
		},
		foArgIndex: -1,
	}
	p.run()

	if p.opts.InputFilename == "" {
		diags.addError(len(args), ArgSpan{}, false, "missing input filename")
	}
	if p.opts.OutputFilename == "" && p.opts.InputFilename != "" {
		base := p.opts.InputFilename
		ext := filepath.Ext(base)
		p.opts.OutputFilename = strings.TrimSuffix(base, ext) + ".res"
	}

	if diags.HasError() {
		return p.opts, ErrParseFailed
	}
	return p.opts, nil
}

func (p *argParser) run() {
	positionals := 0
	optionsDone := false
	for i := 0; i < len(p.args); i++ {
		arg := p.args[i]
		if !optionsDone {
			if arg == "--" {
				optionsDone = true
				continue
			}
			prefixLen := optionPrefixLen(arg)
			if prefixLen > 0 && len(arg) > prefixLen {
				i = p.parseOptionArg(i, prefixLen)
				continue
			}
		}
		p.parsePositional(i, positionals)
		positionals++
	}
}

func optionPrefixLen(arg string) int {
	switch {
	case strings.HasPrefix(arg, "--"):
		return 2
	case strings.HasPrefix(arg, "-"), strings.HasPrefix(arg, "/"):
		return 1
	default:
		return 0
	}
}

// parseOptionArg consumes every option packed into one argv entry, and
// returns the index of the last argv entry consumed (the value may come from
// the next one).
func (p *argParser) parseOptionArg(argIndex, prefixLen int) int {
	arg := p.args[argIndex]
	pos := prefixLen
	for pos < len(arg) {
		rest := strings.ToLower(arg[pos:])
		name := ""
		for _, candidate := range optionNames {
			if strings.HasPrefix(rest, candidate) {
				name = candidate
				break
			}
		}
		if name == "" {
			p.diags.addError(argIndex, ArgSpan{PrefixLen: prefixLen, NameOffset: pos}, true,
				"invalid option: %s", arg[pos:])
			return argIndex
		}

		if !valueTakingOptions[name] {
			p.applyFlag(name)
			pos += len(name)
			continue
		}

		valueOffset := pos + len(name)
		if valueOffset < len(arg) {
			p.applyValue(name, arg[valueOffset:], argIndex, ArgSpan{PrefixLen: prefixLen, NameOffset: pos, ValueOffset: valueOffset})
			return argIndex
		}
		if argIndex+1 >= len(p.args) {
			p.diags.addError(argIndex, ArgSpan{PrefixLen: prefixLen, NameOffset: pos, PointAtNextArg: true}, true,
				"missing value after %s option", arg)
			return argIndex
		}
		p.applyValue(name, p.args[argIndex+1], argIndex+1, ArgSpan{})
		return argIndex + 1
	}
	return argIndex
}

func (p *argParser) applyFlag(name string) {
	switch name {
	case "v":
		p.opts.Verbose = true
	case "x":
		p.opts.IgnoreIncludeEnvVar = true
	case "n":
		p.opts.NullTerminateStringTable = true
	case "y":
		p.opts.SilenceDuplicateControlIDs = true
	case "w":
		p.opts.WarnInsteadOfError = true
	case "r":
		// accepted for rc.exe compatibility; emitting .res is the only mode
	case "nologo":
		p.opts.NoLogo = true
	case "no-preprocess":
		p.opts.Preprocess = false
	}
}

func (p *argParser) applyValue(name, value string, argIndex int, span ArgSpan) {
	switch name {
	case "fo":
		p.opts.OutputFilename = value
		p.foArgIndex = argIndex
	case "i":
		p.opts.ExtraIncludePaths = append(p.opts.ExtraIncludePaths, value)
	case "sl":
		p.applySL(value, argIndex, span)
	case "ln":
		id, err := lang.FromTag(value)
		if err != nil {
			p.diags.addError(argIndex, span, true, "invalid language tag: %s", value)
			return
		}
		p.opts.DefaultLanguage = id
	case "l":
		id, err := parseLanguageID(value)
		if err != nil {
			p.diags.addError(argIndex, span, true, "invalid language id: %s", value)
			return
		}
		p.opts.DefaultLanguage = id
	case "c":
		p.applyCodePage(value, argIndex, span)
	case "d":
		p.applyDefine(value, argIndex, span)
	case "u":
		p.applyUndefine(value, argIndex, span)
	}
}

// applySL handles /SL: a percent of 8192, truncated per the reference
// behavior, so /SL 33 gives 2703.
func (p *argParser) applySL(value string, argIndex int, span ArgSpan) {
	percent, err := strconv.ParseUint(value, 10, 32)
	if err != nil || percent < 1 || percent > 100 {
		p.diags.addError(argIndex, span, true, "invalid /SL value: %s", value)
		p.diags.addNote(argIndex, span, false, "string length percent must be an integer between 1 and 100")
		return
	}
	p.opts.MaxStringLiteralCodepoints = int(percent) * maxStringLiteralBase / 100
}

func (p *argParser) applyCodePage(value string, argIndex int, span ArgSpan) {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || !codepage.IsValid(uint32(id)) {
		if p.opts.WarnInsteadOfError {
			p.diags.addWarning(argIndex, span, true, "invalid code page: %s", value)
			return
		}
		p.diags.addError(argIndex, span, true, "invalid code page: %s", value)
		return
	}
	if _, err := codepage.Get(uint32(id)); err != nil {
		if p.opts.WarnInsteadOfError {
			p.diags.addWarning(argIndex, span, true, "unsupported code page: %s", value)
			return
		}
		p.diags.addError(argIndex, span, true, "unsupported code page: %s", value)
		return
	}
	p.opts.DefaultCodePage = uint32(id)
}

func (p *argParser) applyDefine(value string, argIndex int, span ArgSpan) {
	name, symValue, _ := strings.Cut(value, "=")
	if !isValidIdentifier(name) {
		p.diags.addWarning(argIndex, span, true, "symbol %q is not a valid C identifier; define ignored", name)
		return
	}
	// Undefine is sticky for the lifetime of the options.
	if existing, ok := p.opts.Symbols[name]; ok && existing.Action == SymbolUndefine {
		return
	}
	p.opts.Symbols[name] = SymbolValue{Action: SymbolDefine, Value: symValue}
}

func (p *argParser) applyUndefine(value string, argIndex int, span ArgSpan) {
	if !isValidIdentifier(value) {
		p.diags.addWarning(argIndex, span, true, "symbol %q is not a valid C identifier; undefine ignored", value)
		return
	}
	p.opts.Symbols[value] = SymbolValue{Action: SymbolUndefine}
}

func (p *argParser) parsePositional(argIndex, positionals int) {
	switch positionals {
	case 0:
		p.opts.InputFilename = p.args[argIndex]
	case 1:
		if p.foArgIndex >= 0 {
			p.diags.addError(argIndex, ArgSpan{}, true, "output filename already specified")
			p.diags.addNote(p.foArgIndex, ArgSpan{}, true, "output filename previously specified here")
			return
		}
		p.opts.OutputFilename = p.args[argIndex]
	default:
		p.diags.addError(argIndex, ArgSpan{}, true, "unexpected extra argument: %s", p.args[argIndex])
	}
}

// parseLanguageID accepts the rc.exe convention of a hex LANGID, with or
// without the 0x prefix.
func parseLanguageID(value string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(value), "0x")
	id, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parse language id: %w", err)
	}
	return uint16(id), nil
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
