package preprocess

import (
	"bytes"
	"strconv"
)

// SourceMapping records where one post-preprocessor line came from: a
// filename (by pool index) and the inclusive range of lines it covers in
// that file. The range is wider than one line only when a multi-line block
// comment was collapsed.
type SourceMapping struct {
	FilenameIndex int
	StartLine     int
	EndLine       int
}

// SourceMappings translates post-preprocessor line numbers back to original
// file locations. It is built once, before lexing, and read-only afterwards
// (comment collapsing being part of that build).
type SourceMappings struct {
	mappings  []SourceMapping
	filenames []string
	byName    map[string]int
}

// NewSourceMappings returns an empty mapping table.
func NewSourceMappings() *SourceMappings {
	return &SourceMappings{byName: make(map[string]int)}
}

// FilenameIndex interns filename and returns its pool index.
func (m *SourceMappings) FilenameIndex(filename string) int {
	if idx, ok := m.byName[filename]; ok {
		return idx
	}
	idx := len(m.filenames)
	m.filenames = append(m.filenames, filename)
	m.byName[filename] = idx
	return idx
}

// Filename returns the filename for a pool index.
func (m *SourceMappings) Filename(idx int) string {
	return m.filenames[idx]
}

// Append records the mapping for the next output line.
func (m *SourceMappings) Append(mapping SourceMapping) {
	m.mappings = append(m.mappings, mapping)
}

// Get returns the mapping for a 1-based output line number.
func (m *SourceMappings) Get(line int) (SourceMapping, bool) {
	if m == nil || line < 1 || line > len(m.mappings) {
		return SourceMapping{}, false
	}
	return m.mappings[line-1], true
}

// Len returns the number of mapped lines.
func (m *SourceMappings) Len() int {
	if m == nil {
		return 0
	}
	return len(m.mappings)
}

// collapseLines merges count lines following the 1-based output line into it.
// Called by the comment pass when a block comment spanning count newlines is
// replaced by a single space.
func (m *SourceMappings) collapseLines(line, count int) {
	if line < 1 || line > len(m.mappings) {
		return
	}
	last := line - 1 + count
	if last >= len(m.mappings) {
		last = len(m.mappings) - 1
	}
	m.mappings[line-1].EndLine = m.mappings[last].EndLine
	m.mappings = append(m.mappings[:line], m.mappings[last+1:]...)
}

// CodePagePragma records a #pragma code_page directive. Line is the 1-based
// output line from which the new code page takes effect.
type CodePagePragma struct {
	Line      int
	Value     uint32
	IsDefault bool
}

// LineCommandsResult is what ParseAndRemoveLineCommands produces: the source
// with all # directives stripped, the mapping table, and any code_page
// pragmas in source order.
type LineCommandsResult struct {
	Source   []byte
	Mappings *SourceMappings
	Pragmas  []CodePagePragma
}

// ParseAndRemoveLineCommands consumes the `# <n> "file"` / `#line n "file"`
// directives a C preprocessor leaves in its output, builds the source mapping
// table, and strips the directives (and #pragma code_page lines, which it
// records) so the lexer never sees them. Lines not covered by any directive
// map to rootFilename.
//
// The returned source aliases src's backing array.
func ParseAndRemoveLineCommands(src []byte, rootFilename string) LineCommandsResult {
	mappings := NewSourceMappings()
	out := src[:0]
	var pragmas []CodePagePragma

	currentFile := mappings.FilenameIndex(rootFilename)
	currentLine := 1
	outputLine := 1

	for start := 0; start < len(src); {
		end := start
		for end < len(src) && src[end] != '\n' {
			end++
		}
		lineEnd := end
		if end < len(src) {
			end++ // include the newline
		}
		lineBytes := src[start:lineEnd]

		if file, lineNum, ok := parseLineCommand(lineBytes); ok {
			if file != "" {
				currentFile = mappings.FilenameIndex(file)
			}
			currentLine = lineNum
			start = end
			continue
		}
		if value, isDefault, ok := parseCodePagePragma(lineBytes); ok {
			pragmas = append(pragmas, CodePagePragma{Line: outputLine, Value: value, IsDefault: isDefault})
			start = end
			continue
		}
		if isDirectiveLine(lineBytes) {
			// Some other preprocessor leftover; drop it without consuming an
			// origin line.
			start = end
			continue
		}

		mappings.Append(SourceMapping{FilenameIndex: currentFile, StartLine: currentLine, EndLine: currentLine})
		out = append(out, src[start:end]...)
		currentLine++
		outputLine++
		start = end
	}

	return LineCommandsResult{Source: out, Mappings: mappings, Pragmas: pragmas}
}

func isDirectiveLine(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return len(trimmed) > 0 && trimmed[0] == '#'
}

// parseLineCommand recognizes `# 12 "file.rc"` and `#line 12 "file.rc"`,
// with optional trailing GNU flags. The filename may be empty for the bare
// `#line 12` form.
func parseLineCommand(line []byte) (file string, lineNum int, ok bool) {
	trimmed := bytes.TrimLeft(line, " \t")
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return "", 0, false
	}
	trimmed = bytes.TrimLeft(trimmed[1:], " \t")
	trimmed = bytes.TrimPrefix(trimmed, []byte("line"))
	trimmed = bytes.TrimLeft(trimmed, " \t")

	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(string(trimmed[:digits]))
	if err != nil {
		return "", 0, false
	}
	rest := bytes.TrimLeft(trimmed[digits:], " \t")
	if len(rest) == 0 || rest[0] == '\r' {
		return "", n, true
	}
	if rest[0] != '"' {
		return "", 0, false
	}
	name, ok := parseQuotedFilename(rest)
	if !ok {
		return "", 0, false
	}
	return name, n, true
}

// parseQuotedFilename reads a leading quoted string, unescaping \\ and \".
func parseQuotedFilename(b []byte) (string, bool) {
	if len(b) == 0 || b[0] != '"' {
		return "", false
	}
	var buf bytes.Buffer
	for i := 1; i < len(b); i++ {
		switch b[i] {
		case '"':
			return buf.String(), true
		case '\\':
			if i+1 < len(b) {
				i++
				buf.WriteByte(b[i])
			}
		default:
			buf.WriteByte(b[i])
		}
	}
	return "", false
}

// parseCodePagePragma recognizes `#pragma code_page(1252)` and
// `#pragma code_page(DEFAULT)`.
func parseCodePagePragma(line []byte) (value uint32, isDefault bool, ok bool) {
	trimmed := bytes.TrimLeft(line, " \t")
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return 0, false, false
	}
	trimmed = bytes.TrimLeft(trimmed[1:], " \t")
	if !bytes.HasPrefix(trimmed, []byte("pragma")) {
		return 0, false, false
	}
	trimmed = bytes.TrimLeft(trimmed[len("pragma"):], " \t")
	if !bytes.HasPrefix(trimmed, []byte("code_page")) {
		return 0, false, false
	}
	trimmed = bytes.TrimLeft(trimmed[len("code_page"):], " \t")
	if len(trimmed) == 0 || trimmed[0] != '(' {
		return 0, false, false
	}
	trimmed = bytes.TrimLeft(trimmed[1:], " \t")
	closing := bytes.IndexByte(trimmed, ')')
	if closing < 0 {
		return 0, false, false
	}
	arg := bytes.TrimRight(trimmed[:closing], " \t")
	if bytes.EqualFold(arg, []byte("DEFAULT")) {
		return 0, true, true
	}
	n, err := strconv.ParseUint(string(arg), 10, 32)
	if err != nil {
		return 0, false, false
	}
	return uint32(n), false, true
}
