package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/resbuild/resc/preprocess"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan, color.Bold)
	locColor     = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
)

func kindColor(k Kind) *color.Color {
	switch k {
	case KindError:
		return errorColor
	case KindWarning:
		return warningColor
	default:
		return noteColor
	}
}

// Render writes every collected record to w. src is the post-preprocessor
// source the record spans point into; mappings may be nil when no line
// mapping is available.
func (c *Collection) Render(w io.Writer, src []byte, mappings *preprocess.SourceMappings) {
	for _, r := range c.records {
		renderRecord(w, r, src, mappings)
	}
}

func renderRecord(w io.Writer, r Record, src []byte, mappings *preprocess.SourceMappings) {
	col := columnOf(src, r.Span.Start)
	locColor.Fprintf(w, "<after preprocessor>:%d:%d: ", r.Span.Line, col)
	kindColor(r.Kind).Fprintf(w, "%s: ", r.Kind)
	fmt.Fprintln(w, r.Message())

	if !r.SuppressSourceLine {
		line := lineContaining(src, r.Span.Start)
		fmt.Fprintln(w, sanitizeLine(line))
		fmt.Fprint(w, strings.Repeat(" ", visualColumn(line, r.Span.Start-lineStart(src, r.Span.Start))))
		kindColor(r.Kind).Fprintln(w, "^")
	}

	if mapping, ok := mappings.Get(r.Span.Line); ok {
		filename := mappings.Filename(mapping.FilenameIndex)
		noteColor.Fprint(w, "note: ")
		if mapping.StartLine == mapping.EndLine {
			fmt.Fprintf(w, "this line originates from line %d of file '%s'\n", mapping.StartLine, filename)
		} else {
			fmt.Fprintf(w, "this line originates from lines %d-%d of file '%s'\n", mapping.StartLine, mapping.EndLine, filename)
		}
		echoOriginalLines(w, filename, mapping.StartLine, mapping.EndLine)
	}
}

// echoOriginalLines prints the mapped lines from the original file. Failure
// to read the file is reported inline and never aborts rendering.
func echoOriginalLines(w io.Writer, filename string, startLine, endLine int) {
	f, err := os.Open(filename)
	if err != nil {
		dimColor.Fprintf(w, " unable to print line(s) from file: %v\n", err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum < startLine {
			continue
		}
		if lineNum > endLine {
			break
		}
		fmt.Fprintln(w, sanitizeLine(scanner.Bytes()))
	}
	if err := scanner.Err(); err != nil {
		dimColor.Fprintf(w, " unable to print line(s) from file: %v\n", err)
	}
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	start := pos
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	return start
}

func lineContaining(src []byte, pos int) []byte {
	start := lineStart(src, pos)
	end := start
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return src[start:end]
}

// columnOf returns the 1-based column of pos, with \r bytes not counted
// since they are elided from display.
func columnOf(src []byte, pos int) int {
	start := lineStart(src, pos)
	col := 1
	for i := start; i < pos && i < len(src); i++ {
		if src[i] != '\r' {
			col++
		}
	}
	return col
}

// visualColumn returns the 0-based display column for a byte offset within
// line, accounting for elided \r bytes.
func visualColumn(line []byte, offset int) int {
	col := 0
	for i := 0; i < offset && i < len(line); i++ {
		if line[i] != '\r' {
			col++
		}
	}
	return col
}

// sanitizeLine replaces control bytes with the Unicode replacement character
// and elides \r so diagnostics never emit terminal control sequences.
func sanitizeLine(line []byte) string {
	var b strings.Builder
	for _, c := range line {
		switch {
		case c == '\r':
			// elided
		case c == '\t':
			b.WriteByte(' ')
		case c < 0x20 || c == 0x7F:
			b.WriteRune('�')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
