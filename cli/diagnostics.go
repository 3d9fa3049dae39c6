package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/resbuild/resc/diagnostics"
)

// ArgSpan names a sub-range of an argv element: where the option prefix
// ends, where the name starts, and where a glued value starts (0 = none).
// PointAtNextArg shifts the caret to the following argv entry, for options
// whose missing value would have been the next argument.
type ArgSpan struct {
	PrefixLen      int
	NameOffset     int
	ValueOffset    int
	PointAtNextArg bool
}

// Diagnostic is one CLI-level record.
type Diagnostic struct {
	Kind      diagnostics.Kind
	Message   string
	ArgIndex  int
	Span      ArgSpan
	PrintArgs bool
}

// Diagnostics collects CLI diagnostics in append order.
type Diagnostics struct {
	records []Diagnostic
}

// NewDiagnostics returns an empty collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) add(kind diagnostics.Kind, argIndex int, span ArgSpan, printArgs bool, format string, args ...any) {
	d.records = append(d.records, Diagnostic{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		ArgIndex:  argIndex,
		Span:      span,
		PrintArgs: printArgs,
	})
}

func (d *Diagnostics) addError(argIndex int, span ArgSpan, printArgs bool, format string, args ...any) {
	d.add(diagnostics.KindError, argIndex, span, printArgs, format, args...)
}

func (d *Diagnostics) addWarning(argIndex int, span ArgSpan, printArgs bool, format string, args ...any) {
	d.add(diagnostics.KindWarning, argIndex, span, printArgs, format, args...)
}

func (d *Diagnostics) addNote(argIndex int, span ArgSpan, printArgs bool, format string, args ...any) {
	d.add(diagnostics.KindNote, argIndex, span, printArgs, format, args...)
}

// HasError reports whether any error-kind record was collected.
func (d *Diagnostics) HasError() bool {
	for _, r := range d.records {
		if r.Kind == diagnostics.KindError {
			return true
		}
	}
	return false
}

// Len returns the number of collected records.
func (d *Diagnostics) Len() int {
	return len(d.records)
}

var (
	cliErrorColor   = color.New(color.FgRed, color.Bold)
	cliWarningColor = color.New(color.FgYellow, color.Bold)
	cliNoteColor    = color.New(color.FgCyan, color.Bold)
	cliDimColor     = color.New(color.Faint)
)

func cliKindColor(k diagnostics.Kind) *color.Color {
	switch k {
	case diagnostics.KindError:
		return cliErrorColor
	case diagnostics.KindWarning:
		return cliWarningColor
	default:
		return cliNoteColor
	}
}

// Render writes the collected records to w, echoing the offending argv
// element with dim ellipses for elided neighbors and a caret/tilde underline.
func (d *Diagnostics) Render(w io.Writer, args []string) {
	for _, r := range d.records {
		fmt.Fprint(w, "<cli>: ")
		cliKindColor(r.Kind).Fprintf(w, "%s: ", r.Kind)
		fmt.Fprintln(w, r.Message)
		if r.PrintArgs {
			renderArgContext(w, r, args)
		}
	}
}

func renderArgContext(w io.Writer, r Diagnostic, args []string) {
	argIndex := r.ArgIndex
	if r.Span.PointAtNextArg {
		argIndex++
	}
	if argIndex >= len(args) {
		// The caret would point past the last argument; synthesize a slot.
		args = append(append([]string(nil), args...), "")
	}

	indent := 0
	if argIndex > 0 {
		cliDimColor.Fprint(w, "... ")
		indent += 4
	}
	fmt.Fprint(w, args[argIndex])
	if argIndex < len(args)-1 {
		cliDimColor.Fprint(w, " ...")
	}
	fmt.Fprintln(w)

	span := r.Span
	if r.Span.PointAtNextArg {
		span = ArgSpan{}
	}
	fmt.Fprint(w, strings.Repeat(" ", indent))
	underline := buildUnderline(span, len(args[argIndex]))
	cliKindColor(r.Kind).Fprintln(w, underline)
}

// buildUnderline draws the prefix as tildes, a caret at the name offset, and
// tildes through the rest of the argument (value included).
func buildUnderline(span ArgSpan, argLen int) string {
	if argLen == 0 {
		return "^"
	}
	line := make([]byte, argLen)
	for i := range line {
		line[i] = ' '
	}
	for i := 0; i < span.PrefixLen && i < argLen; i++ {
		line[i] = '~'
	}
	caret := span.NameOffset
	if caret >= argLen {
		caret = argLen - 1
	}
	for i := span.PrefixLen; i < argLen; i++ {
		if i >= caret {
			line[i] = '~'
		}
	}
	line[caret] = '^'
	return strings.TrimRight(string(line), " ")
}
