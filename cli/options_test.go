package cli

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/resbuild/resc/diagnostics"
)

func parseArgs(t *testing.T, args ...string) (*Options, *Diagnostics, error) {
	t.Helper()
	diags := NewDiagnostics()
	opts, err := Parse(args, diags)
	return opts, diags, err
}

func mustParseArgs(t *testing.T, args ...string) *Options {
	t.Helper()
	opts, diags, err := parseArgs(t, args...)
	assert.NoError(t, err)
	assert.Equal(t, 0, diags.Len())
	return opts
}

func TestPositionals(t *testing.T) {
	opts := mustParseArgs(t, "foo.rc")
	assert.Equal(t, "foo.rc", opts.InputFilename)
	assert.Equal(t, "foo.res", opts.OutputFilename)

	opts = mustParseArgs(t, "dir/foo.rc", "custom.res")
	assert.Equal(t, "custom.res", opts.OutputFilename)
}

func TestDefaultOutputFilename(t *testing.T) {
	opts := mustParseArgs(t, "path/to/app.rc")
	assert.Equal(t, "path/to/app.res", opts.OutputFilename)

	opts = mustParseArgs(t, "noext")
	assert.Equal(t, "noext.res", opts.OutputFilename)
}

func TestMissingInputFilename(t *testing.T) {
	_, diags, err := parseArgs(t)
	assert.IsError(t, err, ErrParseFailed)
	assert.True(t, diags.HasError())
}

func TestPrefixStyles(t *testing.T) {
	for _, args := range [][]string{
		{"/v", "foo.rc"},
		{"-v", "foo.rc"},
		{"--v", "foo.rc"},
		{"/V", "foo.rc"},
	} {
		opts := mustParseArgs(t, args...)
		assert.True(t, opts.Verbose)
	}
}

func TestPackedOptions(t *testing.T) {
	opts := mustParseArgs(t, "/xv", "foo.rc")
	assert.True(t, opts.IgnoreIncludeEnvVar)
	assert.True(t, opts.Verbose)
}

func TestConcatenatedValues(t *testing.T) {
	opts := mustParseArgs(t, "/FObar.res", "foo.rc")
	assert.Equal(t, "bar.res", opts.OutputFilename)

	// Packed flags followed by a value-taking option and its glued value.
	opts = mustParseArgs(t, "/xvFObar.res", "foo.rc")
	assert.True(t, opts.IgnoreIncludeEnvVar)
	assert.True(t, opts.Verbose)
	assert.Equal(t, "bar.res", opts.OutputFilename)
}

func TestSeparateValues(t *testing.T) {
	opts := mustParseArgs(t, "/fo", "bar.res", "foo.rc")
	assert.Equal(t, "bar.res", opts.OutputFilename)

	opts = mustParseArgs(t, "/i", "inc1", "/iinc2", "foo.rc")
	assert.Equal(t, []string{"inc1", "inc2"}, opts.ExtraIncludePaths)
}

func TestMissingValue(t *testing.T) {
	_, diags, err := parseArgs(t, "/fo")
	assert.IsError(t, err, ErrParseFailed)
	assert.True(t, diags.HasError())
}

func TestLongOptions(t *testing.T) {
	opts := mustParseArgs(t, "--nologo", "/no-preprocess", "foo.rc")
	assert.True(t, opts.NoLogo)
	assert.False(t, opts.Preprocess)
}

func TestEndOfOptions(t *testing.T) {
	opts := mustParseArgs(t, "--", "/v")
	assert.Equal(t, "/v", opts.InputFilename)
	assert.False(t, opts.Verbose)
}

func TestSLOption(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"100", 8192},
		{"50", 4096},
		{"33", 2703}, // truncates, does not round
		{"1", 81},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			opts := mustParseArgs(t, "/sl", tt.value, "foo.rc")
			assert.Equal(t, tt.expected, opts.MaxStringLiteralCodepoints)
		})
	}
}

func TestSLDefault(t *testing.T) {
	opts := mustParseArgs(t, "foo.rc")
	assert.Equal(t, 4097, opts.MaxStringLiteralCodepoints)
}

func TestSLOutOfRange(t *testing.T) {
	for _, value := range []string{"0", "101", "abc"} {
		_, diags, err := parseArgs(t, "/sl", value, "foo.rc")
		assert.IsError(t, err, ErrParseFailed)
		// One error plus its note.
		assert.Equal(t, 2, diags.Len())
	}
}

func TestLanguageTag(t *testing.T) {
	opts := mustParseArgs(t, "/ln", "de-DE", "foo.rc")
	assert.Equal(t, uint16(0x0407), opts.DefaultLanguage)
}

func TestInvalidLanguageTag(t *testing.T) {
	_, diags, err := parseArgs(t, "/ln", "invalid", "foo.rc")
	assert.IsError(t, err, ErrParseFailed)
	assert.True(t, diags.HasError())
}

func TestLanguageID(t *testing.T) {
	opts := mustParseArgs(t, "/l", "409", "foo.rc")
	assert.Equal(t, uint16(0x0409), opts.DefaultLanguage)

	opts = mustParseArgs(t, "/l", "0x40C", "foo.rc")
	assert.Equal(t, uint16(0x040C), opts.DefaultLanguage)
}

func TestCodePageOption(t *testing.T) {
	opts := mustParseArgs(t, "/c", "65001", "foo.rc")
	assert.Equal(t, uint32(65001), opts.DefaultCodePage)

	_, diags, err := parseArgs(t, "/c", "12345", "foo.rc")
	assert.IsError(t, err, ErrParseFailed)
	assert.True(t, diags.HasError())

	// /w demotes the invalid code page to a warning.
	opts, diags, err = parseArgs(t, "/w", "/c", "12345", "foo.rc")
	assert.NoError(t, err)
	assert.Equal(t, 1, diags.Len())
	assert.False(t, diags.HasError())
	assert.Equal(t, uint32(1252), opts.DefaultCodePage)
}

func TestDefines(t *testing.T) {
	opts := mustParseArgs(t, "/dfoo", "/dbar=1", "foo.rc")
	assert.Equal(t, SymbolDefine, opts.Symbols["foo"].Action)
	assert.Equal(t, "1", opts.Symbols["bar"].Value)
}

func TestUndefineIsSticky(t *testing.T) {
	opts := mustParseArgs(t, "/dfoo", "/ufoo", "/dfoo", "foo.rc")
	assert.Equal(t, SymbolUndefine, opts.Symbols["foo"].Action)

	// Any number of later defines stays ignored.
	opts = mustParseArgs(t, "/ufoo", "/dfoo", "/dfoo=2", "foo.rc")
	assert.Equal(t, SymbolUndefine, opts.Symbols["foo"].Action)
}

func TestInvalidDefineIsWarning(t *testing.T) {
	opts, diags, err := parseArgs(t, "/d1bad", "foo.rc")
	assert.NoError(t, err)
	assert.Equal(t, 1, diags.Len())
	assert.False(t, diags.HasError())
	_, defined := opts.Symbols["1bad"]
	assert.False(t, defined)
}

func TestOutputConflict(t *testing.T) {
	_, diags, err := parseArgs(t, "/fo", "a.res", "foo.rc", "b.res")
	assert.IsError(t, err, ErrParseFailed)
	// The error is followed by a note pointing at the earlier /fo value.
	assert.Equal(t, 2, diags.Len())
	assert.Equal(t, diagnostics.KindNote, diags.records[1].Kind)
}

func TestInvalidOption(t *testing.T) {
	_, diags, err := parseArgs(t, "/zz", "foo.rc")
	assert.IsError(t, err, ErrParseFailed)
	assert.True(t, diags.HasError())
}

func TestCompatibilityFlags(t *testing.T) {
	opts := mustParseArgs(t, "/r", "/n", "/y", "/w", "foo.rc")
	assert.True(t, opts.NullTerminateStringTable)
	assert.True(t, opts.SilenceDuplicateControlIDs)
	assert.True(t, opts.WarnInsteadOfError)
}

func TestParseWithDefaults(t *testing.T) {
	diags := NewDiagnostics()
	opts, err := ParseWithDefaults([]string{"foo.rc"}, diags, Defaults{
		Language:     0x0407,
		CodePage:     65001,
		IncludePaths: []string{"shared"},
		Verbose:      true,
	})
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0407), opts.DefaultLanguage)
	assert.Equal(t, uint32(65001), opts.DefaultCodePage)
	assert.Equal(t, []string{"shared"}, opts.ExtraIncludePaths)
	assert.True(t, opts.Verbose)

	// The command line still wins over the configured defaults.
	diags = NewDiagnostics()
	opts, err = ParseWithDefaults([]string{"/c", "1252", "foo.rc"}, diags, Defaults{CodePage: 65001})
	assert.NoError(t, err)
	assert.Equal(t, uint32(1252), opts.DefaultCodePage)
}

func TestRenderCLIDiagnostics(t *testing.T) {
	diags := NewDiagnostics()
	_, err := Parse([]string{"/zz", "foo.rc"}, diags)
	assert.IsError(t, err, ErrParseFailed)

	var buf bytes.Buffer
	diags.Render(&buf, []string{"/zz", "foo.rc"})
	out := buf.String()
	assert.Contains(t, out, "<cli>")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "/zz")
}
