package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	resc "github.com/resbuild/resc"
	"github.com/resbuild/resc/cli"
	"github.com/resbuild/resc/compiler"
	"github.com/resbuild/resc/diagnostics"
	"github.com/resbuild/resc/lexer"
	"github.com/resbuild/resc/parser"
	"github.com/resbuild/resc/preprocess"
)

const configFilename = "resc.yaml"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	config, err := resc.LoadConfig(configFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cliDiags := cli.NewDiagnostics()
	opts, err := cli.ParseWithDefaults(args, cliDiags, cli.Defaults{
		Language:                 config.LanguageID(),
		CodePage:                 config.CodePage,
		IncludePaths:             config.IncludePaths,
		Verbose:                  config.Verbose,
		NullTerminateStringTable: config.NullTerminateStrings,
	})
	if cliDiags.Len() > 0 {
		cliDiags.Render(os.Stderr, args)
	}
	if err != nil {
		return 1
	}

	data, err := os.ReadFile(opts.InputFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to read %s: %v\n", opts.InputFilename, err)
		return 1
	}
	data = stripBOM(data)

	if opts.Verbose {
		color.Blue("Compiling %s", opts.InputFilename)
	}

	// The pipeline: line directive ingestion, comment stripping (which may
	// merge mapped lines), then lex/parse/compile over the final buffer.
	lineResult := preprocess.ParseAndRemoveLineCommands(data, opts.InputFilename)
	src := preprocess.RemoveCommentsInPlace(lineResult.Source, lineResult.Mappings)

	diags := diagnostics.NewCollection()
	lx := lexer.New(src, diags, lexer.Options{
		MaxStringLiteralCodepoints: opts.MaxStringLiteralCodepoints,
		DefaultCodePage:            opts.DefaultCodePage,
		Pragmas:                    lineResult.Pragmas,
		DemoteCodePageErrors:       opts.WarnInsteadOfError,
	})

	var out bytes.Buffer
	file, parseErr := parser.Parse(lx, diags)
	if parseErr == nil {
		compileOpts := compiler.Options{
			DefaultLanguage:            opts.DefaultLanguage,
			DefaultCodePage:            opts.DefaultCodePage,
			NullTerminateStringTable:   opts.NullTerminateStringTable,
			SilenceDuplicateControlIDs: opts.SilenceDuplicateControlIDs,
			IncludePaths:               includeSearchPaths(opts),
		}
		if opts.Verbose {
			compileOpts.OnRecord = func(typ, name compiler.NameOrOrdinal, language uint16, dataSize int) {
				color.Blue("  %s %s lang=0x%04X size=%d", typ, name, language, dataSize)
			}
		}
		// The error carries no information the diagnostics don't.
		_ = compiler.Compile(file, src, diags, compileOpts, &out)
	}

	diags.Render(os.Stderr, src, lineResult.Mappings)

	if parseErr != nil || diags.HasError() {
		return 1
	}

	if err := os.WriteFile(opts.OutputFilename, out.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to write %s: %v\n", opts.OutputFilename, err)
		return 1
	}
	if opts.Verbose {
		color.Green("Wrote %s", opts.OutputFilename)
	}
	return 0
}

// includeSearchPaths merges /i paths with the INCLUDE environment variable
// (semicolon or colon separated), which /x suppresses.
func includeSearchPaths(opts *cli.Options) []string {
	paths := append([]string(nil), opts.ExtraIncludePaths...)
	if opts.IgnoreIncludeEnvVar {
		return paths
	}
	env := os.Getenv("INCLUDE")
	if env == "" {
		return paths
	}
	for _, p := range strings.FieldsFunc(env, func(r rune) bool { return r == ';' || r == ':' }) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
