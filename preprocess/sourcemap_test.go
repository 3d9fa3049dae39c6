package preprocess

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseAndRemoveLineCommands(t *testing.T) {
	input := "#line 1 \"foo.rc\"\nA RCDATA {1}\n#line 10 \"bar.h\"\nB RCDATA {2}\n"
	result := ParseAndRemoveLineCommands([]byte(input), "root.rc")

	assert.Equal(t, "A RCDATA {1}\nB RCDATA {2}\n", string(result.Source))

	first, ok := result.Mappings.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "foo.rc", result.Mappings.Filename(first.FilenameIndex))
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 1, first.EndLine)

	second, ok := result.Mappings.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "bar.h", result.Mappings.Filename(second.FilenameIndex))
	assert.Equal(t, 10, second.StartLine)
}

func TestParseAndRemoveLineCommandsGNUStyle(t *testing.T) {
	input := "# 5 \"inc.h\" 1 4\nX RCDATA {0}\n"
	result := ParseAndRemoveLineCommands([]byte(input), "root.rc")

	assert.Equal(t, "X RCDATA {0}\n", string(result.Source))
	mapping, ok := result.Mappings.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "inc.h", result.Mappings.Filename(mapping.FilenameIndex))
	assert.Equal(t, 5, mapping.StartLine)
}

func TestUnmappedLinesUseRootFilename(t *testing.T) {
	result := ParseAndRemoveLineCommands([]byte("A RCDATA {1}\nB RCDATA {2}\n"), "root.rc")

	for line := 1; line <= 2; line++ {
		mapping, ok := result.Mappings.Get(line)
		assert.True(t, ok)
		assert.Equal(t, "root.rc", result.Mappings.Filename(mapping.FilenameIndex))
		assert.Equal(t, line, mapping.StartLine)
	}
}

func TestLineNumbersAdvanceBetweenDirectives(t *testing.T) {
	input := "#line 7 \"a.rc\"\none\ntwo\nthree\n"
	result := ParseAndRemoveLineCommands([]byte(input), "root.rc")

	for i, want := range []int{7, 8, 9} {
		mapping, ok := result.Mappings.Get(i + 1)
		assert.True(t, ok)
		assert.Equal(t, want, mapping.StartLine)
	}
}

func TestCodePagePragmas(t *testing.T) {
	input := "A RCDATA {1}\n#pragma code_page(65001)\nB RCDATA {2}\n#pragma code_page(DEFAULT)\nC RCDATA {3}\n"
	result := ParseAndRemoveLineCommands([]byte(input), "root.rc")

	assert.Equal(t, "A RCDATA {1}\nB RCDATA {2}\nC RCDATA {3}\n", string(result.Source))
	assert.Equal(t, 2, len(result.Pragmas))

	assert.Equal(t, 2, result.Pragmas[0].Line)
	assert.Equal(t, uint32(65001), result.Pragmas[0].Value)
	assert.False(t, result.Pragmas[0].IsDefault)

	assert.Equal(t, 3, result.Pragmas[1].Line)
	assert.True(t, result.Pragmas[1].IsDefault)
}

func TestFilenamesAreDeduplicated(t *testing.T) {
	mappings := NewSourceMappings()
	a := mappings.FilenameIndex("same.rc")
	b := mappings.FilenameIndex("same.rc")
	c := mappings.FilenameIndex("other.rc")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEscapedFilename(t *testing.T) {
	input := "#line 1 \"C:\\\\inc\\\\foo.h\"\nX RCDATA {0}\n"
	result := ParseAndRemoveLineCommands([]byte(input), "root.rc")
	mapping, ok := result.Mappings.Get(1)
	assert.True(t, ok)
	assert.Equal(t, `C:\inc\foo.h`, result.Mappings.Filename(mapping.FilenameIndex))
}
