package preprocess

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRemoveComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "line comment keeps newline",
			input:    "//c\nA RCDATA {1}",
			expected: "\nA RCDATA {1}",
		},
		{
			name:     "same line block comment removed entirely",
			input:    "blah/**/blah",
			expected: "blahblah",
		},
		{
			name:     "multi line block comment collapses to one space",
			input:    "blah/*\n*/blah",
			expected: "blah blah",
		},
		{
			name:     "comment markers inert inside double quotes",
			input:    `"a//b" "c/*d*/e"`,
			expected: `"a//b" "c/*d*/e"`,
		},
		{
			name:     "comment markers inert inside single quotes",
			input:    "'a//b'",
			expected: "'a//b'",
		},
		{
			name:     "slash not starting a comment is kept",
			input:    "a/b",
			expected: "a/b",
		},
		{
			name:     "trailing slash at eof is kept",
			input:    "a/",
			expected: "a/",
		},
		{
			name:     "line comment at eof without newline",
			input:    "a //done",
			expected: "a ",
		},
		{
			name:     "crlf after line comment keeps both bytes",
			input:    "x//c\r\nz",
			expected: "x\r\nz",
		},
		{
			name:     "lone cr inside line comment is dropped",
			input:    "x//a\rb\nz",
			expected: "x\nz",
		},
		{
			name:     "stars inside block comment",
			input:    "a/* ** * */b",
			expected: "ab",
		},
		{
			name:     "multiple line comments",
			input:    "a//1\nb//2\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "escaped quote does not close the literal",
			input:    `"a\"//still string"`,
			expected: `"a\"//still string"`,
		},
		{
			name:     "newline terminates a literal and re-arms comments",
			input:    "\"abc\n//gone\nx",
			expected: "\"abc\n\nx",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "consecutive slashes before comment",
			input:    "a///b\nc",
			expected: "a\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveComments([]byte(tt.input), nil, nil)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestRemoveCommentsNeverGrows(t *testing.T) {
	inputs := []string{
		"//c\nA RCDATA {1}",
		"blah/*\n*/blah",
		"/**/",
		"a/b/c//d",
		`"str" /* c */ 'c'`,
	}
	for _, input := range inputs {
		got := RemoveComments([]byte(input), nil, nil)
		assert.True(t, len(got) <= len(input))
	}
}

func TestRemoveCommentsIdempotent(t *testing.T) {
	input := "a//1\nb/*\n*/c \"d//e\""
	once := RemoveComments([]byte(input), nil, nil)
	twice := RemoveComments(append([]byte(nil), once...), nil, nil)
	assert.Equal(t, string(once), string(twice))
}

func TestRemoveCommentsInPlace(t *testing.T) {
	buf := []byte("blah/**/blah")
	got := RemoveCommentsInPlace(buf, nil)
	assert.Equal(t, "blahblah", string(got))
	// The output reuses the input's backing array.
	assert.Equal(t, "blahblah", string(buf[:len(got)]))
}

func TestRemoveCommentsCollapsesMappings(t *testing.T) {
	mappings := NewSourceMappings()
	idx := mappings.FilenameIndex("test.rc")
	for line := 1; line <= 4; line++ {
		mappings.Append(SourceMapping{FilenameIndex: idx, StartLine: line, EndLine: line})
	}

	got := RemoveComments([]byte("a/*\n\n*/b\nc\n"), nil, mappings)
	assert.Equal(t, "a b\nc\n", string(got))

	assert.Equal(t, 2, mappings.Len())
	first, ok := mappings.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 1, first.StartLine)
	assert.Equal(t, 3, first.EndLine)
	second, ok := mappings.Get(2)
	assert.True(t, ok)
	assert.Equal(t, 4, second.StartLine)
}
