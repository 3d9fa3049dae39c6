// Package preprocess contains the passes that run between the C preprocessor
// and the lexer: comment removal and #line / #pragma directive ingestion.
package preprocess

// commentState is the state of the comment removal machine. The machine runs
// over raw bytes; every state-driving character is ASCII and stays ASCII under
// the supported code pages.
type commentState int

const (
	stateStart commentState = iota
	stateSawSlash
	stateLineComment
	stateBlockComment
	stateBlockCommentStar
	stateSingleQuoted
	stateSingleQuotedEscape
	stateDoubleQuoted
	stateDoubleQuotedEscape
)

// RemoveComments strips // and /* */ comments from src the way rc.exe does,
// writing the result to dst and returning the written slice. Comment markers
// inside string and character literals are inert. A block comment that spans
// lines collapses to a single space; one that does not is removed entirely.
// Line comments keep their terminating newline (and a preceding \r).
//
// When a multi-line block comment is collapsed, the lines it spanned are
// merged in mappings (which may be nil) so diagnostics keep pointing at the
// right original lines.
//
// dst may alias src: the output is never longer than the input and the write
// position never passes the read position, so callers can pass src[:0] to
// strip comments in place.
func RemoveComments(src, dst []byte, mappings *SourceMappings) []byte {
	out := dst[:0]
	state := stateStart
	line := 1
	commentNewlines := 0

	for i := 0; i < len(src); i++ {
		b := src[i]
		switch state {
		case stateStart:
			switch b {
			case '/':
				state = stateSawSlash
			case '"':
				state = stateDoubleQuoted
				out = append(out, b)
			case '\'':
				state = stateSingleQuoted
				out = append(out, b)
			default:
				if b == '\n' {
					line++
				}
				out = append(out, b)
			}
		case stateSawSlash:
			switch b {
			case '/':
				state = stateLineComment
			case '*':
				state = stateBlockComment
				commentNewlines = 0
			case '"':
				state = stateDoubleQuoted
				out = append(out, '/', b)
			case '\'':
				state = stateSingleQuoted
				out = append(out, '/', b)
			default:
				// The slash did not start a comment after all.
				out = append(out, '/')
				if b == '/' {
					state = stateSawSlash
				} else {
					state = stateStart
					if b == '\n' {
						line++
					}
					out = append(out, b)
				}
			}
		case stateLineComment:
			switch b {
			case '\n':
				state = stateStart
				line++
				out = append(out, '\n')
			case '\r':
				// \r\n keeps both bytes; a lone \r is comment content.
				if i+1 < len(src) && src[i+1] == '\n' {
					out = append(out, '\r')
				}
			}
		case stateBlockComment:
			switch b {
			case '*':
				state = stateBlockCommentStar
			case '\n':
				commentNewlines++
			}
		case stateBlockCommentStar:
			switch b {
			case '/':
				state = stateStart
				if commentNewlines > 0 {
					out = append(out, ' ')
					if mappings != nil {
						mappings.collapseLines(line, commentNewlines)
					}
				}
			case '*':
				// still a candidate terminator
			case '\n':
				state = stateBlockComment
				commentNewlines++
			default:
				state = stateBlockComment
			}
		case stateSingleQuoted:
			out = append(out, b)
			switch b {
			case '\\':
				state = stateSingleQuotedEscape
			case '\'':
				state = stateStart
			case '\n':
				// A bare newline terminates the literal at the lexical layer.
				state = stateStart
				line++
			}
		case stateSingleQuotedEscape:
			out = append(out, b)
			if b == '\n' {
				state = stateStart
				line++
			} else {
				state = stateSingleQuoted
			}
		case stateDoubleQuoted:
			out = append(out, b)
			switch b {
			case '\\':
				state = stateDoubleQuotedEscape
			case '"':
				state = stateStart
			case '\n':
				state = stateStart
				line++
			}
		case stateDoubleQuotedEscape:
			out = append(out, b)
			if b == '\n' {
				state = stateStart
				line++
			} else {
				state = stateDoubleQuoted
			}
		}
	}

	// A dangling slash at EOF is source text, not a comment.
	if state == stateSawSlash {
		out = append(out, '/')
	}

	return out
}

// RemoveCommentsInPlace strips comments from buf, reusing its backing array.
func RemoveCommentsInPlace(buf []byte, mappings *SourceMappings) []byte {
	return RemoveComments(buf, buf[:0], mappings)
}
