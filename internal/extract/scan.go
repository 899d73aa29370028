package extract

import "strings"

// balancedFrom returns the substring of text starting at start (which must
// point at an opening delimiter) up to and including the matching closing
// delimiter. Delimiters inside quoted strings are ignored; backslash escapes
// inside strings are honored. When the text ends before the delimiters
// balance, the unparsed tail is returned as-is with ok=false so callers can
// degrade to best-effort raw text instead of failing.
func balancedFrom(text string, start int, open, close byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return text[start:], false
}

// quotedFrom returns the quoted string literal starting at start (which must
// point at the opening quote), including both quotes. Escaped quotes do not
// terminate the literal. An unterminated literal returns the tail with
// ok=false.
func quotedFrom(text string, start int) (string, bool) {
	escaped := false
	for i := start + 1; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			return text[start : i+1], true
		}
		if c == '\n' {
			break
		}
	}
	return text[start:], false
}

// stripLineComment removes a trailing # or // comment from a single line,
// ignoring comment markers that appear inside quoted strings.
func stripLineComment(line string) string {
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '#':
			return line[:i]
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

// isCommentLine reports whether a line is nothing but a comment.
func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}
