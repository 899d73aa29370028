// Package extract locates declarations and reference tokens inside raw
// configuration text using string-aware scanning instead of a full grammar
// parser. It performs no I/O; callers feed it file content and interpret the
// results.
//
// The scanners understand quoted strings and balanced delimiters but not
// heredocs or template interpolation sequences; values using those degrade
// to best-effort raw text.
package extract

import (
	"sort"
	"strings"

	"github.com/vk/tfresolve/internal/ref"
)

// AssignedValue finds a `name = value` assignment at statement start and
// returns the assigned value text. Quoted strings, single-line arrays and
// multi-line braced objects are captured whole; anything else is taken as a
// bare scalar up to end of line with trailing comments stripped. When brace
// matching fails the unbalanced tail is returned rather than nothing, so
// malformed input still yields something a consumer can display.
func AssignedValue(text, name string) (string, bool) {
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		valueStart, ok := assignmentValueStart(line, name)
		if !ok {
			offset += len(line)
			continue
		}

		abs := offset + valueStart
		rest := text[abs:]
		if rest == "" {
			return "", false
		}

		switch rest[0] {
		case '"':
			v, _ := quotedFrom(text, abs)
			return v, true
		case '{':
			v, _ := balancedFrom(text, abs, '{', '}')
			return v, true
		case '[':
			v, _ := balancedFrom(text, abs, '[', ']')
			return v, true
		default:
			eol := strings.IndexByte(rest, '\n')
			if eol == -1 {
				eol = len(rest)
			}
			v := strings.TrimSpace(stripLineComment(rest[:eol]))
			if v == "" {
				return "", false
			}
			return v, true
		}
	}
	return "", false
}

// assignmentValueStart checks whether line declares `name =` at statement
// start (optional leading whitespace only) and returns the index of the first
// value character within the line.
func assignmentValueStart(line, name string) (int, bool) {
	if isCommentLine(line) {
		return 0, false
	}

	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if !strings.HasPrefix(line[i:], name) {
		return 0, false
	}
	i += len(name)

	// The symbol must end here; `region` must not match `region_alias`.
	if i < len(line) && isIdentByte(line[i]) {
		return 0, false
	}

	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '=' {
		return 0, false
	}
	// Reject == and =>.
	if i+1 < len(line) && (line[i+1] == '=' || line[i+1] == '>') {
		return 0, false
	}
	i++
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] == '\n' || line[i] == '\r' {
		return 0, false
	}
	return i, true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// References scans text for every symbolic reference of the four supported
// kinds. The result is deduplicated and sorted by canonical form; callers
// must not rely on source order.
func References(text string) []*ref.Reference {
	seen := make(map[string]*ref.Reference)
	for _, raw := range referencePattern.FindAllString(text, -1) {
		r, err := ref.Parse(raw)
		if err != nil {
			continue
		}
		seen[r.String()] = r
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*ref.Reference, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}
