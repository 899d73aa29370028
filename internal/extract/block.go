package extract

import (
	"regexp"
	"strings"
)

// referencePattern matches the four reference kinds in running text. Module
// outputs need at least two trailing segments and data attributes three;
// shorter forms are rejected later by ref.Parse and dropped.
var referencePattern = regexp.MustCompile(
	`\b(?:var|local|module|data)\.[A-Za-z_][A-Za-z0-9_-]*(?:\.[A-Za-z_][A-Za-z0-9_-]*)*`)

// NamedBlock is one `keyword "name" { ... }` occurrence. Body excludes the
// outer braces.
type NamedBlock struct {
	Name string
	Body string
}

// Block locates a `keyword "name" { ... }` block and returns its body text.
// Nesting is tracked by brace depth with string awareness; heredoc bodies are
// not understood and degrade to best-effort capture of the unbalanced tail.
func Block(text, keyword, name string) (string, bool) {
	for _, b := range Blocks(text, keyword) {
		if b.Name == name {
			return b.Body, true
		}
	}
	return "", false
}

// Blocks enumerates every `keyword "name" { ... }` block in text, in source
// order.
func Blocks(text, keyword string) []NamedBlock {
	pattern := regexp.MustCompile(
		`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]+"([^"]+)"[ \t]*\{`)

	var out []NamedBlock
	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		braceAt := m[1] - 1
		body, ok := balancedFrom(text, braceAt, '{', '}')
		if ok {
			body = body[1 : len(body)-1]
		} else {
			body = strings.TrimPrefix(body, "{")
		}
		out = append(out, NamedBlock{Name: name, Body: body})
	}
	return out
}

// anonBlockPattern matches unnamed block headers such as `locals {`.
func anonBlockPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]*\{`)
}

// LocalsBodies returns the body of every `locals { ... }` block in text. A
// file may declare several.
func LocalsBodies(text string) []string {
	var out []string
	for _, m := range anonBlockPattern("locals").FindAllStringIndex(text, -1) {
		braceAt := m[1] - 1
		body, ok := balancedFrom(text, braceAt, '{', '}')
		if ok {
			body = body[1 : len(body)-1]
		} else {
			body = strings.TrimPrefix(body, "{")
		}
		out = append(out, body)
	}
	return out
}

// moduleMetaArguments are module-call attributes that configure the call
// itself rather than feed an input variable.
var moduleMetaArguments = map[string]bool{
	"source":     true,
	"version":    true,
	"providers":  true,
	"count":      true,
	"for_each":   true,
	"depends_on": true,
}

// inputKeyPattern matches `key =` at the start of a line inside a block body.
var inputKeyPattern = regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_-]*)[ \t]*=[^=>]`)

// ModuleInputs extracts every input assignment from a module block body as a
// name to argument-expression map. Meta-arguments and comment lines are
// skipped. Multi-line object arguments are captured whole.
func ModuleInputs(body string) map[string]string {
	inputs := make(map[string]string)

	pos := 0
	for pos < len(body) {
		eol := strings.IndexByte(body[pos:], '\n')
		var line string
		if eol == -1 {
			line = body[pos:]
			eol = len(body) - pos
		} else {
			line = body[pos : pos+eol]
		}

		if isCommentLine(line) {
			pos += eol + 1
			continue
		}

		m := inputKeyPattern.FindStringSubmatch(line)
		if m == nil {
			pos += eol + 1
			continue
		}
		key := m[1]
		if moduleMetaArguments[key] {
			pos += eol + 1
			continue
		}

		value, ok := AssignedValue(body[pos:], key)
		if ok {
			inputs[key] = value
			// Skip past multi-line values so their inner lines are not
			// mistaken for further assignments.
			if idx := strings.Index(body[pos:], value); idx >= 0 {
				pos += idx + len(value)
				continue
			}
		}
		pos += eol + 1
	}

	return inputs
}

// LabeledBlock is one `keyword "label1" "label2" { ... }` occurrence, the
// shape data-source blocks use.
type LabeledBlock struct {
	Type string
	Name string
	Body string
}

// DataBlocks enumerates every `data "type" "name" { ... }` block in text.
func DataBlocks(text string) []LabeledBlock {
	pattern := regexp.MustCompile(
		`(?m)^[ \t]*data[ \t]+"([^"]+)"[ \t]+"([^"]+)"[ \t]*\{`)

	var out []LabeledBlock
	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		blockType := text[m[2]:m[3]]
		name := text[m[4]:m[5]]
		braceAt := m[1] - 1
		body, ok := balancedFrom(text, braceAt, '{', '}')
		if ok {
			body = body[1 : len(body)-1]
		} else {
			body = strings.TrimPrefix(body, "{")
		}
		out = append(out, LabeledBlock{Type: blockType, Name: name, Body: body})
	}
	return out
}
