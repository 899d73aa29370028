package resolver

import (
	"context"
	"strings"

	"github.com/vk/tfresolve/internal/extract"
)

// chaseOrExpand post-processes a freshly found value. A value that is
// nothing but a single reference token is chased: its resolution failure
// (cycle, depth, absence) propagates as not-found. A value merely containing
// references is kept and expanded best effort. The chase inherits the
// caller's resolution mode, so enhanced lookups stay enhanced all the way
// down.
func (e *Engine) chaseOrExpand(ctx context.Context, value, foundDir string, rc *resolutionContext, enhanced bool) (string, bool) {
	trimmed := strings.TrimSpace(value)
	refs := extract.References(trimmed)
	if len(refs) == 1 && refs[0].String() == trimmed {
		return e.resolveRef(ctx, refs[0], foundDir, rc, enhanced)
	}
	return e.expandNested(ctx, value, foundDir, rc, enhanced), true
}

// expandNested scans a resolved value for further references and substitutes
// each one that resolves, relative to the directory where the value was
// found. Interpolation sequences (${...}) receive the unquoted form so the
// surrounding string stays well formed; standalone tokens are replaced by
// whole-word match with the value as-is. Unresolvable references are left in
// place. Cancellation is checked between independent attempts; remaining
// work is abandoned and whatever was substituted so far is returned.
func (e *Engine) expandNested(ctx context.Context, value, foundDir string, rc *resolutionContext, enhanced bool) string {
	refs := extract.References(value)
	if len(refs) == 0 {
		return value
	}

	for _, r := range refs {
		if ctx.Err() != nil {
			return value
		}
		resolved, ok := e.resolveRef(ctx, r, foundDir, rc, enhanced)
		if !ok {
			continue
		}
		token := r.String()
		value = strings.ReplaceAll(value, "${"+token+"}", unquote(resolved))
		value = replaceWholeWord(value, token, resolved)
	}
	return value
}

// replaceWholeWord replaces occurrences of token in text that are not part
// of a longer dotted identifier. `var.env` must not rewrite the prefix of
// `var.env_size`.
func replaceWholeWord(text, token, replacement string) string {
	var sb strings.Builder
	for {
		i := strings.Index(text, token)
		if i < 0 {
			sb.WriteString(text)
			return sb.String()
		}

		before := byte(0)
		if i > 0 {
			before = text[i-1]
		}
		after := byte(0)
		if i+len(token) < len(text) {
			after = text[i+len(token)]
		}

		sb.WriteString(text[:i])
		if isTokenBoundary(before) && isTokenBoundary(after) {
			sb.WriteString(replacement)
		} else {
			sb.WriteString(token)
		}
		text = text[i+len(token):]
	}
}

// isTokenBoundary reports whether c may legally delimit a reference token.
func isTokenBoundary(c byte) bool {
	if c == 0 {
		return true
	}
	if c == '.' || c == '_' || c == '-' {
		return false
	}
	return !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9')
}
