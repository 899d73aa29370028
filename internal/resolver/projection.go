package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// projectProperty extracts one field from a structured-literal text. It
// attempts a strict expression parse first; when the literal is not
// well-formed it degrades to a textual key/value match inside the braces.
func projectProperty(literal, property string) (string, bool) {
	if v, ok := projectStrict(literal, property); ok {
		return v, true
	}
	return projectTextual(literal, property)
}

// projectStrict parses the literal as a constant expression and reads the
// attribute from the resulting object or map value.
func projectStrict(literal, property string) (string, bool) {
	expr, diags := hclsyntax.ParseExpression([]byte(literal), "value.tf", hcl.InitialPos)
	if diags.HasErrors() {
		return "", false
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return "", false
	}

	ty := val.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(property) {
			return "", false
		}
		return renderValue(val.GetAttr(property)), true
	case ty.IsMapType():
		idx := cty.StringVal(property)
		if val.HasIndex(idx) != cty.True {
			return "", false
		}
		return renderValue(val.Index(idx)), true
	default:
		return "", false
	}
}

// textualKeyPattern matches `key = value` or `"key" = value` lines inside a
// braced literal whose strict parse failed.
func textualKeyPattern(property string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?m)^[ \t]*"?` + regexp.QuoteMeta(property) + `"?[ \t]*[=:][ \t]*(.+?)[ \t]*,?[ \t]*$`)
}

// projectTextual is the fallback for malformed literals: a line-oriented
// scan for the property inside the outer braces. The match is best effort
// and may return a fragment for multi-line nested values.
func projectTextual(literal, property string) (string, bool) {
	body := strings.TrimSpace(literal)
	if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
		body = body[1 : len(body)-1]
	}

	m := textualKeyPattern(property).FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ResolveProperty resolves a base reference from dir and extracts one field
// from the resulting structured literal.
func (e *Engine) ResolveProperty(ctx context.Context, reference, property, dir string) (string, bool) {
	value, ok := e.Resolve(ctx, reference, dir)
	if !ok {
		return "", false
	}
	return projectProperty(value, property)
}
