package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// PrettyPrint renders a resolved literal in a compact display form: object
// and array literals become JSON, quoted strings lose their quotes. The
// transcoding is inherently lossy and allowed to fail; any failure returns
// the raw text unchanged. Display only, never consulted for resolution.
func PrettyPrint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return unquote(trimmed)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(trimmed), "value.tf", hcl.InitialPos)
	if diags.HasErrors() {
		return raw
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return raw
	}
	out, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return raw
	}
	return string(out)
}

// renderValue turns a cty value back into configuration-shaped text: strings
// quoted, scalars bare, collections as compact JSON.
func renderValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	}
	if out, err := ctyjson.Marshal(v, v.Type()); err == nil {
		return string(out)
	}
	return ""
}
