// Package ref models symbolic references found in configuration text:
// input variables, locals, module outputs, and data-source attributes.
// A Reference is immutable once parsed.
package ref

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a reference by its leading keyword.
type Kind int

const (
	// KindInput is a user-supplied variable, e.g. var.region.
	KindInput Kind = iota
	// KindLocal is a computed alias, e.g. local.name_prefix.
	KindLocal
	// KindModuleOutput is a named output of a module instance,
	// e.g. module.network.vpc_id.
	KindModuleOutput
	// KindDataAttribute is a data-source field, e.g. data.aws_ami.app.id.
	KindDataAttribute
)

// String returns the keyword that introduces references of this kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "var"
	case KindLocal:
		return "local"
	case KindModuleOutput:
		return "module"
	case KindDataAttribute:
		return "data"
	default:
		return "unknown"
	}
}

// Reference is the structured representation of a dotted reference token.
// Name is the primary symbol to look up; Module holds the instance name for
// module outputs; DataType holds the data-source type for data attributes.
// Property carries any trailing projection path into a structured value.
type Reference struct {
	Kind     Kind
	Name     string
	Module   string
	DataType string
	Property []string
}

// segmentRegex validates a single dotted-path segment.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// Parse creates a Reference by parsing its canonical dotted string form.
func Parse(raw string) (*Reference, error) {
	if raw == "" {
		return nil, fmt.Errorf("reference cannot be empty")
	}

	segments := strings.Split(raw, ".")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("reference path contains empty segment: %q", raw)
		}
		if !segmentRegex.MatchString(s) {
			return nil, fmt.Errorf("invalid path segment: %q", s)
		}
	}

	switch segments[0] {
	case "var":
		if len(segments) < 2 {
			return nil, fmt.Errorf("variable reference needs a name: %q", raw)
		}
		return &Reference{Kind: KindInput, Name: segments[1], Property: segments[2:]}, nil
	case "local":
		if len(segments) < 2 {
			return nil, fmt.Errorf("local reference needs a name: %q", raw)
		}
		return &Reference{Kind: KindLocal, Name: segments[1], Property: segments[2:]}, nil
	case "module":
		if len(segments) < 3 {
			return nil, fmt.Errorf("module output reference needs instance and output names: %q", raw)
		}
		return &Reference{
			Kind:     KindModuleOutput,
			Module:   segments[1],
			Name:     segments[2],
			Property: segments[3:],
		}, nil
	case "data":
		if len(segments) < 4 {
			return nil, fmt.Errorf("data attribute reference needs type, name and attribute: %q", raw)
		}
		return &Reference{
			Kind:     KindDataAttribute,
			DataType: segments[1],
			Name:     segments[2],
			Property: segments[3:],
		}, nil
	default:
		// A bare identifier is treated as an input variable name. This is how
		// a module's own declared variable is queried from inside the module.
		if len(segments) == 1 {
			return &Reference{Kind: KindInput, Name: segments[0]}, nil
		}
		return &Reference{Kind: KindInput, Name: segments[0], Property: segments[1:]}, nil
	}
}

// String serializes the Reference into its canonical dotted form.
func (r *Reference) String() string {
	if r == nil {
		return ""
	}

	var sb strings.Builder
	switch r.Kind {
	case KindInput:
		sb.WriteString("var.")
		sb.WriteString(r.Name)
	case KindLocal:
		sb.WriteString("local.")
		sb.WriteString(r.Name)
	case KindModuleOutput:
		sb.WriteString("module.")
		sb.WriteString(r.Module)
		sb.WriteRune('.')
		sb.WriteString(r.Name)
	case KindDataAttribute:
		sb.WriteString("data.")
		sb.WriteString(r.DataType)
		sb.WriteRune('.')
		sb.WriteString(r.Name)
	}
	for _, p := range r.Property {
		sb.WriteRune('.')
		sb.WriteString(p)
	}
	return sb.String()
}

// Base returns a copy of the reference with any property projection stripped.
func (r *Reference) Base() *Reference {
	if len(r.Property) == 0 {
		return r
	}
	base := *r
	base.Property = nil
	return &base
}

// HasProperty reports whether the reference carries a projection path.
func (r *Reference) HasProperty() bool {
	return len(r.Property) > 0
}

// Equal checks for equality between two references.
func (r *Reference) Equal(other *Reference) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.String() == other.String()
}
