// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contract checks extracted values against declared stage output
// shapes. Implements: prd001-pipeline (R2.1-R2.5);
//
//	docs/ARCHITECTURE § Stage Contracts.
//
// Every stage declares the minimal shape its generation results must have.
// One shared validator enforces all of them, so contracts cannot drift
// apart stage by stage. No record reaches the next stage without passing
// its shape check.
package contract

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the basic kind a field value must have.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field declares one field of a stage's output shape.
type Field struct {
	// Name is the JSON key.
	Name string

	// Kind is the required basic kind.
	Kind Kind

	// Optional marks fields that may be absent. An absent optional
	// Sequence defaults to an empty sequence; required fields are never
	// defaulted (R2.4).
	Optional bool

	// Enum restricts a String field to a fixed value set when non-empty.
	Enum []string
}

// Shape declares the output contract of one generation call.
type Shape struct {
	Name   string
	Fields []Field
}

// Violation reports the fields that failed a shape check. The parsed value
// was structurally valid JSON; its content did not meet the stage contract.
type Violation struct {
	Shape  string
	Fields []string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s contract violated: %s", v.Shape, strings.Join(v.Fields, "; "))
}

// Validate checks value against shape and returns the underlying object.
// The value must be a JSON object; every required field must be present
// with the declared kind, and enum fields must hold a declared value.
// Numeric fields get no range coercion here; range policy belongs to the
// stage (R2.3).
func Validate(shape Shape, value any) (map[string]any, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &Violation{Shape: shape.Name, Fields: []string{fmt.Sprintf("top-level value is %T, want object", value)}}
	}

	var bad []string
	for _, f := range shape.Fields {
		v, present := obj[f.Name]
		if !present || v == nil {
			if f.Optional {
				if f.Kind == Sequence {
					obj[f.Name] = []any{}
				}
				continue
			}
			bad = append(bad, fmt.Sprintf("%s: required field missing", f.Name))
			continue
		}
		if msg := checkKind(f, v); msg != "" {
			bad = append(bad, fmt.Sprintf("%s: %s", f.Name, msg))
		}
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &Violation{Shape: shape.Name, Fields: bad}
	}
	return obj, nil
}

// checkKind verifies one field value, returning a description of the
// mismatch or "" when the value conforms.
func checkKind(f Field, v any) string {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("has kind %T, want string", v)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return fmt.Sprintf("value %q not in {%s}", s, strings.Join(f.Enum, ", "))
		}
	case Number:
		if _, ok := v.(float64); !ok {
			return fmt.Sprintf("has kind %T, want number", v)
		}
	case Bool:
		if _, ok := v.(bool); !ok {
			return fmt.Sprintf("has kind %T, want bool", v)
		}
	case Sequence:
		if _, ok := v.([]any); !ok {
			return fmt.Sprintf("has kind %T, want sequence", v)
		}
	case Mapping:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Sprintf("has kind %T, want mapping", v)
		}
	}
	return ""
}

func contains(set []string, s string) bool {
	for _, e := range set {
		if e == s {
			return true
		}
	}
	return false
}

// Strings extracts a []string from an object's sequence field, skipping
// non-string elements. Intended for already-validated optional sequences.
func Strings(obj map[string]any, field string) []string {
	seq, _ := obj[field].([]any)
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
