package shapekit

import (
	"strings"
	"unicode"
)

// Bookkeeping field names every generated record carries in addition to the
// declared fields. Declared fields may not reuse them.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// FieldSpec declares one field of a record.
type FieldSpec struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Required bool   `json:"required" yaml:"required"`
}

// EntitySchema describes one logical entity. Field order is rendering order.
type EntitySchema struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
	// Resource is the route segment used by the generated controller. Empty
	// means the lower-cased name followed by "s".
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
}

// Rule derives the flat record rule for values of this entity.
func (s EntitySchema) Rule() RecordRule {
	return RecordRule{Fields: append([]FieldSpec(nil), s.Fields...)}
}

// ResourcePath returns the route segment without slashes.
func (s EntitySchema) ResourcePath() string {
	if r := strings.Trim(s.Resource, "/"); r != "" {
		return r
	}
	return strings.ToLower(s.Name) + "s"
}

// Validate checks the schema invariants the generator depends on and returns
// Issues (as error) describing every violation.
func (s EntitySchema) Validate() error {
	var iss Issues
	root := PathRef{}
	switch {
	case strings.TrimSpace(s.Name) == "":
		iss = append(iss, root.Field("name").Issue(CodeRequired))
	case !isIdentifier(s.Name):
		iss = append(iss, root.Field("name").Issue(CodeInvalidFormat, "value", s.Name))
	}
	seen := make(map[string]int, len(s.Fields))
	folded := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		at := root.Field("fields").Index(i)
		if f.Name == "" {
			iss = append(iss, at.Field("name").Issue(CodeRequired))
			continue
		}
		if !isIdentifier(f.Name) {
			iss = append(iss, at.Field("name").Issue(CodeInvalidFormat, "value", f.Name))
		}
		// "created_at" would render as the CreatedAt bookkeeping field.
		switch foldIdentifier(f.Name) {
		case "id", "createdat", "updatedat":
			iss = append(iss, at.Field("name").Issue(CodeReservedName, "value", f.Name))
		}
		if f.Kind <= KindInvalid || f.Kind > KindTimestamp {
			iss = append(iss, at.Field("kind").Issue(CodeInvalidKind, "value", f.Kind.String()))
		}
		if j, dup := seen[f.Name]; dup {
			iss = append(iss, at.Field("name").Issue(CodeDuplicateKey, "value", f.Name, "first", j))
			continue
		}
		seen[f.Name] = i
		// "first_name" and "firstName" both become FirstName in generated code.
		key := foldIdentifier(f.Name)
		if j, dup := folded[key]; dup {
			iss = append(iss, at.Field("name").Issue(CodeDuplicateKey, "value", f.Name, "first", j))
			continue
		}
		folded[key] = i
	}
	if r := s.Resource; r != "" && !isResource(strings.Trim(r, "/")) {
		iss = append(iss, root.Field("resource").Issue(CodeInvalidFormat, "value", r))
	}
	return iss.Err()
}

// isIdentifier accepts letters, digits, '_' and '-', starting with a letter.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return s != ""
}

// isResource accepts one or more '/'-separated segments of URL unreserved
// characters.
func isResource(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-._~", r)) {
				return false
			}
		}
	}
	return true
}

func foldIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// RecordRule is the flat record shape rule: every required field must be
// present with the declared kind; optional and unknown keys never reject
// unless StrictOptional asks for present optional values to be checked too.
type RecordRule struct {
	Fields []FieldSpec
	// StrictOptional rejects optional fields that are present, non-null and
	// of the wrong kind.
	StrictOptional bool
}

// Optional returns a copy of r where every field is optional and present
// values are kind-checked. It describes partial update payloads.
func (r RecordRule) Optional() RecordRule {
	out := RecordRule{Fields: make([]FieldSpec, len(r.Fields)), StrictOptional: true}
	for i, f := range r.Fields {
		f.Required = false
		out.Fields[i] = f
	}
	return out
}
