package shapekit

import "time"

// Record is a mapping that passed a record check. Getters for required fields
// always succeed; optional fields report ok=false when absent, null or (with
// a lenient rule) of the wrong kind.
type Record struct {
	value any
	m     mapping
}

// Value returns the checked value as it was passed in.
func (r Record) Value() any { return r.value }

func (r Record) lookup(name string, k Kind) (any, bool) {
	v, ok := r.m.Lookup(name)
	if !ok || v == nil || !hasKind(v, k) {
		return nil, false
	}
	return v, true
}

// Has reports whether name is present and non-null.
func (r Record) Has(name string) bool {
	v, ok := r.m.Lookup(name)
	return ok && v != nil
}

// Text returns the text field name.
func (r Record) Text(name string) (string, bool) {
	v, ok := r.lookup(name, KindText)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Number returns the number field name as float64.
func (r Record) Number(name string) (float64, bool) {
	v, ok := r.lookup(name, KindNumber)
	if !ok {
		return 0, false
	}
	return numberValue(v)
}

// Bool returns the boolean field name.
func (r Record) Bool(name string) (bool, bool) {
	v, ok := r.lookup(name, KindBoolean)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// Time returns the timestamp field name, parsing RFC3339 text when needed.
func (r Record) Time(name string) (time.Time, bool) {
	v, ok := r.lookup(name, KindTimestamp)
	if !ok {
		return time.Time{}, false
	}
	return timestampValue(v)
}

// IsEntityRecord reports whether v is a mapping carrying every required field
// of s with the declared kind. Optional and unknown keys are ignored.
func IsEntityRecord(v any, s EntitySchema) bool {
	return IsRecord(v, s.Rule())
}

// IsRecord reports whether v satisfies rule.
func IsRecord(v any, rule RecordRule) bool {
	_, ok := AsRecord(v, rule)
	return ok
}

// AsRecord narrows v to a Record when it satisfies rule.
func AsRecord(v any, rule RecordRule) (Record, bool) {
	m, ok := asMapping(v)
	if !ok {
		return Record{}, false
	}
	if len(checkFields(m, rule, PathRef{}, true)) > 0 {
		return Record{}, false
	}
	return Record{value: v, m: m}, true
}

// CheckRecord reports why v does not satisfy rule. The result is empty exactly
// when IsRecord returns true.
func CheckRecord(v any, rule RecordRule) Issues {
	return checkRecordAt(v, rule, PathRef{}, false)
}

func checkRecordAt(v any, rule RecordRule, at PathRef, failFast bool) Issues {
	m, ok := asMapping(v)
	if !ok {
		return Issues{at.Issue(CodeInvalidType, "expected", "object")}
	}
	return checkFields(m, rule, at, failFast)
}

func checkFields(m mapping, rule RecordRule, at PathRef, failFast bool) Issues {
	var iss Issues
	for _, f := range rule.Fields {
		fv, present := m.Lookup(f.Name)
		switch {
		case !present && f.Required:
			iss = append(iss, at.Field(f.Name).Issue(CodeRequired, "expected", f.Kind.String()))
		case !present:
			continue
		case fv == nil && !f.Required:
			continue
		case !f.Required && !rule.StrictOptional:
			continue
		case !hasKind(fv, f.Kind):
			iss = append(iss, at.Field(f.Name).Issue(CodeInvalidType, "expected", f.Kind.String()))
		}
		if failFast && len(iss) > 0 {
			return iss
		}
	}
	return iss
}
