package shapekit

import (
	"fmt"
	"strings"
)

// Kind is the primitive kind of a record field.
type Kind int

const (
	KindInvalid   Kind = iota
	KindText           // string
	KindNumber         // any Go numeric kind or json.Number
	KindBoolean        // bool
	KindTimestamp      // time.Time or an RFC3339 string
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindText:      "text",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the canonical names plus the aliases found in hand-written
// schema files ("string", "bool", "Date", ...). Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "string":
		return KindText, nil
	case "number", "float", "int", "integer":
		return KindNumber, nil
	case "boolean", "bool":
		return KindBoolean, nil
	case "timestamp", "date", "datetime", "time":
		return KindTimestamp, nil
	}
	return KindInvalid, fmt.Errorf("shapekit: unknown field kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k <= KindInvalid || k > KindTimestamp {
		return nil, fmt.Errorf("shapekit: cannot marshal %v", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so yaml.v3 and go-json
// decode kinds directly.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// TensorPolicy decides how sibling elements of a tensor relate to each other.
type TensorPolicy int

const (
	// TensorUniform requires every sibling to have the same nesting depth:
	// [1, [2]] is rejected. Empty sequences adopt whatever depth their
	// siblings have.
	TensorUniform TensorPolicy = iota
	// TensorLoose accepts any element that is a number or a valid nested
	// sequence, so [1, [2]] passes.
	TensorLoose
)

func (p TensorPolicy) String() string {
	switch p {
	case TensorUniform:
		return "uniform"
	case TensorLoose:
		return "loose"
	}
	return fmt.Sprintf("TensorPolicy(%d)", int(p))
}

// ParseTensorPolicy maps "uniform"/"loose" (empty means uniform).
func ParseTensorPolicy(s string) (TensorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform", "strict":
		return TensorUniform, nil
	case "loose":
		return TensorLoose, nil
	}
	return TensorUniform, fmt.Errorf("shapekit: unknown tensor policy %q", s)
}
