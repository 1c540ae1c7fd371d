package shapekit

import (
	"strconv"

	js "github.com/reoring/shapekit/jsonschema"
)

// JSONSchema projects a field kind. Timestamps are RFC3339 strings.
func (k Kind) JSONSchema() *js.Schema {
	switch k {
	case KindText:
		return &js.Schema{Type: "string"}
	case KindNumber:
		return &js.Schema{Type: "number"}
	case KindBoolean:
		return &js.Schema{Type: "boolean"}
	case KindTimestamp:
		return &js.Schema{Type: "string", Format: "date-time"}
	}
	return &js.Schema{}
}

// JSONSchema projects the record rule. Unknown keys stay allowed, matching
// IsRecord.
func (r RecordRule) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "object"}
	for _, f := range r.Fields {
		out.SetProperty(f.Name, f.Kind.JSONSchema())
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out
}

// JSONSchema projects the tensor rule. A fixed rank nests array schemas down
// to numbers; an open rank can only promise an array.
func (r TensorRule) JSONSchema() *js.Schema {
	if r.Rank <= 0 {
		return &js.Schema{Type: "array", Description: "numeric tensor of any rank"}
	}
	leaf := &js.Schema{Type: "number"}
	for i := 0; i < r.Rank; i++ {
		leaf = &js.Schema{Type: "array", Items: leaf}
	}
	leaf.Description = "numeric tensor of rank " + strconv.Itoa(r.Rank)
	return leaf
}

// JSONSchema projects the stored record of s: id, the declared fields, then
// the two bookkeeping timestamps.
func (s EntitySchema) JSONSchema() *js.Schema {
	out := &js.Schema{SchemaURI: js.Draft, Title: s.Name, Type: "object"}
	out.SetProperty(FieldID, KindText.JSONSchema())
	out.Required = append(out.Required, FieldID)
	for _, f := range s.Fields {
		out.SetProperty(f.Name, f.Kind.JSONSchema())
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	for _, name := range []string{FieldCreatedAt, FieldUpdatedAt} {
		out.SetProperty(name, KindTimestamp.JSONSchema())
		out.Required = append(out.Required, name)
	}
	return out
}
