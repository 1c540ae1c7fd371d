// Package ir defines the render model the code generator executes its
// templates against. It is derived from a shapekit.EntitySchema and carries
// only precomputed strings, so templates never branch on schema semantics.
// This package is internal and not part of the public API.
package ir

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reoring/shapekit"
)

// Entity is the render model of one entity.
type Entity struct {
	Package  string
	Name     string // exported Go identifier, e.g. UserProfile
	Display  string // schema name as declared, used in messages
	Resource string // route segment without slashes
	Fields   []Field
}

// Field is one declared field, in schema order.
type Field struct {
	GoName   string // exported Go identifier
	JSONName string // wire name as declared
	GoType   string // non-pointer Go type
	Optional bool
}

// Lower builds the render model. The schema must already be valid.
func Lower(s shapekit.EntitySchema, pkg string) Entity {
	e := Entity{
		Package:  pkg,
		Name:     GoIdent(s.Name),
		Display:  s.Name,
		Resource: s.ResourcePath(),
		Fields:   make([]Field, 0, len(s.Fields)),
	}
	for _, f := range s.Fields {
		e.Fields = append(e.Fields, Field{
			GoName:   GoIdent(f.Name),
			JSONName: f.Name,
			GoType:   GoType(f.Kind),
			Optional: !f.Required,
		})
	}
	return e
}

// GoType maps a field kind to the Go type used in generated structs.
func GoType(k shapekit.Kind) string {
	switch k {
	case shapekit.KindText:
		return "string"
	case shapekit.KindNumber:
		return "float64"
	case shapekit.KindBoolean:
		return "bool"
	case shapekit.KindTimestamp:
		return "time.Time"
	default:
		return "any"
	}
}

// initialisms are whole words rendered upper-case, following Go naming.
var initialisms = map[string]string{
	"api":  "API",
	"html": "HTML",
	"http": "HTTP",
	"id":   "ID",
	"ip":   "IP",
	"json": "JSON",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
}

// GoIdent turns a schema identifier ("first_name", "firstName",
// "user-id") into an exported Go identifier ("FirstName", "UserID").
// Existing inner capitals are kept.
func GoIdent(name string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }) {
		if up, ok := initialisms[strings.ToLower(word)]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(title.String(word))
	}
	out := b.String()
	for _, r := range out {
		if !unicode.IsUpper(r) {
			// Letters without case (e.g. CJK) cannot start an exported name.
			return "X" + out
		}
		break
	}
	return out
}

// FileStem returns the snake_case stem used for artifact file names.
func FileStem(name string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range GoIdent(name) {
		if unicode.IsUpper(r) {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return b.String()
}
