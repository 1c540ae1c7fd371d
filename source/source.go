// Package source decodes JSON and YAML documents into the untyped values the
// shapekit validators accept, and loads entity schemas from files.
//
// Decoded trees only ever contain map[string]any, []any, string, bool, nil
// and json.Number-like numbers, so a number keeps its textual precision until
// a validator asks for it.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/shapekit"
)

// ErrUnknownFormat is returned by Decode and LoadEntitySchema when the file
// extension is neither JSON nor YAML.
var ErrUnknownFormat = errors.New("source: unknown document format")

// ErrMalformedJSON is returned when input is not exactly one well-formed
// JSON value.
var ErrMalformedJSON = errors.New("source: malformed JSON")

// maxDepth bounds object/array nesting while decoding JSON.
const maxDepth = 10000

// Format identifies a document encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

// FormatOf picks the format from a file name extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Decode decodes data according to the extension of name.
func Decode(name string, data []byte) (any, error) {
	switch FormatOf(name) {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// DecodeJSON decodes one JSON document. Numbers are kept as json.Number.
// Objects repeating a key are rejected with a duplicate_key Issue, since a
// plain decoder would silently keep the last value.
func DecodeJSON(data []byte) (any, error) {
	// The token reader below does not check separators or closing
	// delimiters, so syntax is settled here first.
	if !j.Valid(data) {
		return nil, ErrMalformedJSON
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	b := builder{dec: dec}
	v, err := b.value(shapekit.PathRef{}, 0)
	if err != nil {
		return nil, err
	}
	if len(b.dups) > 0 {
		return nil, b.dups
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrMalformedJSON)
	}
	return v, nil
}

// DecodeJSONReader reads r to the end and decodes it with DecodeJSON.
func DecodeJSONReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

type builder struct {
	dec  *j.Decoder
	dups shapekit.Issues
}

func (b *builder) value(at shapekit.PathRef, depth int) (any, error) {
	if depth > maxDepth {
		return nil, shapekit.Issues{at.Issue(shapekit.CodeTooDeep, "max", maxDepth)}
	}
	tok, err := b.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return b.object(at, depth)
		case '[':
			return b.array(at, depth)
		}
		return nil, fmt.Errorf("source: unexpected delimiter %q at %s", rune(t), at.Pointer())
	case string, bool, j.Number, nil:
		return t, nil
	case float64:
		// UseNumber is set; kept for decoders that ignore it.
		return t, nil
	}
	return nil, fmt.Errorf("source: unexpected token %T at %s", tok, at.Pointer())
}

func (b *builder) object(at shapekit.PathRef, depth int) (map[string]any, error) {
	obj := map[string]any{}
	for b.dec.More() {
		tok, err := b.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: object key is %T at %s", tok, at.Pointer())
		}
		v, err := b.value(at.Field(key), depth+1)
		if err != nil {
			return nil, err
		}
		if _, dup := obj[key]; dup {
			b.dups = append(b.dups, at.Field(key).Issue(shapekit.CodeDuplicateKey, "value", key))
			continue
		}
		obj[key] = v
	}
	if _, err := b.dec.Token(); err != nil { // '}'
		return nil, err
	}
	return obj, nil
}

func (b *builder) array(at shapekit.PathRef, depth int) ([]any, error) {
	arr := []any{}
	for b.dec.More() {
		v, err := b.value(at.Index(len(arr)), depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := b.dec.Token(); err != nil { // ']'
		return nil, err
	}
	return arr, nil
}

// DecodeYAML decodes one YAML document and normalizes it to the JSON data
// model: mappings become map[string]any (non-string keys are dropped) and
// sequences []any.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("source: yaml: %w", err)
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	default:
		return v
	}
}

// LoadEntitySchema decodes an entity schema file (JSON or YAML by extension)
// and validates it. Unknown keys are rejected so typos do not silently drop
// fields.
func LoadEntitySchema(name string, data []byte) (shapekit.EntitySchema, error) {
	var s shapekit.EntitySchema
	switch FormatOf(name) {
	case FormatJSON:
		dec := j.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return shapekit.EntitySchema{}, fmt.Errorf("load %s: %w", name, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return shapekit.EntitySchema{}, fmt.Errorf("load %s: %w", name, err)
		}
	default:
		return shapekit.EntitySchema{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	if err := s.Validate(); err != nil {
		return shapekit.EntitySchema{}, fmt.Errorf("load %s: %w", name, err)
	}
	return s, nil
}
