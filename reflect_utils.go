package shapekit

import (
	"reflect"
	"strconv"
	"time"

	"github.com/reoring/shapekit/codec"
)

// numberLike matches json.Number and lookalikes from other JSON drivers.
type numberLike interface {
	Float64() (float64, error)
	String() string
}

// numberValue reports whether v has the number kind and returns it as float64.
// bool is never a number; json.Number must parse.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case nil, bool, string:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case numberLike:
		if reflect.ValueOf(v).Kind() != reflect.String {
			return 0, false
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isNumber(v any) bool {
	_, ok := numberValue(v)
	return ok
}

// timestampValue accepts time.Time, a non-nil *time.Time or an RFC3339 string.
func timestampValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		ts, err := codec.ParseRFC3339(t)
		return ts, err == nil
	}
	return time.Time{}, false
}

// hasKind reports whether v's runtime kind matches k.
func hasKind(v any, k Kind) bool {
	switch k {
	case KindText:
		_, ok := v.(string)
		return ok
	case KindNumber:
		return isNumber(v)
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindTimestamp:
		_, ok := timestampValue(v)
		return ok
	}
	return false
}

// sequence is a read-only view over any Go slice or array. []any, the shape
// produced by every JSON/YAML decoder, avoids reflection.
type sequence struct {
	items []any
	rv    reflect.Value
}

func asSequence(v any) (sequence, bool) {
	if items, ok := v.([]any); ok {
		return sequence{items: items}, true
	}
	if v == nil {
		return sequence{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return sequence{rv: rv}, true
	}
	return sequence{}, false
}

func (s sequence) Len() int {
	if s.rv.IsValid() {
		return s.rv.Len()
	}
	return len(s.items)
}

func (s sequence) At(i int) any {
	if s.rv.IsValid() {
		return s.rv.Index(i).Interface()
	}
	return s.items[i]
}

// mapping is a read-only view over a non-nil map with string keys.
type mapping struct {
	m  map[string]any
	rv reflect.Value
}

func asMapping(v any) (mapping, bool) {
	if m, ok := v.(map[string]any); ok {
		if m == nil {
			return mapping{}, false
		}
		return mapping{m: m}, true
	}
	if v == nil {
		return mapping{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() || rv.Type().Key().Kind() != reflect.String {
		return mapping{}, false
	}
	return mapping{rv: rv}, true
}

// Lookup returns the value stored under key. A present nil value reports ok.
func (m mapping) Lookup(key string) (any, bool) {
	if !m.rv.IsValid() {
		v, ok := m.m[key]
		return v, ok
	}
	kv := reflect.ValueOf(key).Convert(m.rv.Type().Key())
	ev := m.rv.MapIndex(kv)
	if !ev.IsValid() {
		return nil, false
	}
	return ev.Interface(), true
}
