package shapekit

import (
	"strconv"
	"strings"

	"github.com/reoring/shapekit/i18n"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// The zero value is the document root.
type PathRef struct {
	parts []string
}

func (p PathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue at p. kv are key/value pairs stored in Params; string
// values are also handed to the translator.
func (p PathRef) Issue(code string, kv ...any) Issue {
	var params map[string]any
	var data map[string]string
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		if params == nil {
			params = map[string]any{}
			data = map[string]string{}
		}
		params[k] = kv[i+1]
		if s, ok := kv[i+1].(string); ok {
			data[k] = s
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, data), Params: params}
}
