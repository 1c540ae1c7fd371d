package shapekit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeDepthMismatch = "depth_mismatch"
	CodeRankMismatch  = "rank_mismatch"
	CodeTooDeep       = "too_deep"
	CodeDuplicateKey  = "duplicate_key"
	CodeInvalidFormat = "invalid_format"
	CodeReservedName  = "reserved_name"
	CodeInvalidKind   = "invalid_kind"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /layers/2/type).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	// Params carries structured parameters (e.g., {"expected":"number"})
	// for i18n and tooling.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation entries that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Err returns iss as an error, or nil when there is nothing to report.
func (iss Issues) Err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
