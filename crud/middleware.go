package crud

import (
	"context"
	"io"
	"net/http"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/source"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Body is a request body that passed ValidateBody.
type Body struct {
	Raw   []byte // bytes as received
	Value any    // decoded tree that satisfied the rule
}

type ctxKeyBody struct{}

// ContextWithBody attaches a validated body to ctx.
func ContextWithBody(ctx context.Context, b Body) context.Context {
	return context.WithValue(ctx, ctxKeyBody{}, b)
}

// BodyFromContext returns the body stored by ValidateBody.
func BodyFromContext(ctx context.Context) (Body, bool) {
	b, ok := ctx.Value(ctxKeyBody{}).(Body)
	return b, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(iss shapekit.Issues) map[string]any {
	return map[string]any{"issues": iss}
}

// ValidateBody returns middleware that decodes the JSON request body, rejects
// duplicate keys and bodies not satisfying rule with 400 and an
// ErrorPayload, and otherwise passes the body on through the request context.
// It works with any net/http stack, including the generated controllers.
func ValidateBody(rule shapekit.RecordRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
			if err != nil {
				writeMessage(w, http.StatusBadRequest, "read body: "+err.Error())
				return
			}
			if len(data) > maxBodyBytes {
				writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			v, err := source.DecodeJSON(data)
			if err != nil {
				if iss, ok := shapekit.AsIssues(err); ok {
					writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
					return
				}
				writeMessage(w, http.StatusBadRequest, "malformed JSON body")
				return
			}
			if iss := shapekit.CheckRecord(v, rule); len(iss) > 0 {
				writeJSON(w, http.StatusBadRequest, ErrorPayload(iss))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithBody(r.Context(), Body{Raw: data, Value: v})))
		})
	}
}
