package crud_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/crud"
)

func TestValidateBody_PlainMux(t *testing.T) {
	var got crud.Body
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, ok := crud.BodyFromContext(r.Context())
		require.True(t, ok)
		got = b
		w.WriteHeader(http.StatusAccepted)
	})
	mux := http.NewServeMux()
	mux.Handle("POST /users", crud.ValidateBody(userSchema().Rule())(next))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	code, _ := do(t, srv, http.MethodPost, "/users", `{"email":"a@example.com","name":"A"}`)
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, `{"email":"a@example.com","name":"A"}`, string(got.Raw))
	assert.Equal(t, "A", got.Value.(map[string]any)["name"])

	code, body := do(t, srv, http.MethodPost, "/users", `{"name":"A"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Len(t, body["issues"], 1)

	var reached atomic.Int32
	guarded := httptest.NewServer(crud.ValidateBody(userSchema().Rule())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})))
	t.Cleanup(guarded.Close)
	for _, in := range []string{`{"email":"a" "name":"b"]`, `{"email":"a","name":"b"]`, `{"email" "a","name":"b"}`} {
		code, body = do(t, guarded, http.MethodPost, "/", in)
		assert.Equalf(t, http.StatusBadRequest, code, "%s", in)
		assert.Equal(t, "malformed JSON body", body["message"])
	}
	assert.Zero(t, reached.Load(), "malformed bodies never reach the handler")

	code, body = do(t, srv, http.MethodPost, "/users", `{"email":"`+strings.Repeat("x", 1<<20)+`","name":"A"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "request body too large", body["message"])
}

func TestBodyFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := crud.BodyFromContext(req.Context())
	assert.False(t, ok)
}

func TestErrorPayload(t *testing.T) {
	iss := shapekit.Issues{{Path: "/a", Code: shapekit.CodeRequired}}
	assert.Equal(t, map[string]any{"issues": iss}, crud.ErrorPayload(iss))
}
