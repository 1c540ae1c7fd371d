package shapekit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapekit"
)

func userSchema() shapekit.EntitySchema {
	return shapekit.EntitySchema{
		Name: "User",
		Fields: []shapekit.FieldSpec{
			{Name: "email", Kind: shapekit.KindText, Required: true},
			{Name: "name", Kind: shapekit.KindText, Required: true},
			{Name: "age", Kind: shapekit.KindNumber},
		},
	}
}

func TestIsEntityRecord_RequiredAndOptional(t *testing.T) {
	s := userSchema()

	assert.True(t, shapekit.IsEntityRecord(map[string]any{"email": "a@example.com", "name": "A"}, s), "age is optional")
	assert.True(t, shapekit.IsEntityRecord(map[string]any{"email": "a@example.com", "name": "A", "age": 30}, s))
	assert.True(t, shapekit.IsEntityRecord(map[string]any{"email": "a@example.com", "name": "A", "nickname": true}, s), "unknown keys are ignored")
	assert.True(t, shapekit.IsEntityRecord(map[string]any{"email": "a@example.com", "name": "A", "age": nil}, s))

	assert.False(t, shapekit.IsEntityRecord(map[string]any{"name": "A", "age": 30}, s), "email is required")
	assert.False(t, shapekit.IsEntityRecord(map[string]any{"email": 1, "name": "A"}, s))
	assert.False(t, shapekit.IsEntityRecord(map[string]any{"email": nil, "name": "A"}, s))
}

func TestIsEntityRecord_NotAMapping(t *testing.T) {
	s := userSchema()
	var nilMap map[string]any
	for _, v := range []any{nil, nilMap, "x", 1, []any{}, map[int]any{1: "a"}} {
		assert.Falsef(t, shapekit.IsEntityRecord(v, s), "%#v", v)
	}
}

func TestIsEntityRecord_TypedMaps(t *testing.T) {
	s := userSchema()
	assert.True(t, shapekit.IsEntityRecord(map[string]string{"email": "a", "name": "b"}, s))

	type key string
	assert.True(t, shapekit.IsEntityRecord(map[key]any{"email": "a", "name": "b"}, s))
}

func TestIsRecord_OptionalKindPolicy(t *testing.T) {
	rule := userSchema().Rule()
	v := map[string]any{"email": "a", "name": "b", "age": "thirty"}

	assert.True(t, shapekit.IsRecord(v, rule), "lenient rule ignores optional fields")
	rule.StrictOptional = true
	assert.False(t, shapekit.IsRecord(v, rule))
	assert.True(t, shapekit.IsRecord(map[string]any{"email": "a", "name": "b", "age": nil}, rule))
}

func TestRecordRule_Optional(t *testing.T) {
	update := userSchema().Rule().Optional()
	assert.True(t, update.StrictOptional)
	for _, f := range update.Fields {
		assert.Falsef(t, f.Required, "%s", f.Name)
	}
	assert.True(t, shapekit.IsRecord(map[string]any{}, update))
	assert.True(t, shapekit.IsRecord(map[string]any{"age": 3}, update))
	assert.False(t, shapekit.IsRecord(map[string]any{"email": 3}, update))

	// the source rule is untouched
	assert.True(t, userSchema().Rule().Fields[0].Required)
}

func TestIsRecord_Kinds(t *testing.T) {
	rule := shapekit.RecordRule{Fields: []shapekit.FieldSpec{
		{Name: "active", Kind: shapekit.KindBoolean, Required: true},
		{Name: "at", Kind: shapekit.KindTimestamp, Required: true},
		{Name: "score", Kind: shapekit.KindNumber, Required: true},
	}}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.True(t, shapekit.IsRecord(map[string]any{"active": true, "at": now, "score": 1}, rule))
	assert.True(t, shapekit.IsRecord(map[string]any{"active": false, "at": "2025-01-02T03:04:05Z", "score": json.Number("1.5")}, rule))
	assert.True(t, shapekit.IsRecord(map[string]any{"active": false, "at": &now, "score": uint16(7)}, rule))

	assert.False(t, shapekit.IsRecord(map[string]any{"active": "true", "at": now, "score": 1}, rule))
	assert.False(t, shapekit.IsRecord(map[string]any{"active": true, "at": "yesterday", "score": 1}, rule))
	assert.False(t, shapekit.IsRecord(map[string]any{"active": true, "at": now, "score": true}, rule))
	assert.False(t, shapekit.IsRecord(map[string]any{"active": true, "at": now, "score": "1"}, rule))
}

func TestAsRecord_Getters(t *testing.T) {
	rule := shapekit.RecordRule{Fields: []shapekit.FieldSpec{
		{Name: "title", Kind: shapekit.KindText, Required: true},
		{Name: "count", Kind: shapekit.KindNumber, Required: true},
		{Name: "done", Kind: shapekit.KindBoolean},
		{Name: "due", Kind: shapekit.KindTimestamp},
	}}
	r, ok := shapekit.AsRecord(map[string]any{"title": "t", "count": 2, "due": "2025-03-01T00:00:00Z"}, rule)
	require.True(t, ok)

	title, ok := r.Text("title")
	assert.True(t, ok)
	assert.Equal(t, "t", title)

	count, ok := r.Number("count")
	assert.True(t, ok)
	assert.Equal(t, 2.0, count)

	_, ok = r.Bool("done")
	assert.False(t, ok)
	assert.False(t, r.Has("done"))

	due, ok := r.Time("due")
	assert.True(t, ok)
	assert.True(t, due.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))

	_, ok = r.Text("count")
	assert.False(t, ok, "wrong kind reads as absent")
}

func TestCheckRecord_Issues(t *testing.T) {
	iss := shapekit.CheckRecord(map[string]any{"name": 5}, userSchema().Rule())
	require.Len(t, iss, 2)
	assert.Equal(t, "/email", iss[0].Path)
	assert.Equal(t, shapekit.CodeRequired, iss[0].Code)
	assert.Equal(t, "/name", iss[1].Path)
	assert.Equal(t, shapekit.CodeInvalidType, iss[1].Code)
	assert.Equal(t, "text", iss[1].Params["expected"])
	assert.Equal(t, "invalid type (expected text)", iss[1].Message)

	iss = shapekit.CheckRecord([]any{}, userSchema().Rule())
	require.Len(t, iss, 1)
	assert.Equal(t, "/", iss[0].Path)

	err := iss.Err()
	got, ok := shapekit.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, iss, got)
	assert.NoError(t, shapekit.CheckRecord(map[string]any{"email": "a", "name": "b"}, userSchema().Rule()).Err())
}

func TestCheckRecord_EscapesPointer(t *testing.T) {
	rule := shapekit.RecordRule{Fields: []shapekit.FieldSpec{{Name: "a/b~c", Kind: shapekit.KindText, Required: true}}}
	iss := shapekit.CheckRecord(map[string]any{}, rule)
	require.Len(t, iss, 1)
	assert.Equal(t, "/a~1b~0c", iss[0].Path)
}
