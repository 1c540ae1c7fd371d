package source_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/source"
)

func TestDecodeJSON_KeepsNumbersAndShapes(t *testing.T) {
	v, err := source.DecodeJSON([]byte(`{"epoch": 3, "loss": 0.25, "tags": ["a", null, true], "nested": {"x": []}}`))
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	n, ok := m["epoch"].(interface{ String() string })
	require.True(t, ok, "numbers decode as json.Number, got %T", m["epoch"])
	assert.Equal(t, "3", n.String())
	assert.Equal(t, []any{"a", nil, true}, m["tags"])
	assert.Equal(t, map[string]any{"x": []any{}}, m["nested"])

	assert.True(t, shapekit.IsMetricsRecord(map[string]any{"epoch": m["epoch"], "loss": m["loss"], "accuracy": m["epoch"]}))
}

func TestDecodeJSON_DuplicateKeys(t *testing.T) {
	_, err := source.DecodeJSON([]byte(`{"a": 1, "b": {"c": 1, "c": 2}, "a": 3}`))
	require.Error(t, err)
	iss, ok := shapekit.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 2)
	assert.Equal(t, "/b/c", iss[0].Path)
	assert.Equal(t, "/a", iss[1].Path)
	assert.Equal(t, shapekit.CodeDuplicateKey, iss[0].Code)
}

func TestDecodeJSON_Rejects(t *testing.T) {
	for _, in := range []string{
		``, `  `, `{"a":`, `[1, 2`, `{"a": 1} {"b": 2}`, `[1] x`,
		`[1 2]`, `{"a" 1}`, `[1}`, `{"a":1]`, `[,1]`, `{"a":1,}`, `{"a":1 "b":2}`,
	} {
		v, err := source.DecodeJSON([]byte(in))
		assert.ErrorIsf(t, err, source.ErrMalformedJSON, "%q", in)
		assert.Nilf(t, v, "%q", in)
	}
}

func TestDecodeJSONReader(t *testing.T) {
	v, err := source.DecodeJSONReader(strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, normalizeNumbers(v))

	_, err = source.DecodeJSONReader(strings.NewReader(`{"a" [1]}`))
	assert.ErrorIs(t, err, source.ErrMalformedJSON)
}

func TestDecodeJSON_TensorRoundTrip(t *testing.T) {
	v, err := source.DecodeJSON([]byte(`[[1, 2.5], [3, 4e2]]`))
	require.NoError(t, err)
	tn, ok := shapekit.AsTensor(v, shapekit.TensorRule{})
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2.5, 3, 400}, tn.Flatten())
}

func TestDecodeYAML_Normalizes(t *testing.T) {
	v, err := source.DecodeYAML([]byte("name: m\ninputShape: [28, 28]\nlayers:\n  - type: dense\n    units: 10\n"))
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	layers, ok := m["layers"].([]any)
	require.True(t, ok)
	_, ok = layers[0].(map[string]any)
	assert.True(t, ok)

	_, err = source.DecodeYAML([]byte("a: [1, 2"))
	assert.Error(t, err)
}

func TestDecode_ByExtension(t *testing.T) {
	v, err := source.Decode("m.JSON", []byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, normalizeNumbers(v))

	_, err = source.Decode("m.yml", []byte("a: 1"))
	require.NoError(t, err)

	_, err = source.Decode("m.toml", []byte("a = 1"))
	assert.ErrorIs(t, err, source.ErrUnknownFormat)
}

// normalizeNumbers re-types go-json numbers so they compare with encoding/json ones.
func normalizeNumbers(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, vv := range m {
		if n, ok := vv.(interface{ String() string }); ok {
			out[k] = json.Number(n.String())
			continue
		}
		out[k] = vv
	}
	return out
}

const userYAML = `
name: User
resource: people
fields:
  - name: email
    kind: string
    required: true
  - name: age
    kind: number
  - name: joinedAt
    kind: Date
`

func TestLoadEntitySchema_YAML(t *testing.T) {
	s, err := source.LoadEntitySchema("user.yaml", []byte(userYAML))
	require.NoError(t, err)
	assert.Equal(t, "User", s.Name)
	assert.Equal(t, "people", s.ResourcePath())
	require.Len(t, s.Fields, 3)
	assert.Equal(t, shapekit.FieldSpec{Name: "email", Kind: shapekit.KindText, Required: true}, s.Fields[0])
	assert.Equal(t, shapekit.KindTimestamp, s.Fields[2].Kind)
}

func TestLoadEntitySchema_JSON(t *testing.T) {
	s, err := source.LoadEntitySchema("user.json", []byte(`{"name":"User","fields":[{"name":"active","kind":"boolean","required":true}]}`))
	require.NoError(t, err)
	assert.Equal(t, shapekit.KindBoolean, s.Fields[0].Kind)
}

func TestLoadEntitySchema_Errors(t *testing.T) {
	_, err := source.LoadEntitySchema("user.yaml", []byte("name: User\nfeilds: []\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = source.LoadEntitySchema("user.json", []byte(`{"name":"User","fields":[{"name":"x","kind":"blob"}]}`))
	assert.Error(t, err)

	_, err = source.LoadEntitySchema("user.yaml", []byte("name: User\nfields:\n  - name: id\n    kind: text\n"))
	require.Error(t, err)
	iss, ok := shapekit.AsIssues(err)
	require.True(t, ok, "validation errors stay inspectable through wrapping")
	assert.Equal(t, shapekit.CodeReservedName, iss[0].Code)
	assert.True(t, strings.Contains(err.Error(), "user.yaml"))

	_, err = source.LoadEntitySchema("user.txt", nil)
	assert.ErrorIs(t, err, source.ErrUnknownFormat)
}
