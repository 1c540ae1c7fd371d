package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapekit"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("package", "", "")
	fs.String("output", "", "")
	fs.Bool("verbose", false, "")
	fs.String("tensor-policy", "", "")
	fs.Int("tensor-rank", 0, "")
	fs.Bool("strict-optional", false, "")
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "models", cfg.Package)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "uniform", cfg.Tensor.Policy)
	assert.Empty(t, cfg.File)

	rule, err := cfg.TensorRule()
	require.NoError(t, err)
	assert.Equal(t, shapekit.TensorRule{}, rule)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "package: fromfile\noutput: gen\ntensor:\n  policy: loose\n  rank: 2\nrecords:\n  strict_optional: true\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Package)
	assert.Equal(t, "gen", cfg.Output)
	assert.Equal(t, 2, cfg.Tensor.Rank)
	assert.True(t, cfg.Records.StrictOptional)
	assert.Equal(t, path, cfg.File)

	t.Setenv("SHAPEKIT_PACKAGE", "fromenv")
	t.Setenv("SHAPEKIT_TENSOR_RANK", "3")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Package)
	assert.Equal(t, 3, cfg.Tensor.Rank)

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--package", "fromflag", "--tensor-policy", "uniform"}))
	cfg, err = Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "fromflag", cfg.Package)
	assert.Equal(t, "uniform", cfg.Tensor.Policy)
	assert.Equal(t, 3, cfg.Tensor.Rank, "unchanged flags do not override")
	assert.Equal(t, "gen", cfg.Output)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "tensor:\n  policy: ragged\n"), nil)
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "tensor:\n  rank: -1\n"), nil)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "package", envKey("SHAPEKIT_PACKAGE"))
	assert.Equal(t, "tensor.policy", envKey("SHAPEKIT_TENSOR_POLICY"))
	assert.Equal(t, "records.strict_optional", envKey("SHAPEKIT_RECORDS_STRICT_OPTIONAL"))
}
