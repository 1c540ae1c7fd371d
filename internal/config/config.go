// Package config loads shapekit CLI settings.
//
// Precedence (highest to lowest): flags > SHAPEKIT_* env vars > config file >
// defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/reoring/shapekit"
	"github.com/reoring/shapekit/scaffold"
)

// Defaults.
const (
	DefaultFile     = "shapekit.yaml"
	DefaultOutput   = "."
	DefaultLanguage = "en"
	envPrefix       = "SHAPEKIT_"
)

// TensorConfig is the default tensor rule of the validate command.
type TensorConfig struct {
	Policy string `koanf:"policy"`
	Rank   int    `koanf:"rank"`
}

// RecordsConfig tunes record checks.
type RecordsConfig struct {
	StrictOptional bool `koanf:"strict_optional"`
}

// Config holds all CLI configuration options.
type Config struct {
	Package  string        `koanf:"package"`
	Output   string        `koanf:"output"`
	Language string        `koanf:"language"`
	Verbose  bool          `koanf:"verbose"`
	Tensor   TensorConfig  `koanf:"tensor"`
	Records  RecordsConfig `koanf:"records"`

	// File is the config file that was read, empty when none.
	File string `koanf:"-"`
}

// TensorRule converts the tensor settings.
func (c *Config) TensorRule() (shapekit.TensorRule, error) {
	p, err := shapekit.ParseTensorPolicy(c.Tensor.Policy)
	if err != nil {
		return shapekit.TensorRule{}, err
	}
	if c.Tensor.Rank < 0 {
		return shapekit.TensorRule{}, fmt.Errorf("tensor.rank must not be negative, got %d", c.Tensor.Rank)
	}
	return shapekit.TensorRule{Policy: p, Rank: c.Tensor.Rank}, nil
}

// flagKeys maps flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"tensor-policy":   "tensor.policy",
	"tensor-rank":     "tensor.rank",
	"strict-optional": "records.strict_optional",
}

// Load reads the configuration. cfgFile may be empty, in which case
// shapekit.yaml in the working directory is used when present. flags may be
// nil; only flags the user changed override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"package":                 scaffold.DefaultPackage,
		"output":                  DefaultOutput,
		"language":                DefaultLanguage,
		"verbose":                 false,
		"tensor.policy":           shapekit.TensorUniform.String(),
		"tensor.rank":             0,
		"records.strict_optional": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: SHAPEKIT_TENSOR_POLICY -> tensor.policy
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if _, err := cfg.TensorRule(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"tensor_", "records_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}
