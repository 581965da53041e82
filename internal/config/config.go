// Package config loads smart_coverage.yaml and merges it with built-in
// defaults. Command line flags override these values in the command layer.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// AIConfig holds the configuration for the insight-generating model.
type AIConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	Endpoint  string `mapstructure:"endpoint"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

// OutputConfig controls which report artifacts are produced.
type OutputConfig struct {
	HTMLDir  string `mapstructure:"html_dir"`
	JSONPath string `mapstructure:"json_path"`
}

// Config is the merged tool configuration.
type Config struct {
	Input        string       `mapstructure:"input"`
	BaseRef      string       `mapstructure:"base_ref"`
	ModifiedOnly bool         `mapstructure:"modified_only"`
	SourceDir    string       `mapstructure:"source_dir"`
	SourceExt    string       `mapstructure:"source_ext"`
	LogLevel     string       `mapstructure:"log_level"`
	Output       OutputConfig `mapstructure:"output"`
	AI           AIConfig     `mapstructure:"ai"`
}

// Load reads smart_coverage.yaml from the working directory (or a configs/
// subdirectory) and unmarshals it over the defaults. A missing config file
// is not an error; the defaults stand.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("smart_coverage")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "coverage/lcov.info")
	v.SetDefault("base_ref", "main")
	v.SetDefault("modified_only", false)
	v.SetDefault("source_dir", "lib")
	v.SetDefault("source_ext", ".dart")
	v.SetDefault("log_level", "info")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.api_key_env", "SMART_COVERAGE_API_KEY")
}
