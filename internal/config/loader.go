package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PYDOCGEN_*)
// 2. Config file (explicit path, or ~/.pydocgen.yaml, or ./.pydocgen.yaml)
// 3. Default values
//
// A missing config file is not an error; everything has a default. Note the
// API key itself is not configuration: it is read from the environment
// variable named by explainer.api_key_env when the client is built.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pydocgen")
	}

	// Enable environment variable overrides, e.g. PYDOCGEN_EXPLAINER_MODEL
	v.SetEnvPrefix("PYDOCGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("explainer.base_url")
	v.BindEnv("explainer.model")
	v.BindEnv("explainer.api_key_env")
	v.BindEnv("explainer.max_tokens")
	v.BindEnv("explainer.timeout_seconds")
	v.BindEnv("cache.enabled")
	v.BindEnv("cache.location")
	v.BindEnv("output.suffix")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Only a malformed file is fatal; absence falls back to defaults.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers Default()'s values with viper so partial config
// files and env overrides merge cleanly.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("explainer.base_url", def.Explainer.BaseURL)
	v.SetDefault("explainer.model", def.Explainer.Model)
	v.SetDefault("explainer.api_key_env", def.Explainer.APIKeyEnv)
	v.SetDefault("explainer.max_tokens", def.Explainer.MaxTokens)
	v.SetDefault("explainer.timeout_seconds", def.Explainer.TimeoutSeconds)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.location", def.Cache.Location)
	v.SetDefault("output.suffix", def.Output.Suffix)
}
