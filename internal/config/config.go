package config

// Config represents the complete pydocgen configuration.
// It can be loaded from ~/.pydocgen.yaml with environment variable overrides.
type Config struct {
	Explainer ExplainerConfig `yaml:"explainer" mapstructure:"explainer"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// ExplainerConfig configures the explanation collaborator.
type ExplainerConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`               // OpenAI-compatible endpoint root
	Model          string `yaml:"model" mapstructure:"model"`                     // chat model for explanations
	APIKeyEnv      string `yaml:"api_key_env" mapstructure:"api_key_env"`         // env var holding the API key
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`           // explanation length budget
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // per-request HTTP timeout
}

// CacheConfig configures the explanation cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Location string `yaml:"location" mapstructure:"location"` // Override default ~/.pydocgen/cache/explanations.db
}

// OutputConfig configures the rendered document.
type OutputConfig struct {
	Suffix string `yaml:"suffix" mapstructure:"suffix"` // appended to the input's basename
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Explainer: ExplainerConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-3.5-turbo",
			APIKeyEnv:      "OPENAI_API_KEY",
			MaxTokens:      500,
			TimeoutSeconds: 60,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Location: "", // Empty means use the default path
		},
		Output: OutputConfig{
			Suffix: "_detailed_summary.pdf",
		},
	}
}
