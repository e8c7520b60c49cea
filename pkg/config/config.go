// Package config loads runtime configuration from YAML files and
// environment variables. Precedence, highest first: environment variables,
// a project-level .roborail.yaml, the user config under the XDG config
// directory, then built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Models     ModelsConfig     `mapstructure:"models"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ProvidersConfig holds per-provider API credentials.
type ProvidersConfig struct {
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Google    ProviderConfig `mapstructure:"google"`
}

// ProviderConfig holds one provider's credentials.
type ProviderConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Configured reports whether the provider has a usable key.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// ModelsConfig names the models used per role.
type ModelsConfig struct {
	// Default is the generation model handed to workers when the request
	// does not override it.
	Default string `mapstructure:"default"`
	// Classifier is the small model used for intent classification.
	Classifier string `mapstructure:"classifier"`
	// Embedding is the embedding model for the vector index.
	Embedding string `mapstructure:"embedding"`
	// Provider selects which backend serves generation requests.
	Provider string `mapstructure:"provider"`
}

// ExecutionConfig holds orchestration timing and retry settings.
type ExecutionConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
}

// RetrievalConfig holds retrieval defaults.
type RetrievalConfig struct {
	MaxResults int     `mapstructure:"max_results"`
	Threshold  float64 `mapstructure:"threshold"`
}

// ClassifierConfig points at an optional keyword table override.
type ClassifierConfig struct {
	KeywordFile string `mapstructure:"keyword_file"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load reads configuration from the standard locations.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		pv := viper.New()
		pv.SetConfigFile(projectConfig)
		if err := pv.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("providers.google.api_key", "GEMINI_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Providers.Anthropic.APIKey = os.ExpandEnv(cfg.Providers.Anthropic.APIKey)
	cfg.Providers.OpenAI.APIKey = os.ExpandEnv(cfg.Providers.OpenAI.APIKey)
	cfg.Providers.Google.APIKey = os.ExpandEnv(cfg.Providers.Google.APIKey)

	return cfg, nil
}

// LoadFromPath reads configuration from a single explicit file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot serve requests.
func (c *Config) Validate() error {
	if c.Execution.Timeout <= 0 {
		return fmt.Errorf("execution timeout must be positive")
	}
	if c.Execution.MaxRetries < 1 {
		return fmt.Errorf("execution max_retries must be at least 1")
	}
	if c.Models.Default == "" {
		return fmt.Errorf("models default must be set")
	}
	switch c.Models.Provider {
	case "anthropic", "openai", "google", "mock":
	default:
		return fmt.Errorf("unknown provider %q", c.Models.Provider)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.google.api_key", "")

	v.SetDefault("models.default", "claude-sonnet-4-20250514")
	v.SetDefault("models.classifier", "claude-3-5-haiku-20241022")
	v.SetDefault("models.embedding", "gemini-embedding-001")
	v.SetDefault("models.provider", "anthropic")

	v.SetDefault("execution.timeout", "30s")
	v.SetDefault("execution.max_retries", 2)
	v.SetDefault("execution.health_timeout", "5s")

	v.SetDefault("retrieval.max_results", 5)
	v.SetDefault("retrieval.threshold", 0.25)

	v.SetDefault("classifier.keyword_file", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roborail")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "roborail")
	}
	return filepath.Join(home, ".config", "roborail")
}

func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(cwd, ".roborail.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}
