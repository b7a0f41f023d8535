package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI      AIConfig      `yaml:"ai" validate:"required"`
	Prompts PromptsConfig `yaml:"prompts"`
	Extract ExtractConfig `yaml:"extract"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

type AIConfig struct {
	Provider string       `yaml:"provider" validate:"required,oneof=openai anthropic ollama gemini"`
	BaseURL  string       `yaml:"base_url" validate:"omitempty,url"`
	Timeout  int          `yaml:"timeout" validate:"min=0,max=3600"` // seconds, 0 disables
	Models   ModelsConfig `yaml:"models" validate:"required"`
}

// ModelsConfig maps the two model tiers to provider model identifiers.
type ModelsConfig struct {
	Fast     string `yaml:"fast" validate:"required"`
	Advanced string `yaml:"advanced" validate:"required"`
}

// PromptsConfig optionally overrides the built-in prompt templates with files.
type PromptsConfig struct {
	Generation string `yaml:"generation"`
	Validation string `yaml:"validation"`
}

type ExtractConfig struct {
	Language  string `yaml:"language" validate:"required,alphanum"`
	MinLength int    `yaml:"min_length" validate:"min=0,max=10000"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency" validate:"min=1,max=16"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = getConfigPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		cfg = merge(cfg, fileCfg)

		var explicit numericSettings
		if err := yaml.Unmarshal(data, &explicit); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		explicit.apply(cfg)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("WPASSIST_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "wpassist", "config.yaml")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wpassist", "config.yaml")
}

// merge overlays the non-zero fields of file onto base. Switching provider
// resets the provider-dependent fields to that provider's defaults first.
func merge(base *Config, file Config) *Config {
	out := *base

	if file.AI.Provider != "" && file.AI.Provider != out.AI.Provider {
		out.AI = ProviderDefaults(file.AI.Provider)
	}
	if file.AI.BaseURL != "" {
		out.AI.BaseURL = file.AI.BaseURL
	}
	if file.AI.Timeout != 0 {
		out.AI.Timeout = file.AI.Timeout
	}
	if file.AI.Models.Fast != "" {
		out.AI.Models.Fast = file.AI.Models.Fast
	}
	if file.AI.Models.Advanced != "" {
		out.AI.Models.Advanced = file.AI.Models.Advanced
	}

	if file.Prompts.Generation != "" {
		out.Prompts.Generation = expandTilde(file.Prompts.Generation)
	}
	if file.Prompts.Validation != "" {
		out.Prompts.Validation = expandTilde(file.Prompts.Validation)
	}

	if file.Extract.Language != "" {
		out.Extract.Language = file.Extract.Language
	}
	if file.Extract.MinLength != 0 {
		out.Extract.MinLength = file.Extract.MinLength
	}

	if file.Batch.Concurrency != 0 {
		out.Batch.Concurrency = file.Batch.Concurrency
	}

	if file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.File != "" {
		out.Logging.File = expandTilde(file.Logging.File)
	}

	return &out
}

// numericSettings captures numeric keys present in the file, so an explicit
// zero (timeout: 0 disables the limit) is not mistaken for an absent key.
type numericSettings struct {
	AI struct {
		Timeout *int `yaml:"timeout"`
	} `yaml:"ai"`
	Extract struct {
		MinLength *int `yaml:"min_length"`
	} `yaml:"extract"`
}

func (n numericSettings) apply(c *Config) {
	if n.AI.Timeout != nil {
		c.AI.Timeout = *n.AI.Timeout
	}
	if n.Extract.MinLength != nil {
		c.Extract.MinLength = *n.Extract.MinLength
	}
}

func (c *Config) applyEnv() {
	if provider := os.Getenv("WPASSIST_PROVIDER"); provider != "" && provider != c.AI.Provider {
		c.AI = ProviderDefaults(provider)
	}
	if baseURL := os.Getenv("WPASSIST_BASE_URL"); baseURL != "" {
		c.AI.BaseURL = baseURL
	}
	if level := os.Getenv("WPASSIST_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// CredentialEnv names the environment variable holding the provider key,
// or "" for providers that take none.
func (c AIConfig) CredentialEnv() string {
	switch c.Provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// RequiresCredential reports whether calls to the provider need a key.
func (c AIConfig) RequiresCredential() bool {
	return c.CredentialEnv() != ""
}

// LookupCredential returns the provider key from the environment, if set.
func (c AIConfig) LookupCredential() string {
	env := c.CredentialEnv()
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}
