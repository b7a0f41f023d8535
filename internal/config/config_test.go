package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return *Default()
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AI.Provider = "watsonx" },
			wantErr: true,
			errMsg:  "Provider",
		},
		{
			name:    "invalid base URL",
			mutate:  func(c *Config) { c.AI.BaseURL = "not-a-url" },
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "empty base URL falls back to SDK default",
			mutate:  func(c *Config) { c.AI.BaseURL = "" },
			wantErr: false,
		},
		{
			name:    "timeout too high",
			mutate:  func(c *Config) { c.AI.Timeout = 7200 },
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "missing advanced model",
			mutate:  func(c *Config) { c.AI.Models.Advanced = "" },
			wantErr: true,
			errMsg:  "Advanced",
		},
		{
			name:    "batch concurrency too high",
			mutate:  func(c *Config) { c.Batch.Concurrency = 64 },
			wantErr: true,
			errMsg:  "Concurrency",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
			errMsg:  "Level",
		},
		{
			name:    "language hint with punctuation",
			mutate:  func(c *Config) { c.Extract.Language = "php```" },
			wantErr: true,
			errMsg:  "Language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestProviderDefaultsValidate(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderGemini} {
		t.Run(provider, func(t *testing.T) {
			cfg := validConfig()
			cfg.AI = ProviderDefaults(provider)
			if err := cfg.validate(); err != nil {
				t.Errorf("ProviderDefaults(%q) should produce valid config, got error: %v", provider, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("WPASSIST_PROVIDER", "")
	t.Setenv("WPASSIST_BASE_URL", "")
	t.Setenv("WPASSIST_LOG_LEVEL", "")

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.AI.Provider != ProviderOpenAI {
			t.Errorf("Provider = %q, want %q", cfg.AI.Provider, ProviderOpenAI)
		}
		if cfg.Extract.MinLength != 20 {
			t.Errorf("MinLength = %d, want 20", cfg.Extract.MinLength)
		}
	})

	t.Run("file overrides and provider switch", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `ai:
  provider: anthropic
  models:
    advanced: claude-3-opus-20240229
batch:
  concurrency: 2
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.AI.BaseURL != "https://api.anthropic.com/v1" {
			t.Errorf("BaseURL = %q, want anthropic default", cfg.AI.BaseURL)
		}
		if cfg.AI.Models.Fast != "claude-3-5-haiku-20241022" {
			t.Errorf("Models.Fast = %q, want provider default", cfg.AI.Models.Fast)
		}
		if cfg.AI.Models.Advanced != "claude-3-opus-20240229" {
			t.Errorf("Models.Advanced = %q, want override", cfg.AI.Models.Advanced)
		}
		if cfg.Batch.Concurrency != 2 {
			t.Errorf("Concurrency = %d, want 2", cfg.Batch.Concurrency)
		}
	})

	t.Run("explicit zeros override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `ai:
  timeout: 0
extract:
  min_length: 0
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.AI.Timeout != 0 {
			t.Errorf("Timeout = %d, want 0", cfg.AI.Timeout)
		}
		if cfg.Extract.MinLength != 0 {
			t.Errorf("MinLength = %d, want 0", cfg.Extract.MinLength)
		}
	})

	t.Run("omitted numbers keep defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("ai:\n  provider: ollama\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.AI.Timeout != 900 {
			t.Errorf("Timeout = %d, want ollama default 900", cfg.AI.Timeout)
		}
		if cfg.Extract.MinLength != 20 {
			t.Errorf("MinLength = %d, want 20", cfg.Extract.MinLength)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("WPASSIST_BASE_URL", "http://localhost:8080/v1")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.AI.BaseURL != "http://localhost:8080/v1" {
			t.Errorf("BaseURL = %q, want env override", cfg.AI.BaseURL)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("ai: [unclosed"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestParseModelTier(t *testing.T) {
	tests := []struct {
		in      string
		want    ModelTier
		wantErr bool
	}{
		{"fast", TierFast, false},
		{"Fast-Tier", TierFast, false},
		{"gpt-3.5-turbo", TierFast, false},
		{"advanced", TierAdvanced, false},
		{"gpt-4", TierAdvanced, false},
		{"turbo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModelTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseModelTier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCredentialEnv(t *testing.T) {
	if got := ProviderDefaults(ProviderOpenAI).CredentialEnv(); got != "OPENAI_API_KEY" {
		t.Errorf("openai CredentialEnv() = %q", got)
	}
	if ProviderDefaults(ProviderOllama).RequiresCredential() {
		t.Error("ollama should not require a credential")
	}

	t.Setenv("ANTHROPIC_API_KEY", "  sk-ant-test  ")
	if got := ProviderDefaults(ProviderAnthropic).LookupCredential(); got != "sk-ant-test" {
		t.Errorf("LookupCredential() = %q, want trimmed key", got)
	}
}
