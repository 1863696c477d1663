// Package config loads the tool's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hydroworks/hydrobench/internal/benchmark"
)

const DefaultPath = "configs/hydrobench.yaml"

type Config struct {
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Columns   ColumnsConfig   `yaml:"columns"`
	Output    OutputConfig    `yaml:"output"`
	Storage   StorageConfig   `yaml:"storage"`
	LLM       LLMConfig       `yaml:"llm"`
}

// BenchmarkConfig points at the question dataset.
type BenchmarkConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ColumnsConfig overrides the recognized column names of tabular
// benchmark and prediction files.
type ColumnsConfig struct {
	ID       string `yaml:"id,omitempty"`
	Question string `yaml:"question,omitempty"`
	Answer   string `yaml:"answer,omitempty"`
	Category string `yaml:"category,omitempty"`
	Level    string `yaml:"level,omitempty"`
	Type     string `yaml:"type,omitempty"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Output:  OutputConfig{Dir: "results"},
		Storage: StorageConfig{Path: "data/hydrobench.db"},
		LLM: LLMConfig{
			DefaultProvider: "claude",
			Providers:       make(map[string]ProviderConfig),
		},
	}
}

// Load reads the configuration at path. An empty path means the default
// location, and a missing file there falls back to defaults; an explicit
// path that does not exist is an error. Provider API keys found in the
// environment override the file in both cases.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg := Default()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "claude"
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
}

// BenchmarkColumns merges the configured column overrides over the
// loader's conventional names.
func (c *Config) BenchmarkColumns() benchmark.Columns {
	cols := benchmark.DefaultColumns()
	if v := strings.TrimSpace(c.Columns.ID); v != "" {
		cols.ID = v
	}
	if v := strings.TrimSpace(c.Columns.Question); v != "" {
		cols.Question = v
	}
	if v := strings.TrimSpace(c.Columns.Answer); v != "" {
		cols.Answer = v
	}
	if v := strings.TrimSpace(c.Columns.Category); v != "" {
		cols.Category = v
	}
	if v := strings.TrimSpace(c.Columns.Level); v != "" {
		cols.Level = v
	}
	if v := strings.TrimSpace(c.Columns.Type); v != "" {
		cols.Type = v
	}
	return cols
}
