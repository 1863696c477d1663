package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hydroworks/hydrobench/internal/config"
)

// providerSet holds the configured providers keyed by canonical name.
type providerSet map[string]Provider

// canonicalName maps aliases and sloppy casing onto the names the set is
// keyed by.
func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "anthropic" {
		return "claude"
	}
	return name
}

func buildProviders(cfg *config.Config) (providerSet, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	set := make(providerSet, len(cfg.LLM.Providers))
	for name, pcfg := range cfg.LLM.Providers {
		switch canonicalName(name) {
		case "":
			continue
		case "claude":
			set["claude"] = NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model)
		case "openai":
			set["openai"] = NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model)
		default:
			return nil, fmt.Errorf("llm: unknown provider %q", name)
		}
	}
	return set, nil
}

func (s providerSet) get(name string) (Provider, bool) {
	p, ok := s[canonicalName(name)]
	return p, ok
}

func (s providerSet) names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderFromConfig resolves a provider by name, falling back to the
// configured default, then to the only configured provider.
func ProviderFromConfig(cfg *config.Config, name string) (Provider, error) {
	set, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if name == "" {
		name = "claude"
	}
	if p, ok := set.get(name); ok {
		return p, nil
	}

	if len(set) == 1 {
		for _, p := range set {
			return p, nil
		}
	}

	return nil, fmt.Errorf("llm: provider %q not configured (available: %s)",
		name, strings.Join(set.names(), ", "))
}
