package ai

import (
	"context"
	"time"

	"strategist/internal/adapters/config"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

const chatTimeout = 60 * time.Second

// NewRegistryFromConfig builds a registry holding every provider that has
// an API key configured. Providers without keys are skipped, not errored;
// the default provider is resolved later by name.
func NewRegistryFromConfig(ctx context.Context, cfg config.AIConfig, log *logger.Logger) (*Registry, error) {
	registry := NewRegistry()

	if cfg.OpenAIKey != "" {
		provider := NewOpenAIProvider(cfg.OpenAIKey, chatTimeout, cfg.ReqPerMinute, cfg.Burst)
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
		log.Infof("registered AI provider: %s", provider.Name())
	}

	if cfg.GeminiKey != "" {
		provider, err := NewGeminiProvider(ctx, cfg.GeminiKey, cfg.ReqPerMinute, cfg.Burst)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
		log.Infof("registered AI provider: %s", provider.Name())
	}

	if len(registry.List()) == 0 {
		return nil, errors.Wrap(errors.ErrProviderNotConfigured, "no AI provider API keys set")
	}

	return registry, nil
}

// DefaultProvider resolves the configured default, falling back to any
// registered provider when the default has no key set.
func DefaultProvider(registry *Registry, cfg config.AIConfig) (ChatProvider, error) {
	provider, err := registry.Get(ProviderName(cfg.DefaultProvider))
	if err == nil {
		return provider, nil
	}

	providers := registry.List()
	if len(providers) > 0 {
		return providers[0], nil
	}

	return nil, err
}
