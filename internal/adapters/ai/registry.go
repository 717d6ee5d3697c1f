package ai

import (
	"sync"

	"strategist/pkg/errors"
)

// Registry stores the configured chat providers.
type Registry struct {
	providers map[ProviderName]ChatProvider
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[ProviderName]ChatProvider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(provider ChatProvider) error {
	if provider == nil {
		return errors.New("provider is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return errors.Newf("provider %s already registered", name)
	}

	r.providers[name] = provider
	return nil
}

// Get returns the provider by name.
func (r *Registry) Get(name ProviderName) (ChatProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrProviderNotConfigured, "provider %s", name)
	}

	return provider, nil
}

// List returns all registered providers.
func (r *Registry) List() []ChatProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]ChatProvider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, p)
	}

	return providers
}
