package backend

import (
	"fmt"
	"strings"
	"sync"
)

// Factory builds a ChatModel for one provider. The modelID argument is the
// remainder of the FromName identifier after the provider prefix and may be
// empty, in which case the provider's default model applies.
type Factory func(modelID string) (ChatModel, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider factory available to FromName. Provider packages
// call it from init, mirroring database/sql driver registration; importing a
// provider package for side effects is enough to enable it. Registering a
// provider again replaces the previous factory.
func Register(provider string, factory Factory) {
	if provider == "" || factory == nil {
		return
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	registry[provider] = factory
}

// Providers returns the names of all registered providers.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	return names
}

// FromName resolves a "provider:model" identifier (for example
// "openai:gpt-4o-mini" or "anthropic:claude-3-5-sonnet-20241022") into a
// ChatModel via the registered provider factory. Everything after the first
// colon is passed to the factory verbatim, so model identifiers containing
// colons work.
func FromName(name string) (ChatModel, error) {
	provider, modelID, found := strings.Cut(name, ":")
	if !found {
		provider = name
	}

	if provider == "" {
		return nil, fmt.Errorf("model name %q is missing a provider prefix", name)
	}

	registryMu.RLock()
	factory, ok := registry[provider]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown model provider %q (is the provider package imported?)", provider)
	}

	return factory(modelID)
}
