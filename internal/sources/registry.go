package sources

import (
	"fmt"

	"github.com/ppiankov/factcheck/internal/model"
)

// Registry holds the providers in the order their results are merged
type Registry struct {
	providers []Provider
	byName    map[string]Provider
}

// NewRegistry creates a registry holding the given providers
func NewRegistry(providers ...Provider) *Registry {
	registry := &Registry{
		byName: make(map[string]Provider),
	}
	for _, p := range providers {
		registry.Register(p)
	}
	return registry
}

// Register appends a provider
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	r.byName[p.Name()] = p
}

// Providers returns the registered providers in registration order
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Get finds a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the provider names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// NewDefaultRegistry builds the enabled providers, in configured order
func NewDefaultRegistry(client *Client, cfg model.ProvidersConfig) (*Registry, error) {
	registry := NewRegistry()

	for _, name := range cfg.Enabled {
		var p Provider
		switch name {
		case WikipediaName:
			p = NewWikipedia(client, cfg.Languages)
		case WikidataName:
			language := "fr"
			if len(cfg.Languages) > 0 {
				language = cfg.Languages[0]
			}
			p = NewWikidata(client, language)
		case DuckDuckGoName:
			p = NewDuckDuckGo(client)
		case ArchiveName:
			p = NewArchive(client)
		case PubMedName:
			p = NewPubMed(client)
		case OpenLibraryName:
			p = NewOpenLibrary(client)
		default:
			return nil, fmt.Errorf("unknown provider: %s", name)
		}

		if _, exists := registry.Get(name); exists {
			return nil, fmt.Errorf("provider enabled twice: %s", name)
		}
		registry.Register(p)
	}

	return registry, nil
}
