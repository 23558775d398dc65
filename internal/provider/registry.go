// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/scholar-search/pkg/types"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultScholarTimeout = 60 * time.Second
)

// Build constructs the providers named by cfg.Order (or the default order)
// once at startup. A provider whose credential is missing, or which is
// disabled, is represented by an *Unavailable so it still shows up in the
// priority list and is skipped at call time.
func Build(cfg types.SearchConfig, client *http.Client) ([]Provider, error) {
	order := cfg.Order
	if len(order) == 0 {
		order = types.DefaultProviderOrder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ScholarTimeout <= 0 {
		cfg.ScholarTimeout = defaultScholarTimeout
	}

	seen := make(map[string]bool, len(order))
	providers := make([]Provider, 0, len(order))
	for _, name := range order {
		if seen[name] {
			return nil, fmt.Errorf("provider %q listed twice in search.order", name)
		}
		seen[name] = true

		p, err := build(name, cfg, client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func build(name string, cfg types.SearchConfig, client *http.Client) (Provider, error) {
	switch name {
	case types.ProviderScrapingDog:
		if cfg.ScrapingDogAPIKey == "" {
			return missing(name, "SCRAPINGDOG_API_KEY not set", Traits{YearFilter: true, Keyed: true}), nil
		}
		return NewScrapingDog(client, cfg.HTTPConfig, cfg.ScrapingDogAPIKey), nil
	case types.ProviderSerpAPI:
		if cfg.SerpAPIKey == "" {
			return missing(name, "SERP_API_KEY not set", Traits{YearFilter: true, Keyed: true}), nil
		}
		return NewSerpAPI(client, cfg.HTTPConfig, cfg.SerpAPIKey), nil
	case types.ProviderScholar:
		if !cfg.EnableScholar {
			return missing(name, "disabled by search.enable_scholar", Traits{AuthorFilter: true, YearFilter: true}), nil
		}
		return NewScholar(client, cfg.UserAgent, cfg.ScholarTimeout), nil
	case types.ProviderSemanticScholar:
		if !cfg.EnableSemanticScholar {
			return missing(name, "disabled by search.enable_semantic_scholar", Traits{YearFilter: true}), nil
		}
		return NewSemanticScholar(client, cfg.HTTPConfig, cfg.SemanticScholarAPIKey), nil
	case types.ProviderOpenAlex:
		if !cfg.EnableOpenAlex {
			return missing(name, "disabled by search.enable_openalex", Traits{YearFilter: true}), nil
		}
		return NewOpenAlex(client, cfg.HTTPConfig, cfg.OpenAlexEmail), nil
	case types.ProviderArxiv:
		if !cfg.EnableArxiv {
			return missing(name, "disabled by search.enable_arxiv", Traits{AuthorFilter: true}), nil
		}
		return NewArxiv(client, cfg.HTTPConfig), nil
	default:
		return nil, fmt.Errorf("unknown provider %q in search.order", name)
	}
}

func missing(name, reason string, traits Traits) *Unavailable {
	return &Unavailable{ProviderName: name, Reason: reason, ProviderTraits: traits}
}

// Available reports whether p can serve requests in this process.
func Available(p Provider) bool {
	_, unavailable := p.(*Unavailable)
	return !unavailable
}
