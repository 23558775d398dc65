// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the network-backed providers.
type HTTPConfig struct {
	// Timeout bounds one provider call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Provider identifiers, in the default priority order.
const (
	ProviderScrapingDog     = "scrapingdog"
	ProviderSerpAPI         = "serpapi"
	ProviderScholar         = "scholar"
	ProviderSemanticScholar = "semantic_scholar"
	ProviderOpenAlex        = "openalex"
	ProviderArxiv           = "arxiv"
)

// DefaultProviderOrder is the fallback priority used when the configuration
// does not name one.
var DefaultProviderOrder = []string{
	ProviderScrapingDog,
	ProviderSerpAPI,
	ProviderScholar,
	ProviderSemanticScholar,
	ProviderOpenAlex,
	ProviderArxiv,
}

// SearchConfig holds the provider settings resolved at startup.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// ScholarTimeout bounds one call to the direct Google Scholar provider,
	// which is slower than the API-backed ones (default 60s).
	ScholarTimeout time.Duration `json:"scholar_timeout" yaml:"scholar_timeout"`

	// NumResults is the default number of results per search (default 5).
	NumResults int `json:"num_results" yaml:"num_results"`

	// Language is the default interface language (default "en").
	Language string `json:"language" yaml:"language"`

	// Order is the provider priority list. Unknown names are rejected.
	Order []string `json:"order" yaml:"order"`

	// ScrapingDogAPIKey enables the primary provider when set.
	ScrapingDogAPIKey string `json:"scrapingdog_api_key,omitempty" yaml:"scrapingdog_api_key,omitempty"`

	// SerpAPIKey enables the secondary provider when set.
	SerpAPIKey string `json:"serp_api_key,omitempty" yaml:"serp_api_key,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAlexEmail is sent as mailto for OpenAlex polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	EnableScholar         bool `json:"enable_scholar" yaml:"enable_scholar"`
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`
	EnableOpenAlex        bool `json:"enable_openalex" yaml:"enable_openalex"`
	EnableArxiv           bool `json:"enable_arxiv" yaml:"enable_arxiv"`
}

// LibraryConfig holds settings for the local bibliography library.
type LibraryConfig struct {
	// Dir contains library.db (default "~/.local/share/scholar-search").
	Dir string `json:"dir" yaml:"dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}
