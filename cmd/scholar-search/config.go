// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-search/internal/provider"
	"github.com/pdiddy/scholar-search/internal/search"
	"github.com/pdiddy/scholar-search/internal/secrets"
	"github.com/pdiddy/scholar-search/pkg/types"
)

const defaultUserAgent = "scholar-search/0.1"

// providerEnv maps config keys to the unprefixed environment variables the
// provider credentials have always been read from.
var providerEnv = map[string]string{
	"search.scrapingdog_api_key":      "SCRAPINGDOG_API_KEY",
	"search.serp_api_key":             "SERP_API_KEY",
	"search.semantic_scholar_api_key": "SEMANTIC_SCHOLAR_API_KEY",
	"search.openalex_email":           "OPENALEX_EMAIL",
}

func bindProviderEnv() {
	for key, env := range providerEnv {
		viper.BindEnv(key, env)
	}
}

func setDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("search.timeout", 30*time.Second)
	viper.SetDefault("search.scholar_timeout", 60*time.Second)
	viper.SetDefault("search.user_agent", defaultUserAgent)
	viper.SetDefault("search.num_results", types.DefaultResults)
	viper.SetDefault("search.language", types.DefaultLanguage)
	viper.SetDefault("search.order", types.DefaultProviderOrder)
	viper.SetDefault("search.enable_scholar", true)
	viper.SetDefault("search.enable_semantic_scholar", true)
	viper.SetDefault("search.enable_openalex", true)
	viper.SetDefault("search.enable_arxiv", true)
	viper.SetDefault("server.addr", ":8080")

	dataDir := ".scholar-search"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "scholar-search")
	}
	viper.SetDefault("library.dir", dataDir)
}

// secretOr returns the configured value, or the named secret when the
// configuration leaves it empty.
func secretOr(key, secret string) string {
	if v := strings.TrimSpace(viper.GetString(key)); v != "" {
		return v
	}
	return loadedSecrets.Lookup(secret)
}

func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("search.timeout"),
			UserAgent: viper.GetString("search.user_agent"),
		},
		ScholarTimeout:        viper.GetDuration("search.scholar_timeout"),
		NumResults:            viper.GetInt("search.num_results"),
		Language:              viper.GetString("search.language"),
		Order:                 viper.GetStringSlice("search.order"),
		ScrapingDogAPIKey:     secretOr("search.scrapingdog_api_key", secrets.ScrapingDogAPIKey),
		SerpAPIKey:            secretOr("search.serp_api_key", secrets.SerpAPIKey),
		SemanticScholarAPIKey: secretOr("search.semantic_scholar_api_key", secrets.SemanticScholarAPIKey),
		OpenAlexEmail:         secretOr("search.openalex_email", secrets.OpenAlexEmail),
		EnableScholar:         viper.GetBool("search.enable_scholar"),
		EnableSemanticScholar: viper.GetBool("search.enable_semantic_scholar"),
		EnableOpenAlex:        viper.GetBool("search.enable_openalex"),
		EnableArxiv:           viper.GetBool("search.enable_arxiv"),
	}
}

func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{Dir: viper.GetString("library.dir")}
}

func serverConfig() types.ServerConfig {
	return types.ServerConfig{
		Addr:           viper.GetString("server.addr"),
		AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
	}
}

var (
	loggerOnce sync.Once
	log        *slog.Logger
)

// logger returns the process logger: a text handler on stderr at the
// configured level.
func logger() *slog.Logger {
	loggerOnce.Do(func() {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(viper.GetString("log_level"))}))
		slog.SetDefault(log)
	})
	return log
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// newOrchestrator builds the provider list from the configuration.
func newOrchestrator() (*search.Orchestrator, types.SearchConfig, error) {
	cfg := searchConfig()
	providers, err := provider.Build(cfg, &http.Client{})
	if err != nil {
		return nil, cfg, err
	}
	return search.New(providers, logger()), cfg, nil
}
