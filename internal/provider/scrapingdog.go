// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// scrapingDogAPIBase is the ScrapingDog Google Scholar endpoint. Declared
// as a var so tests can substitute an httptest server.
var scrapingDogAPIBase = "https://api.scrapingdog.com/google_scholar"

// ScrapingDog queries Google Scholar through the ScrapingDog API.
type ScrapingDog struct {
	fetcher
	apiKey string
}

// NewScrapingDog returns a ScrapingDog provider using apiKey.
func NewScrapingDog(client *http.Client, cfg types.HTTPConfig, apiKey string) *ScrapingDog {
	return &ScrapingDog{
		fetcher: fetcher{name: types.ProviderScrapingDog, client: client, timeout: cfg.Timeout, userAgent: cfg.UserAgent},
		apiKey:  apiKey,
	}
}

func (p *ScrapingDog) Name() string { return types.ProviderScrapingDog }

func (p *ScrapingDog) Traits() Traits {
	return Traits{YearFilter: true, Keyed: true}
}

// Search runs one results page query. The author, when set, must already
// be folded into the query text by the caller.
func (p *ScrapingDog) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	params := url.Values{
		"api_key":  {p.apiKey},
		"query":    {q.Text},
		"language": {q.Language},
		"page":     {"0"},
		"results":  {fmt.Sprintf("%d", q.MaxResults)},
	}
	if y := yearParam(q.YearStart); y != "" {
		params.Set("as_ylo", y)
	}
	if y := yearParam(q.YearEnd); y != "" {
		params.Set("as_yhi", y)
	}

	body, err := p.get(ctx, scrapingDogAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	raw, items, err := normalize.DecodeResults(body, "organic_results")
	if err != nil {
		if msg := raw.String("message"); msg != "" {
			return nil, upstreamErr(p.Name(), "%s", msg)
		}
		return nil, upstreamErr(p.Name(), "%v", err)
	}

	records := make([]types.Record, 0, len(items))
	for _, item := range items {
		records = append(records, normalize.ScrapingDog(item, p.Name()))
	}
	return limit(records, q.MaxResults), nil
}

// LookupAuthor is not offered by the ScrapingDog Scholar endpoint.
func (p *ScrapingDog) LookupAuthor(context.Context, string) (types.AuthorProfile, error) {
	return types.AuthorProfile{}, unsupported(p.Name())
}

// LookupByTitle returns the first result of a title search.
func (p *ScrapingDog) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	records, err := p.Search(ctx, types.SearchQuery{Text: title, MaxResults: 1})
	if err != nil {
		return types.Record{}, err
	}
	if len(records) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return records[0], nil
}
