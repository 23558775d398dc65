// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// serpNoResults marks an error payload that only means "nothing matched".
const serpNoResults = "hasn't returned any results"

// SerpAPI queries Google Scholar through SerpAPI.
type SerpAPI struct {
	fetcher
	apiKey string
}

// NewSerpAPI returns a SerpAPI provider using apiKey.
func NewSerpAPI(client *http.Client, cfg types.HTTPConfig, apiKey string) *SerpAPI {
	return &SerpAPI{
		fetcher: fetcher{name: types.ProviderSerpAPI, client: client, timeout: cfg.Timeout, userAgent: cfg.UserAgent},
		apiKey:  apiKey,
	}
}

func (p *SerpAPI) Name() string { return types.ProviderSerpAPI }

func (p *SerpAPI) Traits() Traits {
	return Traits{YearFilter: true, Keyed: true}
}

// Search queries the google_scholar engine.
func (p *SerpAPI) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	params := url.Values{
		"engine": {"google_scholar"},
		"q":      {q.Text},
		"hl":     {q.Language},
		"num":    {fmt.Sprintf("%d", q.MaxResults)},
	}
	if y := yearParam(q.YearStart); y != "" {
		params.Set("as_ylo", y)
	}
	if y := yearParam(q.YearEnd); y != "" {
		params.Set("as_yhi", y)
	}

	_, items, err := p.call(ctx, params, "organic_results")
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, 0, len(items))
	for _, item := range items {
		records = append(records, normalize.SerpAPI(item, p.Name()))
	}
	return limit(records, q.MaxResults), nil
}

// LookupAuthor resolves name to a Scholar profile id, then fetches the
// profile.
func (p *SerpAPI) LookupAuthor(ctx context.Context, name string) (types.AuthorProfile, error) {
	_, profiles, err := p.call(ctx, url.Values{
		"engine":   {"google_scholar_profiles"},
		"mauthors": {name},
	}, "profiles")
	if err != nil {
		return types.AuthorProfile{}, err
	}
	var authorID string
	for _, prof := range profiles {
		if authorID = prof.String("author_id"); authorID != "" {
			break
		}
	}
	if authorID == "" {
		return types.AuthorProfile{}, upstreamErr(p.Name(), "no author profile found for %q", name)
	}

	raw, _, err := p.call(ctx, url.Values{
		"engine":    {"google_scholar_author"},
		"author_id": {authorID},
	}, "author")
	if err != nil {
		return types.AuthorProfile{}, err
	}
	return p.profile(raw), nil
}

// LookupByTitle returns the first result of a title search.
func (p *SerpAPI) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	records, err := p.Search(ctx, types.SearchQuery{Text: title, MaxResults: 1})
	if err != nil {
		return types.Record{}, err
	}
	if len(records) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return records[0], nil
}

// call issues one SerpAPI request and returns the decoded payload and the
// list stored under key. An explicit "no results" error payload yields an
// empty list; any other error payload is an upstream failure.
func (p *SerpAPI) call(ctx context.Context, params url.Values, key string) (normalize.Raw, []normalize.Raw, error) {
	params.Set("api_key", p.apiKey)
	body, err := p.get(ctx, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}

	raw, items, err := normalize.DecodeResults(body, key)
	if msg := raw.String("error"); msg != "" {
		if strings.Contains(msg, serpNoResults) {
			return raw, []normalize.Raw{}, nil
		}
		return nil, nil, upstreamErr(p.Name(), "%s", msg)
	}
	if err != nil {
		return nil, nil, upstreamErr(p.Name(), "%v", err)
	}
	return raw, items, nil
}

func (p *SerpAPI) profile(raw normalize.Raw) types.AuthorProfile {
	prof := types.NewAuthorProfile(p.Name())
	author := raw.Map("author")
	prof.Name = known(author.String("name"))
	prof.Affiliation = known(author.String("affiliations"))
	prof.Homepage = known(author.String("website"))
	prof.EmailDomain = emailDomain(author.String("email"))
	for _, in := range author.Slice("interests") {
		if t := in.String("title"); t != "" {
			prof.Interests = append(prof.Interests, t)
		}
	}

	for _, row := range raw.Slice("cited_by", "table") {
		if m := row.Map("citations"); m != nil {
			prof.CitationCounts.Total, prof.CitationCounts.Recent5y = allAndSince(m)
		}
		if m := row.Map("h_index"); m != nil {
			prof.HIndex, prof.HIndex5y = allAndSince(m)
		}
		if m := row.Map("i10_index"); m != nil {
			prof.I10Index, prof.I10Index5y = allAndSince(m)
		}
	}

	var pubs []types.Publication
	for _, art := range raw.Slice("articles") {
		c, _ := art.Get("cited_by", "value")
		pubs = append(pubs, types.Publication{
			Title:     known(art.String("title")),
			Year:      known(art.String("year")),
			Citations: normalize.CitationCount(c),
			Venue:     known(art.String("publication")),
		})
	}
	prof.TopPublications = capPublications(pubs)
	return prof
}

// allAndSince reads the "all" column and the "since_YYYY" column of one
// cited_by table row.
func allAndSince(m normalize.Raw) (int, int) {
	all, _ := m.Get("all")
	var since any
	for k, v := range m {
		if strings.HasPrefix(k, "since") {
			since = v
		}
	}
	return normalize.CitationCount(all), normalize.CitationCount(since)
}

// emailDomain reduces "Verified email at stanford.edu" to "@stanford.edu".
func emailDomain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Unknown
	}
	if i := strings.LastIndex(s, " at "); i >= 0 {
		return "@" + strings.TrimSpace(s[i+len(" at "):])
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		return s[i:]
	}
	return s
}

func known(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Unknown
	}
	return s
}
