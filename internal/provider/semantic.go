// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/pdiddy/scholar-search/internal/httputil"
	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

const semanticFields = "title,abstract,authors,externalIds,year,venue,journal,citationCount,openAccessPdf,url,publicationVenue"

const semanticAuthorFields = "name,affiliations,homepage,citationCount,hIndex,papers.title,papers.year,papers.citationCount,papers.venue"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	fetcher
	apiKey string
}

// NewSemanticScholar returns a Semantic Scholar provider. apiKey is
// optional and only raises rate limits.
func NewSemanticScholar(client *http.Client, cfg types.HTTPConfig, apiKey string) *SemanticScholar {
	return &SemanticScholar{
		fetcher: fetcher{name: types.ProviderSemanticScholar, client: client, timeout: cfg.Timeout, userAgent: cfg.UserAgent},
		apiKey:  apiKey,
	}
}

func (p *SemanticScholar) Name() string { return types.ProviderSemanticScholar }

func (p *SemanticScholar) Traits() Traits {
	return Traits{YearFilter: true}
}

// Search queries the paper search endpoint.
func (p *SemanticScholar) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	params := url.Values{
		"query":  {q.Text},
		"limit":  {strconv.Itoa(q.MaxResults)},
		"fields": {semanticFields},
	}
	if yr := buildYearRange(q.YearStart, q.YearEnd); yr != "" {
		params.Set("year", yr)
	}

	var sr semanticResponse
	if err := p.getJSON(ctx, "/paper/search", params, &sr); err != nil {
		return nil, err
	}
	if sr.Data == nil {
		return nil, upstreamErr(p.Name(), "response carries no data list")
	}

	records := make([]types.Record, 0, len(sr.Data))
	for _, paper := range sr.Data {
		records = append(records, p.record(paper))
	}
	return limit(records, q.MaxResults), nil
}

// LookupAuthor returns the best author search match with the most cited
// papers.
func (p *SemanticScholar) LookupAuthor(ctx context.Context, name string) (types.AuthorProfile, error) {
	var ar semanticAuthorResponse
	err := p.getJSON(ctx, "/author/search", url.Values{
		"query":  {name},
		"limit":  {"1"},
		"fields": {semanticAuthorFields},
	}, &ar)
	if err != nil {
		return types.AuthorProfile{}, err
	}
	if len(ar.Data) == 0 {
		return types.AuthorProfile{}, upstreamErr(p.Name(), "no author profile found for %q", name)
	}

	a := ar.Data[0]
	prof := types.NewAuthorProfile(p.Name())
	prof.Name = known(a.Name)
	if len(a.Affiliations) > 0 {
		prof.Affiliation = known(a.Affiliations[0])
	}
	prof.Homepage = known(a.Homepage)
	prof.CitationCounts.Total = a.CitationCount
	prof.HIndex = a.HIndex

	papers := a.Papers
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].CitationCount > papers[j].CitationCount
	})
	var pubs []types.Publication
	for _, pp := range papers {
		pubs = append(pubs, types.Publication{
			Title:     known(pp.Title),
			Year:      yearString(pp.Year),
			Citations: pp.CitationCount,
			Venue:     known(pp.Venue),
		})
	}
	prof.TopPublications = capPublications(pubs)
	return prof, nil
}

// LookupByTitle uses the title match endpoint, which answers 404 when no
// paper matches.
func (p *SemanticScholar) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	var sr semanticResponse
	err := p.getJSON(ctx, "/paper/search/match", url.Values{
		"query":  {title},
		"fields": {semanticFields},
	}, &sr)
	var se *httputil.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	if err != nil {
		return types.Record{}, err
	}
	if len(sr.Data) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return p.record(sr.Data[0]), nil
}

func (p *SemanticScholar) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	var header map[string]string
	if p.apiKey != "" {
		header = map[string]string{"x-api-key": p.apiKey}
	}
	body, err := p.get(ctx, semanticAPIBase+path+"?"+params.Encode(), header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return upstreamErr(p.Name(), "parsing Semantic Scholar response: %v", err)
	}
	return nil
}

func (p *SemanticScholar) record(paper semanticPaper) types.Record {
	rec := types.NewRecord(p.Name())
	rec.Title = paper.Title
	rec.Abstract = paper.Abstract
	rec.Year = yearString(paper.Year)
	rec.CitationCount = paper.CitationCount
	rec.PaperURL = paper.URL

	for _, a := range paper.Authors {
		ref := types.AuthorRef{Name: a.Name, ID: a.AuthorID}
		if a.AuthorID != "" {
			ref.ProfileLink = "https://www.semanticscholar.org/author/" + a.AuthorID
		}
		rec.Authors.List = append(rec.Authors.List, ref)
	}
	rec.Authors.Display = types.Unknown

	rec.Venue = paper.Venue
	if paper.Journal != nil {
		if rec.Venue == "" {
			rec.Venue = paper.Journal.Name
		}
		rec.Volume = paper.Journal.Volume
		rec.Pages = paper.Journal.Pages
	}
	if paper.OpenAccessPDF != nil && paper.OpenAccessPDF.URL != "" {
		rec.PDFURLAll = []string{paper.OpenAccessPDF.URL}
	}

	rec.DOI = paper.ExternalIDs.DOI
	if paper.ExternalIDs.ArXiv != "" {
		rec.Eprint = paper.ExternalIDs.ArXiv
		rec.ArchivePrefix = "arXiv"
	}
	if paper.PaperID != "" {
		rec.Extra["paper_id"] = paper.PaperID
	}
	return normalize.Finish(rec)
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(from, to int) string {
	switch {
	case from > 0 && to > 0:
		return fmt.Sprintf("%d-%d", from, to)
	case from > 0:
		return fmt.Sprintf("%d-", from)
	case to > 0:
		return fmt.Sprintf("-%d", to)
	default:
		return ""
	}
}

func yearString(y int) string {
	if y <= 0 {
		return types.Unknown
	}
	return strconv.Itoa(y)
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	Venue         string              `json:"venue"`
	URL           string              `json:"url"`
	CitationCount int                 `json:"citationCount"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
	Journal       *semanticJournal    `json:"journal"`
	OpenAccessPDF *semanticPDF        `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticJournal struct {
	Name   string `json:"name"`
	Volume string `json:"volume"`
	Pages  string `json:"pages"`
}

type semanticPDF struct {
	URL string `json:"url"`
}

type semanticAuthorResponse struct {
	Data []semanticAuthorDetail `json:"data"`
}

type semanticAuthorDetail struct {
	AuthorID      string          `json:"authorId"`
	Name          string          `json:"name"`
	Affiliations  []string        `json:"affiliations"`
	Homepage      string          `json:"homepage"`
	CitationCount int             `json:"citationCount"`
	HIndex        int             `json:"hIndex"`
	Papers        []semanticPaper `json:"papers"`
}
