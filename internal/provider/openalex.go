// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// openAlexAPIBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org"

// OpenAlex queries the OpenAlex works and authors API.
type OpenAlex struct {
	fetcher
	// email is sent as mailto parameter for polite pool access.
	email string
}

// NewOpenAlex returns an OpenAlex provider. email is optional.
func NewOpenAlex(client *http.Client, cfg types.HTTPConfig, email string) *OpenAlex {
	return &OpenAlex{
		fetcher: fetcher{name: types.ProviderOpenAlex, client: client, timeout: cfg.Timeout, userAgent: cfg.UserAgent},
		email:   email,
	}
}

func (p *OpenAlex) Name() string { return types.ProviderOpenAlex }

func (p *OpenAlex) Traits() Traits {
	return Traits{YearFilter: true}
}

// Search runs a relevance-ranked works search.
func (p *OpenAlex) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	perPage := q.MaxResults
	if perPage > 200 {
		perPage = 200
	}
	params := url.Values{
		"search":   {q.Text},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}

	var filters []string
	if q.YearStart > 0 {
		filters = append(filters, fmt.Sprintf("from_publication_date:%d-01-01", q.YearStart))
	}
	if q.YearEnd > 0 {
		filters = append(filters, fmt.Sprintf("to_publication_date:%d-12-31", q.YearEnd))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}

	works, err := p.works(ctx, params)
	if err != nil {
		return nil, err
	}
	return limit(works, q.MaxResults), nil
}

// LookupAuthor takes the first author search hit and lists their most
// cited works.
func (p *OpenAlex) LookupAuthor(ctx context.Context, name string) (types.AuthorProfile, error) {
	var ar openAlexAuthorResponse
	if err := p.getJSON(ctx, "/authors", url.Values{
		"search":   {name},
		"per_page": {"1"},
	}, &ar); err != nil {
		return types.AuthorProfile{}, err
	}
	if len(ar.Results) == 0 {
		return types.AuthorProfile{}, upstreamErr(p.Name(), "no author profile found for %q", name)
	}
	a := ar.Results[0]

	prof := types.NewAuthorProfile(p.Name())
	prof.Name = known(a.DisplayName)
	for _, inst := range a.LastKnownInstitutions {
		if inst.DisplayName != "" {
			prof.Affiliation = inst.DisplayName
			break
		}
	}
	for _, topic := range a.Topics {
		if topic.DisplayName != "" {
			prof.Interests = append(prof.Interests, topic.DisplayName)
		}
		if len(prof.Interests) == 5 {
			break
		}
	}
	prof.CitationCounts.Total = a.CitedByCount
	prof.HIndex = a.SummaryStats.HIndex
	prof.I10Index = a.SummaryStats.I10Index
	prof.CitationCounts.Recent5y = recentCitations(a.CountsByYear, 5)

	works, err := p.works(ctx, url.Values{
		"filter":   {"author.id:" + openAlexShortID(a.ID)},
		"sort":     {"cited_by_count:desc"},
		"per_page": {strconv.Itoa(types.MaxTopPublications)},
	})
	if err != nil {
		return types.AuthorProfile{}, err
	}
	var pubs []types.Publication
	for _, w := range works {
		pubs = append(pubs, types.Publication{
			Title:     w.Title,
			Year:      w.Year,
			Citations: w.CitationCount,
			Venue:     w.Venue,
		})
	}
	prof.TopPublications = capPublications(pubs)
	return prof, nil
}

// LookupByTitle filters works by title words and returns the top hit.
func (p *OpenAlex) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	clean := strings.NewReplacer(",", " ", ":", " ", "|", " ").Replace(title)
	works, err := p.works(ctx, url.Values{
		"filter":   {"title.search:" + strings.Join(strings.Fields(clean), " ")},
		"per_page": {"1"},
	})
	if err != nil {
		return types.Record{}, err
	}
	if len(works) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return works[0], nil
}

func (p *OpenAlex) works(ctx context.Context, params url.Values) ([]types.Record, error) {
	var oar openAlexResponse
	if err := p.getJSON(ctx, "/works", params, &oar); err != nil {
		return nil, err
	}
	if oar.Results == nil {
		return nil, upstreamErr(p.Name(), "response carries no results list")
	}
	records := make([]types.Record, 0, len(oar.Results))
	for _, w := range oar.Results {
		records = append(records, p.record(w))
	}
	return records, nil
}

func (p *OpenAlex) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	if p.email != "" {
		params.Set("mailto", p.email)
	}
	body, err := p.get(ctx, openAlexAPIBase+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return upstreamErr(p.Name(), "parsing OpenAlex response: %v", err)
	}
	return nil
}

func (p *OpenAlex) record(work openAlexWork) types.Record {
	rec := types.NewRecord(p.Name())
	rec.Title = work.Title
	rec.Abstract = reconstructAbstract(work.AbstractInvertedIndex)
	rec.Year = yearString(work.PublicationYear)
	rec.CitationCount = work.CitedByCount

	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName == "" {
			continue
		}
		rec.Authors.List = append(rec.Authors.List, types.AuthorRef{
			Name:        authorship.Author.DisplayName,
			ID:          openAlexShortID(authorship.Author.ID),
			ProfileLink: authorship.Author.ID,
		})
	}
	rec.Authors.Display = types.Unknown

	if src := work.PrimaryLocation.Source; src != nil {
		rec.Venue = src.DisplayName
		rec.Publisher = src.HostOrganizationName
	}
	rec.Volume = work.Biblio.Volume
	rec.Number = work.Biblio.Issue
	switch {
	case work.Biblio.FirstPage != "" && work.Biblio.LastPage != "":
		rec.Pages = work.Biblio.FirstPage + "-" + work.Biblio.LastPage
	case work.Biblio.FirstPage != "":
		rec.Pages = work.Biblio.FirstPage
	}

	// Strip the https://doi.org/ prefix to get the bare DOI.
	if work.DOI != "" {
		rec.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
		rec.PaperURL = work.DOI
	} else {
		rec.PaperURL = work.ID
	}

	var pdfs []string
	for _, u := range []string{work.PrimaryLocation.PDFURL, work.BestOALocation.PDFURL, work.OpenAccess.OAURL} {
		if u != "" && !contains(pdfs, u) {
			pdfs = append(pdfs, u)
		}
	}
	rec.PDFURLAll = pdfs
	if work.ID != "" {
		rec.Extra["openalex_id"] = openAlexShortID(work.ID)
	}
	return normalize.Finish(rec)
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// recentCitations sums the citation counts of the latest n years reported.
func recentCitations(counts []openAlexYearCount, n int) int {
	latest := 0
	for _, c := range counts {
		if c.Year > latest {
			latest = c.Year
		}
	}
	total := 0
	for _, c := range counts {
		if c.Year > latest-n {
			total += c.CitedByCount
		}
	}
	return total
}

// openAlexShortID reduces "https://openalex.org/A123" to "A123".
func openAlexShortID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	BestOALocation        openAlexLocation     `json:"best_oa_location"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	Biblio                openAlexBiblio       `json:"biblio"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	PDFURL string          `json:"pdf_url"`
	Source *openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName          string `json:"display_name"`
	HostOrganizationName string `json:"host_organization_name"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

type openAlexAuthorResponse struct {
	Results []openAlexAuthorDetail `json:"results"`
}

type openAlexAuthorDetail struct {
	ID                    string `json:"id"`
	DisplayName           string `json:"display_name"`
	CitedByCount          int    `json:"cited_by_count"`
	LastKnownInstitutions []struct {
		DisplayName string `json:"display_name"`
	} `json:"last_known_institutions"`
	Topics []struct {
		DisplayName string `json:"display_name"`
	} `json:"topics"`
	SummaryStats struct {
		HIndex   int `json:"h_index"`
		I10Index int `json:"i10_index"`
	} `json:"summary_stats"`
	CountsByYear []openAlexYearCount `json:"counts_by_year"`
}

type openAlexYearCount struct {
	Year         int `json:"year"`
	CitedByCount int `json:"cited_by_count"`
}
