// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API. It filters by author natively but has
// no year parameter.
type Arxiv struct {
	fetcher
}

// NewArxiv returns an arXiv provider.
func NewArxiv(client *http.Client, cfg types.HTTPConfig) *Arxiv {
	return &Arxiv{fetcher: fetcher{name: types.ProviderArxiv, client: client, timeout: cfg.Timeout, userAgent: cfg.UserAgent}}
}

func (p *Arxiv) Name() string { return types.ProviderArxiv }

func (p *Arxiv) Traits() Traits {
	return Traits{AuthorFilter: true}
}

// Search queries arXiv sorted by relevance.
func (p *Arxiv) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	sq := buildArxivQuery("all", q.Text)
	if q.Author != "" {
		sq = joinArxiv(sq, buildArxivQuery("au", q.Author))
	}
	if sq == "" {
		return nil, upstreamErr(p.Name(), "empty arXiv query")
	}
	return p.query(ctx, sq, q.MaxResults)
}

// LookupAuthor is not offered by arXiv.
func (p *Arxiv) LookupAuthor(context.Context, string) (types.AuthorProfile, error) {
	return types.AuthorProfile{}, unsupported(p.Name())
}

// LookupByTitle searches the title field and returns the top hit.
func (p *Arxiv) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	sq := buildArxivQuery("ti", title)
	if sq == "" {
		return types.Record{}, upstreamErr(p.Name(), "empty arXiv query")
	}
	records, err := p.query(ctx, sq, 1)
	if err != nil {
		return types.Record{}, err
	}
	if len(records) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return records[0], nil
}

func (p *Arxiv) query(ctx context.Context, searchQuery string, maxResults int) ([]types.Record, error) {
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, searchQuery, maxResults)

	body, err := p.get(ctx, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, upstreamErr(p.Name(), "parsing arXiv response: %v", err)
	}

	records := []types.Record{}
	for _, entry := range feed.Entries {
		// arXiv reports request errors as a single entry under /api/errors.
		if strings.Contains(entry.ID, "/api/errors") {
			return nil, upstreamErr(p.Name(), "arXiv error: %s", strings.TrimSpace(entry.Summary))
		}
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}
		records = append(records, p.record(entry, arxivID))
	}
	return limit(records, maxResults), nil
}

func (p *Arxiv) record(entry arxivEntry, arxivID string) types.Record {
	rec := types.NewRecord(p.Name())
	rec.Title = strings.Join(strings.Fields(entry.Title), " ")
	rec.Abstract = strings.TrimSpace(entry.Summary)
	if len(entry.Published) >= 4 {
		rec.Year = entry.Published[:4]
	}
	for _, a := range entry.Authors {
		rec.Authors.List = append(rec.Authors.List, types.AuthorRef{Name: strings.TrimSpace(a.Name)})
	}
	rec.Authors.Display = types.Unknown

	rec.Venue = strings.TrimSpace(entry.JournalRef)
	rec.DOI = strings.TrimSpace(entry.DOI)
	rec.Eprint = arxivID
	rec.ArchivePrefix = "arXiv"
	rec.PrimaryClass = entry.PrimaryCategory.Term
	rec.Note = strings.TrimSpace(entry.Comment)
	rec.PaperURL = "https://arxiv.org/abs/" + arxivID

	var pdfs []string
	for _, l := range entry.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			pdfs = append(pdfs, l.Href)
		}
	}
	rec.PDFURLAll = pdfs
	return normalize.Finish(rec)
}

// buildArxivQuery builds one field clause such as "au:Hinton+Geoffrey".
func buildArxivQuery(field, text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = escapeArxivTerm(t)
	}
	return field + ":" + strings.Join(terms, "+")
}

func joinArxiv(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "+AND+" + b
	}
}

// escapeArxivTerm percent-encodes characters that would break the
// hand-assembled search_query parameter.
func escapeArxivTerm(t string) string {
	var b strings.Builder
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			for _, c := range []byte(string(r)) {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
	}
	return b.String()
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string        `xml:"id"`
	Title           string        `xml:"title"`
	Summary         string        `xml:"summary"`
	Published       string        `xml:"published"`
	Authors         []arxivAuthor `xml:"author"`
	Links           []arxivLink   `xml:"link"`
	DOI             string        `xml:"doi"`
	JournalRef      string        `xml:"journal_ref"`
	Comment         string        `xml:"comment"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
