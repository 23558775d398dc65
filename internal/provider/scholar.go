// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scholar-search/internal/normalize"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// scholarBase is the Google Scholar site root. Declared as a var so tests
// can substitute an httptest server.
var scholarBase = "https://scholar.google.com"

var userIDPattern = regexp.MustCompile(`user=([^&]+)`)

// Scholar scrapes Google Scholar result and profile pages directly. It
// needs no credential, so it is the fallback when the API providers are
// unavailable.
type Scholar struct {
	fetcher
}

// NewScholar returns a Scholar provider. timeout bounds each page fetch.
func NewScholar(client *http.Client, userAgent string, timeout time.Duration) *Scholar {
	return &Scholar{fetcher: fetcher{name: types.ProviderScholar, client: client, timeout: timeout, userAgent: userAgent}}
}

func (p *Scholar) Name() string { return types.ProviderScholar }

func (p *Scholar) Traits() Traits {
	return Traits{AuthorFilter: true, YearFilter: true}
}

// scholarMaxPage is the largest page size Scholar serves.
const scholarMaxPage = 20

// Search fetches one results page and scrapes its entries.
func (p *Scholar) Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error) {
	q = q.WithDefaults()
	params := url.Values{
		"q":  {q.Text},
		"hl": {q.Language},
	}
	params.Set("num", strconv.Itoa(min(q.MaxResults, scholarMaxPage)))
	if q.Author != "" {
		params.Set("as_auth", q.Author)
	}
	if y := yearParam(q.YearStart); y != "" {
		params.Set("as_ylo", y)
	}
	if y := yearParam(q.YearEnd); y != "" {
		params.Set("as_yhi", y)
	}

	doc, err := p.page(ctx, "/scholar", params)
	if err != nil {
		return nil, err
	}
	if doc.Find("#gs_res_ccl").Length() == 0 {
		return nil, upstreamErr(p.Name(), "results page has no results container (blocked or CAPTCHA)")
	}

	var records []types.Record
	doc.Find("#gs_res_ccl .gs_r").Each(func(_ int, s *goquery.Selection) {
		if s.Find(".gs_ri").Length() == 0 {
			return
		}
		records = append(records, normalize.ScholarPage(scrapeResult(s), p.Name()))
	})
	if records == nil {
		records = []types.Record{}
	}
	return limit(records, q.MaxResults), nil
}

// LookupAuthor searches the profile directory and scrapes the first hit.
func (p *Scholar) LookupAuthor(ctx context.Context, name string) (types.AuthorProfile, error) {
	doc, err := p.page(ctx, "/citations", url.Values{
		"view_op":  {"search_authors"},
		"mauthors": {name},
		"hl":       {"en"},
	})
	if err != nil {
		return types.AuthorProfile{}, err
	}

	var userID string
	doc.Find(".gs_ai_name a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := userIDPattern.FindStringSubmatch(href); len(m) > 1 {
			userID = m[1]
			return false
		}
		return true
	})
	if userID == "" {
		return types.AuthorProfile{}, upstreamErr(p.Name(), "no author profile found for %q", name)
	}

	profileDoc, err := p.page(ctx, "/citations", url.Values{
		"user":     {userID},
		"hl":       {"en"},
		"pagesize": {strconv.Itoa(types.MaxTopPublications)},
	})
	if err != nil {
		return types.AuthorProfile{}, err
	}
	if profileDoc.Find("#gsc_prf_in").Length() == 0 {
		return types.AuthorProfile{}, upstreamErr(p.Name(), "profile page for %s has no author header", userID)
	}
	return p.parseProfile(profileDoc), nil
}

// LookupByTitle returns the first result of a title search.
func (p *Scholar) LookupByTitle(ctx context.Context, title string) (types.Record, error) {
	records, err := p.Search(ctx, types.SearchQuery{Text: title, MaxResults: 1})
	if err != nil {
		return types.Record{}, err
	}
	if len(records) == 0 {
		return types.Record{}, upstreamErr(p.Name(), "no paper found for title %q", title)
	}
	return records[0], nil
}

func (p *Scholar) page(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	body, err := p.get(ctx, scholarBase+path+"?"+params.Encode(), map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, upstreamErr(p.Name(), "parsing page: %v", err)
	}
	return doc, nil
}

// scrapeResult lifts one .gs_r block into the raw shape read by
// normalize.ScholarPage.
func scrapeResult(s *goquery.Selection) normalize.Raw {
	ri := s.Find(".gs_ri").First()
	titleSel := ri.Find("h3.gs_rt").First()
	link, _ := titleSel.Find("a").First().Attr("href")

	// Drop the [PDF]/[BOOK] badges from the title.
	titleSel = titleSel.Clone()
	titleSel.Find(".gs_ctc, .gs_ctg2, .gs_ctu").Remove()

	raw := normalize.Raw{
		"title":   collapse(titleSel.Text()),
		"link":    link,
		"summary": collapse(ri.Find(".gs_a").First().Text()),
		"snippet": collapse(ri.Find(".gs_rs").First().Text()),
	}
	if id, ok := s.Attr("data-cid"); ok {
		raw["id"] = id
	}

	var authors []any
	ri.Find(".gs_a a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		m := userIDPattern.FindStringSubmatch(href)
		if len(m) < 2 {
			return
		}
		authors = append(authors, map[string]any{
			"name": collapse(a.Text()),
			"link": absolute(href),
			"id":   m[1],
		})
	})
	if authors != nil {
		raw["authors"] = authors
	}

	ri.Find(".gs_fl a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if text := a.Text(); strings.HasPrefix(strings.TrimSpace(text), "Cited by") {
			raw["cited_by"] = text
			return false
		}
		return true
	})

	var resources []any
	s.Find(".gs_or_ggsm a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		tag := strings.Trim(strings.TrimSpace(a.Find(".gs_ctg2").Text()), "[]")
		resources = append(resources, map[string]any{"type": tag, "link": href})
	})
	if resources != nil {
		raw["resources"] = resources
	}
	return raw
}

func (p *Scholar) parseProfile(doc *goquery.Document) types.AuthorProfile {
	prof := types.NewAuthorProfile(p.Name())
	prof.Name = known(doc.Find("#gsc_prf_in").Text())
	prof.Affiliation = known(doc.Find(".gsc_prf_il").First().Text())

	doc.Find("#gsc_prf_int a").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			prof.Interests = append(prof.Interests, t)
		}
	})

	verified := doc.Find("#gsc_prf_ivh")
	if text := verified.Text(); strings.Contains(text, "Verified email") {
		prof.EmailDomain = emailDomain(strings.SplitN(text, " - ", 2)[0])
	}
	if href, ok := verified.Find("a").First().Attr("href"); ok {
		prof.Homepage = known(href)
	}

	// The stats table has an all-time and a since-5-years column.
	doc.Find("#gsc_rsb_st tr").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Find("td").First().Text()))
		all := normalize.CitationCount(strings.ReplaceAll(s.Find("td.gsc_rsb_std").Eq(0).Text(), ",", ""))
		recent := normalize.CitationCount(strings.ReplaceAll(s.Find("td.gsc_rsb_std").Eq(1).Text(), ",", ""))
		switch {
		case strings.Contains(label, "citations"):
			prof.CitationCounts = types.CitationCounts{Total: all, Recent5y: recent}
		case strings.Contains(label, "h-index"):
			prof.HIndex, prof.HIndex5y = all, recent
		case strings.Contains(label, "i10-index"):
			prof.I10Index, prof.I10Index5y = all, recent
		}
	})

	var pubs []types.Publication
	doc.Find(".gsc_a_tr").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".gsc_a_at").Text())
		if title == "" {
			return
		}
		venue := types.Unknown
		if gray := s.Find(".gs_gray"); gray.Length() >= 2 {
			venue = known(gray.Eq(1).Text())
		}
		pubs = append(pubs, types.Publication{
			Title:     title,
			Year:      known(s.Find(".gsc_a_y span").Text()),
			Citations: normalize.CitationCount(strings.TrimSpace(s.Find(".gsc_a_ac").Text())),
			Venue:     venue,
		})
	})
	prof.TopPublications = capPublications(pubs)
	return prof
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absolute(href string) string {
	if strings.HasPrefix(href, "/") {
		return fmt.Sprintf("%s%s", scholarBase, href)
	}
	return href
}
