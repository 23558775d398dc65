// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps provider-specific result shapes onto types.Record.
// Every function here is total: missing or malformed input yields sentinel
// values, never an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

var digitRun = regexp.MustCompile(`\d+`)

// CitationCount extracts a citation count from v. Numbers are used as is;
// strings such as "Cited by 1683" yield their first run of digits. Anything
// else yields 0.
func CitationCount(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n < 0 || math.IsNaN(n) {
			return 0
		}
		return int(n)
	case string:
		m := digitRun.FindString(n)
		if m == "" {
			return 0
		}
		c, err := strconv.Atoi(m)
		if err != nil {
			return 0
		}
		return c
	default:
		return 0
	}
}

// PDFLinks returns the links of the resources whose tagKey equals "PDF",
// in source order.
func PDFLinks(resources []Raw, tagKey string) []string {
	links := []string{}
	for _, res := range resources {
		if res.String(tagKey) != "PDF" {
			continue
		}
		if link := res.String("link"); link != "" {
			links = append(links, link)
		}
	}
	return links
}

// ScrapingDog normalizes one organic result from the ScrapingDog Google
// Scholar API.
func ScrapingDog(raw Raw, source string) types.Record {
	rec := types.NewRecord(source)
	rec.Title = orUnknown(raw.String("title"))
	rec.PaperURL = orUnknown(raw.String("title_link"))
	rec.Abstract = orUnknown(raw.String("snippet"))

	authors, year, venue := ParseSummary(orUnknown(raw.String("displayed_link")))
	rec.Authors.Display = authors
	rec.Year = year
	rec.Venue = venue

	if v, ok := raw.Get("inline_links", "cited_by", "total"); ok {
		rec.CitationCount = CitationCount(v)
	}

	setPDFs(&rec, PDFLinks(raw.Slice("resources"), "type"))
	setExtra(&rec, "id", raw.String("id"))
	setExtra(&rec, "type", raw.String("type"))
	setExtra(&rec, "cited_by_link", raw.String("inline_links", "cited_by", "link"))
	return Finish(rec)
}

// SerpAPI normalizes one organic result from the SerpAPI google_scholar
// engine. The structured author list is preserved verbatim next to the
// display string.
func SerpAPI(raw Raw, source string) types.Record {
	rec := types.NewRecord(source)
	rec.Title = orUnknown(raw.String("title"))
	rec.PaperURL = orUnknown(raw.String("link"))
	rec.Abstract = orUnknown(raw.String("snippet"))

	authors, year, venue := ParseSummary(orUnknown(raw.String("publication_info", "summary")))
	rec.Authors.Display = authors
	rec.Year = year
	rec.Venue = venue

	for _, a := range raw.Slice("publication_info", "authors") {
		name := a.String("name")
		if name == "" {
			continue
		}
		rec.Authors.List = append(rec.Authors.List, types.AuthorRef{
			Name:        name,
			ProfileLink: a.String("link"),
			ID:          a.String("author_id"),
		})
	}
	if !types.IsKnown(rec.Authors.Display) && len(rec.Authors.List) > 0 {
		rec.Authors.Display = joinNames(rec.Authors.List)
	}

	if v, ok := raw.Get("inline_links", "cited_by", "total"); ok {
		rec.CitationCount = CitationCount(v)
	}

	setPDFs(&rec, PDFLinks(raw.Slice("resources"), "file_format"))
	setExtra(&rec, "id", raw.String("result_id"))
	setExtra(&rec, "type", raw.String("type"))
	setExtra(&rec, "cited_by_link", raw.String("inline_links", "cited_by", "link"))
	return Finish(rec)
}

// ScholarPage normalizes one result scraped from a Google Scholar results
// page. The raw keys are the ones the scholar provider fills in: title,
// link, summary, snippet, cited_by, resources[{type, link}] and
// authors[{name, link, id}].
func ScholarPage(raw Raw, source string) types.Record {
	rec := types.NewRecord(source)
	rec.Title = orUnknown(raw.String("title"))
	rec.PaperURL = orUnknown(raw.String("link"))
	rec.Abstract = orUnknown(raw.String("snippet"))

	authors, year, venue := ParseSummary(orUnknown(raw.String("summary")))
	rec.Authors.Display = authors
	rec.Year = year
	rec.Venue = venue

	for _, a := range raw.Slice("authors") {
		if name := a.String("name"); name != "" {
			rec.Authors.List = append(rec.Authors.List, types.AuthorRef{
				Name:        name,
				ProfileLink: a.String("link"),
				ID:          a.String("id"),
			})
		}
	}

	if v, ok := raw.Get("cited_by"); ok {
		rec.CitationCount = CitationCount(v)
	}

	setPDFs(&rec, PDFLinks(raw.Slice("resources"), "type"))
	setExtra(&rec, "id", raw.String("id"))
	return Finish(rec)
}

// Finish enforces the record invariants on a record assembled field by
// field: blank strings become types.Unknown and nil collections become
// empty. Typed adapters call it on every record they build.
func Finish(rec types.Record) types.Record {
	for _, f := range []*string{
		&rec.Title, &rec.Authors.Display, &rec.Year, &rec.Venue, &rec.Abstract,
		&rec.PaperURL, &rec.PDFURL, &rec.Publisher, &rec.Volume, &rec.Number,
		&rec.Pages, &rec.DOI, &rec.Eprint, &rec.ArchivePrefix, &rec.PrimaryClass,
		&rec.Note,
	} {
		*f = orUnknown(*f)
	}
	if rec.Authors.List == nil {
		rec.Authors.List = []types.AuthorRef{}
	}
	if !types.IsKnown(rec.Authors.Display) && len(rec.Authors.List) > 0 {
		rec.Authors.Display = joinNames(rec.Authors.List)
	}
	if rec.PDFURLAll == nil {
		rec.PDFURLAll = []string{}
	}
	if !types.IsKnown(rec.PDFURL) && len(rec.PDFURLAll) > 0 {
		rec.PDFURL = rec.PDFURLAll[0]
	}
	if rec.Extra == nil {
		rec.Extra = map[string]string{}
	}
	if rec.CitationCount < 0 {
		rec.CitationCount = 0
	}
	return rec
}

func setPDFs(rec *types.Record, links []string) {
	rec.PDFURLAll = links
	if len(links) > 0 {
		rec.PDFURL = links[0]
	} else {
		rec.PDFURL = types.Unknown
	}
}

func setExtra(rec *types.Record, key, value string) {
	if value != "" {
		rec.Extra[key] = value
	}
}

func joinNames(list []types.AuthorRef) string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Unknown
	}
	return s
}
