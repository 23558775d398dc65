// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the canonical data structures shared by providers,
// the orchestrator, the citation formatters and the outer surfaces.
package types

import (
	"strconv"
	"strings"
)

// Unknown is the sentinel stored in any string field the upstream provider
// did not supply. It distinguishes "not supplied" from an empty value.
const Unknown = "N/A"

// AuthorRef is one entry of a structured author list.
type AuthorRef struct {
	Name        string `json:"name" yaml:"name"`
	ProfileLink string `json:"profile_link,omitempty" yaml:"profile_link,omitempty"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Authors carries both the display string shown by the provider
// (e.g. "A Vaswani, N Shazeer") and the structured list when one exists.
type Authors struct {
	Display string      `json:"display" yaml:"display"`
	List    []AuthorRef `json:"list" yaml:"list"`
}

// Record is the provider-independent representation of one search result.
// Every string field holds Unknown when the provider left it unset;
// CitationCount defaults to zero.
type Record struct {
	Title         string   `json:"title" yaml:"title"`
	Authors       Authors  `json:"authors" yaml:"authors"`
	Year          string   `json:"year" yaml:"year"`
	Venue         string   `json:"venue" yaml:"venue"`
	Abstract      string   `json:"abstract" yaml:"abstract"`
	CitationCount int      `json:"citation_count" yaml:"citation_count"`
	PaperURL      string   `json:"paper_url" yaml:"paper_url"`
	PDFURL        string   `json:"pdf_url" yaml:"pdf_url"`
	PDFURLAll     []string `json:"pdf_url_all" yaml:"pdf_url_all"`

	// Bibliographic detail consumed by the citation formatters.
	Publisher     string `json:"publisher" yaml:"publisher"`
	Volume        string `json:"volume" yaml:"volume"`
	Number        string `json:"number" yaml:"number"`
	Pages         string `json:"pages" yaml:"pages"`
	DOI           string `json:"doi" yaml:"doi"`
	Eprint        string `json:"eprint" yaml:"eprint"`
	ArchivePrefix string `json:"archive_prefix" yaml:"archive_prefix"`
	PrimaryClass  string `json:"primary_class" yaml:"primary_class"`
	Note          string `json:"note" yaml:"note"`

	// SourceProvider names the adapter that produced the record.
	SourceProvider string            `json:"source_provider" yaml:"source_provider"`
	Extra          map[string]string `json:"extra" yaml:"extra"`
}

// NewRecord returns a record with every field set to its sentinel.
func NewRecord(source string) Record {
	return Record{
		Title:          Unknown,
		Authors:        Authors{Display: Unknown, List: []AuthorRef{}},
		Year:           Unknown,
		Venue:          Unknown,
		Abstract:       Unknown,
		PaperURL:       Unknown,
		PDFURL:         Unknown,
		PDFURLAll:      []string{},
		Publisher:      Unknown,
		Volume:         Unknown,
		Number:         Unknown,
		Pages:          Unknown,
		DOI:            Unknown,
		Eprint:         Unknown,
		ArchivePrefix:  Unknown,
		PrimaryClass:   Unknown,
		Note:           Unknown,
		SourceProvider: source,
		Extra:          map[string]string{},
	}
}

// IsKnown reports whether s carries a real value.
func IsKnown(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != Unknown
}

// YearInt parses Year. It reports false for the sentinel or any value that
// is not a plain integer.
func (r Record) YearInt() (int, bool) {
	if !IsKnown(r.Year) {
		return 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return 0, false
	}
	return y, true
}

// Merge fills fields of r that are still unknown from src. SourceProvider
// and any known field of r are never overwritten.
func (r *Record) Merge(src Record) {
	fill := func(dst *string, v string) {
		if !IsKnown(*dst) && IsKnown(v) {
			*dst = v
		}
	}
	fill(&r.Title, src.Title)
	fill(&r.Authors.Display, src.Authors.Display)
	if len(r.Authors.List) == 0 && len(src.Authors.List) > 0 {
		r.Authors.List = src.Authors.List
	}
	fill(&r.Year, src.Year)
	fill(&r.Venue, src.Venue)
	fill(&r.Abstract, src.Abstract)
	if r.CitationCount == 0 {
		r.CitationCount = src.CitationCount
	}
	fill(&r.PaperURL, src.PaperURL)
	fill(&r.PDFURL, src.PDFURL)
	if len(r.PDFURLAll) == 0 && len(src.PDFURLAll) > 0 {
		r.PDFURLAll = src.PDFURLAll
	}
	fill(&r.Publisher, src.Publisher)
	fill(&r.Volume, src.Volume)
	fill(&r.Number, src.Number)
	fill(&r.Pages, src.Pages)
	fill(&r.DOI, src.DOI)
	fill(&r.Eprint, src.Eprint)
	fill(&r.ArchivePrefix, src.ArchivePrefix)
	fill(&r.PrimaryClass, src.PrimaryClass)
	fill(&r.Note, src.Note)
	if r.Extra == nil {
		r.Extra = map[string]string{}
	}
	for k, v := range src.Extra {
		if _, ok := r.Extra[k]; !ok {
			r.Extra[k] = v
		}
	}
}

// Citation is a record together with its rendered citation exports.
type Citation struct {
	Record
	BibTeX string `json:"bibtex" yaml:"bibtex"`
	RIS    string `json:"ris" yaml:"ris"`
}

// CitationInfo is the abbreviated view of a record returned by citation
// lookups.
type CitationInfo struct {
	Title          string `json:"title" yaml:"title"`
	Authors        string `json:"authors" yaml:"authors"`
	Year           string `json:"year" yaml:"year"`
	Venue          string `json:"venue" yaml:"venue"`
	Citations      int    `json:"citations" yaml:"citations"`
	URL            string `json:"url" yaml:"url"`
	PDFURL         string `json:"pdf_url" yaml:"pdf_url"`
	Abstract       string `json:"abstract" yaml:"abstract"`
	SourceProvider string `json:"source_provider" yaml:"source_provider"`
}

// Abbreviate returns the citation-info view of r.
func (r Record) Abbreviate() CitationInfo {
	return CitationInfo{
		Title:          r.Title,
		Authors:        r.Authors.Display,
		Year:           r.Year,
		Venue:          r.Venue,
		Citations:      r.CitationCount,
		URL:            r.PaperURL,
		PDFURL:         r.PDFURL,
		Abstract:       r.Abstract,
		SourceProvider: r.SourceProvider,
	}
}

// ErrorPayload is the representable failure outcome of an operation.
type ErrorPayload struct {
	Error string `json:"error" yaml:"error"`
}
