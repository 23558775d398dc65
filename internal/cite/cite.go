// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite renders normalized records as BibTeX, RIS and CSL-YAML.
// All renderers are pure functions of their input.
package cite

import (
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// Kind is the bibliographic entry kind shared by BibTeX and RIS.
type Kind int

const (
	// Article is a journal article or any entry not recognised as a
	// conference paper.
	Article Kind = iota
	// Conference is a paper in conference proceedings.
	Conference
)

// Classify returns Conference when the venue mentions a conference or
// proceedings, Article otherwise.
func Classify(venue string) Kind {
	v := strings.ToLower(venue)
	if strings.Contains(v, "conference") || strings.Contains(v, "proceedings") {
		return Conference
	}
	return Article
}

// BibTeXType returns the BibTeX entry type for rec. An eprint identifier
// forces "article" regardless of the venue.
func BibTeXType(rec types.Record) string {
	if types.IsKnown(rec.Eprint) {
		return "article"
	}
	if Classify(rec.Venue) == Conference {
		return "inproceedings"
	}
	return "article"
}

// RISType returns the RIS TY value for rec.
func RISType(rec types.Record) string {
	if Classify(rec.Venue) == Conference {
		return "CONF"
	}
	return "JOUR"
}

// Surname returns the presumed surname of the first author: the last
// whitespace-separated token of the first comma-separated segment of the
// display string. It returns "Unknown" when no such token exists.
func Surname(display string) string {
	if !types.IsKnown(display) {
		return "Unknown"
	}
	first := strings.SplitN(display, ",", 2)[0]
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return "Unknown"
	}
	return fields[len(fields)-1]
}

// CiteKey returns the BibTeX key "surname_year", lower-cased, with any
// whitespace replaced by underscores.
func CiteKey(rec types.Record) string {
	key := Surname(rec.Authors.Display) + "_" + strings.TrimSpace(rec.Year)
	key = strings.Join(strings.Fields(key), "_")
	return strings.ToLower(key)
}

// AuthorTokens splits the display string on commas into trimmed, non-empty
// author names.
func AuthorTokens(display string) []string {
	if !types.IsKnown(display) {
		return nil
	}
	var out []string
	for _, a := range strings.Split(display, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
