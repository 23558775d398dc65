// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

var braceEscaper = strings.NewReplacer("{", `\{`, "}", `\}`)

// BibTeX renders rec as a single BibTeX entry. Fields holding
// types.Unknown are omitted.
func BibTeX(rec types.Record) string {
	entryType := BibTeXType(rec)
	venueField := "journal"
	if entryType == "inproceedings" {
		venueField = "booktitle"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, CiteKey(rec))

	field := func(name, value string) {
		if types.IsKnown(value) {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, value)
		}
	}

	field("title", rec.Title)
	field("author", rec.Authors.Display)
	field("year", rec.Year)
	field(venueField, rec.Venue)
	field("volume", rec.Volume)
	field("number", rec.Number)
	field("pages", rec.Pages)
	field("publisher", rec.Publisher)
	field("eprint", rec.Eprint)
	field("archivePrefix", rec.ArchivePrefix)
	field("primaryClass", rec.PrimaryClass)
	field("doi", rec.DOI)
	field("url", rec.PaperURL)
	if types.IsKnown(rec.Abstract) {
		field("abstract", braceEscaper.Replace(rec.Abstract))
	}
	field("note", rec.Note)

	b.WriteString("}\n")
	return b.String()
}

// BibTeXList renders records as consecutive entries separated by a blank
// line.
func BibTeXList(records []types.Record) string {
	entries := make([]string, len(records))
	for i, rec := range records {
		entries[i] = BibTeX(rec)
	}
	return strings.Join(entries, "\n")
}
