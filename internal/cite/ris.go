// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// RIS renders rec as one RIS record terminated by an ER line.
func RIS(rec types.Record) string {
	ty := RISType(rec)

	var b strings.Builder
	tag := func(name, value string) {
		if types.IsKnown(value) {
			fmt.Fprintf(&b, "%s  - %s\n", name, value)
		}
	}

	tag("TY", ty)
	tag("TI", rec.Title)
	for _, a := range AuthorTokens(rec.Authors.Display) {
		tag("AU", a)
	}
	tag("PY", rec.Year)
	if ty == "JOUR" {
		tag("JO", rec.Venue)
	} else {
		tag("T2", rec.Venue)
	}
	tag("VL", rec.Volume)
	tag("IS", rec.Number)
	if types.IsKnown(rec.Pages) {
		start, end := splitPages(rec.Pages)
		tag("SP", start)
		tag("EP", end)
	}
	tag("PB", rec.Publisher)
	tag("DO", rec.DOI)
	tag("UR", rec.PaperURL)
	tag("AB", rec.Abstract)
	tag("N1", rec.Note)
	b.WriteString("ER  - \n")
	return b.String()
}

// RISList renders records one after another.
func RISList(records []types.Record) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(RIS(rec))
	}
	return b.String()
}

// splitPages splits "436-444" or "436--444" into its bounds. A value
// without a range separator is returned as the start page only.
func splitPages(pages string) (string, string) {
	p := strings.ReplaceAll(pages, "–", "-")
	start, end, ok := strings.Cut(p, "-")
	if !ok {
		return strings.TrimSpace(pages), ""
	}
	return strings.TrimSpace(start), strings.TrimSpace(strings.TrimLeft(end, "-"))
}
