// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.Record, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Cites", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range records {
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6d  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), r.Year, r.CitationCount, r.SourceProvider)
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

// FormatProfile writes an author profile as labelled lines.
func FormatProfile(p types.AuthorProfile, w io.Writer) {
	fmt.Fprintf(w, "Name:         %s\n", p.Name)
	fmt.Fprintf(w, "Affiliation:  %s\n", p.Affiliation)
	if len(p.Interests) > 0 {
		fmt.Fprintf(w, "Interests:    %s\n", strings.Join(p.Interests, ", "))
	}
	fmt.Fprintf(w, "Citations:    %d (last 5y: %d)\n", p.CitationCounts.Total, p.CitationCounts.Recent5y)
	fmt.Fprintf(w, "h-index:      %d (last 5y: %d)\n", p.HIndex, p.HIndex5y)
	fmt.Fprintf(w, "i10-index:    %d (last 5y: %d)\n", p.I10Index, p.I10Index5y)
	fmt.Fprintf(w, "Homepage:     %s\n", p.Homepage)
	fmt.Fprintf(w, "Email domain: %s\n", p.EmailDomain)
	fmt.Fprintf(w, "Source:       %s\n", p.SourceProvider)

	if len(p.TopPublications) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTop publications:")
	for i, pub := range p.TopPublications {
		fmt.Fprintf(w, "%3d. %s (%s) [%d citations]\n", i+1, truncate(pub.Title, 80), pub.Year, pub.Citations)
	}
}

// FormatCitationInfo writes the abbreviated citation view as labelled lines.
func FormatCitationInfo(c types.CitationInfo, w io.Writer) {
	fmt.Fprintf(w, "Title:     %s\n", c.Title)
	fmt.Fprintf(w, "Authors:   %s\n", c.Authors)
	fmt.Fprintf(w, "Year:      %s\n", c.Year)
	fmt.Fprintf(w, "Venue:     %s\n", c.Venue)
	fmt.Fprintf(w, "Citations: %d\n", c.Citations)
	fmt.Fprintf(w, "URL:       %s\n", c.URL)
	fmt.Fprintf(w, "PDF:       %s\n", c.PDFURL)
	fmt.Fprintf(w, "Source:    %s\n", c.SourceProvider)
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAuthors(a types.Authors) string {
	names := a.List
	if len(names) == 0 {
		return truncate(a.Display, 20)
	}
	if len(names) == 1 {
		return truncate(names[0].Name, 20)
	}
	return truncate(names[0].Name, 14) + " et al."
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
