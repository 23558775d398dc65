// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL writes records as a CSL-YAML list to w.
func CSL(records []types.Record, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = ToCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts a record to a CSLItem, reusing the BibTeX key as id.
func ToCSLItem(r types.Record) CSLItem {
	item := CSLItem{
		ID:             CiteKey(r),
		Type:           "article-journal",
		Title:          known(r.Title),
		ContainerTitle: known(r.Venue),
		Publisher:      known(r.Publisher),
		Volume:         known(r.Volume),
		Issue:          known(r.Number),
		Page:           known(r.Pages),
		Abstract:       known(r.Abstract),
		DOI:            known(r.DOI),
		URL:            known(r.PaperURL),
	}
	switch {
	case Classify(r.Venue) == Conference:
		item.Type = "paper-conference"
	case types.IsKnown(r.Eprint) && !types.IsKnown(r.Venue):
		item.Type = "article"
	}

	names := AuthorTokens(r.Authors.Display)
	if len(r.Authors.List) > 0 {
		names = names[:0]
		for _, a := range r.Authors.List {
			names = append(names, a.Name)
		}
	}
	for _, a := range names {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if y, err := strconv.Atoi(strings.TrimSpace(r.Year)); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

func known(s string) string {
	if types.IsKnown(s) {
		return s
	}
	return ""
}
