// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// DefaultResults is the number of results requested when a query does not
// say otherwise.
const DefaultResults = 5

// DefaultLanguage is the interface language sent to providers that take one.
const DefaultLanguage = "en"

// SearchQuery holds the parameters of one search operation. A zero
// YearStart or YearEnd means the bound is unset.
type SearchQuery struct {
	Text       string `json:"text" yaml:"text"`
	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	YearStart  int    `json:"year_start,omitempty" yaml:"year_start,omitempty"`
	YearEnd    int    `json:"year_end,omitempty" yaml:"year_end,omitempty"`
	MaxResults int    `json:"max_results" yaml:"max_results"`
	Language   string `json:"language" yaml:"language"`
}

// WithDefaults returns q with MaxResults and Language filled in.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.MaxResults < 1 {
		q.MaxResults = DefaultResults
	}
	if strings.TrimSpace(q.Language) == "" {
		q.Language = DefaultLanguage
	}
	q.Text = strings.TrimSpace(q.Text)
	q.Author = strings.TrimSpace(q.Author)
	return q
}

// IsEmpty reports whether the query has no searchable terms.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" && strings.TrimSpace(q.Author) == ""
}

// HasYearRange reports whether either year bound is set.
func (q SearchQuery) HasYearRange() bool {
	return q.YearStart > 0 || q.YearEnd > 0
}

// InvertedRange reports whether both bounds are set and start > end.
func (q SearchQuery) InvertedRange() bool {
	return q.YearStart > 0 && q.YearEnd > 0 && q.YearStart > q.YearEnd
}

// InYearRange reports whether year satisfies the query's bounds.
func (q SearchQuery) InYearRange(year int) bool {
	if q.YearStart > 0 && year < q.YearStart {
		return false
	}
	if q.YearEnd > 0 && year > q.YearEnd {
		return false
	}
	return true
}

// WithAuthorToken returns q with the author folded into the free text as
// an "author:" token and the Author field cleared. Providers without a
// native author parameter receive this form.
func (q SearchQuery) WithAuthorToken() SearchQuery {
	if q.Author == "" {
		return q
	}
	token := fmt.Sprintf("author:%s", q.Author)
	if q.Text == "" {
		q.Text = token
	} else {
		q.Text = q.Text + " " + token
	}
	q.Author = ""
	return q
}

// WithoutYears returns q with both year bounds cleared.
func (q SearchQuery) WithoutYears() SearchQuery {
	q.YearStart, q.YearEnd = 0, 0
	return q
}
