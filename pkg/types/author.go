// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationCounts holds an author's all-time and recent citation totals.
type CitationCounts struct {
	Total    int `json:"total" yaml:"total"`
	Recent5y int `json:"recent_5y" yaml:"recent_5y"`
}

// Publication is one entry of an author's top publications.
type Publication struct {
	Title     string `json:"title" yaml:"title"`
	Year      string `json:"year" yaml:"year"`
	Citations int    `json:"citations" yaml:"citations"`
	Venue     string `json:"venue" yaml:"venue"`
}

// AuthorProfile summarizes one author as reported by a provider.
type AuthorProfile struct {
	Name            string         `json:"name" yaml:"name"`
	Affiliation     string         `json:"affiliation" yaml:"affiliation"`
	Interests       []string       `json:"interests" yaml:"interests"`
	CitationCounts  CitationCounts `json:"citation_counts" yaml:"citation_counts"`
	HIndex          int            `json:"h_index" yaml:"h_index"`
	HIndex5y        int            `json:"h_index_5y" yaml:"h_index_5y"`
	I10Index        int            `json:"i10_index" yaml:"i10_index"`
	I10Index5y      int            `json:"i10_index_5y" yaml:"i10_index_5y"`
	Homepage        string         `json:"homepage" yaml:"homepage"`
	EmailDomain     string         `json:"email_domain" yaml:"email_domain"`
	TopPublications []Publication  `json:"top_publications" yaml:"top_publications"`
	SourceProvider  string         `json:"source_provider" yaml:"source_provider"`
}

// MaxTopPublications caps AuthorProfile.TopPublications.
const MaxTopPublications = 10

// NewAuthorProfile returns a profile with sentinel strings and empty lists.
func NewAuthorProfile(source string) AuthorProfile {
	return AuthorProfile{
		Name:            Unknown,
		Affiliation:     Unknown,
		Interests:       []string{},
		Homepage:        Unknown,
		EmailDomain:     Unknown,
		TopPublications: []Publication{},
		SourceProvider:  source,
	}
}
