// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-search/pkg/types"
)

const sampleOpenAlexJSON = `{
  "meta": {"count": 1, "per_page": 20, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2741809807",
      "title": "Attention Is All You Need",
      "doi": "https://doi.org/10.5555/3295222.3295349",
      "publication_year": 2017,
      "cited_by_count": 90000,
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Ashish Vaswani"}},
        {"author": {"id": "https://openalex.org/A2", "display_name": "Noam Shazeer"}}
      ],
      "abstract_inverted_index": {"We": [0], "propose": [1], "a": [2], "Transformer": [3]},
      "primary_location": {"pdf_url": null, "source": {"display_name": "Neural Information Processing Systems", "host_organization_name": "Curran Associates"}},
      "best_oa_location": {"pdf_url": "https://arxiv.org/pdf/1706.03762"},
      "open_access": {"is_oa": true, "oa_url": "https://arxiv.org/pdf/1706.03762"},
      "biblio": {"volume": "30", "issue": null, "first_page": "5998", "last_page": "6008"}
    }
  ]
}`

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil map", nil, ""},
		{"single word", map[string][]int{"hello": {0}}, "hello"},
		{
			"words with shared positions",
			map[string][]int{"the": {0, 4}, "cat": {1}, "sat": {2}, "on": {3}, "mat": {5}},
			"the cat sat on the mat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructAbstract(tt.index))
		})
	}
}

func TestOpenAlexSearch(t *testing.T) {
	var captured *http.Request
	serve(t, &openAlexAPIBase, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		respond(sampleOpenAlexJSON)(w, r)
	})

	p := NewOpenAlex(http.DefaultClient, testHTTP, "me@example.com")
	records, err := p.Search(context.Background(), types.SearchQuery{
		Text: "attention", MaxResults: 3, YearStart: 2015, YearEnd: 2020,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	q := captured.URL.Query()
	assert.Equal(t, "/works", captured.URL.Path)
	assert.Equal(t, "attention", q.Get("search"))
	assert.Equal(t, "3", q.Get("per_page"))
	assert.Equal(t, "from_publication_date:2015-01-01,to_publication_date:2020-12-31", q.Get("filter"))
	assert.Equal(t, "me@example.com", q.Get("mailto"))

	rec := records[0]
	assert.Equal(t, "Attention Is All You Need", rec.Title)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", rec.Authors.Display)
	assert.Equal(t, "A1", rec.Authors.List[0].ID)
	assert.Equal(t, "We propose a Transformer", rec.Abstract)
	assert.Equal(t, "2017", rec.Year)
	assert.Equal(t, "Neural Information Processing Systems", rec.Venue)
	assert.Equal(t, "Curran Associates", rec.Publisher)
	assert.Equal(t, "30", rec.Volume)
	assert.Equal(t, types.Unknown, rec.Number)
	assert.Equal(t, "5998-6008", rec.Pages)
	assert.Equal(t, "10.5555/3295222.3295349", rec.DOI)
	assert.Equal(t, 90000, rec.CitationCount)
	assert.Equal(t, []string{"https://arxiv.org/pdf/1706.03762"}, rec.PDFURLAll)
	assert.Equal(t, "W2741809807", rec.Extra["openalex_id"])
	assert.Equal(t, types.ProviderOpenAlex, rec.SourceProvider)
}

func TestOpenAlexSearchFailures(t *testing.T) {
	serve(t, &openAlexAPIBase, respond(`{"meta":{}}`))
	p := NewOpenAlex(http.DefaultClient, testHTTP, "")

	_, err := p.Search(context.Background(), types.SearchQuery{Text: "x"})
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestOpenAlexLookupByTitle(t *testing.T) {
	var filter string
	serve(t, &openAlexAPIBase, func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		if filter == "title.search:nothing here" {
			respond(`{"results":[]}`)(w, r)
			return
		}
		respond(sampleOpenAlexJSON)(w, r)
	})
	p := NewOpenAlex(http.DefaultClient, testHTTP, "")

	rec, err := p.LookupByTitle(context.Background(), "Attention: is all, you need")
	require.NoError(t, err)
	assert.Equal(t, "title.search:Attention is all you need", filter)
	assert.Equal(t, "Attention Is All You Need", rec.Title)

	_, err = p.LookupByTitle(context.Background(), "nothing here")
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestOpenAlexLookupAuthor(t *testing.T) {
	serve(t, &openAlexAPIBase, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/authors":
			respond(`{"results":[{
			  "id":"https://openalex.org/A5108093963","display_name":"Geoffrey E. Hinton","cited_by_count":600000,
			  "last_known_institutions":[{"display_name":"University of Toronto"}],
			  "topics":[{"display_name":"Neural Networks"},{"display_name":"Deep Learning"}],
			  "summary_stats":{"h_index":180,"i10_index":400},
			  "counts_by_year":[{"year":2024,"cited_by_count":10},{"year":2023,"cited_by_count":20},{"year":2019,"cited_by_count":5},{"year":2018,"cited_by_count":1000}]
			}]}`)(w, r)
		case "/works":
			assert.Equal(t, "author.id:A5108093963", r.URL.Query().Get("filter"))
			assert.Equal(t, "cited_by_count:desc", r.URL.Query().Get("sort"))
			respond(sampleOpenAlexJSON)(w, r)
		}
	})
	p := NewOpenAlex(http.DefaultClient, testHTTP, "")

	prof, err := p.LookupAuthor(context.Background(), "Geoffrey Hinton")
	require.NoError(t, err)
	assert.Equal(t, "Geoffrey E. Hinton", prof.Name)
	assert.Equal(t, "University of Toronto", prof.Affiliation)
	assert.Equal(t, []string{"Neural Networks", "Deep Learning"}, prof.Interests)
	assert.Equal(t, types.CitationCounts{Total: 600000, Recent5y: 30}, prof.CitationCounts)
	assert.Equal(t, 180, prof.HIndex)
	assert.Equal(t, 400, prof.I10Index)
	require.Len(t, prof.TopPublications, 1)
	assert.Equal(t, 90000, prof.TopPublications[0].Citations)
}

func TestOpenAlexShortID(t *testing.T) {
	assert.Equal(t, "A123", openAlexShortID("https://openalex.org/A123"))
	assert.Equal(t, "A123", openAlexShortID("A123"))
}
