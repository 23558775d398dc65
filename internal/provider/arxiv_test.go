// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-search/pkg/types"
)

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models ...  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <arxiv:doi>10.48550/arXiv.1706.03762</arxiv:doi>
    <arxiv:comment>15 pages, 5 figures</arxiv:comment>
    <arxiv:journal_ref>Advances in Neural Information Processing Systems 30 (2017)</arxiv:journal_ref>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>not-an-arxiv-id</id>
    <title>skipped</title>
  </entry>
</feed>`

func TestExtractArxivID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v2", "hep-th/9901001"},
		{"no-prefix", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractArxivID(tt.in), tt.in)
	}
}

func TestBuildArxivQuery(t *testing.T) {
	assert.Equal(t, "all:deep+learning", buildArxivQuery("all", "deep learning"))
	assert.Equal(t, "au:O%27Neil", buildArxivQuery("au", "O'Neil"))
	assert.Equal(t, "", buildArxivQuery("ti", "   "))
	assert.Equal(t, "all:a+AND+au:b", joinArxiv("all:a", "au:b"))
	assert.Equal(t, "au:b", joinArxiv("", "au:b"))
}

func TestArxivSearch(t *testing.T) {
	var rawQuery string
	serve(t, &arxivAPIBase, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		fmt.Fprint(w, sampleArxivFeed)
	})

	p := NewArxiv(http.DefaultClient, testHTTP)
	records, err := p.Search(context.Background(), types.SearchQuery{Text: "attention", Author: "Vaswani", MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Contains(t, rawQuery, "search_query=all:attention+AND+au:Vaswani")
	assert.Contains(t, rawQuery, "max_results=3")

	rec := records[0]
	assert.Equal(t, "Attention Is All You Need", rec.Title)
	assert.Equal(t, "The dominant sequence transduction models ...", rec.Abstract)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", rec.Authors.Display)
	assert.Equal(t, "2017", rec.Year)
	assert.Equal(t, "Advances in Neural Information Processing Systems 30 (2017)", rec.Venue)
	assert.Equal(t, "1706.03762", rec.Eprint)
	assert.Equal(t, "arXiv", rec.ArchivePrefix)
	assert.Equal(t, "cs.CL", rec.PrimaryClass)
	assert.Equal(t, "10.48550/arXiv.1706.03762", rec.DOI)
	assert.Equal(t, "15 pages, 5 figures", rec.Note)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", rec.PaperURL)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", rec.PDFURL)
	assert.Equal(t, types.ProviderArxiv, rec.SourceProvider)
}

func TestArxivFailures(t *testing.T) {
	serve(t, &arxivAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<feed><entry>`)
	})
	p := NewArxiv(http.DefaultClient, testHTTP)

	_, err := p.Search(context.Background(), types.SearchQuery{Text: "x"})
	assert.Equal(t, KindUpstream, KindOf(err))

	_, err = p.Search(context.Background(), types.SearchQuery{})
	assert.Equal(t, KindUpstream, KindOf(err))

	_, err = p.LookupAuthor(context.Background(), "x")
	assert.Equal(t, KindUnsupported, KindOf(err))
}

func TestArxivErrorEntry(t *testing.T) {
	serve(t, &arxivAPIBase, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#max_results_must_be_less_than_30000</id>
    <title>Error</title>
    <summary>max_results must be less than 30000</summary>
  </entry>
</feed>`)
	})
	p := NewArxiv(http.DefaultClient, testHTTP)

	records, err := p.Search(context.Background(), types.SearchQuery{Text: "attention"})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Contains(t, err.Error(), "max_results must be less than 30000")

	_, err = p.LookupByTitle(context.Background(), "Attention Is All You Need")
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestArxivLookupByTitle(t *testing.T) {
	var rawQuery string
	serve(t, &arxivAPIBase, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	})
	p := NewArxiv(http.DefaultClient, testHTTP)

	_, err := p.LookupByTitle(context.Background(), "Attention Is All You Need")
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Contains(t, rawQuery, "search_query=ti:Attention+Is+All+You+Need")
	assert.Contains(t, rawQuery, "max_results=1")
}
