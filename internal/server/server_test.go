// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-search/internal/library"
	"github.com/pdiddy/scholar-search/internal/provider"
	"github.com/pdiddy/scholar-search/internal/search"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// --- test helpers ---

type fakeProvider struct {
	fail     bool
	gotQuery types.SearchQuery
	gotName  string
}

func (f *fakeProvider) Name() string             { return "fake" }
func (f *fakeProvider) Traits() provider.Traits { return provider.Traits{AuthorFilter: true, YearFilter: true} }

func (f *fakeProvider) err() error {
	return &provider.Error{Provider: "fake", Kind: provider.KindTransport, Cause: errors.New("HTTP 503")}
}

func (f *fakeProvider) Search(_ context.Context, q types.SearchQuery) ([]types.Record, error) {
	f.gotQuery = q
	if f.fail {
		return nil, f.err()
	}
	rec := types.NewRecord("fake")
	rec.Title = "Result for " + q.Text
	rec.Year = "2020"
	return []types.Record{rec}, nil
}

func (f *fakeProvider) LookupAuthor(_ context.Context, name string) (types.AuthorProfile, error) {
	f.gotName = name
	if f.fail {
		return types.AuthorProfile{}, f.err()
	}
	p := types.NewAuthorProfile("fake")
	p.Name = name
	return p, nil
}

func (f *fakeProvider) LookupByTitle(_ context.Context, title string) (types.Record, error) {
	if f.fail {
		return types.Record{}, f.err()
	}
	rec := types.NewRecord("fake")
	rec.Title = title
	rec.Authors.Display = "G Hinton"
	rec.Year = "2012"
	return rec, nil
}

func newTestServer(t *testing.T, p *fakeProvider, lib *library.Store) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := search.New([]provider.Provider{p}, log)
	ts := httptest.NewServer(New(orch, lib, types.ServerConfig{}, log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, v any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

// --- tests ---

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{}, nil)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSearchEndpoint(t *testing.T) {
	p := &fakeProvider{}
	ts := newTestServer(t, p, nil)

	var records []types.Record
	status := getJSON(t, ts, "/v1/search?q=graph+networks&n=3&lang=de", &records)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, records, 1)
	assert.Equal(t, "Result for graph networks", records[0].Title)
	assert.Equal(t, "fake", records[0].SourceProvider)
	assert.Equal(t, 3, p.gotQuery.MaxResults)
	assert.Equal(t, "de", p.gotQuery.Language)
}

func TestSearchEndpointFailure(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{fail: true}, nil)

	var payload []types.ErrorPayload
	status := getJSON(t, ts, "/v1/search?q=x", &payload)
	assert.Equal(t, http.StatusBadGateway, status)
	require.Len(t, payload, 1)
	assert.Contains(t, payload[0].Error, "no method available")
}

func TestSearchEndpointBadInput(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{}, nil)

	var payload []types.ErrorPayload
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts, "/v1/search?q=x&n=lots", &payload))
	require.Len(t, payload, 1)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts, "/v1/search?q=", &payload))
	assert.Equal(t, "query is empty", payload[0].Error)
}

func TestSearchAdvancedEndpoint(t *testing.T) {
	p := &fakeProvider{}
	ts := newTestServer(t, p, nil)

	var records []types.Record
	status := getJSON(t, ts, "/v1/search/advanced?q=vision&author=LeCun&year_start=2010&year_end=2020", &records)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LeCun", p.gotQuery.Author)
	assert.Equal(t, 2010, p.gotQuery.YearStart)
	assert.Equal(t, 2020, p.gotQuery.YearEnd)
}

func TestSearchByAuthorEndpoint(t *testing.T) {
	p := &fakeProvider{}
	ts := newTestServer(t, p, nil)

	var records []types.Record
	path := "/v1/authors/" + url.PathEscape("Geoffrey Hinton") + "/papers?n=2"
	assert.Equal(t, http.StatusOK, getJSON(t, ts, path, &records))
	assert.Equal(t, "Geoffrey Hinton", p.gotQuery.Author)
	assert.Equal(t, 2, p.gotQuery.MaxResults)
}

func TestAuthorProfileEndpoint(t *testing.T) {
	p := &fakeProvider{}
	ts := newTestServer(t, p, nil)

	var prof types.AuthorProfile
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/v1/authors/"+url.PathEscape("Yann LeCun"), &prof))
	assert.Equal(t, "Yann LeCun", prof.Name)
	assert.Equal(t, "fake", prof.SourceProvider)
}

func TestFindByTitleEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{}, nil)

	var c types.Citation
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/v1/papers/find?title="+url.QueryEscape("ImageNet classification"), &c))
	assert.Equal(t, "ImageNet classification", c.Title)
	assert.Contains(t, c.BibTeX, "@article{hinton_2012,")
	assert.Contains(t, c.RIS, "TY  - JOUR")
}

func TestCitationInfoEndpointFailure(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{fail: true}, nil)

	var payload types.ErrorPayload
	assert.Equal(t, http.StatusBadGateway, getJSON(t, ts, "/v1/papers/citation?title=x", &payload))
	assert.Contains(t, payload.Error, "no method available")
}

func TestLibraryEndpoints(t *testing.T) {
	lib, err := library.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })

	rec := types.NewRecord("fake")
	rec.Title = "Saved Paper"
	_, err = lib.Save(context.Background(), rec)
	require.NoError(t, err)

	ts := newTestServer(t, &fakeProvider{}, lib)

	var entries []library.Entry
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/v1/library", &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "saved-paper", entries[0].Key)

	var entry library.Entry
	assert.Equal(t, http.StatusOK, getJSON(t, ts, "/v1/library/saved-paper", &entry))
	assert.Equal(t, "Saved Paper", entry.Record.Title)

	var payload types.ErrorPayload
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts, "/v1/library/missing", &payload))
}

func TestLibraryDisabled(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{}, nil)
	var payload types.ErrorPayload
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts, "/v1/library", &payload))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, &fakeProvider{}, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/search", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
