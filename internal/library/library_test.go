// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func record(source, title string) types.Record {
	rec := types.NewRecord(source)
	rec.Title = title
	return rec
}

// --- tests ---

func TestOpenCreatesDatabase(t *testing.T) {
	_, dir := testStore(t)
	_, err := os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Attention Is All You Need", "attention-is-all-you-need"},
		{"  BERT: Pre-training of Deep Bidirectional Transformers ", "bert-pre-training-of-deep-bidirectional-transformers"},
		{"ImageNet (2009)", "imagenet-2009"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.title))
		})
	}
}

func TestSaveAndGet(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec := record("serpapi", "Attention Is All You Need")
	rec.Year = "2017"
	rec.Authors.Display = "A Vaswani, N Shazeer"

	merged, err := s.Save(ctx, rec)
	require.NoError(t, err)
	assert.False(t, merged)

	got, err := s.Get(ctx, "attention-is-all-you-need")
	require.NoError(t, err)
	assert.Equal(t, rec, got.Record)
	assert.False(t, got.AddedAt.IsZero())
}

func TestSaveMergesAndKeepsFirstProvider(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	first := record("scholar", "Deep Learning")
	first.Year = "2015"
	_, err := s.Save(ctx, first)
	require.NoError(t, err)

	second := record("openalex", "deep learning")
	second.Year = "2016"
	second.DOI = "10.1038/nature14539"
	second.CitationCount = 70000
	merged, err := s.Save(ctx, second)
	require.NoError(t, err)
	assert.True(t, merged)

	got, err := s.Get(ctx, "deep-learning")
	require.NoError(t, err)
	assert.Equal(t, "scholar", got.Record.SourceProvider)
	assert.Equal(t, "Deep Learning", got.Record.Title)
	assert.Equal(t, "2015", got.Record.Year, "known fields are not overwritten")
	assert.Equal(t, "10.1038/nature14539", got.Record.DOI)
	assert.Equal(t, 70000, got.Record.CitationCount)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveRejectsUntitled(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Save(context.Background(), types.NewRecord("scholar"))
	assert.Error(t, err)
}

func TestSaveRejectsUnkeyableTitle(t *testing.T) {
	s, _ := testStore(t)
	for _, title := range []string{"???", "--- !! ---"} {
		_, err := s.Save(context.Background(), record("scholar", title))
		assert.Error(t, err, title)
	}

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListOrder(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	for _, title := range []string{"Zeta paper", "Alpha paper", "Mid paper"} {
		_, err := s.Save(ctx, record("arxiv", title))
		require.NoError(t, err)
	}

	entries, err := s.List(ctx)
	require.NoError(t, err)
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"zeta-paper", "alpha-paper", "mid-paper"}, keys)
}

func TestListEmpty(t *testing.T) {
	s, _ := testStore(t)
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, record("arxiv", "Some Paper"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "some-paper"))
	_, err = s.Get(ctx, "some-paper")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, "some-paper"), ErrNotFound)
}

func TestExport(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec := record("scholar", "Attention is all you need")
	rec.Authors.Display = "A Vaswani"
	rec.Year = "2017"
	rec.Venue = "Proceedings of NeurIPS"
	_, err := s.Save(ctx, rec)
	require.NoError(t, err)

	var bib bytes.Buffer
	require.NoError(t, s.Export(ctx, FormatBibTeX, &bib))
	assert.True(t, strings.HasPrefix(bib.String(), "@inproceedings{vaswani_2017,"))

	var ris bytes.Buffer
	require.NoError(t, s.Export(ctx, FormatRIS, &ris))
	assert.True(t, strings.HasPrefix(ris.String(), "TY  - CONF\n"))

	var csl bytes.Buffer
	require.NoError(t, s.Export(ctx, FormatCSL, &csl))
	assert.Contains(t, csl.String(), "id: vaswani_2017")

	assert.ErrorContains(t, s.Export(ctx, "endnote", &bytes.Buffer{}), "unknown export format")
}

func TestReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), record("arxiv", "Persistent"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir, nil)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Get(context.Background(), "persistent")
	assert.NoError(t, err)
}
