// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs academic-literature operations against an ordered
// list of providers, falling back to the next provider when one fails.
// The first provider to succeed answers the whole operation; results from
// different providers are never merged.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/scholar-search/internal/cite"
	"github.com/pdiddy/scholar-search/internal/provider"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// ErrNoMethod is wrapped by every error reporting that no provider could
// serve an operation.
var ErrNoMethod = errors.New("no method available")

// Operation names used in log lines.
const (
	OpSearch         = "search"
	OpSearchAdvanced = "search_advanced"
	OpSearchByAuthor = "search_by_author"
	OpAuthorProfile  = "get_author_profile"
	OpFindByTitle    = "find_by_title"
	OpCitationInfo   = "get_citation_info"
)

// Outcome is the total result of one operation: either a value produced by
// Provider, or Err.
type Outcome[T any] struct {
	Value    T
	Provider string
	Err      error
}

// Failed reports whether the operation produced no value.
func (o Outcome[T]) Failed() bool { return o.Err != nil }

// Payload returns the value, or an error payload when the operation failed.
func (o Outcome[T]) Payload() any {
	if o.Err != nil {
		return types.ErrorPayload{Error: o.Err.Error()}
	}
	return o.Value
}

// ListPayload is Payload for list-returning operations: a failure is a
// single-element list holding the error payload.
func (o Outcome[T]) ListPayload() any {
	if o.Err != nil {
		return []types.ErrorPayload{{Error: o.Err.Error()}}
	}
	return o.Value
}

// Orchestrator holds the ordered providers.
type Orchestrator struct {
	providers []provider.Provider
	log       *slog.Logger
}

// New returns an Orchestrator trying providers in the given order.
func New(providers []provider.Provider, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{providers: providers, log: log}
}

// Providers returns the providers in priority order.
func (o *Orchestrator) Providers() []provider.Provider {
	return o.providers
}

// Search runs a keyword search. With preferAPI false the keyed providers
// are skipped.
func (o *Orchestrator) Search(ctx context.Context, q types.SearchQuery, preferAPI bool) Outcome[[]types.Record] {
	return o.searchRecords(ctx, OpSearch, q, preferAPI)
}

// SearchAdvanced runs a search honoring the author and year bounds of q.
func (o *Orchestrator) SearchAdvanced(ctx context.Context, q types.SearchQuery) Outcome[[]types.Record] {
	return o.searchRecords(ctx, OpSearchAdvanced, q, true)
}

// SearchByAuthor lists papers by author, optionally narrowed by text.
func (o *Orchestrator) SearchByAuthor(ctx context.Context, author, text string, maxResults int) Outcome[[]types.Record] {
	q := types.SearchQuery{Text: text, Author: author, MaxResults: maxResults}
	if q.WithDefaults().Author == "" {
		return Outcome[[]types.Record]{Value: []types.Record{}, Err: errors.New("author name is empty")}
	}
	return o.searchRecords(ctx, OpSearchByAuthor, q, true)
}

// AuthorProfile returns the profile of the best matching author.
func (o *Orchestrator) AuthorProfile(ctx context.Context, name string) Outcome[types.AuthorProfile] {
	name = strings.TrimSpace(name)
	if name == "" {
		return Outcome[types.AuthorProfile]{Err: errors.New("author name is empty")}
	}
	return fallback(ctx, o, OpAuthorProfile, o.providers,
		func(ctx context.Context, p provider.Provider) (types.AuthorProfile, error) {
			return p.LookupAuthor(ctx, name)
		})
}

// FindByTitle returns the best match for title with BibTeX and RIS exports.
func (o *Orchestrator) FindByTitle(ctx context.Context, title string) Outcome[types.Citation] {
	rec := o.lookupTitle(ctx, OpFindByTitle, title)
	if rec.Failed() {
		return Outcome[types.Citation]{Provider: rec.Provider, Err: rec.Err}
	}
	return Outcome[types.Citation]{
		Value: types.Citation{
			Record: rec.Value,
			BibTeX: cite.BibTeX(rec.Value),
			RIS:    cite.RIS(rec.Value),
		},
		Provider: rec.Provider,
	}
}

// CitationInfo returns the abbreviated view of the best match for title.
func (o *Orchestrator) CitationInfo(ctx context.Context, title string) Outcome[types.CitationInfo] {
	rec := o.lookupTitle(ctx, OpCitationInfo, title)
	if rec.Failed() {
		return Outcome[types.CitationInfo]{Provider: rec.Provider, Err: rec.Err}
	}
	return Outcome[types.CitationInfo]{Value: rec.Value.Abbreviate(), Provider: rec.Provider}
}

func (o *Orchestrator) lookupTitle(ctx context.Context, op, title string) Outcome[types.Record] {
	title = strings.TrimSpace(title)
	if title == "" {
		return Outcome[types.Record]{Err: errors.New("paper title is empty")}
	}
	return fallback(ctx, o, op, o.providers,
		func(ctx context.Context, p provider.Provider) (types.Record, error) {
			return p.LookupByTitle(ctx, title)
		})
}

func (o *Orchestrator) searchRecords(ctx context.Context, op string, q types.SearchQuery, preferAPI bool) Outcome[[]types.Record] {
	q = q.WithDefaults()
	if q.IsEmpty() {
		return Outcome[[]types.Record]{Value: []types.Record{}, Err: errors.New("query is empty")}
	}
	if q.InvertedRange() {
		o.log.Warn("year range is inverted, returning no results",
			"op", op, "year_start", q.YearStart, "year_end", q.YearEnd)
		return Outcome[[]types.Record]{Value: []types.Record{}}
	}

	candidates := o.providers
	if !preferAPI {
		candidates = nil
		for _, p := range o.providers {
			if !p.Traits().Keyed {
				candidates = append(candidates, p)
			}
		}
	}

	out := fallback(ctx, o, op, candidates,
		func(ctx context.Context, p provider.Provider) ([]types.Record, error) {
			return searchOne(ctx, p, q)
		})
	if out.Value == nil {
		out.Value = []types.Record{}
	}
	return out
}

// searchOne adapts q to what p supports natively and applies the
// remaining filters to its results.
func searchOne(ctx context.Context, p provider.Provider, q types.SearchQuery) ([]types.Record, error) {
	traits := p.Traits()
	pq := q
	if pq.Author != "" && !traits.AuthorFilter {
		pq = pq.WithAuthorToken()
	}
	postFilter := q.HasYearRange() && !traits.YearFilter
	if postFilter {
		pq = pq.WithoutYears()
	}

	records, err := p.Search(ctx, pq)
	if err != nil {
		return nil, err
	}
	if postFilter {
		records = FilterYears(records, q)
	}
	if len(records) > q.MaxResults {
		records = records[:q.MaxResults]
	}
	if records == nil {
		records = []types.Record{}
	}
	return records, nil
}

// FilterYears drops records whose year lies outside q's bounds. Records
// with an unknown or unparseable year are kept.
func FilterYears(records []types.Record, q types.SearchQuery) []types.Record {
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if y, ok := r.YearInt(); ok && !q.InYearRange(y) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// fallback tries each candidate in order and returns the first success.
// Every provider is tried at most once.
func fallback[T any](ctx context.Context, o *Orchestrator, op string, candidates []provider.Provider, call func(context.Context, provider.Provider) (T, error)) Outcome[T] {
	log := o.log.With("op", op, "op_id", uuid.NewString())
	if len(candidates) == 0 {
		log.Warn("no providers configured")
		return Outcome[T]{Err: fmt.Errorf("%w: no providers configured", ErrNoMethod)}
	}

	var lastErr error
	for i, p := range candidates {
		if err := ctx.Err(); err != nil {
			return Outcome[T]{Err: fmt.Errorf("%w: %v", ErrNoMethod, err)}
		}

		v, err := invoke(ctx, p, call)
		if err == nil {
			log.Debug("provider succeeded", "provider", p.Name())
			return Outcome[T]{Value: v, Provider: p.Name()}
		}
		lastErr = err

		next := "none"
		if i+1 < len(candidates) {
			next = candidates[i+1].Name()
		}
		switch provider.KindOf(err) {
		case provider.KindConfig, provider.KindUnsupported:
			log.Debug("skipping provider", "provider", p.Name(), "next", next, "err", err)
		default:
			log.Warn("falling back", "provider", p.Name(), "next", next, "err", err)
		}
	}

	log.Error("all providers failed", "tried", len(candidates), "err", lastErr)
	return Outcome[T]{Err: fmt.Errorf("%w: all %d providers failed, last error: %v", ErrNoMethod, len(candidates), lastErr)}
}

// invoke runs call in its own goroutine so a provider that ignores ctx
// cannot block the operation past cancellation. A panic inside the
// provider is reported as an upstream failure.
func invoke[T any](ctx context.Context, p provider.Provider, call func(context.Context, provider.Provider) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: &provider.Error{Provider: p.Name(), Kind: provider.KindUpstream, Cause: fmt.Errorf("panic: %v", r)}}
			}
		}()
		v, err := call(ctx, p)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, &provider.Error{Provider: p.Name(), Kind: provider.KindTransport, Cause: ctx.Err()}
	}
}
