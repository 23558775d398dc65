// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts upstream academic data sources to one interface.
// Each adapter issues its own requests, normalizes the response into
// types.Record or types.AuthorProfile, and reports failures as *Error so the
// orchestrator can decide whether to fall back.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/scholar-search/internal/httputil"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// Traits describes which query features a provider handles natively.
type Traits struct {
	// AuthorFilter is set when the provider accepts an author parameter.
	// Otherwise the orchestrator folds the author into the query text.
	AuthorFilter bool
	// YearFilter is set when the provider filters by year upstream.
	// Otherwise the orchestrator discards out-of-range records itself.
	YearFilter bool
	// Keyed is set for providers backed by a paid API key.
	Keyed bool
}

// Provider is one upstream academic data source.
type Provider interface {
	Name() string
	Traits() Traits
	Search(ctx context.Context, q types.SearchQuery) ([]types.Record, error)
	LookupAuthor(ctx context.Context, name string) (types.AuthorProfile, error)
	LookupByTitle(ctx context.Context, title string) (types.Record, error)
}

// Kind classifies a provider failure.
type Kind int

const (
	// KindConfig means the provider is not usable in this process, usually
	// because a credential is missing.
	KindConfig Kind = iota + 1
	// KindTransport covers network errors, timeouts and non-2xx responses.
	KindTransport
	// KindUpstream means the provider answered but the answer is unusable:
	// malformed, unexpectedly empty, or an explicit error payload.
	KindUpstream
	// KindUnsupported means the provider does not offer the operation.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ErrUnsupported is the cause carried by KindUnsupported errors.
var ErrUnsupported = errors.New("operation not supported")

// Error is a failure reported by a provider.
type Error struct {
	Provider string
	Kind     Kind
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the Kind of err, or 0 when err is not a provider error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func configErr(name string, cause error) error {
	return &Error{Provider: name, Kind: KindConfig, Cause: cause}
}

func transportErr(name string, cause error) error {
	return &Error{Provider: name, Kind: KindTransport, Cause: cause}
}

func upstreamErr(name, format string, args ...any) error {
	return &Error{Provider: name, Kind: KindUpstream, Cause: fmt.Errorf(format, args...)}
}

func unsupported(name string) error {
	return &Error{Provider: name, Kind: KindUnsupported, Cause: ErrUnsupported}
}

// Unavailable stands in for a provider that cannot run in this process.
// Every call fails with a KindConfig error naming Reason.
type Unavailable struct {
	ProviderName   string
	Reason         string
	ProviderTraits Traits
}

func (u *Unavailable) Name() string   { return u.ProviderName }
func (u *Unavailable) Traits() Traits { return u.ProviderTraits }

func (u *Unavailable) Search(context.Context, types.SearchQuery) ([]types.Record, error) {
	return nil, u.err()
}

func (u *Unavailable) LookupAuthor(context.Context, string) (types.AuthorProfile, error) {
	return types.AuthorProfile{}, u.err()
}

func (u *Unavailable) LookupByTitle(context.Context, string) (types.Record, error) {
	return types.Record{}, u.err()
}

func (u *Unavailable) err() error {
	return configErr(u.ProviderName, errors.New(u.Reason))
}

// fetcher performs single-attempt GET requests bounded by a timeout.
type fetcher struct {
	name      string
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// get fetches rawURL with the given extra headers. Every failure is
// returned as a KindTransport *Error.
func (f fetcher) get(ctx context.Context, rawURL string, header map[string]string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := httputil.NewGet(ctx, rawURL, f.userAgent)
	if err != nil {
		return nil, transportErr(f.name, err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	client := f.client
	if client == nil {
		client = http.DefaultClient
	}
	body, err := httputil.Fetch(ctx, client, req)
	if err != nil {
		return nil, transportErr(f.name, fmt.Errorf("request failed: %w", err))
	}
	return body, nil
}

// limit returns at most n records.
func limit(records []types.Record, n int) []types.Record {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

// capPublications trims an author's publication list.
func capPublications(pubs []types.Publication) []types.Publication {
	if len(pubs) > types.MaxTopPublications {
		return pubs[:types.MaxTopPublications]
	}
	if pubs == nil {
		return []types.Publication{}
	}
	return pubs
}

// yearParam formats a year bound, or "" when unset.
func yearParam(y int) string {
	if y <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", y)
}
