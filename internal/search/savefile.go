// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-search/pkg/types"
)

// SavedSearch is the on-disk representation of a search and its outcome.
// A saved search can be reloaded later without querying any provider.
type SavedSearch struct {
	Query     types.SearchQuery `yaml:"query"`
	PreferAPI bool              `yaml:"prefer_api"`
	Provider  string            `yaml:"provider,omitempty"`
	Results   []types.Record    `yaml:"results"`
	Error     string            `yaml:"error,omitempty"`
	Timestamp time.Time         `yaml:"timestamp"`
}

// NewSavedSearch captures out as a SavedSearch stamped with the current time.
func NewSavedSearch(q types.SearchQuery, preferAPI bool, out Outcome[[]types.Record]) SavedSearch {
	s := SavedSearch{
		Query:     q,
		PreferAPI: preferAPI,
		Provider:  out.Provider,
		Results:   out.Value,
		Timestamp: time.Now().UTC(),
	}
	if out.Err != nil {
		s.Error = out.Err.Error()
	}
	if s.Results == nil {
		s.Results = []types.Record{}
	}
	return s
}

// Outcome rebuilds the operation outcome stored in s.
func (s SavedSearch) Outcome() Outcome[[]types.Record] {
	out := Outcome[[]types.Record]{Value: s.Results, Provider: s.Provider}
	if s.Error != "" {
		out.Err = errors.New(s.Error)
	}
	if out.Value == nil {
		out.Value = []types.Record{}
	}
	return out
}

// WriteSavedSearch saves s to a YAML file.
func WriteSavedSearch(path string, s SavedSearch) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling saved search: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSavedSearch loads a previously saved search from disk.
func ReadSavedSearch(path string) (*SavedSearch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading saved search: %w", err)
	}
	var s SavedSearch
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing saved search: %w", err)
	}
	return &s, nil
}
