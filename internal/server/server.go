// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search operations and the saved library over
// HTTP. Every operation endpoint answers with the operation's payload JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pdiddy/scholar-search/internal/library"
	"github.com/pdiddy/scholar-search/internal/search"
	"github.com/pdiddy/scholar-search/pkg/types"
)

// Server holds the HTTP handlers.
type Server struct {
	orch    *search.Orchestrator
	lib     *library.Store
	log     *slog.Logger
	origins []string
}

// New returns a Server. lib may be nil, in which case the library
// endpoints answer 404.
func New(orch *search.Orchestrator, lib *library.Store, cfg types.ServerConfig, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{orch: orch, lib: lib, log: log, origins: cfg.AllowedOrigins}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/search/advanced", s.handleSearchAdvanced)
		r.Get("/authors/{name}", s.handleAuthorProfile)
		r.Get("/authors/{name}/papers", s.handleSearchByAuthor)
		r.Get("/papers/find", s.handleFindByTitle)
		r.Get("/papers/citation", s.handleCitationInfo)
		r.Get("/library", s.handleLibraryList)
		r.Get("/library/{key}", s.handleLibraryGet)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := intParam(q.Get("n"))
	if err != nil {
		writeListError(w, http.StatusBadRequest, "n: "+err.Error())
		return
	}
	preferAPI := true
	if v := q.Get("prefer_api"); v != "" {
		if preferAPI, err = strconv.ParseBool(v); err != nil {
			writeListError(w, http.StatusBadRequest, "prefer_api: "+err.Error())
			return
		}
	}
	out := s.orch.Search(r.Context(), types.SearchQuery{
		Text:       q.Get("q"),
		MaxResults: n,
		Language:   q.Get("lang"),
	}, preferAPI)
	writeOutcome(w, out.Err, out.ListPayload())
}

func (s *Server) handleSearchAdvanced(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sq := types.SearchQuery{Text: q.Get("q"), Author: q.Get("author")}
	var err error
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"n", &sq.MaxResults},
		{"year_start", &sq.YearStart},
		{"year_end", &sq.YearEnd},
	} {
		if *p.dst, err = intParam(q.Get(p.name)); err != nil {
			writeListError(w, http.StatusBadRequest, p.name+": "+err.Error())
			return
		}
	}
	out := s.orch.SearchAdvanced(r.Context(), sq)
	writeOutcome(w, out.Err, out.ListPayload())
}

func (s *Server) handleSearchByAuthor(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r.URL.Query().Get("n"))
	if err != nil {
		writeListError(w, http.StatusBadRequest, "n: "+err.Error())
		return
	}
	out := s.orch.SearchByAuthor(r.Context(), chi.URLParam(r, "name"), r.URL.Query().Get("q"), n)
	writeOutcome(w, out.Err, out.ListPayload())
}

func (s *Server) handleAuthorProfile(w http.ResponseWriter, r *http.Request) {
	out := s.orch.AuthorProfile(r.Context(), chi.URLParam(r, "name"))
	writeOutcome(w, out.Err, out.Payload())
}

func (s *Server) handleFindByTitle(w http.ResponseWriter, r *http.Request) {
	out := s.orch.FindByTitle(r.Context(), r.URL.Query().Get("title"))
	writeOutcome(w, out.Err, out.Payload())
}

func (s *Server) handleCitationInfo(w http.ResponseWriter, r *http.Request) {
	out := s.orch.CitationInfo(r.Context(), r.URL.Query().Get("title"))
	writeOutcome(w, out.Err, out.Payload())
}

func (s *Server) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeJSON(w, http.StatusNotFound, types.ErrorPayload{Error: "library is not enabled"})
		return
	}
	entries, err := s.lib.List(r.Context())
	if err != nil {
		s.log.Error("listing library", "err", err)
		writeJSON(w, http.StatusInternalServerError, types.ErrorPayload{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLibraryGet(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeJSON(w, http.StatusNotFound, types.ErrorPayload{Error: "library is not enabled"})
		return
	}
	entry, err := s.lib.Get(r.Context(), chi.URLParam(r, "key"))
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeJSON(w, http.StatusNotFound, types.ErrorPayload{Error: err.Error()})
	case err != nil:
		s.log.Error("reading library", "err", err)
		writeJSON(w, http.StatusInternalServerError, types.ErrorPayload{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, entry)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

// writeOutcome answers 200 with payload, 400 when the input was rejected
// before any provider ran, and 502 when every provider failed.
func writeOutcome(w http.ResponseWriter, err error, payload any) {
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, search.ErrNoMethod):
		status = http.StatusBadGateway
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, payload)
}

func writeListError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, []types.ErrorPayload{{Error: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// intParam parses an optional integer query parameter; empty means 0.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
