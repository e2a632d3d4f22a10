package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pcenrich/app"
	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
	"pcenrich/internal"
)

// Server exposes the enrichment service over HTTP.
type Server struct {
	router  *chi.Mux
	service *app.EnrichmentService
	logger  *internal.Logger
}

// RunRequest is the JSON body of POST /api/runs. The matrix is supplied
// inline row by row; membership comes either as gene sets or as a binary
// matrix, matching the engine's two accepted representations.
type RunRequest struct {
	Data          [][]float64                  `json:"data"`
	VariableNames []string                     `json:"variable_names,omitempty"`
	GeneSets      []enrichment.GeneSet         `json:"gene_sets,omitempty"`
	Binary        *enrichment.BinaryMembership `json:"binary_membership,omitempty"`
	Options       enrichment.Options           `json:"options"`
}

// NewServer creates the HTTP server around an enrichment service.
func NewServer(service *app.EnrichmentService) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		logger:  internal.DefaultLogger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/runs", func(r chi.Router) {
		r.Post("/", s.handleCreateRun)
		r.Get("/", s.handleListRuns)
		r.Get("/{id}", s.handleGetRun)
		r.Get("/{id}/report", s.handleRunReport)
	})
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	data, err := enrichment.NewDataMatrix(req.Data, req.VariableNames)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	membership := enrichment.GroupMembership{Sets: req.GeneSets, Binary: req.Binary}

	run, err := s.service.Execute(r.Context(), data, nil, membership, req.Options)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.fetchRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.fetchRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(app.RenderHTMLReport(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	runs, err := s.service.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if runs == nil {
		runs = []*enrichment.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) fetchRun(w http.ResponseWriter, r *http.Request) (*enrichment.Run, bool) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	run, err := s.service.GetRun(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return nil, false
	}
	return run, true
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case core.IsNotFoundError(err):
		writeError(w, http.StatusNotFound, err.Error())
	case core.IsConfigurationError(err), core.IsDegeneracyError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case core.IsUnsupportedFeatureError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
