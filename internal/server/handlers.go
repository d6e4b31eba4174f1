package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coursemark/coursemark/internal/assess"
	"github.com/coursemark/coursemark/internal/history"
	"github.com/coursemark/coursemark/internal/source"
)

type Server struct {
	Source source.Source
	Engine *assess.Engine
	Logger *log.Logger
	Mux    *http.ServeMux
}

func NewServer(src source.Source, engine *assess.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		Source: src,
		Engine: engine,
		Logger: logger,
		Mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Mux.HandleFunc("/ping", s.handlePing)
	s.Mux.HandleFunc("/api/graph", s.handleGraph)
	s.Mux.HandleFunc("/api/divergence", s.handleDivergence)
	s.Mux.HandleFunc("/api/merge-point", s.handleMergePoint)
	s.Mux.HandleFunc("/api/tags-at", s.handleTagsAt)
	s.Mux.HandleFunc("/api/schemes", s.handleSchemes)
	s.Mux.HandleFunc("/api/assess", s.handleAssess)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Logger.Debug("request", "method", r.Method, "path", r.URL.Path)
	s.Mux.ServeHTTP(w, r)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "pong",
		"system":  "coursemark",
	})
}

// GraphRequest bounds the history window to analyze. Zero times mean
// unbounded; an empty branch means the source's default branch.
type GraphRequest struct {
	Since  time.Time `json:"since"`
	Until  time.Time `json:"until"`
	Branch string    `json:"branch"`
}

type GraphResponse struct {
	Commits []history.Commit          `json:"commits"`
	Refs    map[string]string         `json:"refs"`
	Merges  []history.MergeParentPair `json:"merges"`
	Paths   []history.BranchPath      `json:"paths"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := source.Take(r.Context(), s.Source, source.Window{
		Since:  req.Since,
		Until:  req.Until,
		Branch: req.Branch,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	g := history.GraphFromCommits(snap.Commits)
	writeJSON(w, http.StatusOK, GraphResponse{
		Commits: snap.Commits,
		Refs:    snap.Refs(),
		Merges:  history.IdentifyMergeParents(g.ParentLists()),
		Paths:   history.ReconstructPaths(g, snap.Refs()),
	})
}

type DivergenceRequest struct {
	BaseBranch    string `json:"baseBranch"`
	FeatureBranch string `json:"featureBranch"`
}

type DivergenceResponse struct {
	FirstFeatureCommit *history.Commit `json:"firstFeatureCommit"`
}

func (s *Server) handleDivergence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req DivergenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	baseCommits, err := s.Source.Commits(r.Context(), source.Window{Branch: req.BaseBranch})
	if err != nil {
		s.writeError(w, err)
		return
	}
	featureCommits, err := s.Source.Commits(r.Context(), source.Window{Branch: req.FeatureBranch})
	if err != nil {
		s.writeError(w, err)
		return
	}

	first, err := history.FirstFeatureCommit(baseCommits, featureCommits)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if first != nil {
		fixed := history.FixupFirstFeatureCommit(featureCommits, *first, history.MergeCommits(featureCommits))
		first = &fixed
	}
	writeJSON(w, http.StatusOK, DivergenceResponse{FirstFeatureCommit: first})
}

type MergePointResponse struct {
	Merged bool            `json:"merged"`
	Commit *history.Commit `json:"commit"`
}

func (s *Server) handleMergePoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req DivergenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	baseCommits, err := s.Source.Commits(r.Context(), source.Window{Branch: req.BaseBranch})
	if err != nil {
		s.writeError(w, err)
		return
	}
	branches, err := s.Source.Branches(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	var tip string
	for _, b := range branches {
		if b.Name == req.FeatureBranch {
			tip = b.CommitID
			break
		}
	}
	if tip == "" {
		http.Error(w, "unknown branch "+req.FeatureBranch, http.StatusNotFound)
		return
	}

	commit, merged := history.MergePoint(history.Commit{ID: tip}, baseCommits)
	writeJSON(w, http.StatusOK, MergePointResponse{Merged: merged, Commit: commit})
}

type TagsAtRequest struct {
	Date time.Time `json:"date"`
}

func (s *Server) handleTagsAt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req TagsAtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tags, err := s.Source.Tags(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	events, err := s.Source.Events(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	reconstructed := history.TagsAtDate(req.Date, tags, events)
	if reconstructed == nil {
		reconstructed = []history.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string][]history.Tag{"tags": reconstructed})
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := s.Engine.Loader.ListSchemes()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if schemes == nil {
		schemes = []*assess.Scheme{}
	}
	writeJSON(w, http.StatusOK, schemes)
}

type AssessRequest struct {
	SchemeID string `json:"schemeId"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.Engine.Evaluate(r.Context(), req.SchemeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// writeError maps analysis failures to responses. Window and topology
// problems are the client's data, not a server fault.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.Is(err, history.ErrWindowMismatch):
		status = http.StatusUnprocessableEntity
		kind = "window-mismatch"
	case errors.Is(err, history.ErrDisconnectedHistory):
		status = http.StatusUnprocessableEntity
		kind = "disconnected-history"
	}
	s.Logger.Error("request failed", "kind", kind, "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
