package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

type analyzeRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type textRequest struct {
	Text string `json:"text"`
}

type scoreRequest struct {
	Clause   string `json:"clause"`
	Language string `json:"language"`
}

type suggestRequest struct {
	Clause  string   `json:"clause"`
	Tier    string   `json:"tier"`
	Reasons []string `json:"reasons"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type segmentResponse struct {
	Clauses []domain.Clause `json:"clauses"`
	Stage   string          `json:"stage"`
}

type suggestResponse struct {
	Suggestion *string `json:"suggestion"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createAnalysis handles POST /v1/analyses.
func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	opts := domain.AnalyzeOptions{Save: queryBool(r, "save")}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.analyzeUpload(w, r, opts)
		return
	}

	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	opts.Name = req.Name

	a, err := s.ports.Analysis.AnalyzeText(r.Context(), req.Name, req.Text, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request, opts domain.AnalyzeOptions) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}

	opts.Name = r.FormValue("name")
	raw := &domain.RawDocument{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Content:  content,
	}

	a, err := s.ports.Analysis.AnalyzeDocument(r.Context(), raw, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// listAnalyses handles GET /v1/analyses.
func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	list, err := s.ports.Analysis.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if list == nil {
		list = []domain.AnalysisSummary{}
	}
	writeJSON(w, http.StatusOK, list)
}

// getAnalysis handles GET /v1/analyses/{id}.
func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.ports.Analysis.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// deleteAnalysis handles DELETE /v1/analyses/{id}.
func (s *Server) deleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.ports.Analysis.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// commentClause handles PUT /v1/analyses/{id}/clauses/{ordinal}/comment.
func (s *Server) commentClause(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ordinal, err := strconv.Atoi(vars["ordinal"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clause ordinal")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}

	if err := s.ports.Analysis.Comment(r.Context(), vars["id"], ordinal, req.Comment); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// segment handles POST /v1/segment.
func (s *Server) segment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}

	clauses, stage := s.ports.Analysis.Segment(req.Text)
	if clauses == nil {
		clauses = []domain.Clause{}
	}
	writeJSON(w, http.StatusOK, segmentResponse{Clauses: clauses, Stage: stage})
}

// score handles POST /v1/score.
func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}

	var lang domain.Language
	if strings.TrimSpace(req.Language) != "" {
		lang = domain.ParseLanguage(req.Language)
	}

	f, err := s.ports.Analysis.ScoreClause(r.Context(), req.Clause, lang)
	if err != nil {
		writeErr(w, err)
		return
	}
	if f.Reasons == nil {
		f.Reasons = []string{}
	}
	writeJSON(w, http.StatusOK, f)
}

// suggest handles POST /v1/suggest.
func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}

	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{
		Suggestion: s.ports.Analysis.Suggest(req.Clause, tier, req.Reasons),
	})
}

// plausibility handles POST /v1/plausibility.
func (s *Server) plausibility(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ports.Analysis.CheckPlausibility(req.Text))
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrInvalidInput)
		}
		return fmt.Errorf("%w: decoding request: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	writeError(w, status, err.Error())
}
