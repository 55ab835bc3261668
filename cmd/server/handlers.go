package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/docquote/internal/pricing"
	"github.com/Simplici0/docquote/internal/scenario"
	"github.com/Simplici0/docquote/internal/store"
)

const maxBodyBytes = 1 << 20

// inputsRequest selects inputs either inline or by preset name. With neither,
// the default inputs are used.
type inputsRequest struct {
	Preset string          `json:"preset,omitempty"`
	Inputs *pricing.Inputs `json:"inputs,omitempty"`
}

type estimateRequest struct {
	inputsRequest
	Scenario string `json:"scenario"`
}

type estimateResponse struct {
	Validation       pricing.Validation `json:"validation"`
	Warnings         []string           `json:"warnings"`
	ScenarioWarnings []string           `json:"scenarioWarnings"`
	Result           pricing.Result     `json:"result"`
}

type compareResponse struct {
	Validation pricing.Validation `json:"validation"`
	Warnings   []string           `json:"warnings"`
	Results    []pricing.Result   `json:"results"`
}

type validateResponse struct {
	Validation pricing.Validation `json:"validation"`
	Warnings   []string           `json:"warnings"`
	Error      string             `json:"error,omitempty"`
}

const errNonFinite = "quote overflows: reduce input magnitudes or scenario margins"

type quoteRequest struct {
	estimateRequest
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type presetRequest struct {
	Description string         `json:"description"`
	Inputs      pricing.Inputs `json:"inputs"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !s.decode(w, r, &req) {
		return
	}

	sc, err := s.catalog.Get(req.Scenario)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	in, err := s.resolveInputs(r, req.inputsRequest)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	res := pricing.Compute(in, sc)
	if !res.IsFinite() {
		writeNonFinite(w, in)
		return
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		Validation:       pricing.Validate(in),
		Warnings:         pricing.Warnings(in),
		ScenarioWarnings: pricing.ScenarioWarnings(sc),
		Result:           res,
	})
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req inputsRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := s.resolveInputs(r, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	results, err := pricing.Compare(in, s.catalog.All())
	if errors.Is(err, pricing.ErrNonFinite) {
		writeNonFinite(w, in)
		return
	}
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Validation: pricing.Validate(in),
		Warnings:   pricing.Warnings(in),
		Results:    results,
	})
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req inputsRequest
	if !s.decode(w, r, &req) {
		return
	}
	in, err := s.resolveInputs(r, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Validation: pricing.Validate(in),
		Warnings:   pricing.Warnings(in),
	})
}

func (s *server) handlePresetsList(w http.ResponseWriter, r *http.Request) {
	presets, err := s.store.ListPresets(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *server) handlePresetGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPreset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handlePresetPut(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "preset name is required")
		return
	}

	var req presetRequest
	if !s.decode(w, r, &req) {
		return
	}

	if v := pricing.Validate(req.Inputs); !v.IsValid {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Validation: v, Warnings: pricing.Warnings(req.Inputs)})
		return
	}

	p := store.Preset{Name: name, Description: req.Description, Inputs: req.Inputs}
	if err := s.store.SavePreset(r.Context(), p); err != nil {
		s.writeErr(w, r, err)
		return
	}

	saved, err := s.store.GetPreset(r.Context(), name)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.ListQuotes(r.Context(), query)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// handleQuoteCreate computes and saves a snapshot. Invalid inputs are
// rejected here even though /estimate will still compute them.
func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	sc, err := s.catalog.Get(req.Scenario)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	in, err := s.resolveInputs(r, req.inputsRequest)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if v := pricing.Validate(in); !v.IsValid {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Validation: v, Warnings: pricing.Warnings(in)})
		return
	}

	res := pricing.Compute(in, sc)
	if !res.IsFinite() {
		writeNonFinite(w, in)
		return
	}

	q, err := s.store.SaveQuote(r.Context(), strings.TrimSpace(req.Title), req.Notes, in, res)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.log.Info().Str("quote_id", q.ID).Str("scenario", q.ScenarioKey).Float64("total", q.Totals.Total).Msg("quote saved")
	writeJSON(w, http.StatusCreated, q)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) resolveInputs(r *http.Request, req inputsRequest) (pricing.Inputs, error) {
	switch {
	case req.Inputs != nil:
		return *req.Inputs, nil
	case req.Preset != "":
		p, err := s.store.GetPreset(r.Context(), req.Preset)
		if err != nil {
			return pricing.Inputs{}, err
		}
		return p.Inputs, nil
	default:
		return pricing.DefaultInputs(), nil
	}
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scenario.ErrUnknownScenario), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeNonFinite rejects results holding Inf or NaN, which JSON cannot carry.
func writeNonFinite(w http.ResponseWriter, in pricing.Inputs) {
	writeJSON(w, http.StatusUnprocessableEntity, validateResponse{
		Validation: pricing.Validate(in),
		Warnings:   pricing.Warnings(in),
		Error:      errNonFinite,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
