/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package httpapi exposes the query pipeline over HTTP: POST /api/query fans
// the prompt out, judges the results, and returns the assembled outcome.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chainguard-dev/clog"

	"echoai.dev/backend/auth"
	"echoai.dev/backend/fanout"
	"echoai.dev/backend/judge"
	"echoai.dev/backend/providers"
)

// Querier fans a prompt out to the selected providers.
type Querier interface {
	Query(ctx context.Context, prompt string, selected []providers.Name) (*fanout.ResultSet, error)
}

// Evaluator judges a fan-out outcome.
type Evaluator interface {
	Evaluate(ctx context.Context, prompt string, results *fanout.ResultSet) judge.Result
}

type queryRequest struct {
	Prompt string   `json:"prompt"`
	Models []string `json:"models"`
}

type queryResponse struct {
	Responses  *fanout.ResultSet `json:"responses"`
	Evaluation judge.Result      `json:"evaluation"`
	UserID     *string           `json:"user_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// Query handles POST /api/query. The request fails outright only on
// client-input validation; provider failures and judge failures degrade into
// in-band markers within a 200 response.
func Query(querier Querier, evaluator Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		ctx := r.Context()
		log := clog.FromContext(ctx)

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		selected := make([]providers.Name, 0, len(req.Models))
		for _, m := range req.Models {
			selected = append(selected, providers.Name(m))
		}

		results, err := querier.Query(ctx, req.Prompt, selected)
		if err != nil {
			var unknown *fanout.UnknownProviderError
			switch {
			case errors.Is(err, fanout.ErrEmptyPrompt),
				errors.Is(err, fanout.ErrNoModels),
				errors.As(err, &unknown):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				log.With("error", err).Error("Query failed")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		evaluation := evaluator.Evaluate(ctx, req.Prompt, results)

		var userID *string
		if subject := auth.IdentityFromContext(ctx); subject != "" {
			userID = &subject
		}

		writeJSON(w, http.StatusOK, queryResponse{
			Responses:  results,
			Evaluation: evaluation,
			UserID:     userID,
		})
	}
}

// Root handles GET /, the liveness/identity endpoint.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Echo backend is running! Access the API at /api/query",
		})
	}
}

// Health reports which providers are configured.
func Health(registry *providers.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configured := make(map[string]bool, len(registry.All()))
		for _, p := range registry.All() {
			configured[string(p.Name())] = p.Configured()
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"providers": configured,
		})
	}
}
