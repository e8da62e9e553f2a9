/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package httpapi

import (
	"net/http"

	"echoai.dev/backend/auth"
	"echoai.dev/backend/providers"
)

// NewMux wires the routes with the full middleware chain.
// Order: CORS → Logging → Metrics → optional identity → mux.
func NewMux(querier Querier, evaluator Evaluator, registry *providers.Registry, verifier *auth.Verifier, corsOrigin string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", Root())
	mux.HandleFunc("/healthz", Health(registry))
	mux.HandleFunc("/api/query", Query(querier, evaluator))

	var h http.Handler = mux
	if verifier != nil {
		h = verifier.OptionalMiddleware(h)
	}
	h = Metrics(h)
	h = Logging(h)
	h = CORS(corsOrigin)(h)
	return h
}
