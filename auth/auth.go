/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package auth verifies shared-secret bearer tokens and threads the
// requester identity through the request context. The query pipeline only
// ever consumes the optional identity value; it performs no verification of
// its own.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey struct{}

// WithIdentity returns a context carrying the verified requester identity.
func WithIdentity(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKey{}, subject)
}

// IdentityFromContext returns the verified requester identity, or "" when
// the request was anonymous.
func IdentityFromContext(ctx context.Context) string {
	if subject, ok := ctx.Value(contextKey{}).(string); ok {
		return subject
	}
	return ""
}

// Verifier validates HS256 tokens signed with a shared secret
// (Supabase-style) and extracts the subject claim.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier over the shared signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the token, returning its subject.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("reading subject claim: %w", err)
	}
	if subject == "" {
		return "", errors.New("token has no subject claim")
	}
	return subject, nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// Middleware rejects requests without a valid bearer token.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, `{"error":"missing or invalid Authorization header"}`, http.StatusUnauthorized)
			return
		}
		subject, err := v.Verify(token)
		if err != nil {
			clog.FromContext(r.Context()).With("error", err).Info("Rejecting request with invalid token")
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), subject)))
	})
}

// OptionalMiddleware attaches the identity when a valid bearer token is
// present and passes the request through anonymously otherwise. Invalid
// tokens are ignored rather than rejected; the query route accepts
// unauthenticated callers.
func (v *Verifier) OptionalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if subject, err := v.Verify(token); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), subject))
			} else {
				clog.FromContext(r.Context()).With("error", err).Info("Ignoring invalid bearer token")
			}
		}
		next.ServeHTTP(w, r)
	})
}
