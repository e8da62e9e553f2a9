/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the Echo backend: a fan-out/aggregate/judge service that
// queries a caller-selected set of LLM providers concurrently and ranks the
// responses with a designated judge model.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"

	"echoai.dev/backend/auth"
	"echoai.dev/backend/fanout"
	"echoai.dev/backend/httpapi"
	"echoai.dev/backend/judge"
	"echoai.dev/backend/metrics"
	"echoai.dev/backend/providers"
)

type config struct {
	Port        int    `env:"PORT,default=8000"`
	MetricsPort int    `env:"METRICS_PORT,default=2112"`
	CORSOrigin  string `env:"CORS_ORIGIN,default=http://localhost:3000"`

	// Shared secret for verifying Supabase-issued bearer tokens.
	JWTSecret string `env:"SUPABASE_JWT_SECRET,required"`

	// JudgeProvider selects the designated judge by display name.
	JudgeProvider string `env:"JUDGE_PROVIDER,default=Mistral"`

	Providers providers.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	registry, err := providers.NewRegistry(ctx, cfg.Providers)
	if err != nil {
		clog.FatalContextf(ctx, "building provider registry: %v", err)
	}

	llm := metrics.NewLLM("echoai.backend")
	coordinator := fanout.New(registry, llm)

	evaluator, err := judge.NewEvaluator(registry, providers.Name(cfg.JudgeProvider))
	if err != nil {
		clog.FatalContextf(ctx, "creating evaluator: %v", err)
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpapi.NewMux(coordinator, evaluator, registry, verifier, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.ErrorContextf(ctx, "metrics server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	clog.InfoContextf(ctx, "Starting Echo backend on port %d (judge: %s)", cfg.Port, cfg.JudgeProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}
