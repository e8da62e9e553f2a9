/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echo_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// ProviderDuration tracks provider call latency by provider and outcome.
	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "echo_provider_duration_seconds",
		Help:    "Time spent on provider completions.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider", "outcome"})

	// JudgeDuration tracks judge call latency by outcome.
	JudgeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "echo_judge_duration_seconds",
		Help:    "Time spent on judge evaluation calls.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"outcome"})
)
