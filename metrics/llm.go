/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry and Prometheus instrumentation for
// provider calls and the HTTP surface.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// LLM records OpenTelemetry metrics for outbound provider calls: a request
// counter, a failure counter, and a latency histogram, each labeled with the
// provider name. Instrument creation degrades gracefully: a counter that
// fails to initialize is replaced with a no-op instead of failing startup.
type LLM struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewLLM creates an LLM metrics instance under the given meter name. The
// meter name should be shared across the process (e.g. "echoai.backend")
// with the provider serving as a dimension on each recorded metric.
func NewLLM(meterName string) *LLM {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	requests, err := meter.Int64Counter("llm.requests",
		metric.WithDescription("The number of provider calls issued"),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Warn("Failed to create request counter, metrics will be disabled", "error", err, "meter", meterName)
		requests = noop.Int64Counter{}
	}

	failures, err := meter.Int64Counter("llm.failures",
		metric.WithDescription("The number of provider calls that failed"),
		metric.WithUnit("{requests}"))
	if err != nil {
		slog.Warn("Failed to create failure counter, metrics will be disabled", "error", err, "meter", meterName)
		failures = noop.Int64Counter{}
	}

	latency, err := meter.Float64Histogram("llm.latency",
		metric.WithDescription("Provider call latency"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create latency histogram, metrics will be disabled", "error", err, "meter", meterName)
		latency = noop.Float64Histogram{}
	}

	return &LLM{
		requests: requests,
		failures: failures,
		latency:  latency,
	}
}

// RecordCall records one provider invocation and its outcome.
func (m *LLM) RecordCall(ctx context.Context, provider string, elapsed time.Duration, failed bool) {
	attrs := metric.WithAttributes(attribute.String("provider", provider))

	m.requests.Add(ctx, 1, attrs)
	if failed {
		m.failures.Add(ctx, 1, attrs)
	}
	m.latency.Record(ctx, elapsed.Seconds(), attrs)
}
