/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package fanout dispatches one prompt to a caller-selected set of providers
// concurrently and assembles their independent outcomes into a ResultSet.
//
// Invocations are isolated: one provider's failure, panic, or latency never
// cancels or delays a sibling beyond its own completion. Nothing is retried.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"echoai.dev/backend/metrics"
	"echoai.dev/backend/providers"
)

// Client-input validation failures. These are the only errors Query returns;
// everything downstream is folded into the ResultSet.
var (
	ErrEmptyPrompt = errors.New("prompt is required")
	ErrNoModels    = errors.New("no models selected")
)

// UnknownProviderError reports a selected name outside the supported set.
type UnknownProviderError struct {
	Name providers.Name
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown model: %q", string(e.Name))
}

// DefaultTimeout bounds each adapter call. A timed-out call resolves to a
// Failure result so its slot is never left unfilled.
const DefaultTimeout = 30 * time.Second

// Registry resolves provider names to adapters. *providers.Registry
// satisfies it.
type Registry interface {
	Lookup(name providers.Name) (providers.Interface, bool)
}

// Coordinator fans a prompt out to selected provider adapters.
type Coordinator struct {
	registry Registry
	llm      *metrics.LLM
	timeout  time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout overrides the per-adapter call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// New creates a Coordinator over the given registry.
func New(registry Registry, llm *metrics.LLM, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry: registry,
		llm:      llm,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query validates the inputs, dispatches every selected provider
// concurrently, and returns a ResultSet with exactly one entry per selected
// provider in selection order (duplicates collapse to the first occurrence).
// It returns an error only for client-input validation failures; provider
// failures land in the ResultSet.
func (c *Coordinator) Query(ctx context.Context, prompt string, selected []providers.Name) (*ResultSet, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if len(selected) == 0 {
		return nil, ErrNoModels
	}

	// Resolve adapters before any dispatch so an unknown name aborts the
	// whole request with no network calls attempted.
	seen := make(map[providers.Name]bool, len(selected))
	adapters := make([]providers.Interface, 0, len(selected))
	for _, name := range selected {
		if seen[name] {
			continue
		}
		p, ok := c.registry.Lookup(name)
		if !ok {
			return nil, &UnknownProviderError{Name: name}
		}
		seen[name] = true
		adapters = append(adapters, p)
	}

	results := make([]providers.Result, len(adapters))

	g := new(errgroup.Group)
	for i, p := range adapters {
		g.Go(func() error {
			results[i] = c.invoke(ctx, p, prompt)
			return nil
		})
	}
	// Callbacks never return an error; the group is only the join point.
	_ = g.Wait()

	rs := NewResultSet(len(adapters))
	for i, p := range adapters {
		rs.Set(p.Name(), results[i])
	}
	return rs, nil
}

// invoke runs a single adapter call, converting timeouts, errors, and
// panics into Result values.
func (c *Coordinator) invoke(ctx context.Context, p providers.Interface, prompt string) (result providers.Result) {
	log := clog.FromContext(ctx)

	if !p.Configured() {
		log.With("provider", p.Name()).Info("Provider not configured, skipping call")
		return providers.Result{Kind: providers.NotConfigured}
	}

	// A panic escaping an adapter still resolves the slot.
	defer func() {
		if r := recover(); r != nil {
			log.With("provider", p.Name()).With("panic", r).Error("Adapter panicked")
			result = providers.Result{Kind: providers.Failure, Text: fmt.Sprintf("%v", r)}
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Send(callCtx, prompt)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.ProviderDuration.WithLabelValues(string(p.Name()), outcome).Observe(elapsed.Seconds())
	if c.llm != nil {
		c.llm.RecordCall(ctx, string(p.Name()), elapsed, err != nil)
	}

	if err != nil {
		log.With("provider", p.Name()).With("error", err).Error("Provider call failed")
		return providers.Result{Kind: providers.Failure, Text: err.Error()}
	}
	return providers.Result{Kind: providers.Success, Text: text}
}
