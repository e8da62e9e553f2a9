/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"echoai.dev/backend/fanout"
	"echoai.dev/backend/metrics"
	"echoai.dev/backend/providers"
)

// DefaultJudge is the designated judge provider.
const DefaultJudge = providers.Mistral

// DefaultTimeout bounds the judge call. The judging document grows with the
// number of responses, so it gets a longer budget than a single provider
// call.
const DefaultTimeout = 60 * time.Second

// Result is the evaluation outcome placed in the response body: either a
// normalized EvaluationSet or an in-band error marker. It is never both.
type Result struct {
	Set *EvaluationSet
	Err string
}

// MarshalJSON renders the set, or {"error": ...} when the evaluation step
// failed.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err})
	}
	return json.Marshal(r.Set)
}

// Registry resolves provider names to adapters. *providers.Registry
// satisfies it.
type Registry interface {
	Lookup(name providers.Name) (providers.Interface, bool)
}

// Evaluator invokes the designated judge provider over a fan-out outcome.
type Evaluator struct {
	judge   providers.Interface
	timeout time.Duration
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout overrides the judge call timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		e.timeout = d
	}
}

// NewEvaluator resolves the judge provider from the registry.
func NewEvaluator(registry Registry, name providers.Name, opts ...Option) (*Evaluator, error) {
	p, ok := registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown judge provider: %q", string(name))
	}

	e := &Evaluator{
		judge:   p,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate builds the judging document over results, sends it to the judge,
// and normalizes the reply. Every failure is returned in-band as Result.Err;
// Evaluate itself never fails the request.
func (e *Evaluator) Evaluate(ctx context.Context, prompt string, results *fanout.ResultSet) (result Result) {
	log := clog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).Error("Judge invocation panicked")
			result = Result{Err: fmt.Sprintf("Evaluation Error: %v", r)}
		}
	}()

	if !e.judge.Configured() {
		return Result{Err: fmt.Sprintf("%s API key not configured for evaluation", e.judge.Name())}
	}

	judged := 0
	for _, name := range results.Names() {
		if r, _ := results.Get(name); r.Kind == providers.Success {
			judged++
		}
	}
	if judged == 0 {
		// Nothing to score; skip the judge call entirely.
		return Result{Err: errNoEvaluations.Error()}
	}

	doc := BuildPrompt(prompt, results)
	log.With("judge", e.judge.Name()).With("judged", judged).With("prompt_length", len(doc)).
		Info("Requesting evaluation")

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	reply, err := e.judge.Send(callCtx, doc)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.JudgeDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	if err != nil {
		log.With("error", err).Error("Judge call failed")
		return Result{Err: fmt.Sprintf("Evaluation Error: %v", err)}
	}

	set, err := parseReply(ctx, reply)
	if err != nil {
		return Result{Err: err.Error()}
	}
	return Result{Set: set}
}
