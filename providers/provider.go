/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package providers

import (
	"context"
	"fmt"
)

// Name identifies a supported provider by its case-sensitive display name.
// Callers select providers by these exact values.
type Name string

const (
	Cohere    Name = "Cohere"
	Mistral   Name = "Mistral"
	Gemini    Name = "Gemini"
	ChatGPT   Name = "ChatGPT"
	Qwen      Name = "Qwen"
	Deepseek  Name = "Deepseek"
	RogueRose Name = "Rogue Rose"
	Meta      Name = "Meta"
)

// Supported lists every provider in canonical order.
var Supported = []Name{Cohere, Mistral, Gemini, ChatGPT, Qwen, Deepseek, RogueRose, Meta}

// ResultKind tags the outcome of a provider invocation.
type ResultKind int

const (
	// Success carries the provider's completion text.
	Success ResultKind = iota
	// NotConfigured marks a provider whose credential is absent; no call
	// was attempted. It is excluded from judging.
	NotConfigured
	// Failure carries a short diagnostic for a transport or provider-side
	// error. It is excluded from judging.
	Failure
)

// Result is the per-provider, per-request outcome. The union is kept intact
// for all internal decisions and flattened to a string only at the response
// serialization boundary via Render.
type Result struct {
	Kind ResultKind
	// Text holds the completion for Success, or the bare diagnostic
	// message for Failure. Unused for NotConfigured.
	Text string
}

// Render flattens the result for the given provider into the string placed
// in the response body. Failures carry the "<Name> Error:" prefix the
// frontend keys on.
func (r Result) Render(name Name) string {
	switch r.Kind {
	case NotConfigured:
		return fmt.Sprintf("%s API key not configured", name)
	case Failure:
		return fmt.Sprintf("%s Error: %s", name, r.Text)
	default:
		return r.Text
	}
}

// Interface is the uniform provider contract: one outbound call per Send,
// no retries, and no panics escaping the adapter.
type Interface interface {
	// Name returns the provider's display name.
	Name() Name

	// Configured reports whether the provider's credential is present.
	// Send must not be called on an unconfigured provider.
	Configured() bool

	// Send submits the prompt and returns the completion text.
	Send(ctx context.Context, prompt string) (string, error)
}

// Registry holds the adapter for every supported provider. It is built once
// at startup and read-only afterwards.
type Registry struct {
	order    []Name
	adapters map[Name]Interface
}

// NewRegistry constructs adapters for every supported provider from cfg.
// Providers whose credentials are absent still get an adapter so that their
// slot renders the deterministic placeholder text.
func NewRegistry(ctx context.Context, cfg Config) (*Registry, error) {
	r := &Registry{adapters: make(map[Name]Interface, len(Supported))}

	add := func(p Interface) {
		r.order = append(r.order, p.Name())
		r.adapters[p.Name()] = p
	}

	add(newOpenAICompat(Cohere, cfg.CohereAPIKey, cohereBaseURL, "command"))
	add(newOpenAICompat(Mistral, cfg.MistralAPIKey, mistralBaseURL, "mistral-small-latest"))

	gemini, err := newGemini(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini adapter: %w", err)
	}
	add(gemini)

	add(newOpenAICompat(ChatGPT, cfg.ChatGPTAPIKey, "", "gpt-4o-mini"))
	add(newOpenAICompat(Qwen, cfg.QwenAPIKey, openRouterBaseURL, "qwen/qwen2.5-vl-32b-instruct:free"))
	add(newOpenAICompat(Deepseek, cfg.DeepseekAPIKey, openRouterBaseURL, "deepseek/deepseek-chat-v3-0324:free"))
	add(newOpenAICompat(RogueRose, cfg.RogueRoseAPIKey, openRouterBaseURL, "sophosympatheia/rogue-rose-103b-v0.2:free"))
	add(newOpenAICompat(Meta, cfg.MetaAPIKey, openRouterBaseURL, "meta-llama/llama-3.3-70b-instruct:free"))

	return r, nil
}

// Lookup returns the adapter for name, or false if name is not a supported
// provider.
func (r *Registry) Lookup(name Name) (Interface, bool) {
	p, ok := r.adapters[name]
	return p, ok
}

// All returns every adapter in canonical order.
func (r *Registry) All() []Interface {
	out := make([]Interface, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}
