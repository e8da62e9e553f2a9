/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fanout

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"echoai.dev/backend/providers"
)

// fakeProvider is a scriptable providers.Interface for coordinator tests.
type fakeProvider struct {
	name       providers.Name
	configured bool
	calls      atomic.Int32
	send       func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeProvider) Name() providers.Name { return f.name }
func (f *fakeProvider) Configured() bool     { return f.configured }
func (f *fakeProvider) Send(ctx context.Context, prompt string) (string, error) {
	f.calls.Add(1)
	return f.send(ctx, prompt)
}

// fakeRegistry satisfies Registry over a set of fakes.
type fakeRegistry struct {
	adapters map[providers.Name]*fakeProvider
}

func (r *fakeRegistry) Lookup(name providers.Name) (providers.Interface, bool) {
	p, ok := r.adapters[name]
	return p, ok
}

func answer(text string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return text, nil }
}

func fail(msg string) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return "", errors.New(msg) }
}

func newTestCoordinator(t *testing.T, fakes ...*fakeProvider) (*Coordinator, *fakeRegistry) {
	t.Helper()
	reg := &fakeRegistry{adapters: make(map[providers.Name]*fakeProvider, len(fakes))}
	for _, f := range fakes {
		reg.adapters[f.name] = f
	}
	return New(reg, nil), reg
}

func TestQueryFansOutInSelectionOrder(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: true, send: answer("from cohere")}
	mistral := &fakeProvider{name: providers.Mistral, configured: true, send: answer("from mistral")}
	gemini := &fakeProvider{name: providers.Gemini, configured: true, send: answer("from gemini")}
	c, _ := newTestCoordinator(t, cohere, mistral, gemini)

	rs, err := c.Query(context.Background(), "2+2?", []providers.Name{providers.Gemini, providers.Cohere})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if diff := cmp.Diff([]providers.Name{providers.Gemini, providers.Cohere}, rs.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := rs.Get(providers.Gemini); got.Text != "from gemini" {
		t.Errorf("Gemini result = %q, want %q", got.Text, "from gemini")
	}
	if _, ok := rs.Get(providers.Mistral); ok {
		t.Error("unselected provider appeared in the result set")
	}
	if got := mistral.calls.Load(); got != 0 {
		t.Errorf("unselected provider was called %d times", got)
	}
}

func TestQueryValidation(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: true, send: answer("ok")}
	c, _ := newTestCoordinator(t, cohere)

	tests := []struct {
		name     string
		prompt   string
		selected []providers.Name
		wantErr  error
	}{{
		name:     "empty prompt",
		prompt:   "",
		selected: []providers.Name{providers.Cohere},
		wantErr:  ErrEmptyPrompt,
	}, {
		name:     "no models",
		prompt:   "hello",
		selected: nil,
		wantErr:  ErrNoModels,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Query(context.Background(), tt.prompt, tt.selected); !errors.Is(err, tt.wantErr) {
				t.Errorf("Query() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation failures abort before any dispatch.
	if got := cohere.calls.Load(); got != 0 {
		t.Errorf("adapter called %d times during validation failures", got)
	}
}

func TestQueryUnknownProvider(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: true, send: answer("ok")}
	c, _ := newTestCoordinator(t, cohere)

	_, err := c.Query(context.Background(), "hello", []providers.Name{providers.Cohere, "Claude"})
	var unknown *UnknownProviderError
	if !errors.As(err, &unknown) {
		t.Fatalf("Query() error = %v, want UnknownProviderError", err)
	}
	if unknown.Name != "Claude" {
		t.Errorf("UnknownProviderError.Name = %q, want %q", unknown.Name, "Claude")
	}
	// An unknown name aborts the whole request with no calls attempted.
	if got := cohere.calls.Load(); got != 0 {
		t.Errorf("adapter called %d times despite unknown sibling", got)
	}
}

func TestQueryIsolatesFailures(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: true, send: fail("connection refused")}
	mistral := &fakeProvider{name: providers.Mistral, configured: true, send: answer("4")}
	panicky := &fakeProvider{name: providers.Qwen, configured: true, send: func(context.Context, string) (string, error) {
		panic("adapter bug")
	}}
	c, _ := newTestCoordinator(t, cohere, mistral, panicky)

	rs, err := c.Query(context.Background(), "2+2?", []providers.Name{providers.Cohere, providers.Mistral, providers.Qwen})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if got, _ := rs.Get(providers.Cohere); got.Kind != providers.Failure || got.Text != "connection refused" {
		t.Errorf("Cohere result = %+v, want failure %q", got, "connection refused")
	}
	if got, _ := rs.Get(providers.Mistral); got.Kind != providers.Success || got.Text != "4" {
		t.Errorf("Mistral result = %+v, want success %q", got, "4")
	}
	if got, _ := rs.Get(providers.Qwen); got.Kind != providers.Failure || !strings.Contains(got.Text, "adapter bug") {
		t.Errorf("Qwen result = %+v, want failure containing %q", got, "adapter bug")
	}
}

func TestQuerySkipsUnconfigured(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: false, send: answer("never")}
	c, _ := newTestCoordinator(t, cohere)

	rs, err := c.Query(context.Background(), "hello", []providers.Name{providers.Cohere})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got, _ := rs.Get(providers.Cohere); got.Kind != providers.NotConfigured {
		t.Errorf("result kind = %v, want NotConfigured", got.Kind)
	}
	if got := cohere.calls.Load(); got != 0 {
		t.Errorf("unconfigured adapter was called %d times", got)
	}
}

func TestQueryDeduplicatesSelection(t *testing.T) {
	cohere := &fakeProvider{name: providers.Cohere, configured: true, send: answer("ok")}
	c, _ := newTestCoordinator(t, cohere)

	rs, err := c.Query(context.Background(), "hello", []providers.Name{providers.Cohere, providers.Cohere})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Errorf("Len() = %d, want 1", rs.Len())
	}
	if got := cohere.calls.Load(); got != 1 {
		t.Errorf("adapter called %d times, want 1", got)
	}
}

func TestQueryTimeoutResolvesSlot(t *testing.T) {
	slow := &fakeProvider{name: providers.Meta, configured: true, send: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	c, _ := newTestCoordinator(t, slow)
	c.timeout = 10 * time.Millisecond

	rs, err := c.Query(context.Background(), "hello", []providers.Name{providers.Meta})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	got, ok := rs.Get(providers.Meta)
	if !ok {
		t.Fatal("timed-out provider left its slot unfilled")
	}
	if got.Kind != providers.Failure {
		t.Errorf("result kind = %v, want Failure", got.Kind)
	}
}
