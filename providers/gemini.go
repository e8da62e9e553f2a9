/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

// geminiAdapter talks to the Gemini Developer API through the genai SDK.
type geminiAdapter struct {
	client *genai.Client
}

// newGemini creates the Gemini adapter. When the API key is absent the
// adapter is registered unconfigured and no client is constructed.
func newGemini(ctx context.Context, apiKey string) (Interface, error) {
	if apiKey == "" {
		return &geminiAdapter{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &geminiAdapter{client: client}, nil
}

func (p *geminiAdapter) Name() Name { return Gemini }

func (p *geminiAdapter) Configured() bool { return p.client != nil }

// Send issues a single generate-content call for the prompt. No retries.
func (p *geminiAdapter) Send(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", errors.New("Gemini client not configured")
	}

	log := clog.FromContext(ctx)
	log.With("provider", Gemini).With("model", geminiModel).Info("Sending generate content request")

	resp, err := p.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response: no text returned")
	}
	return text, nil
}
