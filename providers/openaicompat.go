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
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	cohereBaseURL     = "https://api.cohere.ai/compatibility/v1"
	mistralBaseURL    = "https://api.mistral.ai/v1"
)

// openAICompat serves every provider that speaks the OpenAI chat-completions
// wire format: ChatGPT natively, Cohere and Mistral through their
// compatibility endpoints, and the OpenRouter-hosted models. The provider
// identity is carried by the display name, model identifier, and base URL.
type openAICompat struct {
	name   Name
	model  string
	client openai.Client
	apiKey string
}

// newOpenAICompat builds an adapter for the given provider. An empty baseURL
// means the SDK default (api.openai.com).
func newOpenAICompat(name Name, apiKey, baseURL, model string) Interface {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAICompat{
		name:   name,
		model:  model,
		client: openai.NewClient(opts...),
		apiKey: apiKey,
	}
}

func (p *openAICompat) Name() Name { return p.name }

func (p *openAICompat) Configured() bool { return p.apiKey != "" }

// Send issues a single chat completion for the prompt. No retries.
func (p *openAICompat) Send(ctx context.Context, prompt string) (string, error) {
	log := clog.FromContext(ctx)
	log.With("provider", p.name).With("model", p.model).Info("Sending chat completion")

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty response: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
