/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package providers

// Config carries the per-provider credentials loaded once at startup.
// An empty key means the provider is not configured; its adapter is still
// registered so the response slot renders the deterministic placeholder.
type Config struct {
	CohereAPIKey    string `env:"COHERE_API_KEY"`
	MistralAPIKey   string `env:"MISTRAL_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	ChatGPTAPIKey   string `env:"CHATGPT_API_KEY"`
	QwenAPIKey      string `env:"QWEN_API_KEY"`
	DeepseekAPIKey  string `env:"DEEPSEEK_API_KEY"`
	RogueRoseAPIKey string `env:"ROGUEROSE_API_KEY"`
	MetaAPIKey      string `env:"META_API_KEY"`
}
