/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseReplyNormalizes(t *testing.T) {
	reply := `{
		"evaluations": {
			"Mistral": {"accuracy": 150, "relevance": 90, "overall": 1, "explanation": "good"},
			"Cohere": {"accuracy": -5, "relevance": 50.6, "overall": 99, "explanation": "meh"}
		},
		"ranking": ["Cohere", "Mistral"]
	}`

	set, err := parseReply(context.Background(), reply)
	if err != nil {
		t.Fatalf("parseReply() error = %v", err)
	}

	want := map[string]Evaluation{
		// Accuracy clamped down to 100; judge's overall discarded.
		"Mistral": {Accuracy: 100, Relevance: 90, Overall: 95, Explanation: "good"},
		// Negative clamped to 0, fraction rounded; overall recomputed.
		"Cohere": {Accuracy: 0, Relevance: 51, Overall: 26, Explanation: "meh"},
	}
	if diff := cmp.Diff(want, set.Evaluations); diff != "" {
		t.Errorf("Evaluations mismatch (-want +got):\n%s", diff)
	}

	// The judge's own ranking is discarded and recomputed from overall.
	if diff := cmp.Diff([]string{"Mistral", "Cohere"}, set.Ranking); diff != "" {
		t.Errorf("Ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReplyFencedEqualsUnfenced(t *testing.T) {
	payload := `{"evaluations": {"Meta": {"accuracy": 80, "relevance": 70, "explanation": "solid"}}}`

	plain, err := parseReply(context.Background(), payload)
	if err != nil {
		t.Fatalf("parseReply(plain) error = %v", err)
	}
	fenced, err := parseReply(context.Background(), "```json\n"+payload+"\n```")
	if err != nil {
		t.Fatalf("parseReply(fenced) error = %v", err)
	}

	if diff := cmp.Diff(plain, fenced); diff != "" {
		t.Errorf("fenced reply parsed differently (-plain +fenced):\n%s", diff)
	}
}

func TestParseReplyScoreFallback(t *testing.T) {
	reply := `{
		"evaluations": {
			"Qwen": {"accuracy": "not a number", "relevance": 90, "explanation": "irrelevant"},
			"Meta": {"accuracy": "88", "relevance": "92.4", "explanation": "string scores"}
		}
	}`

	set, err := parseReply(context.Background(), reply)
	if err != nil {
		t.Fatalf("parseReply() error = %v", err)
	}

	// A conversion failure keeps the entry, zeroed, so the provider still
	// ranks (at the bottom).
	if diff := cmp.Diff(Evaluation{Explanation: "Score calculation failed"}, set.Evaluations["Qwen"]); diff != "" {
		t.Errorf("Qwen entry mismatch (-want +got):\n%s", diff)
	}
	// Numeric strings convert.
	if diff := cmp.Diff(Evaluation{Accuracy: 88, Relevance: 92, Overall: 90, Explanation: "string scores"}, set.Evaluations["Meta"]); diff != "" {
		t.Errorf("Meta entry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Meta", "Qwen"}, set.Ranking); diff != "" {
		t.Errorf("Ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReplyMissingScoresDefaultToZero(t *testing.T) {
	reply := `{"evaluations": {"Gemini": {"explanation": "no scores at all"}}}`

	set, err := parseReply(context.Background(), reply)
	if err != nil {
		t.Fatalf("parseReply() error = %v", err)
	}
	want := Evaluation{Explanation: "no scores at all"}
	if diff := cmp.Diff(want, set.Evaluations["Gemini"]); diff != "" {
		t.Errorf("Gemini entry mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReplyStableTieOrder(t *testing.T) {
	// ChatGPT and Qwen tie at 85; Deepseek ties with both; insertion order
	// must survive the sort.
	reply := `{
		"evaluations": {
			"ChatGPT": {"accuracy": 80, "relevance": 90, "explanation": ""},
			"Qwen": {"accuracy": 90, "relevance": 80, "explanation": ""},
			"Deepseek": {"accuracy": 85, "relevance": 85, "explanation": ""}
		}
	}`

	set, err := parseReply(context.Background(), reply)
	if err != nil {
		t.Fatalf("parseReply() error = %v", err)
	}
	if diff := cmp.Diff([]string{"ChatGPT", "Qwen", "Deepseek"}, set.Ranking); diff != "" {
		t.Errorf("Ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr error
	}{{
		name:    "not json",
		reply:   "I cannot evaluate these responses.",
		wantErr: errInvalidStructure,
	}, {
		name:    "missing evaluations key",
		reply:   `{"ranking": ["Mistral"]}`,
		wantErr: errInvalidStructure,
	}, {
		name:    "evaluations not an object",
		reply:   `{"evaluations": [1, 2, 3]}`,
		wantErr: errInvalidStructure,
	}, {
		name:    "empty evaluations",
		reply:   `{"evaluations": {}}`,
		wantErr: errNoEvaluations,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseReply(context.Background(), tt.reply); !errors.Is(err, tt.wantErr) {
				t.Errorf("parseReply() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
