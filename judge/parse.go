/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Evaluation is one provider's normalized scores. Accuracy and relevance are
// clamped into [0,100] and overall is always recomputed as their rounded
// mean; whatever overall the judge reported is discarded.
type Evaluation struct {
	Accuracy    int    `json:"accuracy"`
	Relevance   int    `json:"relevance"`
	Overall     int    `json:"overall"`
	Explanation string `json:"explanation"`
}

// EvaluationSet is the normalized judging outcome. Ranking is exactly the
// key set of Evaluations sorted by descending overall, ties kept in the
// judge document's insertion order.
type EvaluationSet struct {
	Evaluations map[string]Evaluation `json:"evaluations"`
	Ranking     []string              `json:"ranking"`
}

// Messages surfaced verbatim in the response's evaluation error marker.
var (
	errInvalidStructure = errors.New("Invalid evaluation results structure")
	errNoEvaluations    = errors.New("No valid evaluations were processed")
)

const scoreFailedExplanation = "Score calculation failed"

// parseReply extracts the JSON payload from a raw judge reply and normalizes
// it into an EvaluationSet. Failures are reported as one of the package's
// in-band error values, never a panic.
func parseReply(ctx context.Context, reply string) (*EvaluationSet, error) {
	log := clog.FromContext(ctx)

	payload := extractJSON(reply)

	var top struct {
		Evaluations json.RawMessage `json:"evaluations"`
	}
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		log.With("error", err).Error("Judge reply is not valid JSON")
		return nil, errInvalidStructure
	}
	if len(top.Evaluations) == 0 {
		log.Error("Judge reply is missing the evaluations key")
		return nil, errInvalidStructure
	}

	entries, err := decodeOrdered(top.Evaluations)
	if err != nil {
		log.With("error", err).Error("Judge evaluations are not a JSON object")
		return nil, errInvalidStructure
	}

	set := &EvaluationSet{
		Evaluations: make(map[string]Evaluation, len(entries)),
	}
	order := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := set.Evaluations[entry.name]; ok {
			continue
		}
		set.Evaluations[entry.name] = normalizeEntry(ctx, entry)
		order = append(order, entry.name)
	}

	if len(set.Evaluations) == 0 {
		return nil, errNoEvaluations
	}

	// Descending overall; the stable sort keeps insertion order on ties.
	sort.SliceStable(order, func(i, j int) bool {
		return set.Evaluations[order[i]].Overall > set.Evaluations[order[j]].Overall
	})
	set.Ranking = order

	return set, nil
}

// rawEntry is one evaluations key with its undecoded value, in document
// order.
type rawEntry struct {
	name string
	body json.RawMessage
}

// decodeOrdered walks the evaluations object with a token decoder so that
// key order is preserved; a plain map would lose the insertion order the
// ranking tie-break depends on.
func decodeOrdered(raw json.RawMessage) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []rawEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		entries = append(entries, rawEntry{name: key, body: body})
	}
	return entries, nil
}

// normalizeEntry converts one judged entry into a bounded Evaluation. A
// conversion failure does not drop the entry: it becomes a zeroed entry so
// every judged provider keeps exactly one slot (and ranks at the bottom).
func normalizeEntry(ctx context.Context, entry rawEntry) Evaluation {
	log := clog.FromContext(ctx)

	var fields struct {
		Accuracy    json.RawMessage `json:"accuracy"`
		Relevance   json.RawMessage `json:"relevance"`
		Explanation string          `json:"explanation"`
	}
	if err := json.Unmarshal(entry.body, &fields); err != nil {
		log.With("provider", entry.name).With("error", err).Error("Malformed evaluation entry")
		return zeroedEvaluation()
	}

	accuracy, errA := toScore(fields.Accuracy)
	relevance, errR := toScore(fields.Relevance)
	if errA != nil || errR != nil {
		log.With("provider", entry.name).
			With("accuracy_error", errA).
			With("relevance_error", errR).
			Error("Non-numeric score in evaluation entry")
		return zeroedEvaluation()
	}

	a := clampScore(accuracy)
	r := clampScore(relevance)
	return Evaluation{
		Accuracy:    a,
		Relevance:   r,
		Overall:     int(math.Round(float64(a+r) / 2)),
		Explanation: fields.Explanation,
	}
}

func zeroedEvaluation() Evaluation {
	return Evaluation{Explanation: scoreFailedExplanation}
}

// toScore accepts a JSON number or a numeric string. A missing field scores
// zero, matching the judge's contract default.
func toScore(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}

	return 0, fmt.Errorf("score is not numeric: %s", string(raw))
}

func clampScore(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}
