/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "strings"

// extractJSON returns the JSON payload of a judge reply that may be wrapped
// in markdown code fencing. A ```json block on its own lines wins; otherwise
// leading/trailing fence markers are trimmed from the whole reply. Plain
// replies come back trimmed and untouched.
func extractJSON(reply string) string {
	if block, ok := fencedBlock(reply); ok {
		return block
	}

	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	return strings.TrimSpace(reply)
}

// fencedBlock scans for the first ```json fence on its own line and returns
// the content up to the closing fence (or end of input).
func fencedBlock(reply string) (string, bool) {
	lines := strings.Split(reply, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimRight(line, "\r") == "```json" {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == "```" {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n")), true
}
