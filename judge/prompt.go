/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"fmt"
	"strings"

	"echoai.dev/backend/fanout"
	"echoai.dev/backend/providers"
)

// evaluationRules is the fixed instruction preamble sent to the judge. The
// user query and response blocks are spliced around it by BuildPrompt.
const evaluationRules = `CRITICAL EVALUATION RULES:
1. You MUST evaluate responses based ONLY on their content quality
2. You MUST completely ignore which model generated each response
3. You MUST treat all responses equally, regardless of their source
4. You MUST NOT favor any particular model or type of response
5. You MUST evaluate each response independently and objectively
6. You MUST provide numerical scores between 0-100 ONLY
7. You MUST NOT use any other scoring format or range

EVALUATION CRITERIA:
1. Accuracy (0-100):
   - How factually correct is the response?
   - Does it provide accurate information?
   - Are the facts and details correct?

2. Relevance (0-100):
   - How well does it address the query?
   - Is the response directly related to the question?
   - Does it provide relevant information?

SCORING RULES:
- ALL scores MUST be whole numbers between 0-100
- NO decimals, fractions, or percentages allowed
- NO other scoring formats permitted
- Overall score = (accuracy + relevance) / 2
- Base scores ONLY on response content quality
- IGNORE which model generated the response

SCORING SCALE:
90-100: Exceptional - Highly accurate and directly relevant
75-89: Very Good - Mostly accurate and relevant
60-74: Good - Somewhat accurate and relevant
40-59: Fair - Partially accurate and relevant
0-39: Poor - Mostly inaccurate or irrelevant`

// outputFormat pins the exact reply shape the parser expects.
const outputFormat = `You MUST return a JSON object with this EXACT structure:
{
  "evaluations": {
    "AI_Name": {
      "accuracy": 85,
      "relevance": 90,
      "overall": 87,
      "explanation": "Brief explanation of the score"
    }
  },
  "ranking": ["AI_Name_1", "AI_Name_2", ...]
}

FINAL REQUIREMENTS:
1. ALL scores MUST be whole numbers between 0-100
2. Overall score MUST be the average of accuracy and relevance
3. Return ONLY the JSON object, no other text or formatting
4. Score based ONLY on response quality, IGNORE model names
5. Be completely objective and unbiased in your evaluation
6. Evaluate each response independently against the criteria`

// BuildPrompt serializes the original prompt and every successful provider
// response into one instruction document for the judge. The document is
// deterministic: given the same prompt and ResultSet it is byte-identical,
// and response blocks follow the ResultSet's dispatch order. Providers whose
// result is not a Success are omitted entirely.
func BuildPrompt(prompt string, results *fanout.ResultSet) string {
	var sb strings.Builder

	sb.WriteString("You are an AI response evaluator. Your task is to evaluate responses OBJECTIVELY, without any bias.\n\n")
	fmt.Fprintf(&sb, "User Query: %q\n\n", prompt)
	sb.WriteString(evaluationRules)
	sb.WriteString("\n\nAI Responses to Evaluate:\n")

	for _, name := range results.Names() {
		result, _ := results.Get(name)
		if result.Kind != providers.Success {
			continue
		}
		fmt.Fprintf(&sb, "\n--- Response %s ---\n%s\n", name, result.Text)
	}

	sb.WriteString("\n")
	sb.WriteString(outputFormat)
	return sb.String()
}
