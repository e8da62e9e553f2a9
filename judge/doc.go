/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package judge scores and ranks the successful provider responses for one
request using a designated judge model.

The flow is: build one deterministic instruction document over the original
prompt and every successful response (BuildPrompt), send it to the judge
provider (Evaluator.Evaluate), then extract and normalize the judge's
semi-structured reply into a strict EvaluationSet: scores clamped to
[0,100], the overall score recomputed server-side, and the ranking sorted by
descending overall with ties kept in the judge document's insertion order.

Every failure mode of the judge step (missing credentials, transport errors,
unparseable replies, empty evaluations) is folded into an in-band Result
error, never a fatal request error: callers always keep the provider
responses they already collected.
*/
package judge
