/*
Copyright 2026 Echo AI, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package providers defines the uniform boundary to the remote LLM services
Echo can query.

Each supported provider is represented by an adapter satisfying Interface.
An adapter issues exactly one outbound call per Send invocation and never
panics past its boundary; every provider-specific failure is converted into
an error return. The per-request outcome of an adapter call is carried as a
Result tagged union (Success, NotConfigured, Failure) so that downstream
logic never has to pattern-match on response text. The union is flattened to
a plain string only when the final response body is serialized.

Adapters are constructed once at startup from an injected Config and are
read-only afterwards, making the Registry safe to share across concurrent
requests.
*/
package providers
