// Package llm provides the completion capability used for meeting summaries
// and action-item extraction.
//
// The Completer interface is what the pipeline depends on; Client is the
// default implementation, speaking the OpenAI-compatible chat completions
// protocol that OpenRouter exposes.
//
// # Configuration
//
// Requires api_key and model, and optionally base_url, referer, title, and
// timeout_seconds.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a Request (free-form or JSON mode).
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: tolerant decoding of JSON payloads (code fences, prose).
//
// # Failure Behaviour
//
// Each call is a single attempt. Callers degrade on failure instead of
// retrying: the summarizer reports a failed result and the extractor reports
// no tasks.
package llm
