// Package services defines shared utilities consumed by the analysis pipeline,
// the notifier, and the external integrations under this directory.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, recipients, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper, and the mapping from
//     those markers to CLI exit codes.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error classification, observability) stays uniform across the tool.
package services
