// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, job kinds, and stage names for
//     logging.
//   - Structured error markers, the Wrap helper, and the typed stage and
//     output-parse failures callers inspect with errors.As.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
