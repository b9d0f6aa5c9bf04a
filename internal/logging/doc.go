// Package logging builds the slog loggers used by the CLI and the pipeline.
//
// Console output is a compact single-line format on stderr so stdout stays
// free for command results. When a log directory is configured, every record
// is also written as JSON to merlin.log at debug level. Context helpers tag
// records with the job id, job kind and stage carried by the context.
package logging
