// Package logs reads back the JSON log file written next to console output.
//
// Tail streams the file with bounded memory: a negative offset returns the
// last N lines, a positive offset continues from a previous read, and Follow
// polls for new lines until Wait elapses or the context ends. ParseEntry and
// Filter turn raw lines into records that can be narrowed to one job or a
// minimum level and printed in the console layout.
package logs
