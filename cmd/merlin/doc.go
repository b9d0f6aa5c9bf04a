// Package main hosts the Merlin CLI entrypoint and command graph.
//
// The Cobra-based command tree wraps the workflow controller: transcribe a
// video into a word-level transcript, burn a styled caption track into a
// copy of the video, preview the caption window at a timestamp, and inspect
// style templates, external tools and configuration. Configuration and
// logger construction happen once per invocation in commandContext so
// subcommands only deal with flags and output.
//
// New behaviour belongs in the internal packages first; commands here
// should stay thin.
package main
