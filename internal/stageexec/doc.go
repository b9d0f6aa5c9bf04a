// Package stageexec runs external pipeline tools and streams their output.
//
// Executor starts a process, forwards every stdout and stderr line to a
// callback while the process runs, keeps a bounded tail of the combined
// output for diagnostics, and reports non-zero exits as *ExitError. Lines are
// split on both "\n" and "\r" so tools that redraw a status line in place
// still produce one callback per update. Cancelling the context terminates
// the whole process group.
package stageexec
