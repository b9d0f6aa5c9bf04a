// Package preflight provides readiness checks for the filesystem paths and
// ffmpeg features Merlin depends on.
//
// Binary presence is covered by the deps package; the checks here go one
// step further: the work dir must be writable for temp namespaces and lock
// files, and ffmpeg must be built with the libass subtitles filter or every
// render will fail at burn-in. The CLI doctor command runs RunAll.
package preflight
