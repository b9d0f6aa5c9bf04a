package preflight

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const filterProbeTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSubtitlesFilter asks ffmpeg for its filter list and looks for the
// libass-backed subtitles filter used for burn-in.
func CheckSubtitlesFilter(ctx context.Context, ffmpegBinary string) Result {
	const name = "FFmpeg subtitles filter"

	binary := strings.TrimSpace(ffmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	checkCtx, cancel := context.WithTimeout(ctx, filterProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(checkCtx, binary, "-hide_banner", "-filters").Output() //nolint:gosec
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("could not list filters (%v)", err)}
	}
	if HasFilter(string(out), "subtitles") {
		return Result{Name: name, Passed: true, Detail: "libass available"}
	}
	return Result{Name: name, Detail: "missing; rebuild ffmpeg with --enable-libass"}
}

// HasFilter reports whether an `ffmpeg -filters` listing includes name.
func HasFilter(listing, name string) bool {
	scanner := bufio.NewScanner(strings.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 && fields[1] == name {
			return true
		}
	}
	return false
}
