package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressReporter draws a bar on terminals and falls back to one line per
// message change elsewhere so piped output stays readable.
type progressReporter struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	out     io.Writer
	last    string
	percent int
}

func newProgressReporter(out io.Writer, description string, quiet bool) *progressReporter {
	if quiet {
		return &progressReporter{}
	}
	r := &progressReporter{out: out}
	if isTerminal(out) {
		r.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *progressReporter) update(percent int, message string) {
	if r == nil || r.out == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if percent < r.percent {
		percent = r.percent
	}
	r.percent = percent
	if r.bar != nil {
		if message != "" && message != r.last {
			r.bar.Describe(message)
		}
		r.last = message
		_ = r.bar.Set(percent)
		return
	}
	if message != r.last {
		fmt.Fprintf(r.out, "%3d%% %s\n", percent, message)
		r.last = message
	}
}

func (r *progressReporter) finish() {
	if r == nil || r.bar == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Finish()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
