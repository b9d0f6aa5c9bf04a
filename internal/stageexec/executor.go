package stageexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stream identifies which pipe a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one line of tool output.
type Line struct {
	Stream Stream
	Text   string
}

// Command describes a process invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

// Executor abstracts command execution for testability. onLine is never
// called concurrently and never after Run returns.
type Executor interface {
	Run(ctx context.Context, cmd Command, onLine func(Line)) error
}

// ExitError reports a process that ran and exited unsuccessfully. Code is -1
// when the process was terminated by a signal.
type ExitError struct {
	Command string
	Code    int
	Tail    string
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit code %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// StartError reports a process that could not be started at all.
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

const (
	defaultTailBytes = 4096
	defaultWaitDelay = 5 * time.Second
	maxLineBytes     = 1024 * 1024
)

// CommandExecutor runs real processes.
type CommandExecutor struct {
	// TailBytes bounds the retained diagnostic output. Zero means 4 KiB.
	TailBytes int
	// WaitDelay is how long a cancelled process group gets to exit after
	// SIGTERM before it is killed. Zero means 5s.
	WaitDelay time.Duration
}

// Run starts cmd and blocks until it exits and both pipes are drained.
func (e CommandExecutor) Run(ctx context.Context, command Command, onLine func(Line)) error {
	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = defaultWaitDelay
	}
	configureProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return &StartError{Command: command.Binary, Err: err}
	}

	tail := newTailBuffer(e.TailBytes)
	var mu sync.Mutex
	forward := func(line Line) {
		mu.Lock()
		defer mu.Unlock()
		tail.writeLine(line.Text)
		if onLine != nil {
			onLine(line)
		}
	}

	var g errgroup.Group
	g.Go(func() error { return scan(stdout, Stdout, forward) })
	g.Go(func() error { return scan(stderr, Stderr, forward) })
	scanErr := g.Wait()

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", command.Binary, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Command: command.Binary, Code: exitErr.ExitCode(), Tail: tail.String(), Err: waitErr}
		}
		return fmt.Errorf("wait %s: %w", command.Binary, waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("scan %s output: %w", command.Binary, scanErr)
	}
	return nil
}

func scan(r io.Reader, stream Stream, forward func(Line)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(ScanLinesOrReturns)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		forward(Line{Stream: stream, Text: text})
	}
	err := scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}
	return err
}
