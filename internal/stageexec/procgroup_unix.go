//go:build unix

package stageexec

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcessGroup puts the child in its own process group so a cancel
// reaches grandchildren too (whisper spawns python workers, shells spawn tools).
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
		if err == unix.ESRCH {
			return nil
		}
		return err
	}
}
