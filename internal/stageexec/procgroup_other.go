//go:build !unix

package stageexec

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
