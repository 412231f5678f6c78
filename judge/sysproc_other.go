//go:build !unix

package judge

import "os/exec"

// Process groups are unix only; exec.CommandContext kills the direct child.
func configureProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {}
