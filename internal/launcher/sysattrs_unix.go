//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr isolates the child from serverctl's signals.
// Background launches get a new session (setsid) so the server survives
// serverctl's exit and loses the controlling terminal; foreground launches
// get a new process group so Ctrl+C reaches serverctl alone, which then
// drives an orderly stop of the child.
func configureSysProcAttr(cmd *exec.Cmd, detached bool) {
	attrs := &syscall.SysProcAttr{}
	if detached {
		attrs.Setsid = true
	} else {
		attrs.Setpgid = true
	}
	cmd.SysProcAttr = attrs
}
