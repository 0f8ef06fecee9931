//go:build !windows

package proc

import (
	"errors"
	"syscall"
)

type osSignaler struct{}

// Alive probes pid with signal 0. EPERM means the process exists but is
// owned by another user, so it still counts as alive.
func (osSignaler) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func (osSignaler) Terminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

func (osSignaler) Kill(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}

func (osSignaler) StartTime(pid int) int64 {
	return getProcStartUnix(pid)
}
