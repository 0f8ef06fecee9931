//go:build windows

package proc

import "syscall"

const processQueryInformation = 0x0400

type osSignaler struct{}

func (osSignaler) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, err := syscall.OpenProcess(processQueryInformation, false, uint32(pid))
	if err != nil {
		return false
	}
	defer func() { _ = syscall.CloseHandle(h) }()
	return true
}

// Terminate behaves like Kill: Windows has no SIGTERM analogue for an
// unrelated process, so graceful shutdown degrades to forced termination.
func (s osSignaler) Terminate(pid int) error { return s.Kill(pid) }

func (osSignaler) Kill(pid int) error {
	if pid <= 0 {
		return nil
	}
	h, err := syscall.OpenProcess(syscall.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		// Unable to open usually means the process is already gone.
		return nil
	}
	defer func() { _ = syscall.CloseHandle(h) }()
	return syscall.TerminateProcess(h, 1)
}

func (osSignaler) StartTime(pid int) int64 {
	return getProcStartUnix(pid)
}
