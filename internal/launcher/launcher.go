// Package launcher spawns the managed server process in foreground or
// detached background mode and records its identity in the PID registry.
package launcher

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/loykin/serverctl/internal/logger"
	"github.com/loykin/serverctl/internal/pidfile"
)

type Mode string

const (
	Foreground Mode = "foreground"
	Background Mode = "background"
)

// childLogName is the base name for the background server's console files
// under the activity log directory.
const childLogName = "server"

// maxStderrTail bounds how much captured error output a failed launch
// report carries.
const maxStderrTail = 4 * 1024

// Result describes a completed launch.
type Result struct {
	PID  int
	Mode Mode
	// Interrupted is set when a foreground wait ended because the user
	// cancelled serverctl rather than the server exiting on its own.
	Interrupted bool
	// ExitErr is the child's exit outcome for foreground launches.
	ExitErr error
}

// StartFailure reports a child that could not be spawned or that exited
// within the settle window of a background launch.
type StartFailure struct {
	Output string // trailing stderr output, when available
	Err    error
}

func (e *StartFailure) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("server failed to start: %v\n%s", e.Err, e.Output)
	}
	return fmt.Sprintf("server failed to start: %v", e.Err)
}

func (e *StartFailure) Unwrap() error { return e.Err }

// StopFunc drives the shutdown escalation against a pid. The launcher
// invokes it when a foreground wait is interrupted by the user.
type StopFunc func(pid int) (bool, error)

type Launcher struct {
	rec *pidfile.Store
	// logs provides the background child's stdout/stderr files.
	logs logger.Config
	// settle is how long a background child must stay up to count as
	// started. 0 skips the check.
	settle time.Duration
	stop   StopFunc
	log    *slog.Logger
}

func New(rec *pidfile.Store, logs logger.Config, settle time.Duration, stop StopFunc, log *slog.Logger) *Launcher {
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{rec: rec, logs: logs, settle: settle, stop: stop, log: log}
}

func (l *Launcher) Launch(tgt Target, mode Mode) (*Result, error) {
	if mode == Foreground {
		return l.foreground(tgt)
	}
	return l.background(tgt)
}

// foreground runs the server with inherited stdio and blocks until it
// exits or the user cancels serverctl. The PID record never outlives the
// wait: it is cleared on normal exit, interruption, and spawn failure.
func (l *Launcher) foreground(tgt Target) (*Result, error) {
	cmd := buildCommand(tgt)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	configureSysProcAttr(cmd, false)

	if err := cmd.Start(); err != nil {
		return nil, &StartFailure{Err: err}
	}
	pid := cmd.Process.Pid
	if err := l.rec.Write(pid); err != nil {
		// Without a record later invocations cannot manage the child;
		// take it back down rather than orphan it.
		if l.stop != nil {
			_, _ = l.stop(pid)
		}
		_ = cmd.Wait()
		return nil, err
	}
	defer func() { _ = l.rec.Clear() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case werr := <-waitCh:
		return &Result{PID: pid, Mode: Foreground, ExitErr: werr}, nil
	case <-sigCh:
		l.log.Info("interrupted, stopping server", "pid", pid)
		if l.stop != nil {
			_, _ = l.stop(pid)
		} else {
			_ = cmd.Process.Signal(syscall.SIGTERM)
		}
		<-waitCh
		return &Result{PID: pid, Mode: Foreground, Interrupted: true}, nil
	}
}

// background detaches the server, persists its pid, then watches it for
// the settle window to distinguish a crash-on-start from a daemonized
// start. On early exit the record is cleared and the stderr tail is
// attached to the failure.
func (l *Launcher) background(tgt Target) (*Result, error) {
	cmd := buildCommand(tgt)
	configureSysProcAttr(cmd, true)

	outF, errF, err := l.logs.ChildFiles(childLogName)
	if err != nil {
		return nil, err
	}
	if outF != nil {
		// Plain file handles pass straight into the child, so its
		// logging keeps working after serverctl exits.
		cmd.Stdout = outF
		cmd.Stderr = errF
		defer func() { _ = outF.Close(); _ = errF.Close() }()
	}

	if err := cmd.Start(); err != nil {
		return nil, &StartFailure{Err: err}
	}
	pid := cmd.Process.Pid
	if err := l.rec.Write(pid); err != nil {
		if l.stop != nil {
			_, _ = l.stop(pid)
		}
		_ = cmd.Wait()
		return nil, err
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	if l.settle > 0 {
		select {
		case werr := <-waitCh:
			_ = l.rec.Clear()
			if werr == nil {
				werr = fmt.Errorf("exited immediately")
			}
			return nil, &StartFailure{Err: werr, Output: l.stderrTail()}
		case <-time.After(l.settle):
			// Still up after the settle window: daemonized. The wait
			// goroutine is abandoned; serverctl exits momentarily and
			// the detached child lives on.
		}
	}
	return &Result{PID: pid, Mode: Background}, nil
}

func (l *Launcher) stderrTail() string {
	path := l.logs.StderrPath(childLogName)
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(b) > maxStderrTail {
		b = b[len(b)-maxStderrTail:]
	}
	return strings.TrimSpace(string(b))
}
