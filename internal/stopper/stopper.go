// Package stopper drives graceful shutdown of the managed process,
// escalating to a forced kill when the bounded wait expires.
package stopper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/loykin/serverctl/internal/pidfile"
	"github.com/loykin/serverctl/internal/proc"
)

// pollInterval is how often the escalator re-probes for process absence
// while waiting out the graceful period.
const pollInterval = 500 * time.Millisecond

type Stopper struct {
	sig proc.Signaler
	rec *pidfile.Store
	// wait bounds the whole graceful phase; after it expires the process
	// is killed outright.
	wait time.Duration
	log  *slog.Logger
}

func New(sig proc.Signaler, rec *pidfile.Store, wait time.Duration, log *slog.Logger) *Stopper {
	if log == nil {
		log = slog.Default()
	}
	return &Stopper{sig: sig, rec: rec, wait: wait, log: log}
}

// Stop asks pid to exit, waits up to the configured bound, then forces
// termination. The PID record is cleared on every path: once stop has been
// requested the supervisor no longer considers the process managed,
// whether or not the kill was confirmed.
//
// Returns false when pid was already gone at call time; that is a warning
// condition for the caller, not an error.
func (s *Stopper) Stop(pid int) (bool, error) {
	defer func() { _ = s.rec.Clear() }()

	if !s.sig.Alive(pid) {
		return false, nil
	}

	if err := s.sig.Terminate(pid); err != nil {
		// The process may have exited between the probe and the signal.
		if !s.sig.Alive(pid) {
			return true, nil
		}
		return false, fmt.Errorf("terminate pid %d: %w", pid, err)
	}

	deadline := time.Now().Add(s.wait)
	for time.Now().Before(deadline) {
		time.Sleep(pollInterval)
		if !s.sig.Alive(pid) {
			return true, nil
		}
	}

	// Graceful period expired; force. No confirmation wait: the state
	// model is "we asked it to stop", not "we watched it die".
	s.log.Warn("server did not stop gracefully, forcing", "pid", pid)
	if err := s.sig.Kill(pid); err != nil && s.sig.Alive(pid) {
		return false, fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return true, nil
}
