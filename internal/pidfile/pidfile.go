// Package pidfile persists the identity of the managed server process.
// The record file is the only state shared between serverctl invocations:
// it exists exactly while a managed process is believed to be running.
package pidfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loykin/serverctl/internal/proc"
)

// meta is an optional second line in the record file. Storing the process
// start time lets Read reject a recycled PID that happens to be alive.
type meta struct {
	StartUnix int64 `json:"start_unix"`
}

// Store reads and writes the PID record at a fixed path. Probes for
// process existence go through the injected Signaler.
type Store struct {
	path string
	sig  proc.Signaler
}

func New(path string, sig proc.Signaler) *Store {
	return &Store{path: path, sig: sig}
}

func (s *Store) Path() string { return s.path }

// Read returns the recorded PID if the record exists and still refers to a
// live process. A missing file, unparsable content, a dead PID, or a
// start-time mismatch all report "no record"; stale files are removed as a
// side effect. Only I/O errors other than nonexistence are returned.
func (s *Store) Read() (int, bool, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read pid record %s: %w", s.path, err)
	}

	pidLine, rest, _ := strings.Cut(string(b), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(pidLine))
	if err != nil || pid <= 0 {
		// Garbage content means the record carries no usable claim.
		return 0, false, nil
	}

	if !s.sig.Alive(pid) {
		s.removeStale()
		return 0, false, nil
	}
	if m := parseMeta(rest); m.StartUnix > 0 {
		if cur := s.sig.StartTime(pid); cur > 0 && cur != m.StartUnix {
			// PID recycled by an unrelated process.
			s.removeStale()
			return 0, false, nil
		}
	}
	return pid, true, nil
}

// Write atomically replaces the record with pid, creating the parent
// directory if needed. A concurrent reader sees either the old record or
// the new one, never a partial write.
func (s *Store) Write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create pid record dir: %w", err)
	}
	content := strconv.Itoa(pid) + "\n"
	if st := s.sig.StartTime(pid); st > 0 {
		if mb, err := json.Marshal(meta{StartUnix: st}); err == nil {
			content += string(mb) + "\n"
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write pid record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write pid record: %w", err)
	}
	return nil
}

// Clear removes the record. A record that is already absent is not an
// error; stop must be idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear pid record %s: %w", s.path, err)
	}
	return nil
}

// removeStale is best-effort: a concurrent reader may have healed the
// record already.
func (s *Store) removeStale() { _ = os.Remove(s.path) }

func parseMeta(rest string) meta {
	var m meta
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return m
	}
	// Only the first remaining line carries meta.
	line, _, _ := strings.Cut(rest, "\n")
	_ = json.Unmarshal([]byte(strings.TrimSpace(line)), &m)
	return m
}
