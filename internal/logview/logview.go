// Package logview locates and tails the most recent server log artifact.
// It is presentation glue around the activity log directory and shares no
// state with the supervision core beyond the directory path.
package logview

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoLogs means the activity directory holds no log artifact yet.
var ErrNoLogs = fmt.Errorf("no log files found")

const followPollInterval = 500 * time.Millisecond

type Viewer struct {
	dir string
	out io.Writer
}

func New(dir string, out io.Writer) *Viewer {
	return &Viewer{dir: dir, out: out}
}

// Latest returns the most recently modified *.log file in the directory.
// serverctl's own activity log is skipped: the viewer is for the server's
// console output.
func (v *Viewer) Latest() (string, error) {
	matches, err := filepath.Glob(filepath.Join(v.dir, "*.log"))
	if err != nil {
		return "", ErrNoLogs
	}
	entries := matches[:0]
	for _, m := range matches {
		if filepath.Base(m) != "serverctl.log" {
			entries = append(entries, m)
		}
	}
	if len(entries) == 0 {
		return "", ErrNoLogs
	}
	sort.Slice(entries, func(i, j int) bool {
		return mtime(entries[i]).After(mtime(entries[j]))
	})
	return entries[0], nil
}

// Tail prints the last n lines of the newest artifact and, when follow is
// set, streams appended output until ctx is cancelled.
func (v *Viewer) Tail(ctx context.Context, n int, follow bool) error {
	path, err := v.Latest()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(v.out, "Tailing: %s\n\n", filepath.Base(path))

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read log %s: %w", path, err)
	}
	for _, line := range lastLines(string(b), n) {
		_, _ = fmt.Fprintln(v.out, line)
	}
	if !follow {
		return nil
	}

	offset := int64(len(b))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followPollInterval):
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil // rotated away or removed; stop quietly
		}
		if fi.Size() < offset {
			// Truncated (rotation); start over from the beginning.
			offset = 0
		}
		if fi.Size() == offset {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		if _, err := f.Seek(offset, io.SeekStart); err == nil {
			nn, _ := io.Copy(v.out, f)
			offset += nn
		}
		_ = f.Close()
	}
}

func lastLines(s string, n int) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func mtime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
