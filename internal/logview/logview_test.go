package logview

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLatestEmptyDir(t *testing.T) {
	v := New(t.TempDir(), &bytes.Buffer{})
	if _, err := v.Latest(); !errors.Is(err, ErrNoLogs) {
		t.Fatalf("want ErrNoLogs, got %v", err)
	}
}

func TestLatestPicksNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "old.log")
	newer := filepath.Join(dir, "new.log")
	if err := os.WriteFile(older, []byte("old\n"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(newer, []byte("new\n"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	v := New(dir, &bytes.Buffer{})
	got, err := v.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != newer {
		t.Fatalf("Latest = %q, want %q", got, newer)
	}
}

func TestTailLastLines(t *testing.T) {
	dir := t.TempDir()
	content := "l1\nl2\nl3\nl4\nl5\n"
	if err := os.WriteFile(filepath.Join(dir, "server.log"), []byte(content), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	var buf bytes.Buffer
	v := New(dir, &buf)
	if err := v.Tail(context.Background(), 2, false); err != nil {
		t.Fatalf("Tail: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "l3") || !strings.Contains(out, "l4") || !strings.Contains(out, "l5") {
		t.Fatalf("tail output = %q", out)
	}
}

func TestTailFollowStreamsAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.log")
	if err := os.WriteFile(path, []byte("first\n"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	var buf bytes.Buffer
	v := New(dir, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- v.Tail(ctx, 10, true) }()

	time.Sleep(700 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	if err := <-done; err != nil {
		t.Fatalf("Tail: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("follow output = %q", out)
	}
}

func TestLatestSkipsOwnActivityLog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "serverctl.log"), []byte("op log\n"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	v := New(dir, &bytes.Buffer{})
	if _, err := v.Latest(); !errors.Is(err, ErrNoLogs) {
		t.Fatalf("activity log must not count as a server artifact, err=%v", err)
	}
	server := filepath.Join(dir, "server.stdout.log")
	if err := os.WriteFile(server, []byte("srv\n"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := v.Latest()
	if err != nil || got != server {
		t.Fatalf("Latest = %q err=%v", got, err)
	}
}

func TestLastLines(t *testing.T) {
	if got := lastLines("", 3); got != nil {
		t.Fatalf("empty input: %v", got)
	}
	got := lastLines("a\nb\nc", 2)
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("lastLines = %v", got)
	}
}
