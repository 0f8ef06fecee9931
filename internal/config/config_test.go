package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.PIDFile != "data/server.pid" {
		t.Fatalf("pidfile default = %q", c.PIDFile)
	}
	if c.StartDuration != 2*time.Second {
		t.Fatalf("start_duration default = %v", c.StartDuration)
	}
	if c.StopWait != 5*time.Second {
		t.Fatalf("stop_wait default = %v", c.StopWait)
	}
	if err := c.validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMissingOptionalFile(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if c.Executable != "bin/server" {
		t.Fatalf("expected defaults, got executable=%q", c.Executable)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("explicit missing config must error")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serverctl.toml")
	content := `
pidfile = "run/backend.pid"
stop_wait = "9s"
start_duration = "250ms"
endpoint = "http://localhost:9090"
env = ["FOO=bar"]

[log]
dir = "var/log"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.PIDFile != "run/backend.pid" {
		t.Fatalf("pidfile = %q", c.PIDFile)
	}
	if c.StopWait != 9*time.Second {
		t.Fatalf("stop_wait = %v", c.StopWait)
	}
	if c.StartDuration != 250*time.Millisecond {
		t.Fatalf("start_duration = %v", c.StartDuration)
	}
	if c.Log.Dir != "var/log" || c.Log.Level != "debug" {
		t.Fatalf("log section = %+v", c.Log)
	}
	// Unset keys keep their defaults.
	if c.SourceCommand != "go run ./cmd/server" {
		t.Fatalf("source_command = %q", c.SourceCommand)
	}
	if len(c.Env) != 1 || c.Env[0] != "FOO=bar" {
		t.Fatalf("env = %v", c.Env)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	c := Default()
	c.PIDFile = ""
	if err := c.validate(); err == nil {
		t.Fatalf("empty pidfile must fail validation")
	}
	c = Default()
	c.StopWait = -time.Second
	if err := c.validate(); err == nil {
		t.Fatalf("negative duration must fail validation")
	}
	c = Default()
	c.Executable = ""
	c.SourceCommand = ""
	if err := c.validate(); err == nil {
		t.Fatalf("no launch target must fail validation")
	}
}
