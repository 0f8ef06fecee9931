// Package serverctl supervises a single long-running backend server
// process through a persisted PID record: start, stop, restart and
// status, with graceful-then-forced shutdown escalation.
package serverctl

import (
	"log/slog"

	"github.com/loykin/serverctl/internal/config"
	"github.com/loykin/serverctl/internal/history"
	"github.com/loykin/serverctl/internal/launcher"
	"github.com/loykin/serverctl/internal/supervisor"
)

// Re-export core types for external consumers. These are aliases, so
// conversions are zero-cost.

type Config = config.Config

type Status = supervisor.Status

type StartRequest = supervisor.StartRequest

type Result = launcher.Result

type Mode = launcher.Mode

const (
	Foreground = launcher.Foreground
	Background = launcher.Background
)

var (
	ErrAlreadyRunning = supervisor.ErrAlreadyRunning
	ErrNotRunning     = supervisor.ErrNotRunning
)

// Supervisor is a thin facade over internal/supervisor for embedding.
type Supervisor struct{ inner *supervisor.Supervisor }

func New(cfg Config) *Supervisor {
	return &Supervisor{inner: supervisor.New(cfg, slog.Default())}
}

func (s *Supervisor) Start(req StartRequest) (*Result, error) { return s.inner.Start(req) }
func (s *Supervisor) Stop() error                             { return s.inner.Stop() }
func (s *Supervisor) Restart() (*Result, error)               { return s.inner.Restart() }
func (s *Supervisor) Status(detail bool) (Status, error)      { return s.inner.Status(detail) }

// SetRecorder wires an operation audit sink; see NewHistoryStore.
func (s *Supervisor) SetRecorder(r history.Recorder) { s.inner.SetRecorder(r) }

// NewHistoryStore opens the sqlite-backed audit store for dsn.
func NewHistoryStore(dsn string) (*history.Store, error) { return history.Open(dsn) }

func DefaultConfig() Config { return config.Default() }

func LoadConfig(path string) (Config, error) { return config.Load(path) }
