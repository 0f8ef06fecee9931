// Package supervisor composes the PID registry, launcher and stopper into
// the start/stop/restart/status operations the CLI exposes. Each call is
// independent: the only state shared with past or future invocations is
// the persisted PID record.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"

	"github.com/loykin/serverctl/internal/config"
	"github.com/loykin/serverctl/internal/history"
	"github.com/loykin/serverctl/internal/launcher"
	"github.com/loykin/serverctl/internal/pidfile"
	"github.com/loykin/serverctl/internal/proc"
	"github.com/loykin/serverctl/internal/stopper"
)

var (
	ErrAlreadyRunning = errors.New("server is already running")
	ErrNotRunning     = errors.New("server is not running")
)

// StartRequest selects how to launch the server.
type StartRequest struct {
	Mode       launcher.Mode
	FromSource bool // run from source instead of the prebuilt binary
}

// Status is a read-only snapshot derived from the PID record.
type Status struct {
	Running  bool
	PID      int
	Endpoint string // informational; never probed
	// Populated only when detail was requested and the process is running.
	Uptime     time.Duration
	CPUPercent float64
	RSSBytes   uint64
}

type Supervisor struct {
	cfg  config.Config
	rec  *pidfile.Store
	stop *stopper.Stopper
	ln   *launcher.Launcher
	hist history.Recorder
	log  *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *Supervisor {
	return NewWithSignaler(cfg, proc.OS(), log)
}

// NewWithSignaler lets tests inject fake process primitives.
func NewWithSignaler(cfg config.Config, sig proc.Signaler, log *slog.Logger) *Supervisor {
	if log == nil {
		log = slog.Default()
	}
	s := &Supervisor{cfg: cfg, log: log}
	s.rec = pidfile.New(s.resolve(cfg.PIDFile), sig)
	s.stop = stopper.New(sig, s.rec, cfg.StopWait, log)

	logs := cfg.Log
	logs.Dir = s.resolve(logs.Dir)
	s.ln = launcher.New(s.rec, logs, cfg.StartDuration, s.stop.Stop, log)
	return s
}

// SetRecorder wires the operation audit trail. nil disables it.
func (s *Supervisor) SetRecorder(r history.Recorder) { s.hist = r }

// Registry exposes the PID record path for collaborators (log viewer).
func (s *Supervisor) Registry() *pidfile.Store { return s.rec }

// Start refuses while a live process is recorded, then delegates to the
// launcher. Foreground starts return once the child has exited.
func (s *Supervisor) Start(req StartRequest) (*launcher.Result, error) {
	pid, running, err := s.rec.Read()
	if err != nil {
		return nil, err
	}
	if running {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	tgt, err := s.target(req.FromSource)
	if err != nil {
		return nil, err
	}
	mode := req.Mode
	if mode == "" {
		mode = launcher.Background
	}

	s.log.Info("starting server", "mode", string(mode), "command", tgt.Command)
	res, err := s.ln.Launch(tgt, mode)
	if err != nil {
		s.audit(history.OpStart, 0, false, err.Error())
		return nil, err
	}
	s.audit(history.OpStart, res.PID, true, string(mode))
	return res, nil
}

// Stop drives the shutdown escalation against the recorded pid.
// ErrNotRunning is returned when there is nothing to stop; callers treat
// it as a warning, not a failure.
func (s *Supervisor) Stop() error {
	pid, running, err := s.rec.Read()
	if err != nil {
		return err
	}
	if !running {
		return ErrNotRunning
	}

	s.log.Info("stopping server", "pid", pid)
	stopped, err := s.stop.Stop(pid)
	if err != nil {
		s.audit(history.OpStop, pid, false, err.Error())
		return err
	}
	if !stopped {
		// Raced with the process exiting on its own; goal state reached.
		s.log.Warn("server was already gone", "pid", pid)
	}
	s.audit(history.OpStop, pid, true, "")
	return nil
}

// Restart stops the server if running, waits out the configured delay,
// and starts it again detached. Restart always resumes in background
// mode regardless of how the previous run was launched.
func (s *Supervisor) Restart() (*launcher.Result, error) {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return nil, err
	}
	time.Sleep(s.cfg.RestartDelay)
	res, err := s.Start(StartRequest{Mode: launcher.Background})
	if err != nil {
		s.audit(history.OpRestart, 0, false, err.Error())
		return nil, err
	}
	s.audit(history.OpRestart, res.PID, true, "")
	return res, nil
}

// Status reports run state from the self-healing record read, so a stale
// record can never present as running. detail adds process resource
// figures for a live server.
func (s *Supervisor) Status(detail bool) (Status, error) {
	st := Status{Endpoint: s.cfg.Endpoint}
	pid, running, err := s.rec.Read()
	if err != nil {
		return st, err
	}
	st.Running = running
	st.PID = pid
	if detail && running {
		s.fillDetail(&st)
	}
	return st, nil
}

// fillDetail is best-effort: a probe failure leaves zero values rather
// than failing the status call.
func (s *Supervisor) fillDetail(st *Status) {
	p, err := gopsproc.NewProcess(int32(st.PID))
	if err != nil {
		return
	}
	if ms, err := p.CreateTime(); err == nil && ms > 0 {
		st.Uptime = time.Since(time.UnixMilli(ms)).Truncate(time.Second)
	}
	if pct, err := p.CPUPercent(); err == nil {
		st.CPUPercent = pct
	}
	if mi, err := p.MemoryInfo(); err == nil && mi != nil {
		st.RSSBytes = mi.RSS
	}
}

func (s *Supervisor) target(fromSource bool) (launcher.Target, error) {
	tgt := launcher.Target{Dir: s.cfg.ServerDir, Env: s.cfg.Env}
	if fromSource {
		if s.cfg.SourceCommand == "" {
			return tgt, fmt.Errorf("no source command configured")
		}
		tgt.Command = s.cfg.SourceCommand
		return tgt, nil
	}
	exe := s.resolve(s.cfg.Executable)
	if _, err := os.Stat(exe); err != nil {
		return tgt, fmt.Errorf("server executable not found: %s (build it first, or start with --source)", exe)
	}
	tgt.Command = exe
	return tgt, nil
}

func (s *Supervisor) resolve(p string) string { return s.cfg.Resolve(p) }

func (s *Supervisor) audit(op history.Op, pid int, ok bool, detail string) {
	if s.hist == nil {
		return
	}
	e := history.Event{OccurredAt: time.Now(), Op: op, PID: pid, OK: ok, Detail: detail}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.hist.Record(ctx, e); err != nil {
		s.log.Warn("history record failed", "op", string(op), "error", err)
	}
}
