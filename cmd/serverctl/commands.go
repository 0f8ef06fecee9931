package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/loykin/serverctl/internal/config"
	"github.com/loykin/serverctl/internal/history"
	"github.com/loykin/serverctl/internal/launcher"
	"github.com/loykin/serverctl/internal/logview"
	"github.com/loykin/serverctl/internal/supervisor"
)

type command struct {
	global *GlobalFlags
}

// setup loads configuration and wires a supervisor for one operation.
// The returned closer releases the history store, when one is open.
func (c *command) setup() (config.Config, *supervisor.Supervisor, func(), error) {
	cfg, err := config.Load(c.global.ConfigPath)
	if err != nil {
		return cfg, nil, nil, err
	}
	lg := cfg.Log
	lg.Dir = cfg.Resolve(lg.Dir)
	sup := supervisor.New(cfg, lg.Setup())

	closer := func() {}
	if cfg.HistoryDSN != "" {
		st, err := history.Open(cfg.Resolve(cfg.HistoryDSN))
		if err != nil {
			// The audit trail is best-effort; a broken database must not
			// block managing the server.
			_, _ = fmt.Fprintf(os.Stderr, "WARNING: history disabled: %v\n", err)
		} else {
			sup.SetRecorder(st)
			closer = func() { _ = st.Close() }
		}
	}
	return cfg, sup, closer, nil
}

func (c *command) Start(f StartFlags) error {
	cfg, sup, closer, err := c.setup()
	if err != nil {
		return err
	}
	defer closer()

	req := supervisor.StartRequest{Mode: launcher.Background, FromSource: f.FromSource}
	if f.Foreground {
		req.Mode = launcher.Foreground
		fmt.Println("Running in foreground mode (press Ctrl+C to stop)...")
	}

	res, err := sup.Start(req)
	if err != nil {
		return err
	}

	if res.Mode == launcher.Foreground {
		if res.Interrupted {
			fmt.Println("Server stopped")
			return nil
		}
		if res.ExitErr != nil {
			return fmt.Errorf("server exited: %w", res.ExitErr)
		}
		fmt.Println("Server exited")
		return nil
	}

	target := "executable"
	if f.FromSource {
		target = "source"
	}
	fmt.Printf("Server started successfully (%s, PID: %d)\n", target, res.PID)
	fmt.Printf("   Backend running at: %s\n", cfg.Endpoint)
	fmt.Println("   View logs with: serverctl logs")
	return nil
}

func (c *command) Stop() error {
	_, sup, closer, err := c.setup()
	if err != nil {
		return err
	}
	defer closer()

	if err := sup.Stop(); err != nil {
		if errors.Is(err, supervisor.ErrNotRunning) {
			fmt.Println("WARNING: Server is not running")
			return nil
		}
		return err
	}
	fmt.Println("Server stopped successfully")
	return nil
}

func (c *command) Restart() error {
	cfg, sup, closer, err := c.setup()
	if err != nil {
		return err
	}
	defer closer()

	fmt.Println("Restarting server...")
	res, err := sup.Restart()
	if err != nil {
		return err
	}
	fmt.Printf("Server started successfully (PID: %d)\n", res.PID)
	fmt.Printf("   Backend running at: %s\n", cfg.Endpoint)
	return nil
}

func (c *command) Status(f StatusFlags) error {
	_, sup, closer, err := c.setup()
	if err != nil {
		return err
	}
	defer closer()

	st, err := sup.Status(f.Detail)
	if err != nil {
		return err
	}
	if !st.Running {
		fmt.Println("Server Status: STOPPED")
		fmt.Printf("   Backend: %s (not running)\n", st.Endpoint)
		return nil
	}
	fmt.Println("Server Status: RUNNING")
	fmt.Printf("   PID: %d\n", st.PID)
	fmt.Printf("   Backend: %s\n", st.Endpoint)
	if f.Detail {
		fmt.Printf("   Uptime: %s\n", st.Uptime)
		fmt.Printf("   CPU: %.1f%%\n", st.CPUPercent)
		fmt.Printf("   RSS: %.1f MiB\n", float64(st.RSSBytes)/(1024*1024))
	}
	return nil
}

func (c *command) Logs(f LogsFlags) error {
	cfg, sup, closer, err := c.setup()
	if err != nil {
		return err
	}
	defer closer()

	if st, err := sup.Status(false); err == nil && !st.Running {
		fmt.Println("WARNING: Server is not running")
		fmt.Println("   Start it with: serverctl start")
	}

	viewer := logview.New(cfg.Resolve(cfg.Log.Dir), os.Stdout)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = viewer.Tail(ctx, f.Lines, !f.NoFollow)
	if errors.Is(err, logview.ErrNoLogs) {
		fmt.Println("WARNING: No log files found")
		fmt.Println("   Restart the server in foreground mode to see console output:")
		fmt.Println("   serverctl stop && serverctl start --foreground")
		return nil
	}
	return err
}

func (c *command) History(f HistoryFlags) error {
	cfg, err := config.Load(c.global.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.HistoryDSN == "" {
		fmt.Println("History is disabled (history_dsn is empty)")
		return nil
	}
	st, err := history.Open(cfg.Resolve(cfg.HistoryDSN))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	events, err := st.Recent(context.Background(), f.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No operations recorded yet")
		return nil
	}
	for _, e := range events {
		outcome := "ok"
		if !e.OK {
			outcome = "failed"
		}
		line := fmt.Sprintf("%s  %-7s  pid=%-7d  %s", e.OccurredAt.Local().Format("2006-01-02 15:04:05"), e.Op, e.PID, outcome)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Println(line)
	}
	return nil
}
