package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation parameters for serverctl's own activity log.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes serverctl's logging destinations. Dir doubles as the
// directory where a background-launched server's console output is kept.
type Config struct {
	Dir        string `toml:"dir" mapstructure:"dir"`                 // base directory for logs
	Level      string `toml:"level" mapstructure:"level"`             // debug|info|warn|error
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"` // lumberjack rotation
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// Setup builds the slog logger for serverctl itself: colored text on
// stderr plus, when Dir is set, a rotating file at Dir/serverctl.log.
func (c Config) Setup() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	var w io.Writer = os.Stderr
	if c.Dir != "" {
		_ = os.MkdirAll(c.Dir, 0o750)
		file := &lj.Logger{
			Filename:   filepath.Join(c.Dir, "serverctl.log"),
			MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   c.Compress,
		}
		w = io.MultiWriter(os.Stderr, file)
	}
	return slog.New(NewColorTextHandler(w, opts, true))
}

// ChildFiles opens append-mode files for a background child's stdout and
// stderr under Dir. These must be plain *os.File handles: os/exec passes
// them to the child directly, so logging survives serverctl's exit.
// Rotation is not applied here for the same reason.
func (c Config) ChildFiles(name string) (*os.File, *os.File, error) {
	if c.Dir == "" {
		return nil, nil, nil
	}
	if err := os.MkdirAll(c.Dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	outPath := filepath.Join(c.Dir, fmt.Sprintf("%s.stdout.log", name))
	errPath := filepath.Join(c.Dir, fmt.Sprintf("%s.stderr.log", name))
	outF, err := os.OpenFile(outPath, flags, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", outPath, err)
	}
	errF, err := os.OpenFile(errPath, flags, 0o640)
	if err != nil {
		_ = outF.Close()
		return nil, nil, fmt.Errorf("open %s: %w", errPath, err)
	}
	return outF, errF, nil
}

// StderrPath returns where ChildFiles sends stderr for name, or "".
func (c Config) StderrPath(name string) string {
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, fmt.Sprintf("%s.stderr.log", name))
}

func (c Config) slogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
