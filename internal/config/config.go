package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/loykin/serverctl/internal/logger"
)

// Config is the explicit configuration value handed to the supervisor.
// Every field has a working default so serverctl runs without a config
// file, matching the fixed paths the managed backend is deployed with.
type Config struct {
	// ServerDir is the working directory for the managed process.
	ServerDir string `toml:"server_dir" mapstructure:"server_dir"`
	// Executable is the prebuilt server binary, relative to ServerDir.
	Executable string `toml:"executable" mapstructure:"executable"`
	// SourceCommand runs the server from source instead (start --source).
	SourceCommand string `toml:"source_command" mapstructure:"source_command"`
	// PIDFile is the record of the managed process, relative to ServerDir.
	PIDFile string `toml:"pidfile" mapstructure:"pidfile"`
	// Endpoint is where the server is documented to listen. Informational
	// only: liveness is judged by process existence, never by the network.
	Endpoint string `toml:"endpoint" mapstructure:"endpoint"`
	// StartDuration is how long a background launch must stay up before
	// it is reported as started. 0 disables the check.
	StartDuration time.Duration `toml:"start_duration" mapstructure:"start_duration"`
	// StopWait bounds the graceful-shutdown wait before escalating.
	StopWait time.Duration `toml:"stop_wait" mapstructure:"stop_wait"`
	// RestartDelay separates the stop and start halves of a restart.
	RestartDelay time.Duration `toml:"restart_delay" mapstructure:"restart_delay"`
	// Env holds extra KEY=VALUE pairs appended to the child environment.
	Env []string `toml:"env" mapstructure:"env"`
	// HistoryDSN is the sqlite database recording lifecycle operations.
	// Empty disables the audit trail.
	HistoryDSN string `toml:"history_dsn" mapstructure:"history_dsn"`

	Log logger.Config `toml:"log" mapstructure:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerDir:     ".",
		Executable:    "bin/server",
		SourceCommand: "go run ./cmd/server",
		PIDFile:       "data/server.pid",
		Endpoint:      "http://localhost:8080",
		StartDuration: 2 * time.Second,
		StopWait:      5 * time.Second,
		RestartDelay:  time.Second,
		HistoryDSN:    "data/serverctl.db",
		Log:           logger.Config{Dir: "logs/activity"},
	}
}

// Load reads TOML config from path and merges it over the defaults.
// When path is empty, serverctl.toml in the current directory is used if
// present; a missing optional file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("toml")
	explicit := path != ""
	if !explicit {
		path = "serverctl.toml"
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve anchors a relative path at the server directory; the deployment
// keeps bin/, data/ and logs/ side by side under it.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ServerDir, p)
}

func (c Config) validate() error {
	if c.PIDFile == "" {
		return fmt.Errorf("pidfile must not be empty")
	}
	if c.Executable == "" && c.SourceCommand == "" {
		return fmt.Errorf("executable and source_command cannot both be empty")
	}
	if c.StartDuration < 0 || c.StopWait < 0 || c.RestartDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}
