package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// buildRoot assembles the CLI. With no subcommand serverctl reports
// status, matching how operators poke at the server most often.
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	startFlags := &StartFlags{}
	statusFlags := &StatusFlags{}
	logsFlags := &LogsFlags{}
	historyFlags := &HistoryFlags{}

	c := command{global: globalFlags}

	root := &cobra.Command{
		Use:           "serverctl",
		Short:         "Control the backend server instance",
		Long:          "serverctl starts, stops, restarts and reports on the managed backend server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Status(StatusFlags{})
		},
	}
	root.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "path to serverctl.toml (optional)")

	root.AddCommand(
		createStartCommand(&c, startFlags),
		createStopCommand(&c),
		createRestartCommand(&c),
		createStatusCommand(&c, statusFlags),
		createLogsCommand(&c, logsFlags),
		createHistoryCommand(&c, historyFlags),
	)
	return root
}

func createStartCommand(c *command, f *StartFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the backend server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Start(*f)
		},
	}
	cmd.Flags().BoolVarP(&f.Foreground, "foreground", "f", false, "run with visible console output instead of detaching")
	cmd.Flags().BoolVarP(&f.FromSource, "source", "s", false, "run from source instead of the prebuilt binary")
	return cmd
}

func createStopCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the backend server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Stop()
		},
	}
}

func createRestartCommand(c *command) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the backend server (detached)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Restart()
		},
	}
}

func createStatusCommand(c *command, f *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the server is running",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Status(*f)
		},
	}
	cmd.Flags().BoolVar(&f.Detail, "detail", false, "include uptime and resource usage")
	return cmd
}

func createLogsCommand(c *command, f *LogsFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"console"},
		Short:   "Tail the most recent server log",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.Logs(*f)
		},
	}
	cmd.Flags().IntVarP(&f.Lines, "lines", "n", 50, "number of trailing lines to print first")
	cmd.Flags().BoolVar(&f.NoFollow, "no-follow", false, "print the tail and exit instead of streaming")
	return cmd
}

func createHistoryCommand(c *command, f *HistoryFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lifecycle operations",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.History(*f)
		},
	}
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "maximum number of entries")
	return cmd
}
