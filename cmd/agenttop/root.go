package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"agenttop/internal/logging"
)

// Color definitions shared by the non-TUI subcommands.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// NewRootCommand creates the root cobra command. Configuration precedence is
// flags over AGENTTOP_* environment variables over ~/.agenttop.yaml.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agenttop",
		Short: "Live terminal dashboard for multi-agent coding sessions",
		Long: fmt.Sprintf(`%s watches a project's agent state files and renders a live
dashboard: task waves on the left, the hook event stream on the right,
with per-agent drill-down and archived session browsing.

It reads three sources under the project root:
  .claude/state/active_task_graph.json   task graph
  .claude/state/subagents/*.jsonl        agent transcripts
  /tmp/agenttop/events.jsonl             hook events

Install the event hook first with 'agenttop hook install'.`, bold("agenttop")),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(resolvedRoot())
		},
	}

	rootCmd.PersistentFlags().StringP("root", "r", "", "Project root to monitor (default: working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "Debug log level: debug, info, warn, error")
	rootCmd.Flags().Duration("debounce", 200*time.Millisecond, "File change debounce window")
	rootCmd.Flags().Duration("tick", 250*time.Millisecond, "UI refresh interval")

	rootCmd.AddCommand(newHookCommand())
	rootCmd.AddCommand(newSessionsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func initConfig(cmd *cobra.Command) error {
	viper.SetConfigName(".agenttop")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("AGENTTOP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.BindPFlag("root", cmd.Flags().Lookup("root")); err != nil {
		return err
	}
	if err := viper.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("debounce"); f != nil {
		if err := viper.BindPFlag("debounce", f); err != nil {
			return err
		}
	}
	if f := cmd.Flags().Lookup("tick"); f != nil {
		if err := viper.BindPFlag("tick", f); err != nil {
			return err
		}
	}

	logging.GetFileLogger().SetLevel(logging.ParseLevel(viper.GetString("log_level")))
	return nil
}

// resolvedRoot returns the configured project root, defaulting to the
// working directory.
func resolvedRoot() string {
	if root := viper.GetString("root"); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
