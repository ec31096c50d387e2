package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agenttop/internal/model"
	"agenttop/internal/paths"
	"agenttop/internal/sessionstore"
)

func newSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List archived monitoring sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := paths.Resolve(resolvedRoot())
			store := sessionstore.New(p.ArchiveDir)
			sessions, err := store.List()
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Println(gray("no archived sessions"))
				return nil
			}

			fmt.Printf("%s\n", bold(fmt.Sprintf("%-24s %-17s %-10s %7s %7s %7s",
				"ID", "STARTED", "STATUS", "AGENTS", "TASKS", "EVENTS")))
			for _, m := range sessions {
				fmt.Printf("%-24s %-17s %-10s %7d %7d %7d\n",
					m.ID,
					m.Timestamp.Format("01-02 15:04:05"),
					colorStatus(m.Status),
					m.AgentCount, m.TaskCount, m.EventCount)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := paths.Resolve(resolvedRoot())
			store := sessionstore.New(p.ArchiveDir)
			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			fmt.Printf("%s deleted %s\n", green("✓"), args[0])
			return nil
		},
	})

	return cmd
}

func colorStatus(st model.SessionStatus) string {
	switch st {
	case model.SessionCompleted:
		return green(string(st))
	case model.SessionFailed, model.SessionCancelled:
		return red(string(st))
	case model.SessionActive:
		return yellow(string(st))
	default:
		return string(st)
	}
}
