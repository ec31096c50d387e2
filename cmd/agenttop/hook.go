package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agenttop/internal/app"
	"agenttop/internal/hookinstall"
)

func newHookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the event capture hook",
		Long:  "Install or inspect the shell hook that forwards agent events to the dashboard.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install the event hook into the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolvedRoot()
			if err := hookinstall.Install(root); err != nil {
				return fmt.Errorf("install hook: %w", err)
			}
			fmt.Printf("%s installed %s\n", green("✓"), hookinstall.HookPath(root))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the event hook is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := resolvedRoot()
			path := hookinstall.HookPath(root)
			switch hookinstall.Detect(root) {
			case app.HookInstalled:
				fmt.Printf("%s hook installed at %s\n", green("✓"), path)
			case app.HookMissing:
				fmt.Printf("%s hook not installed (expected %s)\n", red("✗"), path)
				fmt.Println(gray("run 'agenttop hook install' to set it up"))
			default:
				fmt.Printf("%s hook state unknown at %s\n", yellow("?"), path)
			}
			return nil
		},
	})

	return cmd
}
