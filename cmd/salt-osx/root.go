package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	dryRun  bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "salt-osx",
		Short:         "salt-osx converges macOS settings to a declared state",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Report pending changes without applying them")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newPlistCmd())
	cmd.AddCommand(newPrivsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
