package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mosen/salt-osx/internal/config"
	"github.com/mosen/salt-osx/internal/engine"
	"github.com/mosen/salt-osx/internal/logger"
	"github.com/mosen/salt-osx/internal/model"
	"github.com/mosen/salt-osx/internal/report"
)

type applyOptions struct {
	ConfigPath string
	EntityID   string
	DryRun     bool
	Verbose    bool
}

// exitCodeError carries a non-zero exit status without printing anything:
// the reporter has already written the failure detail.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Converge declared entities against current system state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			if len(args) == 1 {
				opts.EntityID = args[0]
			}
			return runApply(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the state declaration")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(cmd *cobra.Command, opts applyOptions) error {
	doc, err := config.ParseDocument(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.EntityID != "" {
		var selected []config.Entity
		for _, entity := range doc.Entities {
			if entity.ID == opts.EntityID {
				selected = append(selected, entity)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("no entity %q in %s", opts.EntityID, opts.ConfigPath)
		}
		doc.Entities = selected
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	log, err := logger.New(logger.Options{Level: level, Console: interactive})
	if err != nil {
		return err
	}

	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	eng := engine.New(registry, log)
	eng.DryRun = opts.DryRun

	results := eng.ConvergeAll(context.Background(), doc)

	reporter := report.New(cmd.OutOrStdout(), !interactive)
	return reportResults(reporter, results)
}

func reportResults(reporter *report.Reporter, results []model.Result) error {
	for i := range results {
		reporter.Result(&results[i])
	}
	reporter.Summary(results)

	if code := report.ExitCode(results); code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}
