// Package main provides the stride-action CLI application.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stride-gpt/stride-action/pkg/action"
	"github.com/stride-gpt/stride-action/pkg/actions"
	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/event"
	"github.com/stride-gpt/stride-action/pkg/logging"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the threat analysis for the current CI event",
	Long: `Run the threat analysis for the current GitHub Actions event.

The trigger mode (comment, pr or manual) decides what gets analyzed:
changed files of a pull request, a feature description from an issue,
or the whole repository.`,
	RunE: runAction,
}

// runFlags holds the flags for the run command
type runFlags struct {
	configPath string
}

var runOpts runFlags

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOpts.configPath, "config", "c", "", "Path to configuration file")
}

func runAction(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if runOpts.configPath != "" {
		cfg, err = config.Load(runOpts.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		actions.Error("stride-action: %v", err)
		return err
	}

	log, err := logging.New(cfg.Global.LogLevel)
	if err != nil {
		actions.Error("stride-action: failed to initialize logging: %v", err)
		return err
	}
	defer log.Sync() //nolint:errcheck

	ev, err := event.Read()
	if err != nil {
		actions.Error("stride-action: %v", err)
		return err
	}

	runner, err := action.New(cfg, ev.Repository, log)
	if err != nil {
		actions.Error("stride-action: %v", err)
		return err
	}

	if err := runner.Run(context.Background(), ev); err != nil {
		if !errors.IsFatal(err) {
			return nil
		}
		actions.Error("Action failed: %v", err)
		return err
	}
	return nil
}
