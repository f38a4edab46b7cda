// Package main provides the stride-action CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/logging"
	"github.com/stride-gpt/stride-action/pkg/stride"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and API connectivity",
	Long: `Verify that the action is configured correctly: loads and validates
the configuration, probes the STRIDE-GPT API health endpoint and reports
the account's current usage.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	fmt.Println("✓ configuration valid")

	log, err := logging.New(cfg.Global.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	client := stride.NewClient(cfg.Stride, log)

	if !client.Health(ctx) {
		fmt.Fprintf(os.Stderr, "✗ STRIDE-GPT API unreachable at %s\n", cfg.Stride.APIURL)
		return fmt.Errorf("API health check failed")
	}
	fmt.Printf("✓ STRIDE-GPT API reachable at %s\n", cfg.Stride.APIURL)

	usage, err := client.GetUsage(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ account %s (%s plan): %d of %d analyses used this period\n",
		usage.Account, usage.Plan, usage.AnalysesUsed, usage.AnalysesLimit)
	return nil
}
