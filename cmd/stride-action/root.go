// Package main provides the stride-action CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/stride-gpt/stride-action/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stride-action",
	Short: "STRIDE-GPT GitHub Action",
	Long: `STRIDE-GPT GitHub Action - AI-powered threat modeling for your repository.

The action reacts to pull requests, @stride-gpt comments or manual
dispatches, submits the relevant context to the STRIDE-GPT API and posts
the resulting threat report back on the PR or issue.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
