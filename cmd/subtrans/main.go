package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:     "subtrans",
		Short:   "Translate subtitle files with a chat model",
		Version: version,
		Long: `subtrans translates subtitle files chunk by chunk through a chat model,
keeping every cue aligned with its translation.

Backends:
  api      Call a provider API (LLM_PROVIDER: openai, anthropic, deepseek, ...)
  manual   Relay each prompt through the clipboard to a chat UI of your choice

Examples:
  subtrans translate in.srt out.srt --source-lang Japanese --target-lang English
  subtrans translate in.srt out.srt --client-type manual
  subtrans config set llm_provider anthropic
  subtrans checkpoints clear`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFlags(log.Ltime)
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress logs")

	cmd.AddCommand(
		translateCmd(),
		configCmd(),
		checkpointsCmd(),
	)

	return cmd
}
