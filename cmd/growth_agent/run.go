package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/logger"
	"github.com/jonathan/podcast-growth/internal/pipeline"
	"github.com/jonathan/podcast-growth/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run <episode-url>",
	Short: "Analyze one episode and print the growth plan",
	Long: `Runs the full pipeline for a single episode URL: metadata resolution,
audio download, transcription and growth analysis. Progress goes to stderr,
the final result as JSON to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runEpisodeCmd,
}

var (
	runTitle      string
	runJSONOutput bool
)

func init() {
	runCommand.Flags().StringVarP(&runTitle, "title", "t", "", "Episode title hint to improve matching")
	runCommand.Flags().BoolVar(&runJSONOutput, "json", false, "Print the full pipeline result instead of just the growth plan")
	rootCmd.AddCommand(runCommand)
}

func runEpisodeCmd(_ *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New()

	orch, client, err := pipeline.Build(cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	ref := types.EpisodeReference{
		SourceURL:     args[0],
		SuppliedTitle: runTitle,
	}

	result, err := orch.Run(context.Background(), ref, pipeline.Options{
		OnProgress: func(event types.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", event.Percent, event.Message)
		},
	})
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if runJSONOutput {
		return enc.Encode(result)
	}
	return enc.Encode(result.Analysis)
}
