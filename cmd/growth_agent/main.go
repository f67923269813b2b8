// Package main provides the entry point for the podcast growth agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "growth_agent",
	Short: "Podcast growth agent",
	Long:  "Growth agent turns a podcast episode into a concrete promotion plan: transcript, quotable lines, keywords, community targets and cross-promotion leads, served over a streaming HTTP API or a one-shot CLI run.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
