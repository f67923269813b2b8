package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/podcast-growth/internal/config"
	"github.com/jonathan/podcast-growth/internal/logger"
	"github.com/jonathan/podcast-growth/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing the episode analysis endpoints with NDJSON progress streaming.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != 0 {
		cfg.Port = servePort
	}

	log := logger.New()

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
