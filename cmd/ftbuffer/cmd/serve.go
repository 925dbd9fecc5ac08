/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/api"
	"github.com/ssargent/ftbuffer/pkg/storage"
)

// archivePath is where the header archive lives inside the data directory
func archivePath(dataDir string) string {
	return filepath.Join(dataDir, "archive")
}

// openArchive opens the header archive under the configured data directory
func openArchive(rt *runtime) (*storage.Archive, error) {
	if err := os.MkdirAll(rt.config.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	archive, err := storage.Open(archivePath(rt.config.DataDir), rt.decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to open header archive: %w", err)
	}
	return archive, nil
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the ftbuffer REST API server.

The server decodes header records posted to it and keeps an archive of raw
records in the data directory. All routes under /api/v1 require the API key
from the config file (X-API-Key header). Prometheus metrics are served
unauthenticated on /metrics.

Examples:
  ftbuffer serve
  ftbuffer serve --port 9090 --bind 0.0.0.0
  ftbuffer serve --api-key mysecretkey --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		return runServer(cmd, rt)
	},
}

// runServer applies the server flags of cmd to the runtime config, opens the
// archive and blocks serving the API
func runServer(cmd *cobra.Command, rt *runtime) error {
	cfg := rt.config

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind") {
		cfg.Bind, _ = cmd.Flags().GetString("bind")
	}
	if cmd.Flags().Changed("api-key") {
		cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
		return fmt.Errorf("no API key configured (run 'ftbuffer init' or pass --api-key)")
	}

	archive, err := openArchive(rt)
	if err != nil {
		return err
	}
	defer archive.Close()

	server := api.NewServer(archive, rt.decoder, api.ServerConfig{
		Bind:          cfg.Bind,
		Port:          cfg.Port,
		APIKey:        cfg.Security.APIKey,
		MaxRecordSize: cfg.Decoder.MaxRecordSize,
	}, api.NewMetrics(prometheus.DefaultRegisterer), rt.logger)

	rt.logger.WithField("data_dir", cfg.DataDir).Info("header archive opened")
	return api.StartServer(server)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
}
