/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/config"
)

// initialize writes a fresh config with a generated API key. An existing
// config is left alone unless force is set.
func initialize(configPath, dataDir string, force bool) (*config.Config, bool, error) {
	if config.ConfigExists(configPath) && !force {
		cfg, err := config.LoadConfig(configPath)
		return cfg, false, err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, false, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, false, fmt.Errorf("failed to create data directory: %w", err)
	}
	return cfg, true, nil
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with a generated API key",
	Long: `Create the ftbuffer config file and data directory for local use.

This command will:
- Write a config file with default decoder and logging settings
- Generate an API key for the REST server
- Create the data directory for the header archive

Examples:
  ftbuffer init
  ftbuffer init --config ./ftbuffer.yaml --data-dir ./data
  ftbuffer init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		cfg, created, err := initialize(configPath, dataDir, force)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Config already exists at %s. Use --force to regenerate it.\n", configPath)
			return nil
		}

		cmd.Printf("✅ ftbuffer initialized\n")
		cmd.Printf("Config file:    %s\n", configPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key:        %s\n", cfg.Security.APIKey)
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  ftbuffer serve --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
