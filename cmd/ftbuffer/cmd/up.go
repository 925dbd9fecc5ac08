/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/config"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start the ftbuffer server",
	Long: `Bootstrap ftbuffer by creating a config file with a generated API key if
one does not exist, then start the REST API server. This is the recommended
way to get ftbuffer running.

Examples:
  ftbuffer up
  ftbuffer up --data-dir ./mydata --port 9000
  ftbuffer up --config ./custom-config.yaml --print-keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}

		cfg, created, err := initialize(configPath, rt.config.DataDir, false)
		if err != nil {
			return err
		}
		if created {
			cmd.Printf("🔧 First run detected. Configuration created at %s\n", configPath)
			if printKeys {
				cmd.Printf("\n🔑 API key: %s\n", cfg.Security.APIKey)
				cmd.Printf("⚠️  Store this key securely! It is also saved in %s\n\n", configPath)
			}
			// Pick up the generated key; flag overrides still apply.
			if rt, err = loadRuntime(cmd); err != nil {
				return err
			}
		} else {
			cmd.Printf("✅ Loaded existing configuration from %s\n", configPath)
		}

		cmd.Printf("📁 Data directory: %s\n", rt.config.DataDir)
		return runServer(cmd, rt)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	upCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	upCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
	upCmd.Flags().Bool("print-keys", false, "Print the generated API key to console")
}
