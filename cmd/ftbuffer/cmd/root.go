/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/ftbuffer/pkg/config"
	"github.com/ssargent/ftbuffer/pkg/header"
	"github.com/ssargent/ftbuffer/pkg/logging"
)

type contextKey string

const runtimeKey contextKey = "runtime"

// runtime is what PersistentPreRunE resolves for every subcommand
type runtime struct {
	config  *config.Config
	logger  *logrus.Logger
	decoder *header.Decoder
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ftbuffer",
	Short: "ftbuffer - FieldTrip realtime buffer header toolkit",
	Long: `ftbuffer decodes the header records of a FieldTrip realtime buffer:
channel count, sample rate, data type, sample and event counts, and
channel labels. It reads capture files, keeps an archive of raw header
records and serves a decode API over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey, rt))
		return nil
	},
}

// loadRuntime reads the config file (falling back to defaults when it does
// not exist) and applies flag overrides
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("byte-order") {
		cfg.Decoder.ByteOrder, _ = cmd.Flags().GetString("byte-order")
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	order, _ := cfg.Decoder.ByteOrder()
	return &runtime{
		config:  cfg,
		logger:  logger,
		decoder: header.NewDecoder(order, header.WithMaxChannels(cfg.Decoder.MaxChannels)),
	}, nil
}

// runtimeFrom returns the runtime stored by PersistentPreRunE
func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey).(*runtime)
	if !ok {
		return nil, fmt.Errorf("runtime not found in context")
	}
	return rt, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/ftbuffer/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("byte-order", "little", "Byte order of header records (little or big)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the header archive")
}
