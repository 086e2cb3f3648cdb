package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/torrejon/vecinored/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "vecinored",
	Short:         "Neighbor census service for Torrejón",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML, or TOML with a .toml extension)")
	rootCmd.AddCommand(serveCmd, stdioCmd, healthcheckCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies the --config flag before reading configuration.
func loadConfig() (config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("VECINORED_CONFIG_PATH", configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}
