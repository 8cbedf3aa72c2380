// Package main provides the career_guide command: the guidance HTTP API and offline tools.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "career_guide",
	Short:         "Career guidance from skills, interests, education and goals",
	Long:          "career_guide recommends job roles, resume tips and next steps for a student profile, over HTTP or from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (environment variables override it)")
}

// loadRuntime loads configuration and builds the logger every subcommand uses.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
