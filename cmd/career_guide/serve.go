package main

import (
	"context"
	"fmt"

	"github.com/jonathan/career-guide/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the guidance HTTP API",
	Long:  `Start an HTTP server exposing /api/generate-guidance, /api/catalog, /health and /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config or PORT, then 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	gen, closeGen, err := buildGenerator(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeGen(); err != nil {
			logger.Warn("failed to release generator resources", zap.Error(err))
		}
	}()

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		RequestTimeout: cfg.RequestTimeout.Std(),
	}, gen, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("career guidance API configured",
		zap.Int("port", cfg.Port),
		zap.String("backend", cfg.Backend),
		zap.Bool("enhance", cfg.Enhance))

	return srv.Start()
}
