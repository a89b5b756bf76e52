package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/raincheck/internal/api/http"
	"github.com/i474232898/raincheck/internal/logger"
	"github.com/i474232898/raincheck/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the raincheck HTTP server",
	Long:  `Start the HTTP API and keep the configured locations warm in the cache.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	// Scheduler that periodically refreshes the cache.
	sched := scheduler.New(a.cfg.Locations, a.cfg.FetchInterval, a.service)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	server := httpapi.NewApp("raincheck", true)
	httpapi.RegisterRoutes(server, a.service, a.resolver)

	go func() {
		logger.Infof("raincheck listening on :%s", a.cfg.Port)
		if err := server.Listen(":" + a.cfg.Port); err != nil {
			logger.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Infof("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("error during shutdown: %v", err)
	}
	return nil
}
