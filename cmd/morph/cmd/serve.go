package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/morphium/internal/config"
	"github.com/MeKo-Tech/morphium/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the morph API",
	Long: `Start an HTTP server that provides REST API endpoints for warping and
blending images.

The server provides the following endpoints:
  POST /morph      - Morph two uploaded images at a blend position
  POST /merge      - Merge three uploaded images with barycentric weights
  POST /grid       - Compute warped grid polylines
  GET  /health     - Health check endpoint
  GET  /metrics    - Prometheus metrics
  GET  /ws/animate - WebSocket animation streaming

Examples:
  morph serve
  morph serve --port 8080
  morph serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}

	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	corsOrigin := cfg.Server.CORSOrigin
	if cmd.Flags().Changed("cors-origin") {
		corsOrigin, _ = cmd.Flags().GetString("cors-origin")
	}

	maxUploadMB := cfg.Server.MaxUploadMB
	if cmd.Flags().Changed("max-upload-size") {
		maxUploadMB, _ = cmd.Flags().GetInt("max-upload-size")
	}

	timeout := cfg.Server.TimeoutSec
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetInt("timeout")
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if cmd.Flags().Changed("shutdown-timeout") {
		shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}

	rateLimit := cfg.Server.RateLimit
	if cmd.Flags().Changed("rate-limit-enabled") {
		rateLimit.Enabled, _ = cmd.Flags().GetBool("rate-limit-enabled")
	}
	if cmd.Flags().Changed("requests-per-minute") {
		rateLimit.RequestsPerMinute, _ = cmd.Flags().GetInt("requests-per-minute")
	}
	if cmd.Flags().Changed("max-data-per-day") {
		rateLimit.MaxDataPerDayMB, _ = cmd.Flags().GetInt("max-data-per-day")
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
	}

	params, err := warpParamsFromConfig(cmd, cfg)
	if err != nil {
		return err
	}
	opts := warpOptionsFromConfig(cmd, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverConfig := server.Config{
		Host:        host,
		Port:        port,
		CORSOrigin:  corsOrigin,
		MaxUploadMB: int64(maxUploadMB),
		TimeoutSec:  timeout,
		WarpParams:  params,
		WarpWorkers: opts.Workers,
		GridSpacing: cfg.Grid.Spacing,
		RateLimit: config.RateLimitConfig{
			Enabled:           rateLimit.Enabled,
			RequestsPerMinute: rateLimit.RequestsPerMinute,
			MaxDataPerDayMB:   rateLimit.MaxDataPerDayMB,
		},
	}

	morphServer, err := server.NewServer(serverConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	morphServer.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(timeout) * time.Second,
		WriteTimeout:      time.Duration(timeout) * time.Second,
	}

	go func() {
		slog.Info("Starting morph server", "host", host, "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Server context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(shutdownTimeout)*time.Second)
	defer shutdownCancel()

	slog.Info("Shutting down server", "timeout_sec", shutdownTimeout)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("cors-origin", "*", "allowed CORS origin")
	serveCmd.Flags().Int("max-upload-size", 50, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 120, "request processing timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "graceful shutdown timeout in seconds")
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable request rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 60, "allowed requests per minute per client")
	serveCmd.Flags().Int("max-data-per-day", 1024, "allowed upload data per day per client in MB")
}
