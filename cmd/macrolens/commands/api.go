package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lrivero/macrolens/internal/api"
	"github.com/lrivero/macrolens/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health               - Health check
  GET  /api/macro/snapshot   - Latest MacroSnapshot
  GET  /api/macro/signal     - Latest MacroSignal
  POST /api/macro/evaluate   - Trigger an evaluation cycle (rate limited)
  GET  /api/macro/stream     - Websocket stream of fresh evaluations

Example:
  go run ./cmd/macrolens api
  go run ./cmd/macrolens api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	macroHandler := handlers.NewMacroHandler(
		rt.orchestrator, rt.evaluations, rt.inputs, rt.correlations, rt.cache, rt.limiter, rt.log,
	)
	router := api.NewRouter(macroHandler, rt.hub, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	rt.log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", rt.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("Server stopped")
	return nil
}
