package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woonki/tweetql/internal/graph"
	"github.com/woonki/tweetql/internal/server"
	"github.com/woonki/tweetql/internal/ui"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST)
  - GraphQL Playground at /graphql (GET), unless disabled in the config
  - Health check at /healthz (GET)

Examples:
  # Start server on the configured port (default 4000)
  tweetql serve

  # Start server on a custom port
  tweetql serve --port 3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		return runServer()
	},
}

func runServer() error {
	core, err := newCore()
	if err != nil {
		return err
	}
	defer core.Close()

	if cfg.Seed.Watch && cfg.Seed.File != "" {
		if err := core.WatchSeed(cfg.Seed.File, nil); err != nil {
			return fmt.Errorf("watching seed file: %w", err)
		}
	}

	schema, err := graph.NewSchema(newResolver(core))
	if err != nil {
		return fmt.Errorf("binding schema: %w", err)
	}

	handler := server.NewRouter(schema, server.Options{
		Path:       cfg.Server.Path,
		Playground: cfg.PlaygroundEnabled(),
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.MovieTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Set up signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		base := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		fmt.Println(ui.Header.Render("tweetql"))
		fmt.Println(ui.Label("GraphQL", ui.URL.Render(base+cfg.Server.Path)))
		if cfg.PlaygroundEnabled() {
			fmt.Println(ui.Label("Playground", ui.URL.Render(base+cfg.Server.Path)))
		}
		logger.Info("server starting", zap.String("addr", srv.Addr))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped")
	}

	return nil
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}
