package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/api"
	"github.com/tamilansjob/apicheck/internal/config"
	"github.com/tamilansjob/apicheck/internal/logging"
	"github.com/tamilansjob/apicheck/internal/store/postgres"
)

// newServeCmd creates and configures the 'serve' subcommand. It exposes
// previously persisted runs over a small HTTP API backed by Postgres.
func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves persisted conformance runs over HTTP",
		Long: `Starts an HTTP server exposing the run history recorded by 'apicheck run'
when a Postgres store is configured. Endpoints: /v1/runs, /v1/runs/{run_id},
/v1/runs/{run_id}/results, /healthz, and /metrics.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")

	return cmd
}

func runServer(parent context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush
	zap.ReplaceGlobals(logger)

	if cfg.Store.Provider != "postgres" {
		return errors.New("serve requires store.provider=postgres")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runStore, err := postgres.NewRunStore(ctx, postgres.RunStoreConfig{
		DSN:      cfg.Store.DSN,
		MaxConns: cfg.Store.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("init run store: %w", err)
	}
	defer runStore.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	apiServer := api.NewServer(runStore, registry, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	select {
	case serveErr := <-errCh:
		return fmt.Errorf("http server: %w", serveErr)
	default:
	}
	logger.Info("shutdown complete")
	return nil
}
