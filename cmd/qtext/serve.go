package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/qtext/internal/cli"
	"github.com/aretw0/qtext/internal/logging"
	httpAdapter "github.com/aretw0/qtext/pkg/adapters/http"
	"github.com/aretw0/qtext/pkg/domain"
	"github.com/aretw0/qtext/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP toolbar API",
	Long:  `Serves stored document sessions over a JSON API with an SSE stream of document diffs and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		port, _ := cmd.Flags().GetString("port")
		format, _ := cmd.Flags().GetString("log-format")

		logger, err := serverLogger(opts.Debug, format)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		var hooks domain.LifecycleHooks
		if opts.Debug {
			hooks = cli.DebugHooks(logger)
		}
		tb, err := cli.NewToolbar(opts, logger, metrics.Hooks(hooks))
		if err != nil {
			return err
		}
		sessions, closeStore, err := cli.NewSessions(opts, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(tb, sessions,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithGatherer(reg),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting qtext server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", fmt.Sprint(sigCtx.Signal()))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("qtext server stopped gracefully")
			return nil
		}
	},
}

func serverLogger(debug bool, format string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	switch logging.Format(format) {
	case logging.FormatText, logging.FormatJSON:
		return logging.NewWithWriter(os.Stderr, level, logging.Format(format)), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("log-format", "json", "Log format: text or json")
}
