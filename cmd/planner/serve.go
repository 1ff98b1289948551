package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cspace-planner/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the stateless HTTP planning server",
		Long: `Exposes POST /plan, POST /visibility, GET /health and GET /metrics.
Every request is planned independently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, logger, err := opts.newPlanner(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			srv := &http.Server{
				Addr:    cfg.Server.Addr,
				Handler: server.New(p, logger).Handler(),
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)

			go func() {
				logger.Info("planner server starting",
					"addr", srv.Addr,
					"block_mode", p.Options().BlockMode,
					"spatial_index", p.Options().SpatialIndex,
				)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err

			case sig := <-shutdown:
				logger.Info("shutdown started", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
					return srv.Close()
				}
				logger.Info("planner server stopped gracefully")
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	return cmd
}
