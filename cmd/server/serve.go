package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/mealledger/internal/auth"
	"github.com/mmynk/mealledger/internal/config"
	"github.com/mmynk/mealledger/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect RPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().Int("port", 0, "HTTP listen port")
	a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var jwtManager *auth.JWTManager
	if cfg.AuthMode != config.AuthOff {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	}

	if cfg.BillingCron != "" {
		sched := scheduler.New(cfg.BillingCron, b.ledger)
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() { <-sched.Stop().Done() }()
	}

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(newHandler(cfg, b.ledger, jwtManager), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
