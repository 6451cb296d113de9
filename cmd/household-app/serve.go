package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"household-app-go/internal/app"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending migrations before serving")
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("app: starting", "env", cfg.Env, "storage", cfg.StorageDriver)
	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("app: close failed", "err", err)
		}
	}()

	if err := application.Bootstrap(ctx, serveMigrate); err != nil {
		return err
	}

	srv := application.HTTPServer()
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("http: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("app: shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http: graceful shutdown failed", "err", err)
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	log.Info("app: stopped")
	return nil
}
