package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"briefing/internal/display"
	"briefing/internal/watch"
	"briefing/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCommand(a *app) *cobra.Command {
	var watchRecord bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map in a local display with a Refresh button",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cmd.Flags().Changed("watch") {
				a.cfg.Watch.Enabled = watchRecord
			}

			return a.serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&watchRecord, "watch", false, "Refresh the display whenever the durable record changes")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	tel, err := display.NewTelemetry()
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "could not stop telemetry", zap.Error(err))
		}
	}()

	svc, err := a.openService(ctx, tel.MeterProvider())
	if err != nil {
		return err
	}

	handler := display.NewHandler(svc)
	if err := handler.Refresh(ctx); err != nil {
		logger.Error(ctx, "initial render failed", zap.Error(err))
	}

	var watcher *watch.Watcher
	if a.cfg.Watch.Enabled {
		if watcher, err = watch.New(watch.NewOptions(a.cfg), handler.Refresh); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := display.NewOptions(a.cfg)
	server := display.NewServer(display.Deps{Handler: handler, Telemetry: tel}, opts)

	errCh := make(chan error, 2)
	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", opts.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not start webserver: %w", err)
		}
	}()

	if watcher != nil {
		go func() {
			if err := watcher.Run(ctx); err != nil {
				errCh <- fmt.Errorf("record watcher stopped: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancelShutdown()

	logger.Info(ctx, "stopping webserver...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "could not stop webserver", zap.Error(err))
	}

	return runErr
}
