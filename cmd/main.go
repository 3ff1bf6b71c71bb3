// Package main provides the CLI entrypoint of the briefing map tool.
// It wires subcommands (poi, render, serve), loads configuration, and initializes logging.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"briefing/internal/config"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root command has
// loaded configuration.
type app struct {
	cfg          *config.Config
	configPath   string
	resetCorrupt bool
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "briefing",
		Short:         "Mission briefing map: manage points of interest and render them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yml", "Config File Path")
	rootCmd.PersistentFlags().BoolVar(&a.resetCorrupt, "reset-corrupt", false,
		"Start from an empty collection when the durable record is corrupt")

	rootCmd.AddCommand(
		poiCommand(a),
		renderCommand(a),
		serveCommand(a),
	)

	return rootCmd
}

// setup loads .env, the config file and the logger, and attaches a session
// ID to the command context so every log line of one invocation can be grouped.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env: %w", err)
	}

	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("could not set up logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithFields(ctx,
		zap.String("session_id", uuid.NewString()),
		zap.String("command", cmd.Name()))
	cmd.SetContext(ctx)

	logger.Debug(ctx, "config loaded", zap.String("store", cfg.Store.Path))

	return nil
}

// main builds the root command and executes it, exiting non-zero on failure.
func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	err := newRootCommand().ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, serrors.ErrCorruptStore) {
			fmt.Fprintln(os.Stderr, "hint: rerun with --reset-corrupt to start from an empty collection")
		}
		os.Exit(1) //nolint: gocritic
	}
}
