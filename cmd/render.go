package main

import (
	"fmt"
	"os"
	"strings"

	"briefing/internal/maprender"
	"briefing/pkg/logger"
	"briefing/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func rendererFor(format string) (maprender.Renderer, error) {
	switch strings.ToLower(format) {
	case "html":
		return maprender.NewHTML(), nil
	case "geojson":
		return maprender.NewGeoJSON(), nil
	default:
		return nil, serrors.With(serrors.ErrRender, "unknown format %q, want html or geojson", format)
	}
}

func renderCommand(a *app) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the collection to a standalone map file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("output") {
				output = a.cfg.Map.Output
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Map.Format
			}

			r, err := rendererFor(format)
			if err != nil {
				return err
			}

			svc, err := a.openService(ctx, nil)
			if err != nil {
				return err
			}
			artifact, err := svc.RenderWith(ctx, r)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, artifact.Content, 0o644); err != nil { //nolint: gosec
				return fmt.Errorf("could not write %s: %w", output, err)
			}

			logger.Info(ctx, "map written",
				zap.String("path", output),
				zap.Int("markers", len(artifact.Markers)),
				zap.Int("skipped", artifact.Skipped))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d markers)\n", output, len(artifact.Markers))

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "map.html", "Artifact output path")
	cmd.Flags().StringVar(&format, "format", "html", "Artifact format: html or geojson")

	return cmd
}
