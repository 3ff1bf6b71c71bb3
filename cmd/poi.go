package main

import (
	"fmt"
	"strconv"

	"briefing/pkg/domain"
	"briefing/pkg/serrors"

	"github.com/spf13/cobra"
)

type poiFlags struct {
	name        string
	lat         float64
	lon         float64
	affiliation string
}

func (f *poiFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Display name of the point")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Longitude in decimal degrees")
	cmd.Flags().StringVar(&f.affiliation, "affiliation", "", "Friend, Foe or Neutral")
}

// apply overrides the fields of base whose flags were set on cmd.
func (f *poiFlags) apply(cmd *cobra.Command, base domain.PointOfInterest) (domain.PointOfInterest, error) {
	flags := cmd.Flags()

	name, lat, lon, aff := base.Name, base.Lat, base.Lon, base.Affiliation
	if flags.Changed("name") {
		name = f.name
	}
	if flags.Changed("lat") {
		lat = f.lat
	}
	if flags.Changed("lon") {
		lon = f.lon
	}
	if flags.Changed("affiliation") {
		parsed, err := domain.ParseAffiliation(f.affiliation)
		if err != nil {
			return domain.PointOfInterest{}, err
		}
		aff = parsed
	}

	return domain.NewPointOfInterest(name, lat, lon, aff)
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrIndex, err, "index %q is not a number", arg)
	}

	return index, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func poiCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poi",
		Short: "Manage the points of interest in the durable record",
	}

	cmd.AddCommand(
		poiAddCommand(a),
		poiListCommand(a),
		poiUpdateCommand(a),
		poiDeleteCommand(a),
	)

	return cmd
}

func poiAddCommand(a *app) *cobra.Command {
	var f poiFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a point to the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			poi, err := f.apply(cmd, domain.PointOfInterest{})
			if err != nil {
				return err
			}

			svc, err := a.openService(ctx, nil)
			if err != nil {
				return err
			}
			if err := svc.Add(ctx, poi); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %d\t%s\n", len(svc.List(ctx))-1, poi.Name)

			return err
		},
	}

	f.register(cmd)
	for _, name := range []string{"name", "lat", "lon", "affiliation"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func poiListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the collection as tab-separated index, name, lat, lon, affiliation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, p := range store.List(ctx) {
				if _, err := fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n",
					i, p.Name, formatCoord(p.Lat), formatCoord(p.Lon), p.Affiliation); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func poiUpdateCommand(a *app) *cobra.Command {
	var f poiFlags

	cmd := &cobra.Command{
		Use:   "update INDEX",
		Short: "Replace the point at INDEX; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			svc, err := a.openService(ctx, nil)
			if err != nil {
				return err
			}
			pois := svc.List(ctx)
			if index < 0 || index >= len(pois) {
				return serrors.With(serrors.ErrIndex, "index %d out of range [0, %d)", index, len(pois))
			}

			poi, err := f.apply(cmd, pois[index])
			if err != nil {
				return err
			}
			if err := svc.Update(ctx, index, poi); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated %d\t%s\n", index, poi.Name)

			return err
		},
	}

	f.register(cmd)

	return cmd
}

func poiDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete INDEX",
		Short: "Remove the point at INDEX; later points shift down by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			svc, err := a.openService(ctx, nil)
			if err != nil {
				return err
			}
			if err := svc.Delete(ctx, index); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", index)

			return err
		},
	}
}
