package main

import (
	"os"

	"github.com/spf13/cobra"

	"cspace-planner/internal/loader"
)

func newInflateCmd(opts *rootOptions) *cobra.Command {
	var (
		radius      float64
		geojsonPath string
	)

	cmd := &cobra.Command{
		Use:   "inflate <obstacles>",
		Short: "Print the configuration-space obstacles for a robot radius",
		Long:  `Writes each inflated obstacle on its own line in the obstacle file format.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, logger, err := opts.newPlanner(cmd)
			if err != nil {
				return err
			}

			obstacles, err := loader.LoadObstacles(args[0], logger)
			if err != nil {
				return err
			}
			inflated, err := p.Inflate(obstacles, radius)
			if err != nil {
				return err
			}

			if err := loader.WriteObstacles(cmd.OutOrStdout(), inflated); err != nil {
				return err
			}
			if geojsonPath != "" {
				return writeFeatureFile(geojsonPath, func(f *os.File) error {
					return loader.WriteGeoJSON(f, loader.PolygonsFeatureCollection(inflated, loader.LayerCSpace))
				})
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Robot radius")
	cmd.Flags().StringVar(&geojsonPath, "geojson", "", "Also write the obstacles as GeoJSON to this file")
	return cmd
}
