package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/loader"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var (
		radius      float64
		robotPath   string
		queryPath   string
		geojsonPath string
	)

	cmd := &cobra.Command{
		Use:   "graph <obstacles>",
		Short: "Print the visibility graph of the configuration space",
		Long: `Inflates the obstacles and prints every visibility edge with its length.
With --robot the robot's start and radius are used; with --query the goal
joins the graph too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, logger, err := opts.newPlanner(cmd)
			if err != nil {
				return err
			}

			obstacles, err := loader.LoadObstacles(args[0], logger)
			if err != nil {
				return err
			}

			var start, goal *geometry.Point
			if robotPath != "" {
				robot, err := loader.LoadRobot(robotPath)
				if err != nil {
					return err
				}
				start = &robot.Start
				if !cmd.Flags().Changed("radius") {
					radius = robot.Radius
				}
			}
			if queryPath != "" {
				q, err := loader.LoadQuery(queryPath)
				if err != nil {
					return err
				}
				goal = &q
			}

			inflated, err := p.Inflate(obstacles, radius)
			if err != nil {
				return err
			}
			edges, err := p.Visibility(inflated, start, goal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range edges {
				fmt.Fprintf(out, "%s - %s %.6f\n", formatPoint(e.A), formatPoint(e.B), e.Length)
			}
			fmt.Fprintf(out, "%d edges\n", len(edges))

			if geojsonPath != "" {
				return writeFeatureFile(geojsonPath, func(f *os.File) error {
					fc := loader.PolygonsFeatureCollection(inflated, loader.LayerCSpace)
					loader.AddEdges(fc, edges)
					return loader.WriteGeoJSON(f, fc)
				})
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&radius, "radius", "r", 0, "Robot radius")
	flags.StringVar(&robotPath, "robot", "", "Robot file providing the start and radius")
	flags.StringVar(&queryPath, "query", "", "Query file providing the goal")
	flags.StringVar(&geojsonPath, "geojson", "", "Also write the graph as GeoJSON to this file")
	return cmd
}
