package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cspace-planner/internal/loader"
	"cspace-planner/internal/planner"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var geojsonPath string

	cmd := &cobra.Command{
		Use:   "plan <obstacles> <robot> <query>",
		Short: "Compute the shortest path from the robot's start to the query goal",
		Long: `Reads an obstacle file (text or GeoJSON), a robot file ("x,y r") and a
query file ("x,y"), then prints the waypoints and cost of the shortest path.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, logger, err := opts.newPlanner(cmd)
			if err != nil {
				return err
			}

			obstacles, err := loader.LoadObstacles(args[0], logger)
			if err != nil {
				return err
			}
			robot, err := loader.LoadRobot(args[1])
			if err != nil {
				return err
			}
			goal, err := loader.LoadQuery(args[2])
			if err != nil {
				return err
			}

			result, err := p.Plan(obstacles, robot.Start, goal, robot.Radius)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Reachable() {
				fmt.Fprintf(out, "Path: %s\n", formatPath(result.Path))
				fmt.Fprintf(out, "Cost: %.6f\n", result.Path.Cost)
			} else {
				fmt.Fprintln(out, planner.ErrUnreachableGoal.Error())
			}

			if geojsonPath != "" {
				return writeFeatureFile(geojsonPath, func(f *os.File) error {
					return loader.WriteGeoJSON(f, loader.FeatureCollection(result))
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&geojsonPath, "geojson", "", "Also write every planning stage as GeoJSON to this file")
	return cmd
}

func formatPath(path *planner.Path) string {
	parts := make([]string, 0, len(path.Points))
	for _, p := range path.Points {
		parts = append(parts, formatPoint(p))
	}
	return strings.Join(parts, " -> ")
}

func writeFeatureFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
