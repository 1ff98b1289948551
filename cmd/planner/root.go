package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cspace-planner/internal/config"
	"cspace-planner/internal/geometry"
	"cspace-planner/internal/logging"
	"cspace-planner/internal/planner"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath     string
	logLevel       string
	blockMode      string
	spatialIndex   bool
	pruneContained bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Shortest collision-free paths for a diamond robot among polygons",
		Long: `planner inflates polygonal obstacles by a diamond-shaped robot footprint,
builds the visibility graph of the resulting configuration space and runs
Dijkstra from the robot's start to the query goal.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a planner.yaml configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.blockMode, "block-mode", "", "Segment blocking rule: covered or interior")
	flags.BoolVar(&opts.spatialIndex, "spatial-index", false, "Prefilter obstacles with an R-tree")
	flags.BoolVar(&opts.pruneContained, "prune-contained", false, "Drop c-space obstacles contained in another")

	cmd.AddCommand(
		newPlanCmd(opts),
		newGraphCmd(opts),
		newInflateCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolve loads the config file and applies flags the user set explicitly
func (o *rootOptions) resolve(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("block-mode") {
		cfg.Planner.BlockMode = o.blockMode
	}
	if flags.Changed("spatial-index") {
		cfg.Planner.SpatialIndex = o.spatialIndex
	}
	if flags.Changed("prune-contained") {
		cfg.Planner.PruneContained = o.pruneContained
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel())
	return cfg, logger, nil
}

// newPlanner builds a planner from the resolved configuration
func (o *rootOptions) newPlanner(cmd *cobra.Command) (*planner.Planner, config.Config, *slog.Logger, error) {
	cfg, logger, err := o.resolve(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	return planner.New(cfg.PlannerOptions(logger)...), cfg, logger, nil
}

func formatPoint(p geometry.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
