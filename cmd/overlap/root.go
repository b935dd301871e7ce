package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/akmonengine/cuboid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagLayout   = "layout"
	flagWorkers  = "workers"
	flagCellSize = "cell-size"
	flagCells    = "cells"
	flagLogLevel = "log-level"
)

// newRootCmd builds the overlap command. Every flag can also be set with an
// OVERLAP_ prefixed environment variable, e.g. OVERLAP_CELL_SIZE.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var bindErr error

	cmd := &cobra.Command{
		Use:          "overlap",
		Short:        "check that the cuboids of a layout do not overlap",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bindErr != nil {
				return errors.Wrap(bindErr, "could not bind flags")
			}
			return run(cmd, v)
		},
	}

	defaults := cuboid.DefaultConfig()
	cmd.Flags().StringP(flagLayout, "l", "", "layout file (yaml, json or toml)")
	cmd.Flags().Int(flagWorkers, defaults.Workers, "number of workers used for detection")
	cmd.Flags().Float64(flagCellSize, defaults.CellSize, "side of a broad phase grid cell")
	cmd.Flags().Int(flagCells, defaults.NumCells, "number of broad phase grid cells")
	cmd.Flags().String(flagLogLevel, "info", "log level (trace, debug, info, warn, error)")

	bindErr = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("OVERLAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	log, err := newLogger(v.GetString(flagLogLevel))
	if err != nil {
		return err
	}

	path := v.GetString(flagLayout)
	if path == "" {
		return errors.New("a layout file is required (--layout)")
	}

	l, err := loadLayout(path)
	if err != nil {
		log.Error().Err(err).Msg("could not load layout")
		return err
	}

	cfg := cuboid.Config{
		CellSize: v.GetFloat64(flagCellSize),
		NumCells: v.GetInt(flagCells),
		Workers:  v.GetInt(flagWorkers),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	space := cuboid.NewSpace(cfg)
	space.Logger = log
	for _, c := range l.cuboids {
		space.Add(c)
	}

	log.Info().Str("layout", path).Int("cuboids", len(l.cuboids)).Msg("checking layout")

	err = space.Validate()
	if err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no overlap")
		return nil
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err
	}
	for _, e := range merr.Errors {
		var overlap *cuboid.OverlapError
		if errors.As(e, &overlap) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s overlaps %s\n", l.name(overlap.A), l.name(overlap.B))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
	}

	return errors.Errorf("layout %s is invalid: %d problem(s)", path, len(merr.Errors))
}
