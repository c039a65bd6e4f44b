package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"brainprep/internal/emit"
)

func newFakeLabelsCommand(ctx *commandContext) *cobra.Command {
	var seed uint64
	var meanAge, stdAge float64

	cmd := &cobra.Command{
		Use:   "fake-labels",
		Short: "Generate synthetic label files for already-copied output",
		Long: "Generate per-group subjects/age/male files under fake_labels/, " +
			"matching the copied rp1 segmentations when no real label source exists. " +
			"Ages draw from a seeded normal distribution, so a fixed seed reproduces identical files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths, err := cfg.DataPaths()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			opts := emit.FakeOptions{
				Seed:    cfg.FakeLabels.Seed,
				MeanAge: cfg.FakeLabels.MeanAge,
				StdAge:  cfg.FakeLabels.StdAge,
				MinAge:  cfg.FakeLabels.MinAge,
				MaxAge:  cfg.FakeLabels.MaxAge,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("mean-age") {
				opts.MeanAge = meanAge
			}
			if cmd.Flags().Changed("std-age") {
				opts.StdAge = stdAge
			}

			if err := emit.WriteFakeLabels(paths.OutputRoot, opts, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote synthetic labels to %s\n",
				filepath.Join(paths.OutputRoot, emit.FakeLabelsSubdir))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (overrides fake_labels.seed)")
	cmd.Flags().Float64Var(&meanAge, "mean-age", 0, "Mean of the age distribution")
	cmd.Flags().Float64Var(&stdAge, "std-age", 0, "Standard deviation of the age distribution")
	return cmd
}
