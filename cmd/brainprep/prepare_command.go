package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"brainprep/internal/emit"
	"brainprep/internal/manifest"
	"brainprep/internal/pipeline"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var release string
	var sexConvention string
	var idCol, ageCol, sexCol int
	var noManifest bool
	var fakeLabels bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Scan, reconcile, copy segmentations, and write label files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if release != "" {
				cfg.Output.Release = release
			}
			if sexConvention != "" {
				cfg.Labels.SexConvention = sexConvention
			}
			if cmd.Flags().Changed("id-col") || cmd.Flags().Changed("age-col") || cmd.Flags().Changed("sex-col") {
				cfg.Labels.IDColumnNames = nil
				cfg.Labels.AgeColumnNames = nil
				cfg.Labels.SexColumnNames = nil
				if cmd.Flags().Changed("id-col") {
					cfg.Labels.IDColumn = idCol
				}
				if cmd.Flags().Changed("age-col") {
					cfg.Labels.AgeColumn = ageCol
				}
				if cmd.Flags().Changed("sex-col") {
					cfg.Labels.SexColumn = sexCol
				}
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			var store *manifest.Store
			if cfg.Output.Manifest && !noManifest {
				paths, err := cfg.DataPaths()
				if err != nil {
					return err
				}
				store, err = manifest.Open(paths.OutputRoot)
				if err != nil {
					return fmt.Errorf("open manifest: %w", err)
				}
				defer store.Close()
			}

			summary, runErr := pipeline.Run(cmd.Context(), pipeline.Options{
				Config:      cfg,
				LabelSource: csvPath,
				Logger:      logger,
				Store:       store,
			})
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			if runErr != nil {
				return runErr
			}
			if fakeLabels {
				opts := emit.FakeOptions{
					Seed:    cfg.FakeLabels.Seed,
					MeanAge: cfg.FakeLabels.MeanAge,
					StdAge:  cfg.FakeLabels.StdAge,
					MinAge:  cfg.FakeLabels.MinAge,
					MaxAge:  cfg.FakeLabels.MaxAge,
				}
				if err := emit.WriteFakeLabels(summary.OutputRoot, opts, logger); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Label source file (overrides labels.source)")
	cmd.Flags().StringVar(&release, "release", "", "Release tag for the rp1/rp2 directories")
	cmd.Flags().StringVar(&sexConvention, "sex-convention", "", `Numeric sex coding: "0=f,1=m" or "1=m,2=f"`)
	cmd.Flags().IntVar(&idCol, "id-col", 0, "Subject ID column (1-based)")
	cmd.Flags().IntVar(&ageCol, "age-col", 0, "Age column (1-based)")
	cmd.Flags().IntVar(&sexCol, "sex-col", 0, "Sex column (1-based)")
	cmd.Flags().BoolVar(&noManifest, "no-manifest", false, "Skip manifest recording for this run")
	cmd.Flags().BoolVar(&fakeLabels, "fake-labels", false, "Also write synthetic labels under fake_labels/")

	return cmd
}

func printSummary(out io.Writer, summary *pipeline.Summary) {
	rows := make([][]string, 0, len(summary.Groups))
	for _, group := range summary.Groups {
		rows = append(rows, []string{group.Group, strconv.Itoa(group.Subjects)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(out,
			[]string{"Group", "Subjects"},
			rows,
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	fmt.Fprintf(out, "Resolved %d subjects into %s\n", summary.Resolved, summary.OutputRoot)
	if summary.RunID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", summary.RunID)
	}
	if summary.SkippedRows > 0 {
		fmt.Fprintf(out, "Skipped label rows: %d\n", summary.SkippedRows)
	}
	if summary.Overwrites > 0 {
		fmt.Fprintf(out, "Duplicate label IDs (last kept): %d\n", summary.Overwrites)
	}
	if len(summary.LabelOnly) > 0 {
		fmt.Fprintf(out, "Label-only subjects (%d): %s\n", len(summary.LabelOnly), previewIDs(summary.LabelOnly))
	}
	if len(summary.DiskOnly) > 0 {
		fmt.Fprintf(out, "Disk-only directories (%d): %s\n", len(summary.DiskOnly), previewIDs(summary.DiskOnly))
	}
	for _, copyErr := range summary.CopyErrors {
		fmt.Fprintf(out, "Excluded %s: %s\n", copyErr.Subject, copyErr.Reason)
	}
}
