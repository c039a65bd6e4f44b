package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"brainprep/internal/labels"
	"brainprep/internal/pipeline"
)

func newLabelsCommand(ctx *commandContext) *cobra.Command {
	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "Label source utilities",
	}

	labelsCmd.AddCommand(newLabelsParseCommand(ctx))
	return labelsCmd
}

func newLabelsParseCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse the label source and preview the resolved records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := csvPath
			if source == "" {
				source = cfg.Labels.Source
			}
			if source == "" {
				return fmt.Errorf("no label source; pass --csv or set labels.source")
			}

			opts, err := pipeline.LabelOptions(cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			opts.Logger = logger

			file, err := os.Open(source)
			if err != nil {
				return fmt.Errorf("open label source: %w", err)
			}
			defer file.Close()

			records, diags, err := labels.Parse(file, opts)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(records))
			for id := range records {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			shown := ids
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			rows := make([][]string, 0, len(shown))
			for _, id := range shown {
				record := records[id]
				rows = append(rows, []string{
					id,
					record.ID.Group,
					strconv.Itoa(record.Age),
					strconv.Itoa(record.Sex.Flag()),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(out,
					[]string{"Subject", "Group", "Age", "Male"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
				))
			}
			if len(shown) < len(ids) {
				fmt.Fprintf(out, "... %d more records\n", len(ids)-len(shown))
			}
			fmt.Fprintf(out, "%d records from %d data rows", len(records), diags.DataRows)
			if skipped := diags.Skipped(); skipped > 0 {
				fmt.Fprintf(out, " (%d skipped: %d short, %d bad ID, %d bad age, %d bad sex)",
					skipped, diags.ShortRows, diags.BadID, diags.BadAge, diags.BadSex)
			}
			if diags.Overwrites > 0 {
				fmt.Fprintf(out, ", %d duplicate IDs overwritten", diags.Overwrites)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Label source file (overrides labels.source)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to list (0 lists all)")
	return cmd
}
