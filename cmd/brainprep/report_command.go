package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"brainprep/internal/manifest"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var latest bool
	var limit int
	var problemsOnly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show recorded runs and per-subject outcomes from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths, err := cfg.DataPaths()
			if err != nil {
				return err
			}

			store, err := manifest.Open(paths.OutputRoot)
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if latest && runID == "" {
				run, err := store.LatestRun(cmd.Context())
				if err != nil {
					return err
				}
				if run == nil {
					fmt.Fprintln(out, "No recorded runs")
					return nil
				}
				runID = run.ID
			}

			if runID != "" {
				outcomes, err := store.RunSubjects(cmd.Context(), runID, problemsOnly)
				if err != nil {
					return err
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No subjects recorded for run %s\n", runID)
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, outcome := range outcomes {
					rows = append(rows, []string{
						outcome.Subject,
						outcome.Group,
						string(outcome.Outcome),
						outcome.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Subject", "Group", "Outcome", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					yesNo(run.Finished),
					run.Release,
					strconv.Itoa(run.Resolved),
					strconv.Itoa(run.LabelOnly),
					strconv.Itoa(run.DiskOnly),
					strconv.Itoa(run.CopyErrors),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Started", "Finished", "Release", "Resolved", "Label only", "Disk only", "Copy errors"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show per-subject outcomes for this run ID")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show per-subject outcomes for the most recent run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list")
	cmd.Flags().BoolVar(&problemsOnly, "problems", false, "Only list subjects that were not copied")
	return cmd
}
