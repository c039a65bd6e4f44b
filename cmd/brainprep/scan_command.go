package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"brainprep/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var listAll bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List subject directories found under the cohort roots",
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

			dirs, err := scan.Scan(logger, paths.PatientsRoot, paths.ControlsRoot)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if listAll {
				rows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					rows = append(rows, []string{dir.ID.String(), dir.ID.Group, dir.Path})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Subject", "Group", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			} else {
				counts := map[string]int{}
				var order []string
				for _, dir := range dirs {
					if _, ok := counts[dir.ID.Group]; !ok {
						order = append(order, dir.ID.Group)
					}
					counts[dir.ID.Group]++
				}
				rows := make([][]string, 0, len(order))
				for _, group := range order {
					rows = append(rows, []string{group, strconv.Itoa(counts[group])})
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(out,
						[]string{"Group", "Directories"},
						rows,
						[]columnAlignment{alignLeft, alignRight},
					))
				}
			}
			fmt.Fprintf(out, "%d subject directories\n", len(dirs))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listAll, "all", "a", false, "List every directory instead of per-group counts")
	return cmd
}
