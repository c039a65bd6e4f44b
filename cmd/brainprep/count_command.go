package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/spf13/cobra"

	"brainprep/internal/emit"
)

func newCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count copied subjects per group in the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			paths, err := cfg.DataPaths()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			counts, err := emit.CountCopied(paths.OutputRoot)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintf(out, "No output at %s\n", paths.OutputRoot)
					return nil
				}
				return err
			}
			total := 0
			rows := make([][]string, 0, len(counts))
			for _, count := range counts {
				rows = append(rows, []string{count.Group, strconv.Itoa(count.Count)})
				total += count.Count
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(out,
					[]string{"Group", "Subjects"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			fmt.Fprintf(out, "%d copied subjects in %s\n", total, paths.OutputRoot)
			return nil
		},
	}
}
