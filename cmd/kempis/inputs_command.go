package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/David-Botos/kempis-corpus/pkg/loader"
	"github.com/David-Botos/kempis-corpus/pkg/model"
)

func newInputsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inputs",
		Short: "List the aligned book files found in the input directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			l, err := loader.NewLoader(cfg.InputDir, cfg.InputPattern, cfg.StrictRows, ctx.logger)
			if err != nil {
				return err
			}
			files, err := l.Discover()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No aligned files in %s\n", cfg.InputDir)
				return nil
			}

			found := make(map[int]bool, len(files))
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				found[f.Book] = true
				note := ""
				if !model.ValidBook(f.Book) {
					note = "ignored"
				}
				rows = append(rows, []string{strconv.Itoa(f.Book), f.Path, note})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Book", "File", "Note"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))

			for _, book := range model.Books() {
				if !found[book] {
					fmt.Fprintf(out, "Book %d missing: expected %s\n", book, l.Path(book))
				}
			}
			return nil
		},
	}
}
