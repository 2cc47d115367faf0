package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/David-Botos/kempis-corpus/pkg/combiner"
)

func newTransformCommand(ctx *commandContext) *cobra.Command {
	var sqlScript string
	var noVerify bool
	var report bool

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Clean, enrich and combine the aligned books into one table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if sqlScript != "" {
				cfg.SQL.ScriptPath = sqlScript
				if err := cfg.ResolvePaths(); err != nil {
					return err
				}
			}
			if noVerify {
				cfg.VerifyOutput = false
			}

			c, err := combiner.NewCombiner(cfg, ctx.logger)
			if err != nil {
				return err
			}

			result, runErr := c.Run(cmd.Context())
			if result != nil {
				printRunSummary(cmd.OutOrStdout(), result, c.Errors(), runErr == nil)
			}
			if report {
				printRunReport(cmd.OutOrStdout(), c.Metrics(), c.Errors())
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&sqlScript, "sql-script", "", "Also write a PostgreSQL load script to this path")
	cmd.Flags().BoolVar(&report, "report", false, "Print the build metrics report after the summary")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip re-reading and verifying the written table")

	return cmd
}

func printRunSummary(w io.Writer, result *combiner.RunResult, errs *combiner.ErrorHandler, written bool) {
	rows := make([][]string, 0, len(result.Books))
	for _, b := range result.Books {
		rows = append(rows, []string{
			strconv.Itoa(b.Book),
			b.Status.String(),
			strconv.Itoa(b.Rows),
			strconv.Itoa(b.MalformedRows),
			strconv.Itoa(b.CleaningOperations),
			strconv.Itoa(errs.BookErrorCount(b.Book)),
			b.Path,
		})
	}

	fmt.Fprintln(w, renderTable(
		[]string{"Book", "Status", "Rows", "Malformed", "Cleaned", "Errors", "File"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))

	if skipped := result.SkippedBooks(); len(skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d of %d books:\n", len(skipped), len(result.Books))
		for _, n := range skipped {
			if b, ok := result.Book(n); ok && b.Err != nil {
				fmt.Fprintf(w, "  %s: %v\n", b.Status, b.Err)
			}
		}
	}

	if !written {
		return
	}
	fmt.Fprintf(w, "Wrote %d rows to %s\n", result.TotalRows, result.OutputPath)
	if result.Verification != nil {
		fmt.Fprintf(w, "Verification passed (%d warnings)\n", len(result.Verification.Warnings))
	}
	if result.ScriptPath != "" {
		fmt.Fprintf(w, "Wrote load script to %s\n", result.ScriptPath)
	}
}

func printRunReport(w io.Writer, metrics *combiner.RunMetrics, errs *combiner.ErrorHandler) {
	fmt.Fprintln(w)
	fmt.Fprint(w, metrics.GenerateReport())
	fmt.Fprintf(w, "Errors: %s\n", errs.Summary())

	if n := errs.ErrorCount(combiner.ErrorCategoryRowLevel); n > 0 {
		samples := errs.Samples(combiner.ErrorCategoryRowLevel)
		fmt.Fprintf(w, "Malformed rows (showing %d of %d):\n", len(samples), n)
		for _, record := range samples {
			fmt.Fprintf(w, "  %s\n", record)
		}
	}
}
