package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/David-Botos/kempis-corpus/pkg/combiner"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var expected int

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Check a combined table for id, chapter and word count consistency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			path := cfg.OutputPath
			if len(args) == 1 {
				path = args[0]
			}

			verifier, err := combiner.NewFileVerifier(cfg, ctx.logger)
			if err != nil {
				return err
			}
			report, err := verifier.VerifyFile(path, expected)
			if err != nil {
				return err
			}

			printVerification(cmd.OutOrStdout(), report)
			return report.Err()
		},
	}

	cmd.Flags().IntVar(&expected, "expect-rows", -1, "Expected number of rows (negative to skip)")

	return cmd
}

func printVerification(w io.Writer, report *combiner.VerificationReport) {
	fmt.Fprintf(w, "Verified %d rows in %s\n", report.RowCount, report.Path)

	if len(report.IntegrityIssues) > 0 {
		rows := make([][]string, 0, len(report.IntegrityIssues))
		for _, issue := range report.IntegrityIssues {
			rows = append(rows, []string{strconv.Itoa(issue.RowID), issue.IssueType, issue.Description})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"Row", "Issue", "Description"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft},
		))
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}

	if report.Passed() {
		fmt.Fprintln(w, "No integrity issues found")
	}
}
