package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/David-Botos/kempis-corpus/pkg/template"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	var rawFile string
	var sheetFile string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the manual alignment sheet from the raw Latin text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if rawFile != "" {
				cfg.Template.RawFile = rawFile
			}
			if sheetFile != "" {
				cfg.Template.OutputFile = sheetFile
			}
			if err := cfg.ResolvePaths(); err != nil {
				return err
			}

			gen, err := template.NewGenerator(cfg.SourceLang, cfg.TargetLang, ctx.logger)
			if err != nil {
				return err
			}
			n, err := gen.Generate(cfg.Template.RawFile, cfg.Template.OutputFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d paragraphs to %s\n", n, cfg.Template.OutputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawFile, "raw", "", "Raw Latin text file, paragraphs separated by blank lines")
	cmd.Flags().StringVar(&sheetFile, "sheet", "", "Path of the alignment sheet to write")

	return cmd
}
