package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/David-Botos/kempis-corpus/pkg/combiner"
)

func newSchemaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the PostgreSQL script that creates and loads the output table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			conv, err := combiner.NewOutputConverter(cfg, ctx.logger)
			if err != nil {
				return err
			}
			script, err := conv.LoadScript(cfg.OutputPath)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
}
