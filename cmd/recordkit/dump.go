package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/recordkit/source"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump STACK",
		Short: "Print a stack with every default filled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return a.report(cmd, err)
			}
			m, err := st.Dump()
			if err != nil {
				return err
			}
			return source.Encode(cmd.OutOrStdout(), a.format, m)
		},
	}
}
