package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check STACK",
		Short: "Construct a stack and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return a.report(cmd, err)
			}
			a.log.Info("stack is valid", "title", st.Title(), "experiments", st.Len())
			for _, e := range st.Experiments() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Identifier(), e.Schema().Name())
			}
			return nil
		},
	}
}
