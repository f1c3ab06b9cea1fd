package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/recordkit/stack"
)

func newStacksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stacks [DIR...]",
		Short: "List stack files and their titles",
		Long:  `stacks lists the .yaml stack files in the given directories, or in RECORDKIT_STACKS when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				dirs = a.cfg.Stacks
			}
			entries, err := stack.List(dirs...)
			if err != nil {
				return err
			}
			a.log.Debug("listed stacks", "dirs", dirs, "count", len(entries))
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Name, e.Title)
			}
			return nil
		},
	}
}
