package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/source"
	"github.com/reoring/recordkit/stack"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [TYPE]",
		Short: "Print the JSON Schema of a registered type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := stack.Type.Name()
			if len(args) == 1 {
				name = args[0]
			}
			t, err := stack.Registry.LookupType(name)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(stack.Registry.TypeNames(), ", "))
			}
			return source.Encode(cmd.OutOrStdout(), a.format, recordkit.JSONSchema(t))
		},
	}
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered types and what they extend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range stack.Registry.TypeNames() {
				t, err := stack.Registry.LookupType(name)
				if err != nil {
					return err
				}
				var parents []string
				for _, p := range t.Ancestors() {
					parents = append(parents, p.Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strings.Join(parents, ","))
			}
			a.log.Debug("listed types", "count", len(stack.Registry.TypeNames()))
			return nil
		},
	}
}
