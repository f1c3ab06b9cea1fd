package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/i18n"
	"github.com/reoring/recordkit/internal/config"
	"github.com/reoring/recordkit/internal/logging"
	"github.com/reoring/recordkit/source"
	"github.com/reoring/recordkit/stack"
)

// app is the state shared by subcommands once flags and environment are
// resolved.
type app struct {
	cfg       config.Config
	format    source.Format
	log       *slog.Logger
	workspace string
	failFast  bool
}

func newRootCmd() *cobra.Command {
	a := &app{log: logging.NewNop()}
	var format, level, lang string

	root := &cobra.Command{
		Use:           "recordkit",
		Short:         "Validate and normalize stack documents",
		Long:          `recordkit constructs stack documents against their declared types, reports every problem at once and dumps the normalized result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = level
			}
			if cmd.Flags().Changed("lang") {
				cfg.Lang = lang
			}
			lvl, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			f, err := source.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.format = f
			a.log = logging.New(cmd.ErrOrStderr(), lvl)
			i18n.SetLanguage(cfg.Lang)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&format, "format", "yaml", "output format (yaml or json)")
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&lang, "lang", "en", "message language (en or ja)")
	root.PersistentFlags().StringVar(&a.workspace, "workspace", ".", "workspace directory experiments store results in")
	root.PersistentFlags().BoolVar(&a.failFast, "fail-fast", false, "stop at the first problem")

	root.AddCommand(newCheckCmd(a), newDumpCmd(a), newSchemaCmd(a), newTypesCmd(a), newStacksCmd(a))
	return root
}

// load resolves name to a stack file and constructs it.
func (a *app) load(ctx context.Context, name string) (*stack.Stack, error) {
	path, ok := stack.Resolve(name, a.cfg.Stacks...)
	if !ok {
		return nil, fmt.Errorf("stack %q: %w", name, recordkit.ErrNotFound)
	}
	a.log.Debug("loading stack", "path", path)
	raw, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	ctx = recordkit.WithFailFast(ctx, a.failFast)
	ws := stack.NewWorkspace(stack.NewLocalStorage(a.workspace))
	st, err := stack.Load(ctx, ws, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// report prints construction issues one per line and returns a short error
// for the exit status. Other errors are returned as is for main to print.
func (a *app) report(cmd *cobra.Command, err error) error {
	iss, ok := recordkit.AsIssues(err)
	if !ok {
		return err
	}
	w := cmd.ErrOrStderr()
	for _, is := range iss {
		line := fmt.Sprintf("%s: %s: %s", is.Path, is.Code, is.Message)
		if is.Hint != "" {
			line += " (" + is.Hint + ")"
		}
		fmt.Fprintln(w, line)
	}
	return fmt.Errorf("%d problem(s)", len(iss))
}
