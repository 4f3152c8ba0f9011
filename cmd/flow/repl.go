package main

import (
	"os"

	"github.com/spf13/cobra"

	"flow/internal/ui"
)

func newReplCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive calculator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRepl(cmd)
		},
	}
	cmd.Flags().String("ui", "auto", "terminal UI mode (auto|on|off)")
	cmd.Flags().String("prompt", "", "prompt text (default from flow.toml or \">>> \")")
	return cmd
}

func (a *app) runRepl(cmd *cobra.Command) error {
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	prompt := a.cfg.REPL.Prompt
	if cmd.Flags().Changed("prompt") {
		prompt, _ = cmd.Flags().GetString("prompt")
	}

	eval := ui.DriverEvaluator(a.driverOptions(cmd), a.color)
	a.log.Debug().Str("ui", string(mode)).Msg("repl started")

	if shouldUseTUI(mode) && isTerminal(os.Stdin) {
		return ui.RunREPL(ui.ReplOptions{
			Prompt:   prompt,
			History:  a.cfg.REPL.History,
			Eval:     eval,
			NoBanner: a.quiet,
		})
	}
	session := ui.NewSession(eval, a.cfg.REPL.History)
	return ui.RunLines(cmd.InOrStdin(), cmd.OutOrStdout(), session, prompt, !a.quiet)
}
