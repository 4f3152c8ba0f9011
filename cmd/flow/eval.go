package main

import (
	"strings"

	"github.com/spf13/cobra"

	"flow/internal/diagfmt"
	"flow/internal/driver"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [flags] expr",
		Short: "Evaluate an expression",
		Example: `  flow eval "2 + 3 * 4"
  flow eval --tree "(1 + 2) * 3"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEval(cmd, args)
		},
	}
	cmd.Flags().Bool("tree", false, "print the tree diagram before the value")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, args []string) error {
	res := driver.Eval(strings.Join(args, " "), a.driverOptions(cmd))
	a.log.Debug().Str("outcome", outcomeLabel(res)).Msg("eval finished")

	if showTree, _ := cmd.Flags().GetBool("tree"); showTree && res.Tree != nil && !res.Bag.HasErrors() {
		if err := diagfmt.WriteTree(cmd.OutOrStdout(), res.Tree.Root); err != nil {
			return err
		}
	}
	return a.reportResult(cmd, res, "")
}

func outcomeLabel(r *driver.Result) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Bag != nil && r.Bag.HasErrors():
		return "diagnostics"
	case r.Fault != nil:
		return r.Fault.Code.String()
	case r.Cached:
		return "cached"
	default:
		return "ok"
	}
}
