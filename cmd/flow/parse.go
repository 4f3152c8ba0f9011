package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flow/internal/diagfmt"
	"flow/internal/driver"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] (file.flow | -e expr)",
		Short: "Parse a flow source and print its tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args)
		},
	}
	cmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
	cmd.Flags().StringP("expr", "e", "", "parse an expression instead of a file")
	cmd.Flags().Uint("max-errors", 0, "stop recording syntax errors after N (0 = no limit)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	expr, inline, err := exprOrFile(cmd, args)
	if err != nil {
		return err
	}

	opts := a.driverOptions(cmd)
	opts.MaxErrors, _ = cmd.Flags().GetUint("max-errors")

	var res *driver.Result
	if inline {
		res = driver.ParseString(expr, opts)
	} else {
		res, err = driver.Parse(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
	}

	if err := a.printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errReported
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return diagfmt.FormatTreeJSON(out, res.Tree.Root)
	case "yaml":
		return diagfmt.FormatTreeYAML(out, res.Tree.Root)
	default:
		return diagfmt.WriteTree(out, res.Tree.Root)
	}
}
