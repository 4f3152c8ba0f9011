package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flow/internal/diagfmt"
	"flow/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] (file.flow | -e expr)",
		Short: "Tokenize a flow source file",
		Long:  `Tokenize prints every token of the input, including whitespace, unknown characters and the final END OF FILE`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokenize(cmd, args)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringP("expr", "e", "", "tokenize an expression instead of a file")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	expr, inline, err := exprOrFile(cmd, args)
	if err != nil {
		return err
	}

	var result *driver.TokenizeResult
	if inline {
		result = driver.TokenizeString(expr, a.cfg.Diagnostics.Max)
	} else {
		result, err = driver.Tokenize(args[0], a.cfg.Diagnostics.Max)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	}

	// диагностика идёт в stderr, токены - в stdout
	if err := a.printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}

// exprOrFile resolves the input of tokenize/parse: --expr or exactly one file argument.
func exprOrFile(cmd *cobra.Command, args []string) (expr string, inline bool, err error) {
	if cmd.Flags().Changed("expr") {
		if len(args) > 0 {
			return "", false, fmt.Errorf("--expr and a file argument are mutually exclusive")
		}
		expr, err = cmd.Flags().GetString("expr")
		return expr, true, err
	}
	if len(args) != 1 {
		return "", false, fmt.Errorf("expected a .flow file or --expr")
	}
	return "", false, nil
}
