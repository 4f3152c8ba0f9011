package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"flow/internal/diag"
	"flow/internal/diagfmt"
	"flow/internal/driver"
	"flow/internal/source"
)

// printDiagnostics writes bag to stderr with source snippets.
// INFO entries are hidden under --quiet.
func (a *app) printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	if a.quiet {
		filtered := diag.NewBag(a.cfg.Diagnostics.Max)
		for _, d := range bag.Items() {
			if d.Severity != diag.SevInfo {
				filtered.Add(d)
			}
		}
		bag = filtered
	}
	return diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:      a.color,
		ShowSource: true,
		ShowNotes:  true,
	})
}

// reportResult prints one evaluated result: value on stdout, diagnostics and faults on stderr.
// label prefixes the value line in batch mode.
func (a *app) reportResult(cmd *cobra.Command, res *driver.Result, label string) error {
	if res.Err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", res.Err)
		return errReported
	}
	if err := a.printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Timing != nil && !a.quiet {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timing.Summary())
	}
	if res.Bag != nil && res.Bag.HasErrors() {
		return errReported
	}
	if res.Fault != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Fault.FormatWithFiles(res.FileSet))
		return errReported
	}
	if !res.Evaluated {
		return nil
	}
	return writeValue(cmd.OutOrStdout(), label, res.Value)
}

func writeValue(w io.Writer, label string, v int64) error {
	line := strconv.FormatInt(v, 10)
	if label != "" {
		line = label + ": " + line
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
