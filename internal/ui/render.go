package ui

import (
	"strconv"
	"strings"

	"flow/internal/diagfmt"
	"flow/internal/driver"
)

// RenderOpts controls how a driver result is shown to a user.
type RenderOpts struct {
	Color    bool
	ShowTree bool
}

// RenderResult formats r the way `flow eval` and the REPL print it:
// diagnostics with source snippets, then (when there are no errors)
// the optional tree diagram and the value or the evaluation fault.
func RenderResult(r *driver.Result, opts RenderOpts) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	if r.Err != nil {
		sb.WriteString("error: " + r.Err.Error() + "\n")
		return sb.String()
	}
	if r.Bag != nil && r.Bag.Len() > 0 {
		// strings.Builder never fails
		_ = diagfmt.Pretty(&sb, r.Bag, r.FileSet, diagfmt.PrettyOpts{
			Color:      opts.Color,
			ShowSource: true,
			ShowNotes:  true,
		})
		if r.Bag.HasErrors() {
			return sb.String()
		}
	}
	if opts.ShowTree && r.Tree != nil {
		if err := diagfmt.WriteTree(&sb, r.Tree.Root); err != nil {
			sb.WriteString("error: " + err.Error() + "\n")
		}
	}
	switch {
	case r.Fault != nil:
		sb.WriteString(r.Fault.FormatWithFiles(r.FileSet))
	case r.Evaluated:
		sb.WriteString(strconv.FormatInt(r.Value, 10) + "\n")
	}
	return sb.String()
}
