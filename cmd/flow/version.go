package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"flow/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the flow version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch strings.ToLower(format) {
			case "pretty":
				return renderVersionPretty(cmd.OutOrStdout(), full)
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), full)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func renderVersionPretty(out io.Writer, full bool) error {
	if !full {
		_, err := fmt.Fprintf(out, "flow %s\n", version.Colored())
		return err
	}
	_, err := fmt.Fprintln(out, version.Banner())
	return err
}

func renderVersionJSON(out io.Writer, full bool) error {
	payload := versionPayload{Tool: "flow", Version: strings.TrimSpace(version.Version)}
	if full {
		payload.GitCommit = valueOr(version.GitCommit, "unknown")
		payload.BuildDate = valueOr(version.BuildDate, "unknown")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
