package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"flow/internal/version"
)

// errReported means the command already printed its diagnostics; main only sets the exit code.
var errReported = errors.New("errors reported")

// newRootCmd builds the command tree. The returned app owns the logger and tracer
// set up by the persistent pre-run and must be closed after Execute.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "flow",
		Short:         "Flow calculator language toolchain",
		Long:          `Flow evaluates integer arithmetic expressions and shows how they are lexed and parsed`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("log-level", "warn", "log level (trace|debug|info|warn|error|disabled)")
	pf.String("trace", "", "write pipeline trace to file (\"-\" for stderr, *.ndjson for JSON)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
	pf.String("config", "", "path to flow.toml (default: search upwards from the working directory)")

	root.AddCommand(
		newTokenizeCmd(a),
		newParseCmd(a),
		newEvalCmd(a),
		newRunCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// main builds the CLI and executes it. Any error exits with status 1.
func main() {
	root, a := newRootCmd()
	err := root.Execute()
	a.close()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
