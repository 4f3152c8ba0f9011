package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flow/internal/driver"
	"flow/internal/ui"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <file.flow|directory>",
		Short: "Evaluate a .flow file or every .flow file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRun(cmd, args[0])
		},
	}
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before running")
	cmd.Flags().String("ui", "auto", "progress UI mode for directories (auto|on|off)")
	return cmd
}

func (a *app) runRun(cmd *cobra.Command, target string) error {
	opts := a.driverOptions(cmd)

	jobs := a.cfg.Run.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs, _ = cmd.Flags().GetInt("jobs")
	}
	useCache := a.cfg.Run.Cache
	if cmd.Flags().Changed("cache") {
		useCache, _ = cmd.Flags().GetBool("cache")
	}
	clearCache, _ := cmd.Flags().GetBool("clear-cache")
	if useCache || clearCache {
		cache, err := a.openCache()
		if err != nil {
			return err
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			a.log.Info().Str("dir", cache.Dir()).Msg("cache cleared")
		}
		if useCache {
			opts.Cache = cache
		}
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", driver.ErrFileNotFound, target)
		}
		return err
	}
	if !info.IsDir() {
		res, err := driver.RunFile(cmd.Context(), target, opts)
		if err != nil {
			return err
		}
		return a.reportResult(cmd, res, "")
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var results []*driver.Result
	if shouldUseTUI(mode) && !a.quiet {
		results, err = runDirWithUI(cmd, target, opts, jobs)
	} else {
		results, err = driver.RunDir(cmd.Context(), target, opts, jobs)
	}
	if err != nil {
		return err
	}
	a.log.Info().Int("files", len(results)).Int("jobs", jobs).Bool("cache", opts.Cache != nil).Msg("batch finished")

	failed := 0
	for _, res := range results {
		label := res.Path
		if rel, relErr := filepath.Rel(target, res.Path); relErr == nil {
			label = filepath.ToSlash(rel)
		}
		if err := a.reportResult(cmd, res, label); err != nil {
			if !errors.Is(err, errReported) {
				return err
			}
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d files failed\n", failed, len(results))
		return errReported
	}
	return nil
}

func (a *app) openCache() (*driver.DiskCache, error) {
	if a.cfg.Run.CacheDir != "" {
		return driver.NewDiskCache(a.cfg.Run.CacheDir)
	}
	return driver.OpenDiskCache("flow")
}

type runOutcome struct {
	results []*driver.Result
	err     error
}

// runDirWithUI runs the batch in the background and renders FileEvents with the progress model.
func runDirWithUI(cmd *cobra.Command, dir string, opts driver.Options, jobs int) ([]*driver.Result, error) {
	events := make(chan driver.FileEvent, 256)
	outcomeCh := make(chan runOutcome, 1)

	opts.OnFile = func(ev driver.FileEvent) { events <- ev }
	go func() {
		res, err := driver.RunDir(cmd.Context(), dir, opts, jobs)
		outcomeCh <- runOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("flow run "+dir, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()), tea.WithContext(cmd.Context()))
	_, uiErr := program.Run()
	// дочитываем события, чтобы воркеры не заблокировались после выхода из UI
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
