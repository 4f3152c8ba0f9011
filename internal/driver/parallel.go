package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/trace"
)

// listFlowFiles возвращает отсортированный список всех *.flow файлов в директории
func listFlowFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// RunDir runs every .flow file under dir concurrently. Results are sorted by path.
func RunDir(ctx context.Context, dir string, opts Options, jobs int) ([]*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	files, err := listFlowFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return runFiles(ctx, source.NewFileSetWithBase(dir), files, opts, jobs)
}

// RunFiles runs the given paths concurrently. A path that fails validation or
// loading yields a Result with Err set and an IO diagnostic instead of aborting the batch.
func RunFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]*Result, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return runFiles(ctx, source.NewFileSet(), sorted, opts, jobs)
}

func runFiles(ctx context.Context, fileSet *source.FileSet, files []string, opts Options, jobs int) ([]*Result, error) {
	opts = opts.normalized()
	if len(files) == 0 {
		return nil, nil
	}

	batch := trace.Begin(opts.Tracer, trace.ScopeDriver, "batch", opts.TraceParent)
	batch.WithExtra("files", strconv.Itoa(len(files)))
	defer batch.End("")

	// FileSet не потокобезопасен: все файлы загружаются заранее, горутины только читают
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		if err := CheckPath(path); err != nil {
			loadErrors[path] = err
			continue
		}
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = fmt.Errorf("load %s: %w", path, err)
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	fileOpts := opts
	fileOpts.TraceParent = batch.ID()

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			var res *Result
			if loadErr, failed := loadErrors[path]; failed {
				res = loadFailure(path, loadErr, opts.MaxDiagnostics)
			} else {
				res = runSource(fileSet, fileSet.Get(fileIDs[path]), fileOpts)
			}
			results[i] = res

			if opts.OnFile != nil {
				opts.OnFile(FileEvent{
					Path:   path,
					Index:  i,
					Done:   int(done.Add(1)),
					Total:  len(files),
					Result: res,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return compact(results), err
	}
	return results, nil
}

func loadFailure(path string, err error, maxDiagnostics int) *Result {
	code := diag.IOLoadFileError
	if errors.Is(err, ErrInvalidExtension) {
		code = diag.IOInvalidExtension
	}
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(code, source.Span{}, source.LineCol{}, err.Error()))
	return &Result{Path: path, Bag: bag, Err: err}
}

// compact drops the slots of files that were cancelled before they ran.
func compact(results []*Result) []*Result {
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
