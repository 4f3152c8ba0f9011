package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"flow/internal/diag"
	"flow/internal/observ"
	"flow/internal/parser"
	"flow/internal/source"
	"flow/internal/trace"
	"flow/internal/vm"
)

// InputName is the path given to in-memory inputs (REPL lines, eval arguments).
const InputName = "<input>"

// Eval runs an in-memory expression through lex, parse and eval.
func Eval(text string, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(InputName, []byte(text))
	return runSource(fs, fs.Get(id), opts.normalized())
}

// RunFile loads a .flow file and runs it. Load failures are returned as errors
// wrapping ErrFileNotFound or ErrInvalidExtension; diagnostics and faults live in the Result.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckPath(path); err != nil {
		return nil, err
	}
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return runSource(fs, fs.Get(fileID), opts.normalized()), nil
}

// Parse loads a .flow file and stops after parsing.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.ParseOnly = true
	return RunFile(ctx, path, opts)
}

// ParseString parses an in-memory expression without evaluating it.
func ParseString(text string, opts Options) *Result {
	opts.ParseOnly = true
	return Eval(text, opts)
}

// runSource is the pipeline for one file. It never fails: every outcome is recorded in the Result.
func runSource(fs *source.FileSet, file *source.File, opts Options) *Result {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	fileSpan := trace.Begin(opts.Tracer, trace.ScopeFile, file.Path, opts.TraceParent)
	res := &Result{Path: file.Path, FileSet: fs, File: file}
	defer func() {
		fileSpan.WithExtra("cached", strconv.FormatBool(res.Cached)).End(outcome(res))
	}()

	if opts.Cache != nil && !opts.ParseOnly {
		cacheIdx := begin("cache")
		var payload CachedResult
		hit, err := opts.Cache.Get(file.Hash, &payload)
		if err != nil {
			trace.Point(opts.Tracer, trace.ScopeFile, "cache-error", err.Error(), fileSpan.ID())
		}
		hit = hit && payload.matches(opts)
		end(cacheIdx, strconv.FormatBool(hit))
		if hit {
			applyCached(res, &payload, opts.MaxDiagnostics)
			finishTimings(res, timer)
			return res
		}
	}

	lexIdx := begin("lex")
	p := parser.New(file, parser.Options{
		MaxErrors:      opts.MaxErrors,
		MaxDiagnostics: opts.MaxDiagnostics,
		Tracer:         opts.Tracer,
		TraceParent:    fileSpan.ID(),
	})
	end(lexIdx, strconv.Itoa(len(p.Tokens()))+" tokens")

	parseIdx := begin("parse")
	res.Tree = p.Parse()
	res.Bag = diag.NewBag(opts.MaxDiagnostics)
	res.Bag.AddAll(res.Tree.Diagnostics())
	end(parseIdx, strconv.Itoa(res.Bag.Len())+" diagnostics")

	if res.Tree.OK() && !opts.ParseOnly {
		evalIdx := begin("eval")
		machine := vm.New(vm.Options{Tracer: opts.Tracer, TraceParent: fileSpan.ID()})
		v, err := machine.EvalTree(res.Tree)
		var fault *vm.Error
		switch {
		case err == nil:
			res.Value, res.Evaluated = v, true
		case errors.As(err, &fault):
			res.Fault = fault
		default:
			res.Err = err
		}
		end(evalIdx, strconv.Itoa(machine.Steps())+" steps")
	}

	if opts.Cache != nil && !opts.ParseOnly && res.Err == nil {
		if err := opts.Cache.Put(file.Hash, resultToCache(res, opts)); err != nil {
			trace.Point(opts.Tracer, trace.ScopeFile, "cache-error", err.Error(), fileSpan.ID())
		}
	}

	finishTimings(res, timer)
	return res
}

func finishTimings(res *Result, timer *observ.Timer) {
	if timer == nil {
		return
	}
	report := timer.Report()
	res.Timing = &report
	appendTimingDiagnostic(res.Bag, timingPayload{
		Kind:    "run",
		Path:    res.Path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

func outcome(r *Result) string {
	switch {
	case r.Err != nil:
		return "error"
	case r.Fault != nil:
		return r.Fault.Code.String()
	case r.Bag != nil && r.Bag.HasErrors():
		return strconv.Itoa(r.Bag.Len()) + " diagnostics"
	case r.Evaluated:
		return strconv.FormatInt(r.Value, 10)
	default:
		return "parsed"
	}
}
