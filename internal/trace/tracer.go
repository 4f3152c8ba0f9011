package trace

import (
	"fmt"
	"io"
	"os"
)

// Tracer принимает события пайплайна. Реализации обязаны быть потокобезопасными:
// пакетный запуск пишет из нескольких горутин.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the sink if the tracer owns it.
	Close() error
	Level() Level
	Enabled() bool
}

// Config describes where and how much to trace.
// Output wins over OutputPath; an empty path or "-" means stderr.
type Config struct {
	Level      Level
	Format     Format // FormatAuto picks by OutputPath extension
	Output     io.Writer
	OutputPath string
	RunID      string // empty omits the run_id field
}

// New returns Nop for LevelOff, otherwise a zerolog-backed tracer.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	w, owned, err := sink(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Format == FormatAuto {
		cfg.Format = DetectFormat(cfg.OutputPath)
	}
	return NewLogTracer(w, owned, cfg.Level, cfg.Format, cfg.RunID), nil
}

// sink returns the writer and, when New opened a file, its closer.
func sink(cfg Config) (io.Writer, io.Closer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace output %s: %w", cfg.OutputPath, err)
	}
	return f, f, nil
}
