package driver

import (
	"flow/internal/diag"
	"flow/internal/observ"
	"flow/internal/parser"
	"flow/internal/source"
	"flow/internal/vm"
)

// Result is the outcome of running one input through the pipeline.
type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	// Tree is nil for results served from the cache.
	Tree *parser.Tree
	Bag  *diag.Bag

	Value     int64
	Evaluated bool
	// Fault: ошибка вычисления (деление на ноль и т.п.), не диагностика.
	Fault *vm.Error
	// Err: ошибка загрузки файла (ErrFileNotFound, ErrInvalidExtension, I/O).
	Err error

	Timing *observ.Report
	Cached bool
}

// OK reports whether the input produced a value without errors.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil && r.Fault == nil && (r.Bag == nil || !r.Bag.HasErrors())
}

// FileEvent is passed to FileObserver after a file of a batch is processed.
type FileEvent struct {
	Path   string
	Index  int // позиция в отсортированном списке
	Done   int // сколько файлов завершено, включая этот
	Total  int
	Result *Result
}

// FileObserver receives FileEvents. It may be called from several goroutines at once.
type FileObserver func(FileEvent)
