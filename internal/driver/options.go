package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"flow/internal/trace"
)

// Extension is the only file extension accepted by RunFile and RunDir.
const Extension = ".flow"

var (
	// ErrFileNotFound reports a missing input file.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidExtension reports an input file without the .flow extension.
	ErrInvalidExtension = errors.New("invalid file extension")
)

// Options содержит опции одного прогона конвейера lex → parse → eval
type Options struct {
	MaxDiagnostics int
	// MaxErrors ограничивает число синтаксических ошибок; 0 - без лимита.
	MaxErrors uint
	// EnableTimings добавляет в Bag диагностику ObsTimings с отчётом по фазам.
	EnableTimings bool
	// ParseOnly останавливает конвейер после разбора.
	ParseOnly bool
	Tracer   trace.Tracer
	// TraceParent: родительский span (команда CLI).
	TraceParent uint64
	// Cache, если задан, хранит результаты по хэшу содержимого.
	Cache *DiskCache
	// RunID попадает в записи кэша; пустой - генерируется.
	RunID string
	// OnFile вызывается после обработки каждого файла в RunFiles/RunDir.
	OnFile FileObserver
}

func (o Options) normalized() Options {
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	if o.RunID == "" {
		o.RunID = NewRunID()
	}
	return o
}

// NewRunID returns a fresh identifier for one CLI invocation.
func NewRunID() string {
	return uuid.NewString()
}

// CheckPath validates that path names an existing regular .flow file.
func CheckPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return fmt.Errorf("%w: %s (expected %s)", ErrInvalidExtension, path, Extension)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return nil
}
