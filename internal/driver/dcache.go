package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"flow/internal/diag"
	"flow/internal/source"
	"flow/internal/vm"
)

// cacheSchema is bumped whenever CachedResult changes shape; older entries read as misses.
const cacheSchema uint16 = 3

// DiskCache maps the SHA-256 of a file's content to its evaluation outcome.
// Записи лежат в <dir>/results/<2 hex>/<hash>.mp в формате msgpack.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a diagnostic without its file binding.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Line     uint32
	Col      uint32
}

type CachedFault struct {
	Code    int
	Message string
	Start   uint32
	End     uint32
}

// CachedResult is the on-disk form of a Result. Notes and timings are not stored.
type CachedResult struct {
	Schema      uint16
	RunID       string
	Path        string
	Stored      time.Time
	Diagnostics []CachedDiagnostic
	Value       int64
	Evaluated   bool
	Fault       *CachedFault `msgpack:",omitempty"`

	// лимиты, с которыми записан результат; при других лимитах запись не подходит
	MaxDiagnostics int
	MaxErrors      int
}

// cacheLimits returns the effective diagnostic limits a result was produced with.
func cacheLimits(opts Options) (maxDiagnostics, maxErrors int) {
	maxDiagnostics = opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = diag.DefaultMax
	}
	return maxDiagnostics, int(opts.MaxErrors)
}

// matches reports whether the entry was produced under the same limits as opts.
func (p *CachedResult) matches(opts Options) bool {
	maxDiagnostics, maxErrors := cacheLimits(opts)
	return p.MaxDiagnostics == maxDiagnostics && p.MaxErrors == maxErrors
}

// OpenDiskCache opens <user cache dir>/<app>, honouring XDG_CACHE_HOME.
func OpenDiskCache(app string) (*DiskCache, error) {
	base, err := os.UserCacheDir()
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		base, err = xdg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locate cache dir: %w", err)
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) entryPath(key [32]byte) string {
	name := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", name[:2], name+".mp")
}

// Put stores payload under key, replacing any previous entry atomically.
// A nil cache ignores the call.
func (c *DiskCache) Put(key [32]byte, payload *CachedResult) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = cacheSchema
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return writeAtomic(c.entryPath(key), data)
}

// Get loads the entry for key into out. Missing or stale entries report false without error.
func (c *DiskCache) Get(key [32]byte, out *CachedResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	data, err := os.ReadFile(c.entryPath(key))
	c.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var payload CachedResult
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if payload.Schema != cacheSchema {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every entry and leaves an empty cache directory.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "results")); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// writeAtomic пишет во временный файл рядом и переименовывает его поверх path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), path)
	}
	if err != nil {
		_ = os.Remove(f.Name())
	}
	return err
}

func resultToCache(r *Result, opts Options) *CachedResult {
	maxDiagnostics, maxErrors := cacheLimits(opts)
	payload := &CachedResult{
		RunID:          opts.RunID,
		MaxDiagnostics: maxDiagnostics,
		MaxErrors:      maxErrors,
		Path:      r.Path,
		Stored:    time.Now().UTC(),
		Value:     r.Value,
		Evaluated: r.Evaluated,
	}
	for _, d := range r.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Line:     d.Pos.Line,
			Col:      d.Pos.Col,
		})
	}
	if f := r.Fault; f != nil {
		payload.Fault = &CachedFault{Code: int(f.Code), Message: f.Message, Start: f.Span.Start, End: f.Span.End}
	}
	return payload
}

// applyCached fills r from a cache entry; spans are rebound to r.File.
func applyCached(r *Result, payload *CachedResult, maxDiagnostics int) {
	span := func(start, end uint32) source.Span {
		return source.Span{File: r.File.ID, Start: start, End: end}
	}
	r.Bag = diag.NewBag(maxDiagnostics)
	for _, cd := range payload.Diagnostics {
		r.Bag.Add(diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End),
			source.LineCol{Line: cd.Line, Col: cd.Col}, cd.Message))
	}
	r.Value = payload.Value
	r.Evaluated = payload.Evaluated
	if f := payload.Fault; f != nil {
		r.Fault = &vm.Error{Code: vm.PanicCode(f.Code), Message: f.Message, Span: span(f.Start, f.End)}
	}
	r.Cached = true
}
