package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"unicode/utf8"

	"fortio.org/safecast"
)

// FileSet owns every loaded source and maps spans back to positions.
// Files are append-only; a FileID stays valid for the set's lifetime.
type FileSet struct {
	files   []File
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase remembers baseDir for relative path display.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{baseDir: baseDir}
}

// BaseDir returns the directory relative paths are computed against.
// Empty base means the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add registers already normalized content. Re-adding a path yields a fresh ID.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	fileSet.files = append(fileSet.files, File{
		ID:      FileID(n),
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	return FileID(n)
}

// Load reads path from disk and normalizes it before adding.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text (eval argument, REPL line) marked FileVirtual.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns nil for an unknown ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// Position converts a byte offset into a 1-based line and rune column.
// Offsets past the end resolve to one column after the last character.
func (f *File) Position(off uint32) LineCol {
	size := f.size()
	var overshoot uint32
	if off > size {
		overshoot, off = off-size, size
	}
	line, start := lineOf(f.LineIdx, off)
	col, err := safecast.Conv[uint32](utf8.RuneCount(f.Content[start:off]))
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return LineCol{Line: line, Col: col + overshoot + 1}
}

// Line returns the text of line n (1-based) without its newline, or "" when n is out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end := f.size()
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return string(f.Content[start:end])
}

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	return n
}
