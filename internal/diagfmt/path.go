package diagfmt

import (
	"path"
	"path/filepath"

	"flow/internal/source"
)

// длинные абсолютные пути в режиме auto сокращаются до имени файла
const autoPathLimit = 40

// displayPath форматирует путь файла согласно режиму; виртуальные файлы печатаются как есть.
func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, ok := relativeTo(f.Path, fs); ok {
			return rel
		}
	case PathModeBasename:
		return path.Base(f.Path)
	default:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return path.Base(f.Path)
		}
	}
	return f.Path
}

func relativeTo(p string, fs *source.FileSet) (string, bool) {
	if fs == nil {
		return "", false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	base, err := filepath.Abs(fs.BaseDir())
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
