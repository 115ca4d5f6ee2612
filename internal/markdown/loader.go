package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultExtensions lists the file extensions treated as markdown documents.
var DefaultExtensions = []string{".md", ".markdown"}

// LoaderConfig configures how markdown files are discovered.
type LoaderConfig struct {
	// BasePath is the source directory backing the filesystem. It is only used
	// to translate absolute paths and to report locations.
	BasePath string
	// Extensions overrides DefaultExtensions. Matching is case-sensitive.
	Extensions []string
}

// Loader discovers and reads markdown documents from a filesystem.
type Loader struct {
	fs         fs.FS
	basePath   string
	extensions []string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Loader{
		fs:         filesystem,
		basePath:   filepath.Clean(cfg.BasePath),
		extensions: append([]string(nil), exts...),
	}
}

// NewDirLoader is a convenience constructor for a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir), LoaderConfig{BasePath: dir})
}

// BasePath returns the directory the loader was configured with.
func (l *Loader) BasePath() string {
	return l.basePath
}

// Discover walks the filesystem recursively and returns the slash separated
// paths of every markdown file, in walk order. Entries that cannot be read are
// skipped; only a failure to open the root is reported.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	var paths []string

	err := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == "." && d == nil {
				return walkErr
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !l.matchesExtension(p) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := fs.Stat(l.fs, p)
			if err != nil || info.IsDir() {
				return nil
			}
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", l.basePath, err)
	}

	return paths, nil
}

// Read returns the raw content of the document at p.
func (l *Loader) Read(p string) ([]byte, error) {
	rel, err := l.makeRelative(p)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	return data, nil
}

// Matches reports whether name carries one of the loader's extensions.
func (l *Loader) Matches(name string) bool {
	return l.matchesExtension(name)
}

func (l *Loader) matchesExtension(name string) bool {
	ext := path.Ext(filepath.ToSlash(name))
	for _, candidate := range l.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (l *Loader) makeRelative(p string) (string, error) {
	clean := filepath.Clean(p)
	if !filepath.IsAbs(clean) {
		return filepath.ToSlash(clean), nil
	}
	if l.basePath == "" || l.basePath == "." {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", p)
	}
	base, err := filepath.Abs(l.basePath)
	if err != nil {
		return "", fmt.Errorf("markdown loader: resolve base path: %w", err)
	}
	rel, err := filepath.Rel(base, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", p, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("markdown loader: %s is outside %s", p, l.basePath)
	}
	return filepath.ToSlash(rel), nil
}

// ValidPath reports whether p names an existing non-directory file with a
// markdown extension.
func ValidPath(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	return IsMarkdownName(p)
}

// IsMarkdownName reports whether name ends in one of DefaultExtensions.
func IsMarkdownName(name string) bool {
	ext := filepath.Ext(name)
	for _, candidate := range DefaultExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
