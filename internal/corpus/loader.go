package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"questions/internal/domain"
)

var (
	// ErrNotDirectory is returned when the corpus path is missing or is not a directory.
	ErrNotDirectory = errors.New("corpus path is not a directory")
	// ErrNoDocuments is returned when the directory holds no eligible files.
	ErrNoDocuments = errors.New("no documents found in corpus directory")
)

// DirLoader reads the regular files of a single directory.
// Hidden files and subdirectories are skipped.
type DirLoader struct {
	extensions map[string]struct{}
}

// NewDirLoader returns a loader. With no extensions every file is read;
// otherwise only files whose extension matches (case-insensitively).
func NewDirLoader(extensions ...string) *DirLoader {
	l := &DirLoader{}
	if len(extensions) > 0 {
		l.extensions = make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions[ext] = struct{}{}
		}
	}
	return l
}

// Load returns the documents of dir sorted by file name.
func (l *DirLoader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var documents []domain.Document
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") || !l.accepts(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("read %s: content is not valid UTF-8", path)
		}
		documents = append(documents, domain.Document{Name: e.Name(), Path: path, Content: string(data)})
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, dir)
	}
	return documents, nil
}

func (l *DirLoader) accepts(name string) bool {
	if len(l.extensions) == 0 {
		return true
	}
	_, ok := l.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
