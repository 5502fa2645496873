// Package loader provides document loading adapters.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"github.com/pondworks/waldenbot/internal/domain/ports"
)

// TextLoader loads plain text documents (.txt, .md).
type TextLoader struct{}

// NewTextLoader creates a new text document loader.
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return &entities.Document{
		ID:        generateDocID(path),
		Name:      filepath.Base(path),
		Path:      path,
		Content:   string(content),
		CreatedAt: info.ModTime(),
		UpdatedAt: time.Now(),
	}, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

// DirectoryLoader reads an entire corpus directory, dispatching each file to
// the loader for its extension. Implements ports.DocumentSource.
type DirectoryLoader struct {
	loaders map[string]ports.DocumentLoader
}

// NewDirectoryLoader creates a source over the given per-file loaders. With
// no loaders given it handles text, markdown and PDF.
func NewDirectoryLoader(loaders ...ports.DocumentLoader) *DirectoryLoader {
	if len(loaders) == 0 {
		loaders = []ports.DocumentLoader{NewTextLoader(), NewPDFLoader()}
	}
	byExt := make(map[string]ports.DocumentLoader)
	for _, l := range loaders {
		for _, ext := range l.SupportedExtensions() {
			byExt[ext] = l
		}
	}
	return &DirectoryLoader{loaders: byExt}
}

// LoadAll returns all matching documents under dir in path-sorted order.
// An unreadable directory or file is an error; a directory with no matching
// files yields an empty list.
func (d *DirectoryLoader) LoadAll(ctx context.Context, dir string) ([]entities.Document, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := d.loaders[ext]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}
	sort.Strings(paths)

	docs := make([]entities.Document, 0, len(paths))
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		doc, err := d.loaders[ext].Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// SupportedExtensions returns all extensions the source picks up.
func (d *DirectoryLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(d.loaders))
	for ext := range d.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// generateDocID creates a deterministic ID for a document.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
