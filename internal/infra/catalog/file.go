package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, l.path)
		}
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", l.path, err)
	}

	slog.DebugContext(ctx, "catalog file loaded",
		slog.String("path", l.path),
		slog.Int("advertisements", c.Len()),
	)

	return c, nil
}

func (l *FileLoader) Source() string {
	return "file"
}
