package infra_posters_fs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/kinokreker/core/internal/model"
)

// Storage keeps poster files on the local disk under a single directory,
// named by the Kinopoisk numeric id. Save returns the public URL path the
// HTTP layer serves the directory under.
type Storage struct {
	dir          string
	publicPrefix string
}

func New(dir, publicPrefix string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create poster dir: %w", err)
	}

	return &Storage{
		dir:          dir,
		publicPrefix: publicPrefix,
	}, nil
}

func (s *Storage) Save(_ context.Context, poster model.Poster) (string, error) {
	name := filepath.Base(poster.GetFilename())

	if err := os.WriteFile(filepath.Join(s.dir, name), poster.GetContent(), 0o644); err != nil {
		return "", fmt.Errorf("failed to save poster: %w", err)
	}

	return path.Join(s.publicPrefix, name), nil
}
