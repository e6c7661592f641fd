package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// LocalStore keeps artifacts as files in one directory.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory artifacts are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes data to a temporary file, then hard-links it to the first free
// artifact name. Readers never see a partially written artifact.
func (s *LocalStore) Save(ctx context.Context, kind string, data []byte) (string, error) {
	if err := checkKind(kind); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".partial-*")
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	millis := s.now().UnixMilli()
	for i := int64(0); i < maxNameAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := ArtifactName(kind, millis+i)
		err := os.Link(tmp.Name(), filepath.Join(s.dir, name))
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to store artifact: %w", err)
		}
	}
	return "", fmt.Errorf("no free artifact name for %s after %d attempts", kind, maxNameAttempts)
}

// Open opens an artifact for reading.
func (s *LocalStore) Open(_ context.Context, name string) (*Object, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}
	return &Object{Body: f, Size: info.Size(), ContentType: "application/pdf"}, nil
}
