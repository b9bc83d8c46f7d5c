package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const storageDirPerm = 0o755

// FSStore keeps artifacts as files under a single root directory, created
// lazily on first use.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	return &FSStore{root: trimmed}, nil
}

func (s *FSStore) Save(ctx context.Context, id string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, storageDirPerm); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %q: %w", id, err)
	}
	return nil
}

func (s *FSStore) Open(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFoundErr(id)
		}
		return nil, fmt.Errorf("failed to read artifact %q: %w", id, err)
	}
	return content, nil
}

func (s *FSStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := s.resolve(id)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat artifact %q: %w", id, err)
	}
	return true, nil
}

func (s *FSStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, storageDirPerm); err != nil {
		return fmt.Errorf("storage dir unavailable: %w", err)
	}
	return nil
}

// resolve rejects ids that would escape the storage root.
func (s *FSStore) resolve(id string) (string, error) {
	cleaned := strings.TrimSpace(id)
	if cleaned == "" {
		return "", notFoundErr(id)
	}
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", notFoundErr(id)
	}
	return filepath.Join(s.root, cleaned), nil
}
