package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSSink writes files below a root directory.
type FSSink struct {
	root string
}

// NewFSSink returns a filesystem sink rooted at root, creating it if needed.
func NewFSSink(root string) (*FSSink, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create publish root: %w", err)
	}
	return &FSSink{root: root}, nil
}

func (s *FSSink) Driver() Driver { return DriverFilesystem }

// Root returns the directory files are written under.
func (s *FSSink) Root() string { return s.root }

func (s *FSSink) Put(_ context.Context, key string, payload []byte, _ string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *FSSink) Close(context.Context) error { return nil }
