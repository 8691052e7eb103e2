// Package filesystem serves file contents as pages,
// keyed by slash-separated path.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/djdv/go-pagecache"
)

// Store reads pages from a file system.
type Store struct {
	fsys fs.FS
	root *os.Root
}

// New creates a [Store] that reads from fsys.
func New(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Open creates a [Store] confined to the directory dir.
// Paths may not escape dir, including via symbolic links.
// The returned Store must be closed.
func Open(dir string) (*Store, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("could not open page directory: %w", err)
	}
	return &Store{fsys: root.FS(), root: root}, nil
}

// Close releases the directory opened by [Open].
func (s *Store) Close() error {
	if s.root == nil {
		return nil
	}
	return s.root.Close()
}

// Contains reports if name exists and is a regular file.
func (s *Store) Contains(name string) bool {
	info, err := fs.Stat(s.fsys, name)
	return err == nil && info.Mode().IsRegular()
}

// Page returns the contents of the file name.
func (s *Store) Page(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pagecache.NotFound(name)
		}
		return nil, fmt.Errorf("could not read page %q: %w", name, err)
	}
	return data, nil
}
