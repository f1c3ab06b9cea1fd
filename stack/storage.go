package stack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Storage is the shared handle experiments write their results through.
type Storage interface {
	Base() string
	Substorage(name string) Storage
	// Directory returns (creating it) the directory made of parts below
	// the base. nil parts are skipped.
	Directory(parts ...any) (string, error)
}

// LocalStorage is a Storage rooted at a local directory.
type LocalStorage struct {
	root string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage returns a storage rooted at root.
func NewLocalStorage(root string) *LocalStorage { return &LocalStorage{root: root} }

// Base returns the root directory.
func (s *LocalStorage) Base() string { return s.root }

// Substorage returns a storage rooted at a subdirectory.
func (s *LocalStorage) Substorage(name string) Storage {
	return &LocalStorage{root: filepath.Join(s.root, name)}
}

// Directory joins parts below the root and creates the directory.
func (s *LocalStorage) Directory(parts ...any) (string, error) {
	segs := []string{s.root}
	for _, p := range parts {
		seg, err := segment(p)
		if err != nil {
			return "", err
		}
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	dir := filepath.Join(segs...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func segment(p any) (string, error) {
	switch v := p.(type) {
	case nil:
		return "", nil
	case string:
		if filepath.IsAbs(v) {
			return "", errors.New("storage: only relative paths allowed")
		}
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case interface{ Identifier() string }:
		return v.Identifier(), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return fmt.Sprintf("%T", p), nil
}

// Workspace owns the storage a stack's experiments are bound to.
type Workspace struct {
	storage Storage
}

// NewWorkspace returns a workspace over storage.
func NewWorkspace(storage Storage) *Workspace { return &Workspace{storage: storage} }

// Storage returns the workspace storage.
func (w *Workspace) Storage() Storage { return w.storage }
