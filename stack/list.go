package stack

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/source"
)

// Entry is a stack file found by List.
type Entry struct {
	Name  string
	Path  string
	Title string
}

// List returns the .yaml stack files in dirs sorted by name, each with the
// title it declares. A name present in several directories is taken from the
// first one, matching Resolve. Missing directories are skipped.
func List(dirs ...string) ([]Entry, error) {
	seen := map[string]struct{}{}
	var out []Entry
	for _, dir := range dirs {
		files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			if !isFile(path) {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(path), ".yaml")
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			title, err := readTitle(path)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Name: name, Path: path, Title: title})
		}
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func readTitle(path string) (string, error) {
	raw, err := source.Load(path)
	if err != nil {
		return "", err
	}
	m, ok := raw.(*recordkit.Mapping)
	if !ok {
		return "", nil
	}
	v, ok := m.Get("title")
	if !ok || v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}
