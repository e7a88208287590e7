package sizemap

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Map associates an asset identifier with its compressed size in bytes.
type Map map[string]int64

// Lookup returns the size recorded for id.
func (m Map) Lookup(id string) (int64, bool) {
	size, ok := m[id]
	return size, ok
}

// Predicate selects the files that are measured.
type Predicate func(name string) bool

// IsScriptOrStyle keeps JavaScript and CSS assets.
func IsScriptOrStyle(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".js" || ext == ".css"
}

// Entry is a declared asset with its measured size.
type Entry struct {
	// Name is the asset path relative to the build root, hash included.
	Name string
	Size int64
}

// hashSegment captures the base name, the content hash (last dot segment
// before the extension) and the extension of a watched asset.
var hashSegment = regexp.MustCompile(`^(.*)(\.\w+)(\.js|\.css)$`)

// Identifier derives the hash-free asset identifier of path. path may be
// absolute below root or already relative to it:
//
//	/app/build/static/js/main.82be8.js -> static/js/main.js
//	static/js/main.js                  -> static/js/main.js
func Identifier(root, path string) string {
	rel := path
	if root != "" && (rel == root || strings.HasPrefix(rel, root+string(filepath.Separator))) {
		rel = strings.TrimPrefix(rel, root)
	}

	rel = strings.TrimLeft(filepath.ToSlash(rel), "/")

	return hashSegment.ReplaceAllString(rel, "${1}${3}")
}

// Build walks root and returns the sizes of all files selected by keep.
// A missing root yields an empty map; any other read failure aborts the
// whole build so callers never see a partial map.
func Build(fsys afero.Fs, root string, keep Predicate, size SizeFunc) (Map, error) {
	exists, err := afero.DirExists(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", root, err)
	}

	if !exists {
		return Map{}, nil
	}

	var files []string

	walkErr := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && keep(path) {
			files = append(files, path)
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("listing %s: %w", root, walkErr)
	}

	sizes, err := measure(fsys, files, size)
	if err != nil {
		return nil, err
	}

	m := make(Map, len(files))
	for i, f := range files {
		m[Identifier(root, f)] = sizes[i]
	}

	return m, nil
}

// Measure sizes the declared assets selected by keep. names are relative to
// root. The returned entries keep the order of names.
func Measure(fsys afero.Fs, root string, names []string, keep Predicate, size SizeFunc) ([]Entry, error) {
	var selected []string

	for _, name := range names {
		if keep(name) {
			selected = append(selected, name)
		}
	}

	paths := make([]string, len(selected))
	for i, name := range selected {
		paths[i] = filepath.Join(root, filepath.FromSlash(name))
	}

	sizes, err := measure(fsys, paths, size)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(selected))
	for i, name := range selected {
		entries[i] = Entry{Name: name, Size: sizes[i]}
	}

	return entries, nil
}

// measure reads and sizes files concurrently.
func measure(fsys afero.Fs, files []string, size SizeFunc) ([]int64, error) {
	sizes := make([]int64, len(files))

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			data, err := afero.ReadFile(fsys, file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			n, err := size(data)
			if err != nil {
				return fmt.Errorf("sizing %s: %w", file, err)
			}

			sizes[i] = n

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sizes, nil
}
