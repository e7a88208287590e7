// Package reconcile keeps a build output directory consistent with the
// bundler's declared output: it prunes files the bundler no longer emits
// and mirrors the static public folder into the build directory.
package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// ListFiles returns every non-directory entry below dir. A missing dir
// has no files.
func ListFiles(fsys afero.Fs, dir string) ([]string, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", dir, err)
	}

	if !exists {
		return nil, nil
	}

	var files []string

	err = afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	return files, nil
}

// Stale returns actual minus declared, sorted.
func Stale(declared, actual []string) []string {
	keep := make(map[string]struct{}, len(declared))
	for _, p := range declared {
		keep[filepath.Clean(p)] = struct{}{}
	}

	var stale []string

	for _, p := range actual {
		if _, ok := keep[filepath.Clean(p)]; !ok {
			stale = append(stale, p)
		}
	}

	sort.Strings(stale)

	return stale
}

// DeleteStale removes every file in actual that is not in declared.
//
// Deletion is best effort: a file that already vanished is not an error,
// every other failure is collected and the remaining files are still
// removed. The returned slice lists the files actually deleted.
func DeleteStale(fsys afero.Fs, declared, actual []string) ([]string, error) {
	var (
		deleted []string
		result  *multierror.Error
	)

	for _, p := range Stale(declared, actual) {
		if err := fsys.Remove(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			result = multierror.Append(result, fmt.Errorf("removing stale asset %s: %w", p, err))

			continue
		}

		deleted = append(deleted, p)
	}

	return deleted, result.ErrorOrNil()
}
