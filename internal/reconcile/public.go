package reconcile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SyncPublic copies publicDir into buildDir recursively, skipping the single
// file exclude. Symbolic links are followed and materialised as regular files
// and directories. Existing files in buildDir are overwritten; nothing is
// removed, so files the bundler writes concurrently are left alone.
func SyncPublic(fsys afero.Fs, publicDir, buildDir, exclude string) error {
	exists, err := afero.DirExists(fsys, publicDir)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", publicDir, err)
	}

	if !exists {
		return nil
	}

	return copyTree(fsys, filepath.Clean(publicDir), filepath.Clean(buildDir), filepath.Clean(exclude))
}

func copyTree(fsys afero.Fs, src, dst, exclude string) error {
	if src == exclude {
		return nil
	}

	// Stat rather than Lstat so links are dereferenced.
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if !info.IsDir() {
		return copyFile(fsys, src, dst, info.Mode().Perm())
	}

	if err := fsys.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	for _, e := range entries {
		if err := copyTree(fsys, filepath.Join(src, e.Name()), filepath.Join(dst, e.Name()), exclude); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm|0o200)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	return nil
}
