// Package paths resolves the on-disk layout of a create-react-app style
// application and checks that the files a build needs are present.
package paths

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Paths is the resolved, absolute application layout.
type Paths struct {
	AppDir   string
	Build    string
	Public   string
	HTML     string
	Src      string
	IndexJS  string
	YarnLock string
	Vendor   string
}

// Resolve returns the layout rooted at appDir.
func Resolve(appDir string) (Paths, error) {
	root, err := filepath.Abs(appDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving app directory %q: %w", appDir, err)
	}

	return Paths{
		AppDir:   root,
		Build:    filepath.Join(root, "build"),
		Public:   filepath.Join(root, "public"),
		HTML:     filepath.Join(root, "public", "index.html"),
		Src:      filepath.Join(root, "src"),
		IndexJS:  filepath.Join(root, "src", "index.js"),
		YarnLock: filepath.Join(root, "yarn.lock"),
		Vendor:   filepath.Join(root, "src", "vendor", "index.js"),
	}, nil
}

// UseYarn reports whether the project is managed with yarn.
func (p Paths) UseYarn() bool {
	_, err := os.Stat(p.YarnLock)
	return err == nil
}

// PackageManager returns the command used in user-facing hints.
func (p Paths) PackageManager() string {
	if p.UseYarn() {
		return "yarn"
	}

	return "npm"
}

// Display renders dir relative to cwd the way a shell prompt would,
// e.g. "./src".
func Display(dir, cwd string) string {
	if cwd == "" {
		return dir
	}

	if dir == cwd {
		return "."
	}

	prefix := cwd + string(filepath.Separator)
	if strings.HasPrefix(dir, prefix) {
		return "." + string(filepath.Separator) + strings.TrimPrefix(dir, prefix)
	}

	return dir
}

// CheckRequiredFiles reports whether every file exists. The first missing
// file is described on w.
func CheckRequiredFiles(w io.Writer, files ...string) bool {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			_, _ = fmt.Fprintln(w, "Could not find a required file.")
			_, _ = fmt.Fprintf(w, "  Name: %s\n", filepath.Base(file))
			_, _ = fmt.Fprintf(w, "  Searched in: %s\n", filepath.Dir(file))

			return false
		}
	}

	return true
}

// VendorHash fingerprints the vendor entry as "<mode>.<md5>". The boolean
// is false when the project has no vendor entry.
func (p Paths) VendorHash(mode string) (string, bool, error) {
	data, err := os.ReadFile(p.Vendor)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading vendor entry: %w", err)
	}

	sum := md5.Sum(data) //nolint:gosec // see import

	return mode + "." + hex.EncodeToString(sum[:]), true, nil
}
