package paths

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()

	p, err := Resolve(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "build"), p.Build)
	assert.Equal(t, filepath.Join(root, "public"), p.Public)
	assert.Equal(t, filepath.Join(root, "public", "index.html"), p.HTML)
	assert.Equal(t, filepath.Join(root, "src", "index.js"), p.IndexJS)
}

func TestPackageManager(t *testing.T) {
	root := t.TempDir()
	p, err := Resolve(root)
	require.NoError(t, err)

	assert.False(t, p.UseYarn())
	assert.Equal(t, "npm", p.PackageManager())

	require.NoError(t, os.WriteFile(p.YarnLock, nil, 0o600))
	assert.True(t, p.UseYarn())
	assert.Equal(t, "yarn", p.PackageManager())
}

func TestDisplay(t *testing.T) {
	cwd := filepath.FromSlash("/home/dev/app")

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"inside cwd", filepath.FromSlash("/home/dev/app/src"), filepath.FromSlash("./src")},
		{"cwd itself", cwd, "."},
		{"outside cwd", filepath.FromSlash("/srv/app/src"), filepath.FromSlash("/srv/app/src")},
		{"sibling prefix", filepath.FromSlash("/home/dev/application/src"), filepath.FromSlash("/home/dev/application/src")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.dir, cwd))
		})
	}
}

func TestCheckRequiredFiles(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "index.html")
	require.NoError(t, os.WriteFile(present, []byte("<html></html>"), 0o600))

	var buf bytes.Buffer
	assert.True(t, CheckRequiredFiles(&buf, present))
	assert.Empty(t, buf.String())

	missing := filepath.Join(root, "src", "index.js")
	assert.False(t, CheckRequiredFiles(&buf, present, missing))
	assert.Contains(t, buf.String(), "Could not find a required file.")
	assert.Contains(t, buf.String(), "Name: index.js")
	assert.Contains(t, buf.String(), "Searched in: "+filepath.Join(root, "src"))
}

func TestVendorHash(t *testing.T) {
	root := t.TempDir()
	p, err := Resolve(root)
	require.NoError(t, err)

	_, ok, err := p.VendorHash("development")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Dir(p.Vendor), 0o750))
	require.NoError(t, os.WriteFile(p.Vendor, []byte("hello"), 0o600))

	hash, ok, err := p.VendorHash("development")
	require.NoError(t, err)
	assert.True(t, ok)
	// md5("hello")
	assert.Equal(t, "development.5d41402abc4b2a76b9719d911017c592", hash)
}
