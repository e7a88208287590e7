package bundler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// metafile is the subset of the esbuild metafile JSON used to find the
// entry outputs of a build.
type metafile struct {
	Outputs map[string]metafileOutput `json:"outputs"`
}

// metafileOutput describes one output file. Paths are relative to the
// build's working directory.
type metafileOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
	CSSBundle  string `json:"cssBundle,omitempty"`
}

// entryAssets lists the scripts and stylesheets produced for entry points,
// as forward-slash paths relative to buildDir.
func entryAssets(raw, workDir, buildDir string) (scripts, styles []string, err error) {
	if raw == "" {
		return nil, nil, nil
	}

	var meta metafile
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, nil, fmt.Errorf("parsing metafile: %w", err)
	}

	for out, info := range meta.Outputs {
		if info.EntryPoint == "" || !strings.HasSuffix(out, ".js") {
			continue
		}

		script, err := relAsset(workDir, buildDir, out)
		if err != nil {
			return nil, nil, err
		}

		scripts = append(scripts, script)

		if info.CSSBundle != "" {
			style, err := relAsset(workDir, buildDir, info.CSSBundle)
			if err != nil {
				return nil, nil, err
			}

			styles = append(styles, style)
		}
	}

	sort.Strings(scripts)
	sort.Strings(styles)

	return scripts, styles, nil
}

func relAsset(workDir, buildDir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, filepath.FromSlash(path))
	}

	rel, err := filepath.Rel(buildDir, path)
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", path, buildDir, err)
	}

	return filepath.ToSlash(rel), nil
}
