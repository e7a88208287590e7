package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/viankakrisna/create-react-app-extra/internal/config"
	"github.com/viankakrisna/create-react-app-extra/internal/logging"
	"github.com/viankakrisna/create-react-app-extra/internal/output"
	"github.com/viankakrisna/create-react-app-extra/internal/paths"
	"github.com/viankakrisna/create-react-app-extra/internal/reconcile"
	"github.com/viankakrisna/create-react-app-extra/internal/report"
	"github.com/viankakrisna/create-react-app-extra/internal/sizemap"
)

type sizesOptions struct {
	format string
	output string
}

func newSizesCommand() *cobra.Command {
	opts := &sizesOptions{}

	cmd := &cobra.Command{
		Use:   "sizes",
		Short: "Print the gzipped sizes of the current build",
		Long: `Sizes measures every script and stylesheet in build/ and prints
their gzipped sizes, largest first, without compiling anything.

Use --format json or --format yaml for machine readable output and
--output to write it to a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSizes(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "text", "output format: text, json, yaml")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func runSizes(cmd *cobra.Command, opts *sizesOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	// Files never receive colour codes.
	var tty io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		tty = io.Discard
	}

	p, err := paths.Resolve(cfg.AppDir)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	encode, err := sizesRegistry(p.Build, newRenderer(tty, cfg)).Encoder(opts.format)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	fsys := afero.NewOsFs()

	files, err := reconcile.ListFiles(fsys, p.Build)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		rel, relErr := filepath.Rel(p.Build, f)
		if relErr != nil {
			return fmt.Errorf("resolving %s: %w", f, relErr)
		}

		names = append(names, filepath.ToSlash(rel))
	}

	entries, err := sizemap.Measure(fsys, p.Build, names, sizemap.IsScriptOrStyle, sizemap.GzipSize)
	if err != nil {
		return fmt.Errorf("measuring build: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Size > entries[j].Size })

	data, err := encode(output.Rows(entries))
	if err != nil {
		return err
	}

	var dst output.Writer = output.NewStreamWriter(cmd.OutOrStdout())
	if opts.output != "" {
		dst = output.NewFileWriter(opts.output, output.WithFs(fsys), output.WithLogger(logger))
	}

	return dst.Write(data)
}

// sizesRegistry returns the formats accepted by sizes --format.
func sizesRegistry(buildDir string, r *lipgloss.Renderer) *output.Registry {
	registry := output.DefaultRegistry()
	registry.Register("text", textEncoder(buildDir, r))

	return registry
}

// textEncoder renders rows as the size table of the watch report.
func textEncoder(buildDir string, renderer *lipgloss.Renderer) output.Encoder {
	rep := &report.Reporter{
		BuildDir: buildDir,
		Palette:  report.NewPalette(renderer),
	}

	return func(rows []output.AssetSize) ([]byte, error) {
		return []byte("File sizes after gzip:\n\n" + rep.SizeTable(output.Entries(rows), nil)), nil
	}
}
