package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/viankakrisna/create-react-app-extra/internal/bundler"
	"github.com/viankakrisna/create-react-app-extra/internal/config"
	"github.com/viankakrisna/create-react-app-extra/internal/logging"
	"github.com/viankakrisna/create-react-app-extra/internal/paths"
	"github.com/viankakrisna/create-react-app-extra/internal/report"
	"github.com/viankakrisna/create-react-app-extra/internal/watch"
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Compile the application and recompile on every change",
		Long: `Watch compiles src/index.js into build/ and keeps recompiling it as
source files change.

After each compilation, files in build/ that the bundler no longer emits
are deleted, the public folder (except public/index.html) is copied into
build/, and a report is printed: errors, warnings, or the gzipped size of
every script and stylesheet compared with the previous successful build.

The session runs until it is interrupted. It exits with code 1 when
public/index.html or src/index.js is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	registerWatchFlags(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)
	out := cmd.OutOrStdout()

	p, err := paths.Resolve(cfg.AppDir)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	if !paths.CheckRequiredFiles(out, p.HTML, p.IndexJS) {
		return &ExitError{Code: 1}
	}

	publicURL := os.Getenv("PUBLIC_URL")

	env := config.ClientEnv(cfg.Mode, publicURL)

	hash, ok, err := p.VendorHash(cfg.Mode)
	if err != nil {
		return err
	}

	if ok {
		env[config.ClientEnvPrefix+"VENDOR_HASH"] = hash
	}

	logger.Debug("client environment", slog.Any("keys", config.SortedKeys(env)))

	interactive := isTerminal(out)
	renderer := newRenderer(out, cfg)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	fsys := afero.NewOsFs()

	b := bundler.NewESBuild(bundler.Options{
		AppDir:       p.AppDir,
		BuildDir:     p.Build,
		EntryPoint:   p.IndexJS,
		HTMLTemplate: p.HTML,
		Env:          env,
		PublicURL:    publicURL,
		Color:        interactive && !cfg.NoColor,
		Fs:           fsys,
		Logger:       logging.Component(logger, "bundler"),
	})

	orch := watch.New(watch.Options{
		Fs:           fsys,
		BuildDir:     p.Build,
		PublicDir:    p.Public,
		HTMLEntry:    p.HTML,
		Mode:         cfg.Mode,
		Interactive:  interactive,
		ClearConsole: cfg.ClearConsole,
		Reporter: &report.Reporter{
			Mode:           cfg.Mode,
			BuildDir:       p.Build,
			WatchedDir:     paths.Display(p.Src, cwd),
			PackageManager: p.PackageManager(),
			Palette:        report.NewPalette(renderer),
		},
		Out:    out,
		Logger: logging.Component(logger, "watch"),
	})

	// Trap SIGINT / SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.WatchPublic {
		publicLogger := logging.Component(logger, "public")

		go func() {
			err := watch.WatchPublic(ctx, watch.PublicOptions{
				Dir:      p.Public,
				Debounce: cfg.Debounce,
				Rebuild:  b.Rebuild,
				Logger:   publicLogger,
			})
			if err != nil {
				publicLogger.Error("public folder watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	return orch.Run(ctx, b)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// newRenderer returns a lipgloss renderer for w that honours --no-color.
func newRenderer(w io.Writer, cfg *config.Config) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if cfg.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return r
}
