package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// Output layout below the build root.
const (
	entryNames = "static/js/[name].[hash]"
	chunkNames = "static/js/[name].[hash].chunk"
	assetNames = "static/media/[name].[hash]"

	htmlAsset = "index.html"
)

// fileLoaderExts are imported as URLs to hashed copies under static/media.
var fileLoaderExts = []string{
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
	".woff", ".woff2", ".ttf", ".eot",
}

// Options configures the esbuild watch session.
type Options struct {
	// AppDir is the working directory of the build.
	AppDir string
	// BuildDir receives the compiled output.
	BuildDir string
	// EntryPoint is the JavaScript entry module.
	EntryPoint string
	// HTMLTemplate is rendered into BuildDir/index.html after every
	// successful compilation.
	HTMLTemplate string
	// Env is exposed to the bundle as process.env.<KEY> and substituted
	// for %KEY% in the HTML template.
	Env map[string]string
	// PublicURL prefixes asset URLs.
	PublicURL string
	// Color enables ANSI colours in diagnostics.
	Color bool

	Fs     afero.Fs
	Logger *slog.Logger
}

// ESBuild drives an esbuild build context in watch mode.
type ESBuild struct {
	opts Options

	mu      sync.Mutex
	bctx    api.BuildContext
	em      *emitter
	started atomic.Bool
}

var _ Bundler = (*ESBuild)(nil)

// NewESBuild creates an esbuild-backed Bundler.
func NewESBuild(opts Options) *ESBuild {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &ESBuild{opts: opts}
}

// Watch creates the build context and starts watching. The first event is
// the Done of the initial compilation; Invalidated precedes every later one.
func (b *ESBuild) Watch(ctx context.Context) (<-chan Event, error) {
	em := newEmitter(ctx)

	b.mu.Lock()
	b.em = em
	b.mu.Unlock()

	bctx, cerr := api.Context(b.buildOptions())
	if cerr != nil {
		return nil, fmt.Errorf("creating esbuild context: %s", joinMessages(cerr.Errors))
	}

	b.mu.Lock()
	b.bctx = bctx
	b.mu.Unlock()

	// Watch may run the initial build before returning, and that build blocks
	// until its Done event is consumed from the channel returned below.
	go func() {
		if err := bctx.Watch(api.WatchOptions{}); err != nil {
			em.emit(Done, &Result{Errors: []string{fmt.Sprintf("starting watch mode: %v", err)}})
		}
	}()

	go func() {
		<-ctx.Done()
		bctx.Dispose()
	}()

	return em.events, nil
}

// Rebuild runs one compilation outside of esbuild's own file watching, for
// example after a public folder change. It is a no-op before Watch.
func (b *ESBuild) Rebuild() {
	b.mu.Lock()
	bctx := b.bctx
	b.mu.Unlock()

	if bctx == nil {
		return
	}

	bctx.Rebuild()
}

func (b *ESBuild) buildOptions() api.BuildOptions {
	loaders := map[string]api.Loader{".js": api.LoaderJSX}
	for _, ext := range fileLoaderExts {
		loaders[ext] = api.LoaderFile
	}

	return api.BuildOptions{
		EntryPoints:   []string{b.opts.EntryPoint},
		AbsWorkingDir: b.opts.AppDir,
		Outdir:        b.opts.BuildDir,
		EntryNames:    entryNames,
		ChunkNames:    chunkNames,
		AssetNames:    assetNames,
		PublicPath:    b.publicPath(),
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Platform:      api.PlatformBrowser,
		Format:        api.FormatIIFE,
		Target:        api.ES2017,
		Loader:        loaders,
		Define:        defines(b.opts.Env),
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{b.lifecyclePlugin()},
	}
}

func (b *ESBuild) publicPath() string {
	return strings.TrimSuffix(b.opts.PublicURL, "/") + "/"
}

// lifecyclePlugin turns esbuild's start and end callbacks into events.
func (b *ESBuild) lifecyclePlugin() api.Plugin {
	return api.Plugin{
		Name: "cra-watch-lifecycle",
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				if b.started.Swap(true) {
					b.emitter().emit(Invalidated, nil)
				}

				return api.OnStartResult{}, nil
			})

			build.OnEnd(func(r *api.BuildResult) (api.OnEndResult, error) {
				b.emitter().emit(Done, b.finish(r))
				return api.OnEndResult{}, nil
			})
		},
	}
}

func (b *ESBuild) emitter() *emitter {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.em
}

// finish writes the outputs of a compilation and converts it into a Result.
func (b *ESBuild) finish(r *api.BuildResult) *Result {
	res := &Result{
		Errors:   b.format(r.Errors, api.ErrorMessage),
		Warnings: b.format(r.Warnings, api.WarningMessage),
	}

	if len(r.Errors) > 0 {
		return res
	}

	assets, err := b.writeOutputs(r.OutputFiles)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	if err := b.emitHTML(r.Metafile); err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	res.Assets = append(assets, htmlAsset)
	sort.Strings(res.Assets)

	b.opts.Logger.Debug("compilation written",
		slog.Int("assets", len(res.Assets)),
		slog.Int("warnings", len(res.Warnings)),
	)

	return res
}

func (b *ESBuild) writeOutputs(files []api.OutputFile) ([]string, error) {
	assets := make([]string, 0, len(files))

	for _, f := range files {
		rel, err := relAsset(b.opts.AppDir, b.opts.BuildDir, f.Path)
		if err != nil {
			return nil, err
		}

		if err := b.opts.Fs.MkdirAll(filepath.Dir(f.Path), 0o750); err != nil {
			return nil, fmt.Errorf("creating output directory for %s: %w", rel, err)
		}

		if err := afero.WriteFile(b.opts.Fs, f.Path, f.Contents, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", rel, err)
		}

		assets = append(assets, rel)
	}

	return assets, nil
}

func (b *ESBuild) emitHTML(rawMeta string) error {
	tmpl, err := afero.ReadFile(b.opts.Fs, b.opts.HTMLTemplate)
	if err != nil {
		return fmt.Errorf("reading html template: %w", err)
	}

	scripts, styles, err := entryAssets(rawMeta, b.opts.AppDir, b.opts.BuildDir)
	if err != nil {
		return err
	}

	page, err := renderHTML(tmpl, b.opts.Env, b.publicPath(), scripts, styles)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(b.opts.Fs, filepath.Join(b.opts.BuildDir, htmlAsset), page, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", htmlAsset, err)
	}

	return nil
}

func (b *ESBuild) format(msgs []api.Message, kind api.MessageKind) []string {
	if len(msgs) == 0 {
		return nil
	}

	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind:  kind,
		Color: b.opts.Color,
	})

	out := make([]string, 0, len(formatted))
	for _, m := range formatted {
		out = append(out, strings.TrimRight(m, "\n"))
	}

	return out
}

// defines maps env to esbuild define entries for process.env.<KEY>.
func defines(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))

	for key, value := range env {
		quoted, _ := json.Marshal(value)
		out["process.env."+key] = string(quoted)
	}

	return out
}

func joinMessages(msgs []api.Message) string {
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}

	return strings.Join(texts, "; ")
}

