package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/viankakrisna/create-react-app-extra/internal/bundler"
	"github.com/viankakrisna/create-react-app-extra/internal/reconcile"
	"github.com/viankakrisna/create-react-app-extra/internal/report"
	"github.com/viankakrisna/create-react-app-extra/internal/sizemap"
)

// clearScreen erases the screen and the scrollback, then homes the cursor.
const clearScreen = "\x1b[2J\x1b[3J\x1b[H"

// Options configures an Orchestrator.
type Options struct {
	Fs afero.Fs

	// BuildDir is the output directory kept in sync with the bundler.
	BuildDir string
	// PublicDir is mirrored into BuildDir on every event.
	PublicDir string
	// HTMLEntry is the public file owned by the bundler and never copied.
	HTMLEntry string
	// Mode is the build mode shown in the startup banner.
	Mode string

	// Interactive reports whether Out is a terminal. It is fixed for the
	// whole session.
	Interactive bool
	// ClearConsole clears an interactive terminal before each report.
	ClearConsole bool

	Reporter *report.Reporter
	// Size measures one asset; defaults to sizemap.GzipSize.
	Size sizemap.SizeFunc

	// Out receives the user-facing report.
	Out    io.Writer
	Logger *slog.Logger
}

// Session is the state carried from one compilation to the next.
type Session struct {
	// Previous holds the sizes of the last clean compilation.
	Previous sizemap.Map
	// FirstCompile is true until the first clean report was printed.
	FirstCompile bool
	Interactive  bool

	declared []string
}

// Orchestrator drives a watch session. Events are handled strictly one
// after another; session state is only touched from Handle.
type Orchestrator struct {
	opts    Options
	session Session
}

// New returns an Orchestrator with defaults filled in.
func New(opts Options) *Orchestrator {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.Size == nil {
		opts.Size = sizemap.GzipSize
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Orchestrator{
		opts:    opts,
		session: Session{FirstCompile: true, Interactive: opts.Interactive},
	}
}

// Session returns a copy of the current session state.
func (o *Orchestrator) Session() Session {
	return o.session
}

// Run measures the existing build output, starts the bundler and handles
// its events until ctx is cancelled or the bundler closes the stream.
func (o *Orchestrator) Run(ctx context.Context, b bundler.Bundler) error {
	prev, err := sizemap.Build(o.opts.Fs, o.opts.BuildDir, sizemap.IsScriptOrStyle, o.opts.Size)
	if err != nil {
		return fmt.Errorf("measuring existing build: %w", err)
	}

	o.session.Previous = prev

	fmt.Fprintf(o.opts.Out, "Compiling %s build...\n", o.opts.Mode)

	events, err := b.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting bundler: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}

			o.Handle(ev)
			ev.Ack()
		}
	}
}

// Handle processes a single event. It does not acknowledge it.
func (o *Orchestrator) Handle(ev bundler.Event) {
	o.opts.Logger.Debug("bundler event", slog.String("kind", ev.Kind.String()))

	switch ev.Kind {
	case bundler.Invalidated:
		o.invalidated()
	case bundler.Done:
		o.done(ev.Result)
	default:
		o.opts.Logger.Warn("ignoring unknown bundler event", slog.Int("kind", int(ev.Kind)))
	}
}

func (o *Orchestrator) invalidated() {
	o.clear()

	if err := reconcile.SyncPublic(o.opts.Fs, o.opts.PublicDir, o.opts.BuildDir, o.opts.HTMLEntry); err != nil {
		o.opts.Logger.Error("copying public folder", slog.String("error", err.Error()))
	}

	fmt.Fprintln(o.opts.Out, "Compiling...")
}

func (o *Orchestrator) done(res *bundler.Result) {
	if res == nil {
		res = &bundler.Result{}
	}

	o.clear()

	// A failed compilation writes nothing, so the last good output stays
	// declared and on disk.
	assets := res.Assets
	if len(res.Errors) > 0 && len(assets) == 0 {
		assets = o.session.declared
	}

	if err := o.reconcile(assets); err != nil {
		o.opts.Logger.Error("reconciling build output",
			slog.String("dir", o.opts.BuildDir),
			slog.String("error", err.Error()))
	}

	class := report.Classify(res)

	var sizes []sizemap.Entry

	if class == report.Clean {
		var err error

		sizes, err = sizemap.Measure(o.opts.Fs, o.opts.BuildDir, res.Assets, sizemap.IsScriptOrStyle, o.opts.Size)
		if err != nil {
			o.opts.Logger.Error("measuring assets", slog.String("error", err.Error()))
		}
	}

	fmt.Fprint(o.opts.Out, o.opts.Reporter.Render(report.Input{
		Result:   res,
		Sizes:    sizes,
		Previous: o.session.Previous,
		First:    o.session.FirstCompile,
	}))

	if class != report.Clean {
		return
	}

	next, err := sizemap.Build(o.opts.Fs, o.opts.BuildDir, sizemap.IsScriptOrStyle, o.opts.Size)
	if err != nil {
		o.opts.Logger.Error("measuring build output", slog.String("error", err.Error()))
	} else {
		o.session.Previous = next
	}

	o.session.FirstCompile = false
}

// reconcile deletes files the bundler no longer declares, then mirrors the
// public folder. The copy is attempted even when a deletion fails.
func (o *Orchestrator) reconcile(assets []string) error {
	o.logManifest(assets)

	var result *multierror.Error

	actual, err := reconcile.ListFiles(o.opts.Fs, o.opts.BuildDir)
	if err != nil {
		result = multierror.Append(result, err)
	} else {
		declared := make([]string, len(assets))
		for i, a := range assets {
			declared[i] = filepath.Join(o.opts.BuildDir, filepath.FromSlash(a))
		}

		deleted, err := reconcile.DeleteStale(o.opts.Fs, declared, actual)
		for _, p := range deleted {
			o.opts.Logger.Debug("removed stale file", slog.String("path", p))
		}

		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := reconcile.SyncPublic(o.opts.Fs, o.opts.PublicDir, o.opts.BuildDir, o.opts.HTMLEntry); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// logManifest logs a unified diff of the declared assets against the
// previous compilation at debug level.
func (o *Orchestrator) logManifest(assets []string) {
	current := slices.Sorted(slices.Values(assets))
	previous := o.session.declared
	o.session.declared = current

	if !o.opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        manifestLines(previous),
		B:        manifestLines(current),
		FromFile: "previous",
		ToFile:   "current",
		Context:  0,
	})
	if err != nil || diff == "" {
		return
	}

	o.opts.Logger.Debug("declared assets changed", slog.String("diff", diff))
}

func manifestLines(assets []string) []string {
	if len(assets) == 0 {
		return nil
	}

	return difflib.SplitLines(strings.Join(assets, "\n"))
}

func (o *Orchestrator) clear() {
	if o.session.Interactive && o.opts.ClearConsole {
		fmt.Fprint(o.opts.Out, clearScreen)
	}
}
