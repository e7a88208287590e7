// Package report classifies compilation results and renders the console
// report shown after every compilation of a watch session.
package report

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/viankakrisna/create-react-app-extra/internal/bundler"
	"github.com/viankakrisna/create-react-app-extra/internal/sizemap"
)

// Classification is the outcome category of a compilation.
type Classification int

const (
	Clean Classification = iota
	WarningsOnly
	ErrorsPresent
)

func (c Classification) String() string {
	switch c {
	case WarningsOnly:
		return "warnings"
	case ErrorsPresent:
		return "errors"
	default:
		return "clean"
	}
}

// Classify inspects the messages of res. Errors take priority over warnings.
func Classify(res *bundler.Result) Classification {
	switch {
	case res == nil:
		return Clean
	case len(res.Errors) > 0:
		return ErrorsPresent
	case len(res.Warnings) > 0:
		return WarningsOnly
	default:
		return Clean
	}
}

// Palette holds the styles used by the report.
type Palette struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Command lipgloss.Style
	Folder  lipgloss.Style
	File    lipgloss.Style
	Delta   sizemap.Styles
}

// NewPalette binds the report styles to r.
func NewPalette(r *lipgloss.Renderer) Palette {
	return Palette{
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		Command: r.NewStyle().Foreground(lipgloss.Color("6")),
		Folder:  r.NewStyle().Faint(true),
		File:    r.NewStyle().Foreground(lipgloss.Color("6")),
		Delta:   sizemap.NewStyles(r),
	}
}

// Reporter renders compilation reports for one application.
type Reporter struct {
	// Mode is the build mode named in the success banner.
	Mode string
	// BuildDir is the absolute output directory.
	BuildDir string
	// WatchedDir is the display form of the source directory.
	WatchedDir string
	// PackageManager is the command shown in the dev server hint.
	PackageManager string

	Palette Palette
}

// Input is everything needed to render one report.
type Input struct {
	Result   *bundler.Result
	Sizes    []sizemap.Entry
	Previous sizemap.Map
	First    bool
}

// Render produces the report text for in, ending with a newline.
func (r *Reporter) Render(in Input) string {
	var b strings.Builder

	class := Classify(in.Result)

	switch class {
	case ErrorsPresent:
		line(&b, r.Palette.Failure.Render("Failed to compile."))
		line(&b, "")
		messages(&b, in.Result.Errors)

		return b.String()

	case WarningsOnly:
		line(&b, r.Palette.Warning.Render("Compiled with warnings."))
		line(&b, "")
		messages(&b, in.Result.Warnings)
		line(&b, "You may use special comments to disable some warnings.")
		line(&b, "Use "+r.Palette.Warning.Render("// eslint-disable-next-line")+" to ignore the next line.")
		line(&b, "Use "+r.Palette.Warning.Render("/* eslint-disable */")+" to ignore all warnings in a file.")

	case Clean:
		line(&b, r.Palette.Success.Render(fmt.Sprintf("Successfully compiled a %s build.", r.Mode)))
		line(&b, "")
		line(&b, "You can access the compiled files in")
		line(&b, r.BuildDir)
		line(&b, "")
		line(&b, "File sizes after gzip:")
		line(&b, "")
		b.WriteString(r.SizeTable(in.Sizes, in.Previous))

		if in.First {
			line(&b, "")
			line(&b, "Note that running in watch mode is slower and only recommended if you need to")
			line(&b, "serve the assets with your own back-end in development.")
			line(&b, "")
			line(&b, "To create a development server, use "+r.Palette.Command.Render(r.PackageManager+" start")+".")
		}
	}

	line(&b, "")
	line(&b, "Waiting for changes in "+r.WatchedDir+"/")

	return b.String()
}

// SizeTable renders one line per asset, largest first, with size labels
// padded to a common visible width.
func (r *Reporter) SizeTable(sizes []sizemap.Entry, previous sizemap.Map) string {
	type row struct {
		folder string
		name   string
		size   int64
		label  string
	}

	buildName := filepath.Base(r.BuildDir)
	rows := make([]row, 0, len(sizes))

	for _, e := range sizes {
		prev, known := previous.Lookup(sizemap.Identifier("", e.Name))

		label := sizemap.FormatBytes(e.Size)
		if delta := sizemap.DiffLabel(e.Size, prev, known, r.Palette.Delta); delta != "" {
			label += " (" + delta + ")"
		}

		rows = append(rows, row{
			folder: filepath.Join(buildName, filepath.FromSlash(path.Dir(e.Name))),
			name:   path.Base(e.Name),
			size:   e.Size,
			label:  label,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].size > rows[j].size })

	width := 0
	for _, rw := range rows {
		width = max(width, lipgloss.Width(rw.label))
	}

	var b strings.Builder

	for _, rw := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(rw.label))
		line(&b, "  "+rw.label+pad+"  "+
			r.Palette.Folder.Render(rw.folder+string(filepath.Separator))+
			r.Palette.File.Render(rw.name))
	}

	return b.String()
}

func messages(b *strings.Builder, msgs []string) {
	for _, m := range msgs {
		line(b, m)
		line(b, "")
	}
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}
