package sizemap

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// LargeGrowthThreshold is the growth, in bytes, from which a delta is
// flagged as large.
const LargeGrowthThreshold int64 = 50 * 1024

// Change classifies the difference between two sizes of one asset.
type Change int

const (
	// NoChange covers equal sizes and assets without a previous size.
	NoChange Change = iota
	SmallGrowth
	LargeGrowth
	Shrink
)

func (c Change) String() string {
	switch c {
	case SmallGrowth:
		return "small-growth"
	case LargeGrowth:
		return "large-growth"
	case Shrink:
		return "shrink"
	default:
		return "no-change"
	}
}

// Delta is current minus previous size.
type Delta struct {
	Change Change
	Bytes  int64
}

// Diff compares current with previous. known is false when the asset had no
// previous size.
func Diff(current, previous int64, known bool) Delta {
	if !known {
		return Delta{Change: NoChange}
	}

	d := current - previous

	switch {
	case d >= LargeGrowthThreshold:
		return Delta{Change: LargeGrowth, Bytes: d}
	case d > 0:
		return Delta{Change: SmallGrowth, Bytes: d}
	case d < 0:
		return Delta{Change: Shrink, Bytes: d}
	default:
		return Delta{Change: NoChange}
	}
}

// String renders the unstyled label: "" for no change, "+1.2 KiB" for
// growth, "-50 B" for a shrink.
func (d Delta) String() string {
	switch d.Change {
	case SmallGrowth, LargeGrowth:
		return "+" + FormatBytes(d.Bytes)
	case Shrink:
		return FormatBytes(d.Bytes)
	default:
		return ""
	}
}

// FormatBytes renders n with IEC units, keeping the sign of negative values.
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}

	return humanize.IBytes(uint64(n))
}

// Styles colour the delta labels.
type Styles struct {
	LargeGrowth lipgloss.Style
	SmallGrowth lipgloss.Style
	Shrink      lipgloss.Style
}

// NewStyles returns the standard red / yellow / green label styles bound to r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		LargeGrowth: r.NewStyle().Foreground(lipgloss.Color("1")),
		SmallGrowth: r.NewStyle().Foreground(lipgloss.Color("3")),
		Shrink:      r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Render styles the label of d.
func (s Styles) Render(d Delta) string {
	switch d.Change {
	case LargeGrowth:
		return s.LargeGrowth.Render(d.String())
	case SmallGrowth:
		return s.SmallGrowth.Render(d.String())
	case Shrink:
		return s.Shrink.Render(d.String())
	default:
		return ""
	}
}

// DiffLabel is Diff followed by Render.
func DiffLabel(current, previous int64, known bool, s Styles) string {
	return s.Render(Diff(current, previous, known))
}
