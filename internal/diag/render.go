package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"nvcgo/internal/loc"
)

// Renderer prints diagnostics to a writer. Compact mode is one line per
// diagnostic; full mode additionally prints the hint chain.
type Renderer struct {
	Files   *loc.FileTable
	Color   bool
	Compact bool
}

// NewRenderer builds a renderer that auto-detects color support from w and
// honors the NO_COLOR convention (§6 "Environment").
func NewRenderer(w io.Writer, files *loc.FileTable, compact bool) *Renderer {
	useColor := os.Getenv("NO_COLOR") == ""
	if f, ok := w.(*os.File); ok {
		useColor = useColor && term.IsTerminal(int(f.Fd()))
	}
	return &Renderer{Files: files, Color: useColor, Compact: compact}
}

func (r *Renderer) sevColor(s Severity) *color.Color {
	switch s {
	case Error:
		return color.New(color.FgRed, color.Bold)
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) {
	label := d.Severity.String()
	if r.Color {
		label = r.sevColor(d.Severity).Sprint(label)
	}
	loc := r.locString(d.At)
	fmt.Fprintf(w, "%s: %s: %s\n", loc, label, d.Message)
	if r.Compact {
		return
	}
	for _, h := range d.Hints {
		fmt.Fprintf(w, "  hint: %s: %s\n", r.locString(h.At), h.Msg)
	}
}

func (r *Renderer) locString(l loc.Loc) string {
	if !l.IsValid() {
		return "<nowhere>"
	}
	path := ""
	if r.Files != nil {
		path = r.Files.Path(l.File)
	}
	if path == "" {
		return l.String()
	}
	return fmt.Sprintf("%s:%d:%d", path, l.Line, l.Col)
}

// RenderAll writes every diagnostic in bag to w, in their current order.
func (r *Renderer) RenderAll(w io.Writer, bag *Bag) {
	for _, d := range bag.Items() {
		r.Render(w, d)
	}
}
