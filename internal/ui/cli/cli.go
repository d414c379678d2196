// Package cli renders identity maps and domain summaries on the terminal.
package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/hexdomains/internal/generics"
	"github.com/janpfeifer/hexdomains/internal/hexgrid"
	"github.com/janpfeifer/hexdomains/internal/shape"
	"golang.org/x/term"
)

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len(ansiFilter.ReplaceAllString(s, ""))
}

// palette of terminal colors for the identities.
var palette = []string{"9", "10", "11", "12", "13", "14", "1", "2", "3", "4", "5", "6"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	islandStyle = lipgloss.NewStyle().Italic(true)
)

// UI prints to a writer, optionally with colors.
type UI struct {
	w     io.Writer
	color bool
}

// New creates a UI that prints to w.
func New(w io.Writer, color bool) *UI {
	return &UI{w: w, color: color}
}

// identityLabels assigns one letter per identity, in increasing order of identity.
func identityLabels(ids []float32) map[float32]int {
	distinct := generics.MakeSet[float32]()
	distinct.Insert(ids...)
	labels := make(map[float32]int, len(distinct))
	for id := range generics.SortedKeys(distinct) {
		labels[id] = len(labels)
	}
	return labels
}

func (ui *UI) glyph(label int, marked bool) string {
	letter := '?'
	if label < 26 {
		letter = rune('a' + label)
	}
	if marked {
		letter = rune(strings.ToUpper(string(letter))[0])
	}
	if !ui.color {
		return string(letter)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette[label%len(palette)])).Render(string(letter))
}

// Map renders the identity of each cell as a letter, with rows of cells from top to bottom.
// Marked cells are rendered in upper case.
func (ui *UI) Map(g *hexgrid.Grid, ids []float32, marked generics.Set[int]) string {
	if g.NumCells() == 0 {
		return ""
	}
	labels := identityLabels(ids)
	// Column of a cell in characters: 2*R+G, so that rows are shifted by half a cell.
	column := func(pos hexgrid.Pos) int { return 2*pos.R() + pos.G() }
	rows := make(map[int][]int)
	minCol, maxCol := column(g.Cell(0).Pos), column(g.Cell(0).Pos)
	for idx, cell := range g.Cells() {
		rows[cell.Pos.G()] = append(rows[cell.Pos.G()], idx)
		minCol = min(minCol, column(cell.Pos))
		maxCol = max(maxCol, column(cell.Pos))
	}
	rowKeys := slices.Collect(generics.SortedKeys(rows))
	slices.Reverse(rowKeys)

	var sb strings.Builder
	line := make([]string, maxCol-minCol+1)
	for _, gi := range rowKeys {
		for ii := range line {
			line[ii] = " "
		}
		lastCol := 0
		for _, idx := range rows[gi] {
			col := column(g.Cell(idx).Pos) - minCol
			line[col] = ui.glyph(labels[ids[idx]], marked.Has(idx))
			lastCol = max(lastCol, col)
		}
		sb.WriteString(strings.Join(line[:lastCol+1], ""))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend lists the letter used for each identity.
func (ui *UI) Legend(ids []float32) string {
	labels := identityLabels(ids)
	parts := make([]string, 0, len(labels))
	for id, label := range generics.SortedKeysAndValues(labels) {
		parts = append(parts, fmt.Sprintf("%s=%.3g", ui.glyph(label, false), id))
	}
	return strings.Join(parts, " ")
}

// Summary of the domains, one per line.
func (ui *UI) Summary(domains []shape.Domain) string {
	var sb strings.Builder
	header := fmt.Sprintf("%8s %8s %10s %10s %20s", "identity", "vertices", "area", "perimeter", "centroid")
	if ui.color {
		header = headerStyle.Render(header)
	}
	sb.WriteString(header)
	sb.WriteByte('\n')
	for ii := range domains {
		domain := &domains[ii]
		line := fmt.Sprintf("%8.3g %8d %10.3f %10.3f %20s", domain.ID, len(domain.Vertices),
			domain.Area(), domain.Perimeter(), domain.Centroid())
		if domain.Island {
			line += " (island)"
			if ui.color {
				line = islandStyle.Render(line)
			}
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Title renders the title of a section.
func (ui *UI) Title(title string) string {
	if !ui.color {
		return "== " + title + " =="
	}
	return titleStyle.Render(title)
}

// PrintAnalysis prints the map of identities, with the cells holding domain vertices marked,
// followed by the summary of the domains.
func (ui *UI) PrintAnalysis(name string, g *hexgrid.Grid, ids []float32, domains []shape.Domain) {
	marked := generics.MakeSet[int]()
	for _, domain := range domains {
		for _, v := range domain.Vertices {
			marked.Insert(v.Cell)
		}
	}
	_, _ = fmt.Fprintln(ui.w, ui.Title(name))
	ui.printCentered(ui.Map(g, ids, marked))
	_, _ = fmt.Fprintln(ui.w, ui.Legend(ids))
	_, _ = fmt.Fprintln(ui.w)
	_, _ = fmt.Fprint(ui.w, ui.Summary(domains))
	_, _ = fmt.Fprintln(ui.w)
}

// printCentered prints the block centered in the terminal, if printing to one.
func (ui *UI) printCentered(block string) {
	terminalWidth := 0
	if f, ok := ui.w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		terminalWidth, _, _ = term.GetSize(int(f.Fd()))
	}
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max((terminalWidth-blockWidth)/2, 0)
	for _, line := range lines {
		_, _ = fmt.Fprintf(ui.w, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}
