package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/algoviz/internal/dataset"
)

// render draws d for its category into roughly w x h terminal cells.
func render(c dataset.Category, d dataset.DataSet, w, h int) string {
	if len(d) == 0 {
		return dim.Render("(no data)")
	}
	switch c {
	case dataset.CategoryGrid:
		return renderGrid(d)
	case dataset.CategoryGraph:
		return renderGraph(d, h)
	case dataset.CategoryGeometry:
		return renderPoints(d, w, h)
	default:
		return renderBars(d, w, h)
	}
}

func renderBars(d dataset.DataSet, w, h int) string {
	if h < 1 {
		h = 1
	}
	colWidth := w / len(d)
	if colWidth > 5 {
		colWidth = 5
	}
	if colWidth < 2 {
		colWidth = 2
	}
	barWidth := colWidth - 1

	lo, hi := 0.0, d[0].Value
	for _, e := range d {
		lo = math.Min(lo, e.Value)
		hi = math.Max(hi, e.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	heights := make([]int, len(d))
	for i, e := range d {
		heights[i] = int(math.Round((e.Value - lo) / span * float64(h)))
		if heights[i] < 1 {
			heights[i] = 1
		}
	}

	var b strings.Builder
	bar := strings.Repeat("█", barWidth)
	gap := strings.Repeat(" ", barWidth)
	for row := h; row >= 1; row-- {
		for i, e := range d {
			if heights[i] >= row {
				b.WriteString(styleFor(e.Tag).Render(bar))
			} else {
				b.WriteString(gap)
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	if colWidth >= 3 {
		for _, e := range d {
			label := trimNumber(e.Value)
			if len(label) > barWidth {
				label = label[:barWidth]
			}
			b.WriteString(dim.Render(fmt.Sprintf("%-*s", colWidth, label)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var gridGlyphs = map[dataset.Tag]string{
	dataset.TagDefault:   "· ",
	dataset.TagWall:      "██",
	dataset.TagActive:    "S ",
	dataset.TagTarget:    "T ",
	dataset.TagVisited:   "○ ",
	dataset.TagPath:      "● ",
	dataset.TagComparing: "◆ ",
	dataset.TagHighlight: "◇ ",
}

func renderGrid(d dataset.DataSet) string {
	rows, cols := 0, 0
	for _, e := range d {
		if e.Cell == nil {
			continue
		}
		rows = max(rows, e.Cell.Row+1)
		cols = max(cols, e.Cell.Col+1)
	}
	cells := make([][]*dataset.Element, rows)
	for r := range cells {
		cells[r] = make([]*dataset.Element, cols)
	}
	for i := range d {
		if cl := d[i].Cell; cl != nil {
			cells[cl.Row][cl.Col] = &d[i]
		}
	}

	var b strings.Builder
	for r, row := range cells {
		for _, e := range row {
			if e == nil {
				b.WriteString("  ")
				continue
			}
			g, ok := gridGlyphs[e.Tag]
			if !ok {
				g = "? "
			}
			b.WriteString(styleFor(e.Tag).Render(g))
		}
		if r < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderGraph(d dataset.DataSet, h int) string {
	var lines []string
	for _, e := range d {
		label := e.Text
		if label == "" || label == e.ID {
			label = trimNumber(e.Value)
		}
		var nbs []string
		for _, n := range e.Neighbors {
			nbs = append(nbs, fmt.Sprintf("%s:%s", n.ID, trimNumber(n.Weight)))
		}
		line := styleFor(e.Tag).Render(fmt.Sprintf("%-4s", e.ID)) + " " +
			dim.Render(fmt.Sprintf("%-8s", label)) + " " +
			dimmer.Render("→ "+strings.Join(nbs, " "))
		lines = append(lines, line)
	}
	if h > 0 && len(lines) > h {
		more := len(lines) - h + 1
		lines = append(lines[:h-1], dim.Render(fmt.Sprintf("… %d more", more)))
	}
	return strings.Join(lines, "\n")
}

func renderPoints(d dataset.DataSet, w, h int) string {
	w, h = max(w, 10), max(h, 4)
	cv := newCanvas(w, h)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, e := range d {
		if e.Point == nil {
			continue
		}
		minX, maxX = math.Min(minX, e.Point.X), math.Max(maxX, e.Point.X)
		minY, maxY = math.Min(minY, e.Point.Y), math.Max(maxY, e.Point.Y)
	}
	if math.IsInf(minX, 1) {
		return dim.Render("(no points)")
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	dotsW, dotsH := float64(w*2-3), float64(h*4-3)
	project := func(p *dataset.Point) (int, int) {
		x := 1 + int(math.Round((p.X-minX)/spanX*dotsW))
		y := 1 + int(math.Round((maxY-p.Y)/spanY*dotsH))
		return x, y
	}

	var hull []*dataset.Point
	for _, e := range d {
		if e.Point == nil {
			continue
		}
		cv.Mark(project(e.Point))
		if e.Tag == dataset.TagHull || e.Tag == dataset.TagActive {
			hull = append(hull, e.Point)
		}
	}
	if len(hull) >= 2 {
		var cx, cy float64
		for _, p := range hull {
			cx += p.X
			cy += p.Y
		}
		cx /= float64(len(hull))
		cy /= float64(len(hull))
		sort.Slice(hull, func(i, j int) bool {
			return math.Atan2(hull[i].Y-cy, hull[i].X-cx) < math.Atan2(hull[j].Y-cy, hull[j].X-cx)
		})
		for i := range hull {
			x0, y0 := project(hull[i])
			x1, y1 := project(hull[(i+1)%len(hull)])
			cv.DrawLine(x0, y0, x1, y1)
		}
	}

	lines := cv.Lines()
	for i := range lines {
		lines[i] = cyan.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}

// sparkline plots the element values; it is empty for fewer than two
// distinct values.
func sparkline(d dataset.DataSet, width int, caption string) string {
	vals := d.Values()
	if len(vals) < 2 {
		return ""
	}
	distinct := false
	for _, v := range vals[1:] {
		if v != vals[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return ""
	}
	return asciigraph.Plot(vals,
		asciigraph.Height(3),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

func trimNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
