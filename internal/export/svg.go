package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/algoviz/internal/dataset"
)

var tagColors = map[dataset.Tag]string{
	dataset.TagDefault:   "#e0e0e0",
	dataset.TagActive:    "#ffd700",
	dataset.TagComparing: "#ff8c00",
	dataset.TagSorted:    "#00ff7f",
	dataset.TagTarget:    "#ff00ff",
	dataset.TagHighlight: "#00ffff",
	dataset.TagHull:      "#00ff7f",
	dataset.TagVisited:   "#5f87ff",
	dataset.TagPath:      "#ff00ff",
	dataset.TagWall:      "#303030",
}

func colorFor(t dataset.Tag) string {
	if c, ok := tagColors[t]; ok {
		return c
	}
	return tagColors[dataset.TagDefault]
}

// DataSetToSVG draws a data set the way the terminal player does: bars for
// arrays, cells for grids, a node ring for graphs and a scatter plot with
// the hull outlined for geometry.
func DataSetToSVG(c dataset.Category, d dataset.DataSet, width, height int) string {
	if len(d) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	w, h := float64(width), float64(height)
	switch c {
	case dataset.CategoryGrid:
		writeGrid(&sb, d, w, h)
	case dataset.CategoryGraph:
		writeGraph(&sb, d, w, h)
	case dataset.CategoryGeometry:
		writePoints(&sb, d, w, h)
	default:
		writeBars(&sb, d, w, h)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeBars(sb *strings.Builder, d dataset.DataSet, w, h float64) {
	lo, hi := 0.0, 0.0
	for _, e := range d {
		lo = math.Min(lo, e.Value)
		hi = math.Max(hi, e.Value)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	slot := w / float64(len(d))
	base := h * hi / span
	for i, e := range d {
		top := h * (hi - math.Max(e.Value, 0)) / span
		bh := h * math.Abs(e.Value) / span
		if e.Value < 0 {
			top = base
		}
		fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(i)*slot+slot*0.1, top, slot*0.8, bh, colorFor(e.Tag))
	}
}

func writeGrid(sb *strings.Builder, d dataset.DataSet, w, h float64) {
	rows, cols := 0, 0
	for _, e := range d {
		if e.Cell == nil {
			continue
		}
		rows = max(rows, e.Cell.Row+1)
		cols = max(cols, e.Cell.Col+1)
	}
	if rows == 0 {
		return
	}
	cw, ch := w/float64(cols), h/float64(rows)
	for _, e := range d {
		if e.Cell == nil {
			continue
		}
		fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#0a0a0a"/>
`, float64(e.Cell.Col)*cw, float64(e.Cell.Row)*ch, cw, ch, colorFor(e.Tag))
	}
}

func writeGraph(sb *strings.Builder, d dataset.DataSet, w, h float64) {
	cx, cy := w/2, h/2
	r := math.Min(w, h) * 0.4
	pos := make(map[string][2]float64, len(d))
	for i, e := range d {
		a := 2 * math.Pi * float64(i) / float64(len(d))
		pos[e.ID] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}

	sb.WriteString(`<g stroke="#606060" stroke-width="1">` + "\n")
	for _, e := range d {
		from := pos[e.ID]
		for _, n := range e.Neighbors {
			// each undirected edge is stored on both ends
			if n.ID < e.ID {
				continue
			}
			to, ok := pos[n.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, from[0], from[1], to[0], to[1])
		}
	}
	sb.WriteString("</g>\n")

	for _, e := range d {
		p := pos[e.ID]
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="10" fill="%s"/>
<text x="%.1f" y="%.1f" fill="#0a0a0a" font-size="10" text-anchor="middle">%s</text>
`, p[0], p[1], colorFor(e.Tag), p[0], p[1]+3, escape(e.ID))
	}
}

func writePoints(sb *strings.Builder, d dataset.DataSet, w, h float64) {
	var pts []dataset.Point
	var tags []dataset.Tag
	for _, e := range d {
		if e.Point != nil {
			pts = append(pts, *e.Point)
			tags = append(tags, e.Tag)
		}
	}
	if len(pts) == 0 {
		return
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p dataset.Point) (float64, float64) {
		return (p.X - minX) / rangeX * w, h - (p.Y-minY)/rangeY*h
	}

	var hull []dataset.Point
	for i, p := range pts {
		if tags[i] == dataset.TagHull {
			hull = append(hull, p)
		}
	}
	if len(hull) > 2 {
		var cxs, cys float64
		for _, p := range hull {
			cxs += p.X
			cys += p.Y
		}
		cxs /= float64(len(hull))
		cys /= float64(len(hull))
		sortByAngle(hull, cxs, cys)

		sb.WriteString(`<path fill="none" stroke="` + colorFor(dataset.TagHull) + `" stroke-width="1.5" d="M`)
		for i, p := range hull {
			x, y := project(p)
			if i == 0 {
				fmt.Fprintf(sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(` Z"/>` + "\n")
	}

	for i, p := range pts {
		x, y := project(p)
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, colorFor(tags[i]))
	}
}

func sortByAngle(pts []dataset.Point, cx, cy float64) {
	angle := func(p dataset.Point) float64 { return math.Atan2(p.Y-cy, p.X-cx) }
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && angle(pts[j]) < angle(pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
