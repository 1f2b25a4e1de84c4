package dataset

import (
	"fmt"
	"math/rand"
)

// Category selects the shape of seeded content.
type Category string

const (
	CategoryArray    Category = "array"
	CategoryGraph    Category = "graph"
	CategoryGrid     Category = "grid"
	CategoryGeometry Category = "geometry"
)

const (
	DefaultSize = 12
	MaxValue    = 100
)

func Categories() []Category {
	return []Category{CategoryArray, CategoryGraph, CategoryGrid, CategoryGeometry}
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %s", s)
}

// Seed produces category-appropriate synthetic content.
func Seed(c Category, size int, rng *rand.Rand) DataSet {
	if size <= 0 {
		size = DefaultSize
	}
	switch c {
	case CategoryGraph:
		return seedGraph(size, rng)
	case CategoryGrid:
		return seedGrid(size, rng)
	case CategoryGeometry:
		return seedPoints(size, rng)
	default:
		return seedArray(size, rng)
	}
}

func seedArray(n int, rng *rand.Rand) DataSet {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(rng.Intn(MaxValue) + 1)
	}
	return FromValues(vals...)
}

func nodeID(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("N%d", i)
}

// seedGraph builds a connected undirected weighted graph: a random spanning
// tree plus a few extra edges.
func seedGraph(n int, rng *rand.Rand) DataSet {
	d := make(DataSet, n)
	for i := range d {
		d[i] = Element{ID: nodeID(i), Value: float64(i), Text: nodeID(i), Tag: TagDefault}
	}
	link := func(a, b int, w float64) {
		for _, nb := range d[a].Neighbors {
			if nb.ID == d[b].ID {
				return
			}
		}
		d[a].Neighbors = append(d[a].Neighbors, Neighbor{ID: d[b].ID, Weight: w})
		d[b].Neighbors = append(d[b].Neighbors, Neighbor{ID: d[a].ID, Weight: w})
	}
	for i := 1; i < n; i++ {
		link(i, rng.Intn(i), float64(rng.Intn(9)+1))
	}
	for k := 0; k < n/2; k++ {
		a, b := rng.Intn(n), rng.Intn(n)
		if a != b {
			link(a, b, float64(rng.Intn(9)+1))
		}
	}
	return d
}

// seedGrid builds a size x size grid with ~20% walls, start top-left and
// target bottom-right. Value 1 marks a wall, 2 the start, 3 the target.
func seedGrid(size int, rng *rand.Rand) DataSet {
	d := make(DataSet, 0, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			e := Element{ID: fmt.Sprintf("%d,%d", r, c), Tag: TagDefault, Cell: &Cell{Row: r, Col: c}}
			switch {
			case r == 0 && c == 0:
				e.Value = 2
				e.Tag = TagActive
			case r == size-1 && c == size-1:
				e.Value = 3
				e.Tag = TagTarget
			case rng.Float64() < 0.2:
				e.Value = 1
				e.Tag = TagWall
			}
			d = append(d, e)
		}
	}
	return LinkGrid(d)
}

// LinkGrid connects every non-wall cell to its orthogonal non-wall neighbors.
func LinkGrid(d DataSet) DataSet {
	byCell := make(map[Cell]int, len(d))
	for i, e := range d {
		if e.Cell != nil {
			byCell[*e.Cell] = i
		}
	}
	for i := range d {
		d[i].Neighbors = nil
		if d[i].Cell == nil || d[i].Tag == TagWall {
			continue
		}
		cl := *d[i].Cell
		for _, off := range [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}} {
			j, ok := byCell[Cell{Row: cl.Row + off[0], Col: cl.Col + off[1]}]
			if !ok || d[j].Tag == TagWall {
				continue
			}
			d[i].Neighbors = append(d[i].Neighbors, Neighbor{ID: d[j].ID, Weight: 1})
		}
	}
	return d
}

func seedPoints(n int, rng *rand.Rand) DataSet {
	d := make(DataSet, n)
	for i := range d {
		d[i] = Element{
			ID:    fmt.Sprintf("P%d", i),
			Tag:   TagDefault,
			Point: &Point{X: float64(rng.Intn(MaxValue)), Y: float64(rng.Intn(MaxValue))},
		}
	}
	return d
}
