package dataset

import (
	"errors"
	"fmt"
)

// Domain errors for data set validation.
var (
	// ErrEmpty indicates a data set without elements.
	ErrEmpty = errors.New("dataset: no elements")

	// ErrDuplicateID indicates two elements share an identifier.
	ErrDuplicateID = errors.New("dataset: duplicate element id")

	// ErrDanglingNeighbor indicates a neighbor reference to an unknown element.
	ErrDanglingNeighbor = errors.New("dataset: neighbor references unknown element")
)

// Tag is the visual state of an element.
type Tag string

const (
	TagDefault   Tag = "default"
	TagActive    Tag = "active"
	TagComparing Tag = "comparing"
	TagSorted    Tag = "sorted"
	TagTarget    Tag = "target"
	TagHighlight Tag = "highlight"
	TagHull      Tag = "hull"
	TagVisited   Tag = "visited"
	TagPath      Tag = "path"
	TagWall      Tag = "wall"
)

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

type Neighbor struct {
	ID     string  `json:"id" yaml:"id"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Element is one visualized unit: an array cell, a graph node or a grid cell.
type Element struct {
	ID        string     `json:"id" yaml:"id"`
	Value     float64    `json:"value" yaml:"value"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	Tag       Tag        `json:"tag" yaml:"tag"`
	Point     *Point     `json:"point,omitempty" yaml:"point,omitempty"`
	Cell      *Cell      `json:"cell,omitempty" yaml:"cell,omitempty"`
	Neighbors []Neighbor `json:"neighbors,omitempty" yaml:"neighbors,omitempty"`
}

// Clone returns an element that shares no memory with e.
func (e Element) Clone() Element {
	c := e
	if e.Point != nil {
		p := *e.Point
		c.Point = &p
	}
	if e.Cell != nil {
		cl := *e.Cell
		c.Cell = &cl
	}
	if e.Neighbors != nil {
		c.Neighbors = make([]Neighbor, len(e.Neighbors))
		copy(c.Neighbors, e.Neighbors)
	}
	return c
}

// DataSet is the ordered collection mutated by a run and captured by snapshots.
type DataSet []Element

func (d DataSet) Clone() DataSet {
	if d == nil {
		return nil
	}
	c := make(DataSet, len(d))
	for i, e := range d {
		c[i] = e.Clone()
	}
	return c
}

// Validate checks identifier uniqueness and that every neighbor resolves.
func (d DataSet) Validate() error {
	if len(d) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]struct{}, len(d))
	for _, e := range d {
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	for _, e := range d {
		for _, n := range e.Neighbors {
			if _, ok := seen[n.ID]; !ok {
				return fmt.Errorf("%w: %q -> %q", ErrDanglingNeighbor, e.ID, n.ID)
			}
		}
	}
	return nil
}

// Index returns the position of the element with the given id, or -1.
func (d DataSet) Index(id string) int {
	for i, e := range d {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (d DataSet) Values() []float64 {
	vals := make([]float64, len(d))
	for i, e := range d {
		vals[i] = e.Value
	}
	return vals
}

func (d DataSet) Swap(i, j int) { d[i], d[j] = d[j], d[i] }

// WithTags resets every element tag to t, except walls which are structural.
func (d DataSet) WithTags(t Tag) DataSet {
	for i := range d {
		if d[i].Tag == TagWall {
			continue
		}
		d[i].Tag = t
	}
	return d
}

// Equal reports whether two data sets hold the same ids, values and tags in order.
func (d DataSet) Equal(o DataSet) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if d[i].ID != o[i].ID || d[i].Value != o[i].Value || d[i].Tag != o[i].Tag || d[i].Text != o[i].Text {
			return false
		}
	}
	return true
}

// FromValues builds an array data set with ids "0".."n-1".
func FromValues(vals ...float64) DataSet {
	d := make(DataSet, len(vals))
	for i, v := range vals {
		d[i] = Element{ID: fmt.Sprintf("%d", i), Value: v, Tag: TagDefault}
	}
	return d
}
