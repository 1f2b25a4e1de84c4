package dataset

import (
	"errors"
	"math/rand"
	"testing"
)

func TestCloneIsDeep(t *testing.T) {
	src := DataSet{
		{ID: "A", Value: 1, Point: &Point{X: 1, Y: 2}, Neighbors: []Neighbor{{ID: "B", Weight: 3}}},
		{ID: "B", Value: 2, Cell: &Cell{Row: 0, Col: 1}},
	}
	c := src.Clone()

	c[0].Value = 99
	c[0].Point.X = 99
	c[0].Neighbors[0].Weight = 99
	c[1].Cell.Col = 99

	if src[0].Value != 1 || src[0].Point.X != 1 {
		t.Errorf("clone shares element data: %+v", src[0])
	}
	if src[0].Neighbors[0].Weight != 3 {
		t.Errorf("clone shares neighbor slice")
	}
	if src[1].Cell.Col != 1 {
		t.Errorf("clone shares cell pointer")
	}
}

func TestCloneNil(t *testing.T) {
	var d DataSet
	if d.Clone() != nil {
		t.Error("expected nil clone of nil data set")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data DataSet
		want error
	}{
		{"ok", DataSet{{ID: "A", Neighbors: []Neighbor{{ID: "B"}}}, {ID: "B"}}, nil},
		{"empty", DataSet{}, ErrEmpty},
		{"duplicate", DataSet{{ID: "A"}, {ID: "A"}}, ErrDuplicateID},
		{"dangling", DataSet{{ID: "A", Neighbors: []Neighbor{{ID: "Z"}}}}, ErrDanglingNeighbor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeedCategoriesValidate(t *testing.T) {
	for _, c := range Categories() {
		t.Run(string(c), func(t *testing.T) {
			d := Seed(c, 6, rand.New(rand.NewSource(7)))
			if len(d) == 0 {
				t.Fatal("seed produced no elements")
			}
			if err := d.Validate(); err != nil {
				t.Errorf("seeded %s data invalid: %v", c, err)
			}
		})
	}
}

func TestSeedDeterministic(t *testing.T) {
	a := Seed(CategoryArray, 10, rand.New(rand.NewSource(42)))
	b := Seed(CategoryArray, 10, rand.New(rand.NewSource(42)))
	if !a.Equal(b) {
		t.Error("same seed produced different arrays")
	}
}

func TestSeedGridCorners(t *testing.T) {
	d := Seed(CategoryGrid, 5, rand.New(rand.NewSource(1)))
	if len(d) != 25 {
		t.Fatalf("expected 25 cells, got %d", len(d))
	}
	if d[0].Tag != TagActive || d[len(d)-1].Tag != TagTarget {
		t.Errorf("expected start and target corners, got %s and %s", d[0].Tag, d[len(d)-1].Tag)
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("graph"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseCategory("tree"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestWithTagsKeepsWalls(t *testing.T) {
	d := DataSet{{ID: "a", Tag: TagWall}, {ID: "b", Tag: TagVisited}}
	d.WithTags(TagDefault)
	if d[0].Tag != TagWall || d[1].Tag != TagDefault {
		t.Errorf("unexpected tags: %s %s", d[0].Tag, d[1].Tag)
	}
}
