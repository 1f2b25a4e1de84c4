package input

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/san-kum/algoviz/internal/dataset"
)

func TestParseArray(t *testing.T) {
	d, err := Parse(dataset.CategoryArray, " 5, 3,8  1 ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []float64{5, 3, 8, 1}
	got := d.Values()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseGraph(t *testing.T) {
	d, err := Parse(dataset.CategoryGraph, "A-B:4, B-C, A-B:9, D")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(d) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(d))
	}
	a := d[d.Index("A")]
	if len(a.Neighbors) != 1 || a.Neighbors[0].Weight != 4 {
		t.Errorf("duplicate edge should be ignored, got %+v", a.Neighbors)
	}
	if c := d[d.Index("C")]; len(c.Neighbors) != 1 || c.Neighbors[0].Weight != 1 {
		t.Errorf("default weight should be 1, got %+v", c.Neighbors)
	}
	if len(d[d.Index("D")].Neighbors) != 0 {
		t.Error("isolated node should have no neighbors")
	}
}

func TestParseGrid(t *testing.T) {
	d, err := Parse(dataset.CategoryGrid, "S.#/..T")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(d) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(d))
	}
	if d[0].Tag != dataset.TagActive || d[5].Tag != dataset.TagTarget || d[2].Tag != dataset.TagWall {
		t.Errorf("unexpected tags: %s %s %s", d[0].Tag, d[5].Tag, d[2].Tag)
	}
	if len(d[2].Neighbors) != 0 {
		t.Error("walls must not be linked")
	}
	if len(d[0].Neighbors) != 2 {
		t.Errorf("start should have 2 neighbors, got %d", len(d[0].Neighbors))
	}
}

func TestParsePoints(t *testing.T) {
	d, err := Parse(dataset.CategoryGeometry, "1 2; 3,4\n-5 0.5")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(d) != 3 {
		t.Fatalf("expected 3 points, got %d", len(d))
	}
	if p := d[2].Point; p == nil || p.X != -5 || p.Y != 0.5 {
		t.Errorf("unexpected point %+v", d[2].Point)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		category dataset.Category
		text     string
		field    string
	}{
		{"empty", dataset.CategoryArray, "   ", "input"},
		{"not a number", dataset.CategoryArray, "1,x,3", "values[1]"},
		{"out of range", dataset.CategoryArray, "1,99999", "values[1]"},
		{"only separators", dataset.CategoryArray, ",,,", "values"},
		{"self loop", dataset.CategoryGraph, "A-A", "edges[0].to"},
		{"bad node id", dataset.CategoryGraph, "A-B, C!-D", "edges[1].from"},
		{"bad weight", dataset.CategoryGraph, "A-B:z", "edges[0].weight"},
		{"negative weight", dataset.CategoryGraph, "A-B:-2", "edges[0].weight"},
		{"no start", dataset.CategoryGrid, "...T", "starts"},
		{"two targets", dataset.CategoryGrid, "S.T/..T", "targets"},
		{"bad cell", dataset.CategoryGrid, "S.x/..T", "rows[0]"},
		{"ragged rows", dataset.CategoryGrid, "S../.T", "rows[1]"},
		{"half a point", dataset.CategoryGeometry, "1 2; 3", "points[1]"},
		{"unknown category", dataset.Category("tree"), "1", "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.category, tt.text)
			if err == nil {
				t.Fatalf("expected error, got %v", d)
			}
			if d != nil {
				t.Error("no data set should be returned on error")
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %T", err)
			}
			if fe.Field != tt.field {
				t.Errorf("field: got %q, want %q (%v)", fe.Field, tt.field, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	d, seed, err := Resolve(dataset.CategoryArray, "3,1,2", 10, 7)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(d) != 3 || seed != 7 {
		t.Errorf("custom input should win over size, got %d elements seed %d", len(d), seed)
	}

	a, seedA, err := Resolve(dataset.CategoryGraph, "", 6, 99)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	b, _, _ := Resolve(dataset.CategoryGraph, "", 6, 99)
	if seedA != 99 || len(a) != 6 || !a.Equal(b) {
		t.Error("seeded data should be deterministic")
	}

	_, picked, err := Resolve(dataset.CategoryGrid, "", 4, 0)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if picked == 0 {
		t.Error("a seed should be picked when none is given")
	}

	if _, _, err := Resolve(dataset.CategoryArray, "1,a", 4, 1); err == nil {
		t.Error("expected parse error")
	}
}

func TestCustomValidationsRegistered(t *testing.T) {
	if err := validate.Var("A1", "nodeid"); err != nil {
		t.Errorf("A1 should be a valid node id: %v", err)
	}
	if err := validate.Var("S.#T", "gridrow"); err != nil {
		t.Errorf("S.#T should be a valid grid row: %v", err)
	}
}

func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an empty tag")
		}
	}()
	mustRegister("", func(validator.FieldLevel) bool { return true })
}
