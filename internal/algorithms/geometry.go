package algorithms

import (
	"sort"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

func cross(o, a, b dataset.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ConvexHull builds the hull with Andrew's monotone chain. Points that end
// up on the hull are tagged hull.
func ConvexHull(env runner.Env) error {
	d := env.Data
	pts := make([]int, 0, len(d))
	for i, e := range d {
		if e.Point != nil {
			pts = append(pts, i)
		}
	}
	if env.Cancelled() {
		return nil
	}
	if len(pts) < 3 {
		env.Step("Need at least three points")
		return nil
	}
	d.WithTags(dataset.TagDefault)
	sort.Slice(pts, func(i, j int) bool {
		a, b := d[pts[i]].Point, d[pts[j]].Point
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	env.Show(d, "Points sorted by x")
	env.Pause(1)

	build := func(order []int, label string) ([]int, bool) {
		env.Step(label)
		var chain []int
		for _, i := range order {
			if env.Cancelled() {
				return nil, false
			}
			for len(chain) >= 2 && cross(*d[chain[len(chain)-2]].Point, *d[chain[len(chain)-1]].Point, *d[i].Point) <= 0 {
				d[chain[len(chain)-1]].Tag = dataset.TagDefault
				chain = chain[:len(chain)-1]
			}
			chain = append(chain, i)
			d[i].Tag = dataset.TagActive
			env.Publish(d)
			env.Pause(0.5)
		}
		for _, i := range chain {
			d[i].Tag = dataset.TagHull
		}
		return chain, !env.Cancelled()
	}

	lower, ok := build(pts, "Build lower hull")
	if !ok {
		return nil
	}
	rev := make([]int, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	upper, ok := build(rev, "Build upper hull")
	if !ok {
		return nil
	}

	hull := make(map[int]bool, len(lower)+len(upper))
	for _, i := range lower {
		hull[i] = true
	}
	for _, i := range upper {
		hull[i] = true
	}
	for i := range d {
		if hull[i] {
			d[i].Tag = dataset.TagHull
		} else if d[i].Point != nil {
			d[i].Tag = dataset.TagDefault
		}
	}
	env.Stepf("Hull has %d points", len(hull))
	env.Publish(d)
	return nil
}
