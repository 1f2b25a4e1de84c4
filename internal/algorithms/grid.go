package algorithms

import (
	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

// GridPath runs a breadth-first search from the start cell (tagged active)
// to the target cell and traces the shortest path back.
func GridPath(env runner.Env) error {
	d := env.Data
	start, target := -1, -1
	for i, e := range d {
		switch e.Tag {
		case dataset.TagActive:
			start = i
		case dataset.TagTarget:
			target = i
		}
	}
	if env.Cancelled() {
		return nil
	}
	if start < 0 || target < 0 {
		env.Step("Grid needs a start and a target cell")
		return nil
	}

	prev := make([]int, len(d))
	for i := range prev {
		prev[i] = -1
	}
	seen := make([]bool, len(d))
	seen[start] = true
	frontier := []int{start}
	env.Show(d, "Search from "+d[start].ID+" to "+d[target].ID)
	env.Pause(1)

	found := false
	for len(frontier) > 0 && !found {
		if env.Cancelled() {
			return nil
		}
		var next []int
		for _, cur := range frontier {
			for _, nb := range d[cur].Neighbors {
				j := d.Index(nb.ID)
				if j < 0 || seen[j] || d[j].Tag == dataset.TagWall {
					continue
				}
				seen[j] = true
				prev[j] = cur
				if j == target {
					found = true
					break
				}
				d[j].Tag = dataset.TagVisited
				next = append(next, j)
			}
			if found {
				break
			}
		}
		frontier = next
		env.Publish(d)
		env.Pause(1)
	}

	if env.Cancelled() {
		return nil
	}
	if !found {
		env.Step("No path to target")
		return nil
	}

	steps := 0
	for at := prev[target]; at >= 0 && at != start; at = prev[at] {
		if env.Cancelled() {
			return nil
		}
		d[at].Tag = dataset.TagPath
		steps++
		env.Publish(d)
		env.Pause(0.5)
	}
	env.Stepf("Path found in %d steps", steps+1)
	return nil
}
