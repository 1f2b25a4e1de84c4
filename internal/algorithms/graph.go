package algorithms

import (
	"container/heap"
	"math"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

// startIndex is the element tagged active, or the first one.
func startIndex(d dataset.DataSet) int {
	for i, e := range d {
		if e.Tag == dataset.TagActive {
			return i
		}
	}
	return 0
}

func BFS(env runner.Env) error {
	d := env.Data
	if len(d) == 0 || env.Cancelled() {
		return nil
	}
	start := startIndex(d)
	d.WithTags(dataset.TagDefault)

	visited := make([]bool, len(d))
	queue := []int{start}
	visited[start] = true
	d[start].Tag = dataset.TagActive
	env.Show(d, "Start at "+d[start].ID)
	env.Pause(1)

	for len(queue) > 0 {
		if env.Cancelled() {
			return nil
		}
		cur := queue[0]
		queue = queue[1:]
		d[cur].Tag = dataset.TagHighlight
		env.Show(d, "Visit "+d[cur].ID)
		env.Pause(1)
		if env.Cancelled() {
			return nil
		}

		for _, nb := range d[cur].Neighbors {
			j := d.Index(nb.ID)
			if j < 0 || visited[j] {
				continue
			}
			visited[j] = true
			d[j].Tag = dataset.TagComparing
			queue = append(queue, j)
		}
		env.Publish(d)
		env.Pause(0.5)
		d[cur].Tag = dataset.TagVisited
	}

	env.Show(d, "Traversal complete")
	return nil
}

func DFS(env runner.Env) error {
	d := env.Data
	if len(d) == 0 {
		return nil
	}
	start := startIndex(d)
	d.WithTags(dataset.TagDefault)
	visited := make([]bool, len(d))
	if !dfs(env, d, start, visited) {
		return nil
	}
	env.Show(d, "Traversal complete")
	return nil
}

func dfs(env runner.Env, d dataset.DataSet, i int, visited []bool) bool {
	if env.Cancelled() {
		return false
	}
	visited[i] = true
	d[i].Tag = dataset.TagActive
	env.Show(d, "Enter "+d[i].ID)
	env.Pause(1)
	if env.Cancelled() {
		return false
	}

	for _, nb := range d[i].Neighbors {
		j := d.Index(nb.ID)
		if j < 0 || visited[j] {
			continue
		}
		d[i].Tag = dataset.TagHighlight
		if !dfs(env, d, j, visited) {
			return false
		}
		d[i].Tag = dataset.TagActive
		env.Show(d, "Back at "+d[i].ID)
		env.Pause(0.5)
		if env.Cancelled() {
			return false
		}
	}

	d[i].Tag = dataset.TagVisited
	env.Publish(d)
	return true
}

type distItem struct {
	idx  int
	dist float64
}

type distQueue []distItem

func (q distQueue) Len() int           { return len(q) }
func (q distQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)        { *q = append(*q, x.(distItem)) }

func (q *distQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// Dijkstra writes the shortest distance from the start node into each
// element's Text as "d=<n>".
func Dijkstra(env runner.Env) error {
	d := env.Data
	if len(d) == 0 || env.Cancelled() {
		return nil
	}
	start := startIndex(d)
	d.WithTags(dataset.TagDefault)

	dist := make([]float64, len(d))
	for i := range dist {
		dist[i] = math.Inf(1)
		d[i].Text = "d=inf"
	}
	dist[start] = 0
	d[start].Text = "d=0"
	done := make([]bool, len(d))

	q := &distQueue{{idx: start}}
	env.Show(d, "Distances from "+d[start].ID)
	env.Pause(1)

	for q.Len() > 0 {
		if env.Cancelled() {
			return nil
		}
		it := heap.Pop(q).(distItem)
		if done[it.idx] {
			continue
		}
		done[it.idx] = true
		d[it.idx].Tag = dataset.TagActive
		env.Show(d, "Settle "+d[it.idx].ID+" at "+ftoa(it.dist))
		env.Pause(1)
		if env.Cancelled() {
			return nil
		}

		for _, nb := range d[it.idx].Neighbors {
			j := d.Index(nb.ID)
			if j < 0 || done[j] {
				continue
			}
			w := nb.Weight
			if w <= 0 {
				w = 1
			}
			if nd := dist[it.idx] + w; nd < dist[j] {
				dist[j] = nd
				d[j].Text = "d=" + ftoa(nd)
				d[j].Tag = dataset.TagComparing
				heap.Push(q, distItem{idx: j, dist: nd})
				env.Show(d, "Relax "+d[it.idx].ID+" -> "+d[j].ID+" to "+ftoa(nd))
				env.Pause(0.5)
				if env.Cancelled() {
					return nil
				}
			}
		}
		d[it.idx].Tag = dataset.TagVisited
		env.Publish(d)
	}

	env.Show(d, "All reachable nodes settled")
	return nil
}
