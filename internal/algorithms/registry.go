package algorithms

import (
	"fmt"
	"sort"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/runner"
)

type Algorithm struct {
	Key         string
	Name        string
	Description string
	Category    dataset.Category
	Runner      runner.Runner
}

type Registry struct {
	algorithms map[string]Algorithm
}

// NewRegistry returns a registry holding every built-in algorithm.
func NewRegistry() *Registry {
	r := &Registry{algorithms: make(map[string]Algorithm)}

	builtins := []Algorithm{
		{"bubble", "Bubble Sort", "adjacent swaps", dataset.CategoryArray, runner.Func(BubbleSort)},
		{"selection", "Selection Sort", "select the minimum", dataset.CategoryArray, runner.Func(SelectionSort)},
		{"insertion", "Insertion Sort", "grow a sorted prefix", dataset.CategoryArray, runner.Func(InsertionSort)},
		{"quick", "Quick Sort", "lomuto partitioning", dataset.CategoryArray, runner.Func(QuickSort)},
		{"merge", "Merge Sort", "top-down merging", dataset.CategoryArray, runner.Func(MergeSort)},
		{"linear_search", "Linear Search", "scan for the target", dataset.CategoryArray, runner.Func(LinearSearch)},
		{"binary_search", "Binary Search", "halve a sorted range", dataset.CategoryArray, runner.Func(BinarySearch)},
		{"bfs", "Breadth-First Search", "level by level", dataset.CategoryGraph, runner.Func(BFS)},
		{"dfs", "Depth-First Search", "recursive descent", dataset.CategoryGraph, runner.Func(DFS)},
		{"dijkstra", "Dijkstra", "shortest weighted paths", dataset.CategoryGraph, runner.Func(Dijkstra)},
		{"grid_bfs", "Grid Path Finding", "bfs from start to target", dataset.CategoryGrid, runner.Func(GridPath)},
		{"convex_hull", "Convex Hull", "monotone chain", dataset.CategoryGeometry, runner.Func(ConvexHull)},
	}
	for _, a := range builtins {
		r.algorithms[a.Key] = a
	}
	return r
}

// Register adds an algorithm under a new key.
func (r *Registry) Register(a Algorithm) error {
	if a.Key == "" || a.Runner == nil {
		return fmt.Errorf("algorithm needs a key and a runner")
	}
	if _, ok := r.algorithms[a.Key]; ok {
		return fmt.Errorf("algorithm already registered: %s", a.Key)
	}
	r.algorithms[a.Key] = a
	return nil
}

func (r *Registry) Get(key string) (Algorithm, error) {
	a, ok := r.algorithms[key]
	if !ok {
		return Algorithm{}, fmt.Errorf("unknown algorithm: %s", key)
	}
	return a, nil
}

func (r *Registry) List() []Algorithm {
	list := make([]Algorithm, 0, len(r.algorithms))
	for _, a := range r.algorithms {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

func (r *Registry) ByCategory(c dataset.Category) []Algorithm {
	var list []Algorithm
	for _, a := range r.List() {
		if a.Category == c {
			list = append(list, a)
		}
	}
	return list
}

func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.algorithms))
	for _, a := range r.List() {
		keys = append(keys, a.Key)
	}
	return keys
}
