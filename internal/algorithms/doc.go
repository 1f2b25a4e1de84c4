// Package algorithms holds the built-in algorithm bodies and the [Registry]
// that names them.
//
//   - sorting: bubble, selection, insertion, quick, merge
//   - searching: linear_search, binary_search
//   - graphs: bfs, dfs, dijkstra
//   - grids: grid_bfs
//   - geometry: convex_hull
//
// Every body follows the runner contract: it polls for cancellation and
// labels each step before publishing its data.
package algorithms
