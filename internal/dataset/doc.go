// Package dataset defines the elements algorithms operate on and how to
// copy, validate and seed them.
//
// A [DataSet] is an ordered slice of [Element]. Elements carry a value, an
// optional text, a display [Tag] and, depending on the [Category], a point,
// a grid cell or weighted neighbors. [DataSet.Clone] copies deeply and
// [DataSet.Validate] checks unique ids and resolvable neighbors.
//
// [Seed] builds synthetic data for each category from a caller-supplied
// random source, so a seed reproduces the same input.
package dataset
