package config

import "sort"

// Presets are keyed by data category, then preset name. Only the fields a
// preset sets are meaningful; Apply merges them over a base config.
var Presets = map[string]map[string]*Config{
	"array": {
		"tiny":   {Algorithm: "bubble", Size: 6, SpeedMs: 250},
		"worst":  {Algorithm: "insertion", SpeedMs: 60, Input: "12,11,10,9,8,7,6,5,4,3,2,1"},
		"large":  {Algorithm: "quick", Size: 40, SpeedMs: 20},
		"needle": {Algorithm: "binary_search", Size: 24, SpeedMs: 200},
		"stable": {Algorithm: "merge", SpeedMs: 80, Input: "4,2,4,1,2,4,3,1"},
	},
	"graph": {
		"ring":     {Algorithm: "bfs", SpeedMs: 150, Input: "A-B, B-C, C-D, D-E, E-F, F-A"},
		"weighted": {Algorithm: "dijkstra", SpeedMs: 200, Input: "A-B:4, A-C:1, C-B:2, B-D:5, C-D:8, D-E:3"},
		"random":   {Algorithm: "dfs", Size: 10, SpeedMs: 120},
	},
	"grid": {
		"open":  {Algorithm: "grid_bfs", SpeedMs: 60, Input: "S......./......../......../.......T"},
		"maze":  {Algorithm: "grid_bfs", SpeedMs: 80, Input: "S.#...../.##.###./....#.../.##...#T"},
		"small": {Algorithm: "grid_bfs", Size: 8, SpeedMs: 100},
	},
	"geometry": {
		"square": {Algorithm: "convex_hull", SpeedMs: 200, Input: "0 0; 10 0; 10 10; 0 10; 5 5; 3 7"},
		"cloud":  {Algorithm: "convex_hull", Size: 30, SpeedMs: 80},
	},
}

// GetPreset returns a copy so callers may modify it freely.
func GetPreset(category, preset string) *Config {
	catPresets, ok := Presets[category]
	if !ok {
		return nil
	}
	cfg, ok := catPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(category string) []string {
	catPresets, ok := Presets[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(catPresets))
	for name := range catPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overlays the non-zero fields of preset onto c.
func (c *Config) Apply(preset *Config) {
	if preset == nil {
		return
	}
	if preset.Algorithm != "" {
		c.Algorithm = preset.Algorithm
	}
	if preset.SpeedMs > 0 {
		c.SpeedMs = preset.SpeedMs
	}
	if preset.Size > 0 {
		c.Size = preset.Size
	}
	if preset.Seed != 0 {
		c.Seed = preset.Seed
	}
	c.Input = preset.Input
}
