package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/algoviz/internal/dataset"
	"github.com/san-kum/algoviz/internal/input"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Speed() != 100*time.Millisecond {
		t.Errorf("expected 100ms, got %v", cfg.Speed())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no algorithm", func(c *Config) { c.Algorithm = "" }},
		{"negative speed", func(c *Config) { c.SpeedMs = -1 }},
		{"zero size", func(c *Config) { c.Size = 0 }},
		{"huge size", func(c *Config) { c.Size = MaxSize + 1 }},
		{"zero log capacity", func(c *Config) { c.LogCapacity = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algoviz.yaml")
	cfg := DefaultConfig()
	cfg.Algorithm = "dijkstra"
	cfg.SpeedMs = 0
	cfg.Seed = 42
	cfg.Input = "A-B:2"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := DefaultConfig()
	cfg.Size = -3
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("graph", "weighted")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Algorithm != "dijkstra" {
		t.Errorf("expected dijkstra, got %s", cfg.Algorithm)
	}

	cfg.Algorithm = "changed"
	if GetPreset("graph", "weighted").Algorithm != "dijkstra" {
		t.Error("preset table was modified through the returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("array", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "tiny") != nil {
		t.Error("expected nil for nonexistent category")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("array")
	if len(presets) == 0 {
		t.Error("expected presets for array")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent category")
	}
}

func TestPresetInputsParse(t *testing.T) {
	for category, presets := range Presets {
		c, err := dataset.ParseCategory(category)
		if err != nil {
			t.Fatalf("preset category %q: %v", category, err)
		}
		for name, p := range presets {
			if p.Input == "" {
				continue
			}
			if _, err := input.Parse(c, p.Input); err != nil {
				t.Errorf("%s/%s: %v", category, name, err)
			}
		}
	}
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = "1,2,3"
	cfg.Apply(GetPreset("array", "large"))

	if cfg.Algorithm != "quick" || cfg.Size != 40 || cfg.SpeedMs != 20 {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.Input != "" {
		t.Errorf("preset without input should clear custom input, got %q", cfg.Input)
	}
	if cfg.LogCapacity != DefaultLogCapacity {
		t.Error("fields the preset leaves unset must be kept")
	}
}
