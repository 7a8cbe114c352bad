package mapgen

import (
	"testing"

	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/tileset"
)

func testTileset(t *testing.T) *tileset.TileSet {
	t.Helper()
	ts, err := tileset.New("temperat", []tileset.Template{
		{ID: 1, PickAny: true, Terrain: []string{"Clear", "Clear", "Clear", "Clear"}},
		{ID: 2, Terrain: []string{"Water"}},
		{ID: 3, Terrain: []string{"Rough"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestGenerate(t *testing.T) {
	ts := testTileset(t)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 48, 48
	cfg.Seed = 7
	cfg.Spawns = 2

	m, err := Generate(ts, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Width != 48 || m.Height != 48 {
		t.Fatalf("size: %dx%d", m.Width, m.Height)
	}
	if m.Bounds.X != 1 || m.Bounds.Y != 1 || m.Bounds.Width != 46 || m.Bounds.Height != 46 {
		t.Fatalf("bounds: %s", m.Bounds)
	}

	// The edge falloff forces water at the corners.
	for _, c := range []grid.CPos{{X: 0, Y: 0}, {X: 47, Y: 0}, {X: 0, Y: 47}, {X: 47, Y: 47}} {
		cat, ok := ts.TerrainType(m.Tiles().AtPos(c))
		if !ok || cat != "Water" {
			t.Fatalf("corner %s: %q", c, cat)
		}
	}

	spawns := m.SpawnPoints()
	if len(spawns) != 2 {
		t.Fatalf("spawns: %v", spawns)
	}
	for _, c := range spawns {
		if !m.Contains(c) {
			t.Fatalf("spawn %s outside bounds", c)
		}
		cat, ok := ts.TerrainType(m.Tiles().AtPos(c))
		if !ok || cat != "Clear" {
			t.Fatalf("spawn %s on %q", c, cat)
		}
	}

	for _, name := range []string{"Neutral", "Multi0", "Multi1", "Creeps"} {
		if !m.Players.Has(name) {
			t.Fatalf("missing player %s", name)
		}
	}

	// Ore only sits on open terrain.
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			r := m.Resources().At(x, y)
			if r.Type == 0 {
				continue
			}
			cat, _ := ts.TerrainType(m.Tiles().At(x, y))
			if cat != "Clear" {
				t.Fatalf("ore at %d,%d on %q", x, y, cat)
			}
		}
	}

	if err := m.ValidatePlacements(); err != nil {
		t.Fatalf("placements: %v", err)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	ts := testTileset(t)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 32
	cfg.Seed = 99
	cfg.Spawns = 2

	a, err := Generate(ts, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(ts, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			if a.Tiles().At(x, y) != b.Tiles().At(x, y) {
				t.Fatalf("tile %d,%d differs", x, y)
			}
			if a.Resources().At(x, y) != b.Resources().At(x, y) {
				t.Fatalf("resource %d,%d differs", x, y)
			}
		}
	}
}

func TestGenerate_Rejections(t *testing.T) {
	ts := testTileset(t)

	cfg := DefaultConfig()
	cfg.Width = 4
	if _, err := Generate(ts, cfg); err == nil {
		t.Fatal("tiny map accepted")
	}

	landlocked, err := tileset.New("arid", []tileset.Template{
		{ID: 1, Terrain: []string{"Clear"}},
		{ID: 3, Terrain: []string{"Rough"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg = DefaultConfig()
	cfg.Seed = 1
	if _, err := Generate(landlocked, cfg); err == nil {
		t.Fatal("tileset without Water accepted")
	}
}
