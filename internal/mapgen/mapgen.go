// Package mapgen produces skirmish maps from layered simplex noise:
// an elevation field picks water, open, and rough terrain, a second
// field scatters ore patches, and spawn points are snapped to the
// nearest open cell.
package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/rules"
	"mapvault.dev/internal/spatial"
	"mapvault.dev/internal/tilemap"
	"mapvault.dev/internal/tiles"
	"mapvault.dev/internal/tileset"
)

// Terrain categories the target tileset must declare.
const (
	catClear = "Clear"
	catWater = "Water"
	catRough = "Rough"
)

// OreResourceType is the resource layer type written into ore patches.
const OreResourceType uint8 = 1

type Config struct {
	Width  int
	Height int
	Seed   int64 // 0 picks a random seed
	Spawns int

	// Elevation thresholds, ascending: below SeaLevel is water, above
	// RoughLevel is rough.
	SeaLevel   float64
	RoughLevel float64
	// OreLevel is the moisture threshold above which open cells carry ore.
	OreLevel float64

	Title   string
	Author  string
	Faction string // faction assigned to the Neutral and Creeps slots
}

func DefaultConfig() Config {
	return Config{
		Width:      96,
		Height:     96,
		Spawns:     4,
		SeaLevel:   0.32,
		RoughLevel: 0.72,
		OreLevel:   0.78,
		Title:      "Generated Map",
		Author:     "mapgen",
		Faction:    "Random",
	}
}

// Generate builds a complete map on ts. The tileset must declare a
// template for each of the Clear, Water, and Rough categories.
func Generate(ts *tileset.TileSet, cfg Config) (*tilemap.Map, error) {
	if cfg.Width < 16 || cfg.Height < 16 {
		return nil, fmt.Errorf("mapgen: size %dx%d too small", cfg.Width, cfg.Height)
	}
	if cfg.Spawns < 0 {
		return nil, fmt.Errorf("mapgen: negative spawn count")
	}
	clearTpl, err := templateFor(ts, catClear)
	if err != nil {
		return nil, err
	}
	waterTpl, err := templateFor(ts, catWater)
	if err != nil {
		return nil, err
	}
	roughTpl, err := templateFor(ts, catRough)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	elevNoise := opensimplex.NewNormalized(seed)
	oreNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	m := tilemap.New(ts)
	m.Resize(cfg.Width, cfg.Height)
	m.Title = cfg.Title
	m.Author = cfg.Author
	m.Type = "Skirmish"
	m.SetCordon(1, 1, cfg.Width-1, cfg.Height-1)

	terrain := m.Tiles()
	resources := m.Resources()
	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2
	// Edge falloff keeps a water border; normalize by the shorter axis.
	norm := math.Min(cx, cy)

	for x := 0; x < cfg.Width; x++ {
		for y := 0; y < cfg.Height; y++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.03, 0.5)

			dist := math.Hypot(fx-cx, fy-cy) / norm
			falloff := 1.0 - math.Pow(dist, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			switch {
			case elev < cfg.SeaLevel:
				terrain.Set(x, y, tiles.TerrainTile{Type: waterTpl.ID})
			case elev > cfg.RoughLevel:
				terrain.Set(x, y, tiles.TerrainTile{Type: roughTpl.ID})
			default:
				terrain.Set(x, y, tiles.TerrainTile{Type: clearTpl.ID})
				ore := octaveNoise(oreNoise, fx, fy, 3, 0.06, 0.5)
				if ore >= cfg.OreLevel {
					density := uint8(math.Min(255, (ore-cfg.OreLevel)/(1-cfg.OreLevel)*255))
					resources.Set(x, y, tiles.ResourceTile{Type: OreResourceType, Index: density})
				}
			}
		}
	}

	if err := placeSpawns(m, ts, cfg.Spawns); err != nil {
		return nil, err
	}

	m.RandomizeOpenAreas(ts, rng)
	m.MakeDefaultPlayers(&rules.Ruleset{Factions: []string{cfg.Faction}, TileSet: ts})
	return m, nil
}

// placeSpawns distributes spawn points on a ring around the map center,
// snapping each to the nearest open cell.
func placeSpawns(m *tilemap.Map, ts *tileset.TileSet, spawns int) error {
	if spawns == 0 {
		return nil
	}
	cx, cy := float64(m.Width)/2, float64(m.Height)/2
	ring := math.Min(cx, cy) * 0.62

	for i := 0; i < spawns; i++ {
		angle := 2 * math.Pi * float64(i) / float64(spawns)
		want := grid.CPos{
			X: int(cx + ring*math.Cos(angle)),
			Y: int(cy + ring*math.Sin(angle)),
		}
		c, ok := nearestOpen(m, ts, want)
		if !ok {
			return fmt.Errorf("mapgen: no open cell near %s for spawn %d", want, i)
		}
		a := &tilemap.ActorReference{ID: fmt.Sprintf("Actor%d", i), Type: tilemap.SpawnPointType}
		a.SetInit("Owner", "Neutral")
		a.SetInit("Location", c.String())
		m.Actors().Set(a)
	}
	return nil
}

// nearestOpen finds the closest clear cell to want within the spatial
// table's reach. The circle iterator yields cells in ascending distance
// buckets, so the first hit is the nearest.
func nearestOpen(m *tilemap.Map, ts *tileset.TileSet, want grid.CPos) (grid.CPos, bool) {
	cells, err := spatial.TilesInCircle(m.BoundsRegion(), want, spatial.MaxRange)
	if err != nil {
		return grid.CPos{}, false
	}
	terrain := m.Tiles()
	for c := range cells {
		if cat, ok := ts.TerrainType(terrain.AtPos(c)); ok && cat == catClear {
			return c, true
		}
	}
	return grid.CPos{}, false
}

func templateFor(ts *tileset.TileSet, category string) (*tileset.Template, error) {
	for i := range ts.Templates {
		t := &ts.Templates[i]
		for _, c := range t.Terrain {
			if c == category {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("mapgen: tileset %s has no %s template", ts.Name, category)
}

// octaveNoise layers several frequencies of normalized noise.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
