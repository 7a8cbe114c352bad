// Package tileset loads the terrain template catalog a map's tileset
// identifier refers to.
package tileset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mapvault.dev/internal/tiles"
)

type TileSet struct {
	Name      string     `yaml:"name"`
	Templates []Template `yaml:"templates"`
	// Categories fixes the terrain category order used for compact
	// per-cell indices. Derived from the templates when absent.
	Categories []string `yaml:"categories"`

	byID     map[uint16]*Template
	catIndex map[string]uint8
}

// Template is a named group of terrain tile variants selectable at a cell.
type Template struct {
	ID      uint16   `yaml:"id"`
	PickAny bool     `yaml:"pick_any"`
	Terrain []string `yaml:"terrain"` // terrain category per sub-tile index
}

func (t *Template) TileCount() int { return len(t.Terrain) }

func Load(path string) (*TileSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ts TileSet
	if err := yaml.Unmarshal(b, &ts); err != nil {
		return nil, fmt.Errorf("tileset %s: %w", path, err)
	}
	if err := ts.init(); err != nil {
		return nil, fmt.Errorf("tileset %s: %w", path, err)
	}
	return &ts, nil
}

// New builds a tileset directly, for generators and tests.
func New(name string, templates []Template) (*TileSet, error) {
	ts := &TileSet{Name: name, Templates: templates}
	if err := ts.init(); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *TileSet) init() error {
	if ts.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if len(ts.Templates) == 0 {
		return fmt.Errorf("templates must not be empty")
	}
	ts.byID = make(map[uint16]*Template, len(ts.Templates))
	for i := range ts.Templates {
		t := &ts.Templates[i]
		if len(t.Terrain) == 0 {
			return fmt.Errorf("template %d has no tiles", t.ID)
		}
		if _, dup := ts.byID[t.ID]; dup {
			return fmt.Errorf("duplicate template id %d", t.ID)
		}
		ts.byID[t.ID] = t
	}
	if len(ts.Categories) == 0 {
		seen := map[string]bool{}
		for _, t := range ts.Templates {
			for _, c := range t.Terrain {
				if !seen[c] {
					seen[c] = true
					ts.Categories = append(ts.Categories, c)
				}
			}
		}
	}
	if len(ts.Categories) > 0xFF {
		return fmt.Errorf("too many terrain categories (%d)", len(ts.Categories))
	}
	ts.catIndex = make(map[string]uint8, len(ts.Categories))
	for i, c := range ts.Categories {
		if _, dup := ts.catIndex[c]; dup {
			return fmt.Errorf("duplicate terrain category %q", c)
		}
		ts.catIndex[c] = uint8(i)
	}
	for _, t := range ts.Templates {
		for _, c := range t.Terrain {
			if _, ok := ts.catIndex[c]; !ok {
				return fmt.Errorf("template %d uses undeclared category %q", t.ID, c)
			}
		}
	}
	return nil
}

// CategoryIndex resolves a terrain category name to its compact index.
func (ts *TileSet) CategoryIndex(name string) (uint8, bool) {
	i, ok := ts.catIndex[name]
	return i, ok
}

// Category is the inverse of CategoryIndex.
func (ts *TileSet) Category(i uint8) (string, bool) {
	if int(i) >= len(ts.Categories) {
		return "", false
	}
	return ts.Categories[i], true
}

func (ts *TileSet) Template(id uint16) (*Template, bool) {
	t, ok := ts.byID[id]
	return t, ok
}

// TerrainType classifies a tile by its template's per-index terrain
// categories. Unknown templates and out-of-range indices report false.
func (ts *TileSet) TerrainType(tile tiles.TerrainTile) (string, bool) {
	t, ok := ts.byID[tile.Type]
	if !ok {
		return "", false
	}
	if int(tile.Index) >= len(t.Terrain) {
		return "", false
	}
	return t.Terrain[tile.Index], true
}

// DefaultTile is the tile a fresh map is filled with: the first declared
// template at index 0.
func (ts *TileSet) DefaultTile() tiles.TerrainTile {
	return tiles.TerrainTile{Type: ts.Templates[0].ID, Index: 0}
}
