package tileset

import (
	"os"
	"path/filepath"
	"testing"

	"mapvault.dev/internal/tiles"
)

const sample = `name: temperat
templates:
  - id: 0
    pick_any: true
    terrain: [Clear, Clear, Clear, Clear]
  - id: 1
    terrain: [Water]
  - id: 2
    terrain: [Rough, Rock]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temperat.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ts.Name != "temperat" {
		t.Fatalf("name: %q", ts.Name)
	}

	tpl, ok := ts.Template(0)
	if !ok || !tpl.PickAny || tpl.TileCount() != 4 {
		t.Fatalf("template 0: %+v ok=%v", tpl, ok)
	}
	if _, ok := ts.Template(9); ok {
		t.Fatal("unknown template id must not resolve")
	}

	if tt, ok := ts.TerrainType(tiles.TerrainTile{Type: 2, Index: 1}); !ok || tt != "Rock" {
		t.Fatalf("terrain type: %q ok=%v", tt, ok)
	}
	if _, ok := ts.TerrainType(tiles.TerrainTile{Type: 2, Index: 5}); ok {
		t.Fatal("out-of-range index must not classify")
	}

	if d := ts.DefaultTile(); d.Type != 0 || d.Index != 0 {
		t.Fatalf("default tile: %+v", d)
	}

	// Categories derive in declaration order.
	want := []string{"Clear", "Water", "Rough", "Rock"}
	if len(ts.Categories) != len(want) {
		t.Fatalf("categories: %v", ts.Categories)
	}
	for i, c := range want {
		if ts.Categories[i] != c {
			t.Fatalf("categories[%d]: got %s want %s", i, ts.Categories[i], c)
		}
		if idx, ok := ts.CategoryIndex(c); !ok || idx != uint8(i) {
			t.Fatalf("CategoryIndex(%s): %d ok=%v", c, idx, ok)
		}
	}
	if name, ok := ts.Category(1); !ok || name != "Water" {
		t.Fatalf("Category(1): %q ok=%v", name, ok)
	}
	if _, ok := ts.Category(200); ok {
		t.Fatal("out-of-range category index must not resolve")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Fatal("empty tileset must be rejected")
	}
	if _, err := New("x", []Template{{ID: 1, Terrain: []string{"Clear"}}, {ID: 1, Terrain: []string{"Water"}}}); err == nil {
		t.Fatal("duplicate template id must be rejected")
	}
}
