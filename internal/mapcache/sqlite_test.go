package mapcache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapvault.dev/internal/container"
	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/tilemap"
	"mapvault.dev/internal/tiles"
)

func writeMap(t *testing.T, title string) *tilemap.Map {
	t.Helper()
	desc := "MapFormat: 6\nTitle: " + title + "\nAuthor: dev\nTileset: temperat\nSelectable: true\nUseAsShellmap: false\nMapSize: 2,2\nBounds: 0,0,2,2\n" +
		"Players:\n  Multi0:\n    Faction: Random\n    Playable: true\n"
	terrain := grid.NewLayer[tiles.TerrainTile](2, 2)
	resources := grid.NewLayer[tiles.ResourceTile](2, 2)
	bin := tiles.Encode(terrain, resources)

	path := filepath.Join(t.TempDir(), strings.ToLower(title)+".zip")
	if err := container.Write(path, map[string][]byte{
		"map.yaml": []byte(desc),
		"map.bin":  bin,
	}); err != nil {
		t.Fatalf("write container: %v", err)
	}
	m, err := tilemap.Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestIndex_PutGetList(t *testing.T) {
	ix, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	b := writeMap(t, "Beta")
	a := writeMap(t, "Alpha")
	for _, m := range []*tilemap.Map{b, a} {
		if err := ix.Put(m); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	recs, err := ix.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "Alpha" || recs[1].Title != "Beta" {
		t.Fatalf("List order: %+v", recs)
	}
	if recs[0].Players != 1 || recs[0].Width != 2 || recs[0].Format != 6 {
		t.Fatalf("record fields: %+v", recs[0])
	}

	rec, desc, err := ix.Get(a.UID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.UID != a.UID() || rec.Path != a.Path() {
		t.Fatalf("Get record: %+v", rec)
	}
	if !strings.Contains(string(desc), "Title: Alpha") {
		t.Fatalf("descriptor not round-tripped:\n%s", desc)
	}
}

func TestIndex_PutReplacesSameUID(t *testing.T) {
	ix, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	m := writeMap(t, "Alpha")
	if err := ix.Put(m); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ix.Put(m); err != nil {
		t.Fatalf("Put again: %v", err)
	}
	recs, err := ix.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected a single row, got %d", len(recs))
	}
}

func TestIndex_Scan(t *testing.T) {
	dir := t.TempDir()
	for _, title := range []string{"Alpha", "Beta"} {
		desc := "MapFormat: 6\nTitle: " + title + "\nAuthor: dev\nTileset: temperat\nSelectable: true\nUseAsShellmap: false\nMapSize: 2,2\nBounds: 0,0,2,2\n"
		terrain := grid.NewLayer[tiles.TerrainTile](2, 2)
		resources := grid.NewLayer[tiles.ResourceTile](2, 2)
		err := container.Write(filepath.Join(dir, strings.ToLower(title)+".zip"), map[string][]byte{
			"map.yaml": []byte(desc),
			"map.bin":  tiles.Encode(terrain, resources),
		})
		if err != nil {
			t.Fatalf("write container: %v", err)
		}
	}
	// Non-container noise must be skipped, not fail the scan.
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.zip"), []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	n, err := ix.Scan(dir, "")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if n != 2 {
		t.Fatalf("indexed %d", n)
	}
	recs, err := ix.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "Alpha" || recs[1].Title != "Beta" {
		t.Fatalf("List: %+v", recs)
	}
}

func TestIndex_GetMissingAndDelete(t *testing.T) {
	ix, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	if _, _, err := ix.Get("deadbeef"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("missing uid: %v", err)
	}

	m := writeMap(t, "Alpha")
	if err := ix.Put(m); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ix.Delete(m.UID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ix.Delete(m.UID()); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if _, _, err := ix.Get(m.UID()); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("after delete: %v", err)
	}
}
