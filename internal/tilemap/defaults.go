package tilemap

import (
	"fmt"
	"log"
	"math/rand"

	"mapvault.dev/internal/rules"
	"mapvault.dev/internal/tiles"
	"mapvault.dev/internal/tileset"
)

// MakeDefaultPlayers fills in the standard player slots derived from the
// current spawn points and faction list: a world-owning Neutral, one
// playable Multi<i> per spawn point, and a Creeps player hostile to every
// playable slot. Existing names are left untouched, so repeated calls are
// no-ops.
func (m *Map) MakeDefaultPlayers(r *rules.Ruleset) {
	firstFaction := ""
	if len(r.Factions) > 0 {
		firstFaction = r.Factions[0]
	}

	if !m.Players.Has("Neutral") {
		m.Players.Set(&PlayerReference{
			Name:         "Neutral",
			Faction:      firstFaction,
			OwnsWorld:    true,
			NonCombatant: true,
		})
	}

	for i := range m.SpawnPoints() {
		name := fmt.Sprintf("Multi%d", i)
		if m.Players.Has(name) {
			continue
		}
		m.Players.Set(&PlayerReference{
			Name:     name,
			Faction:  "Random",
			Playable: true,
			Enemies:  []string{"Creeps"},
		})
	}

	if !m.Players.Has("Creeps") {
		var enemies []string
		for _, p := range m.Players.All() {
			if p.Playable {
				enemies = append(enemies, p.Name)
			}
		}
		m.Players.Set(&PlayerReference{
			Name:         "Creeps",
			Faction:      firstFaction,
			NonCombatant: true,
			Enemies:      enemies,
		})
	}
}

// RandomizeOpenAreas re-rolls the sub-tile index of every pick-any
// template inside the bounds, breaking up the repetition of bulk-painted
// open terrain. Cells with a template the tileset does not know are
// logged and skipped.
func (m *Map) RandomizeOpenAreas(ts *tileset.TileSet, rng *rand.Rand) {
	t := m.Tiles()
	for c := range m.BoundsRegion().Cells() {
		tile := t.AtPos(c)
		tpl, ok := ts.Template(tile.Type)
		if !ok {
			log.Printf("tilemap: unknown template %d at %s", tile.Type, c)
			continue
		}
		if !tpl.PickAny {
			continue
		}
		t.SetPos(c, tiles.TerrainTile{Type: tile.Type, Index: uint8(rng.Intn(tpl.TileCount()))})
	}
}
