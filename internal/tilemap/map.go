// Package tilemap loads, mutates, and re-serializes tile-strategy maps:
// a map.yaml descriptor plus a map.bin tile payload packaged with
// arbitrary auxiliary assets in a single container.
package tilemap

import (
	"fmt"
	"strconv"
	"strings"

	"mapvault.dev/internal/container"
	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/rules"
	"mapvault.dev/internal/tiles"
	"mapvault.dev/internal/tileset"
)

const (
	// SupportedFormat is stamped on every save.
	SupportedFormat = 6
	// minimumFormat is the oldest loadable descriptor format. Exactly this
	// version additionally needs an upgrade mod id.
	minimumFormat = 5
)

const (
	descriptorEntry = "map.yaml"
	binaryEntry     = "map.bin"
	previewEntry    = "map.png"
)

// NoTerrainOverride is the custom-terrain sentinel meaning "defer to the
// tileset's classification".
const NoTerrainOverride uint8 = 0xFF

// SpawnPointType is the actor type marking a multiplayer start location.
const SpawnPointType = "mpspawn"

// Rect is the playable bounds rectangle in cell coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

func parseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("tilemap: bad rectangle %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("tilemap: bad rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	return Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// lazy defers a computation until first access and memoizes it. Access is
// single-threaded by contract.
type lazy[T any] struct {
	fn   func() T
	v    T
	done bool
}

func newLazy[T any](fn func() T) lazy[T] { return lazy[T]{fn: fn} }

func resolved[T any](v T) lazy[T] { return lazy[T]{v: v, done: true} }

func (l *lazy[T]) value() T {
	if !l.done {
		l.v = l.fn()
		l.fn = nil
		l.done = true
	}
	return l.v
}

func (l *lazy[T]) set(v T) {
	l.v = v
	l.fn = nil
	l.done = true
}

// Map is the aggregate root for one map container.
type Map struct {
	Format        int
	Title         string
	Description   string
	Author        string
	Tileset       string
	Type          string
	RequiresMod   string
	Selectable    bool
	UseAsShellmap bool

	Width  int
	Height int
	Bounds Rect

	Options Options
	Players *Players

	// Defs carries the opaque definition sections verbatim.
	Defs rules.Definitions

	// CustomTerrain overrides the tileset classification per cell;
	// NoTerrainOverride means no override.
	CustomTerrain *grid.Layer[uint8]

	// Preview is the optional map.png entry, advisory only.
	Preview []byte

	uid   string
	store container.Store
	path  string

	terrain   lazy[*grid.Layer[tiles.TerrainTile]]
	resources lazy[*grid.Layer[tiles.ResourceTile]]
	actors    lazy[*Actors]
	smudges   lazy[[]Smudge]

	ruleLoader rules.Loader
	ruleset    *rules.Ruleset
	rulesErr   error
	rulesDone  bool
}

// New builds a fresh single-cell map on the given tileset.
func New(ts *tileset.TileSet) *Map {
	terrain := grid.NewLayer[tiles.TerrainTile](1, 1)
	terrain.Fill(ts.DefaultTile())
	custom := grid.NewLayer[uint8](1, 1)
	custom.Fill(NoTerrainOverride)

	m := &Map{
		Format:        SupportedFormat,
		Title:         "Untitled",
		Tileset:       ts.Name,
		Selectable:    true,
		Width:         1,
		Height:        1,
		Bounds:        Rect{0, 0, 1, 1},
		Players:       NewPlayers(),
		CustomTerrain: custom,
	}
	m.terrain = resolved(terrain)
	m.resources = resolved(grid.NewLayer[tiles.ResourceTile](1, 1))
	m.actors = resolved(NewActors())
	m.smudges = resolved[[]Smudge](nil)
	return m
}

// Path is the container location the map was loaded from or last saved to.
func (m *Map) Path() string { return m.path }

// UID is the content hash over the two canonical entries, fixed between
// saves.
func (m *Map) UID() string { return m.uid }

// Tiles is the terrain layer, decoded from map.bin on first access.
func (m *Map) Tiles() *grid.Layer[tiles.TerrainTile] { return m.terrain.value() }

// Resources is the resource overlay, decoded from map.bin on first access.
func (m *Map) Resources() *grid.Layer[tiles.ResourceTile] { return m.resources.value() }

// Actors is the actor placement collection, parsed on first access.
func (m *Map) Actors() *Actors { return m.actors.value() }

// Smudges is the smudge placement list, parsed on first access.
func (m *Map) Smudges() []Smudge { return m.smudges.value() }

// BoundsRegion is the playable bounds as an inclusive cell region.
func (m *Map) BoundsRegion() grid.CellRegion {
	return grid.Region(m.Bounds.X, m.Bounds.Y,
		m.Bounds.X+m.Bounds.Width-1, m.Bounds.Y+m.Bounds.Height-1)
}

// Contains reports whether c lies within the playable bounds.
func (m *Map) Contains(c grid.CPos) bool { return m.BoundsRegion().Contains(c) }

// SetRuleLoader installs the external rules collaborator consulted by
// Rules. Replacing the loader clears the memoized ruleset.
func (m *Map) SetRuleLoader(l rules.Loader) {
	m.ruleLoader = l
	m.ruleset = nil
	m.rulesErr = nil
	m.rulesDone = false
}

// Rules resolves the ruleset for this map once and memoizes the result.
func (m *Map) Rules() (*rules.Ruleset, error) {
	if !m.rulesDone {
		if m.ruleLoader == nil {
			return nil, fmt.Errorf("tilemap: no rule loader installed")
		}
		m.ruleset, m.rulesErr = m.ruleLoader(m.Tileset, m.Defs)
		m.rulesDone = true
	}
	return m.ruleset, m.rulesErr
}

// Resize replaces both grids with copies of the given size. Newly exposed
// terrain repeats the origin tile; resources and overrides reset. Bounds
// are clamped into the new size.
func (m *Map) Resize(width, height int) {
	t := m.Tiles()
	m.terrain.set(t.Resize(width, height, t.At(0, 0)))
	m.resources.set(m.Resources().Resize(width, height, tiles.ResourceTile{}))
	m.CustomTerrain = m.CustomTerrain.Resize(width, height, NoTerrainOverride)
	m.Width = width
	m.Height = height
	m.clampBounds()
}

// SetCordon sets the playable bounds from inclusive-exclusive cell edges.
func (m *Map) SetCordon(left, top, right, bottom int) {
	m.Bounds = Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
	m.clampBounds()
}

func (m *Map) clampBounds() {
	b := m.Bounds
	if b.X < 0 {
		b.Width += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.Height += b.Y
		b.Y = 0
	}
	if b.X+b.Width > m.Width {
		b.Width = m.Width - b.X
	}
	if b.Y+b.Height > m.Height {
		b.Height = m.Height - b.Y
	}
	if b.Width < 1 {
		b.Width = 1
	}
	if b.Height < 1 {
		b.Height = 1
	}
	if b.X >= m.Width {
		b.X = m.Width - 1
	}
	if b.Y >= m.Height {
		b.Y = m.Height - 1
	}
	m.Bounds = b
}

// TerrainIndex classifies the cell: the custom override wins, otherwise
// the tileset's static classification of the terrain tile.
func (m *Map) TerrainIndex(ts *tileset.TileSet, c grid.CPos) (uint8, bool) {
	if v := m.CustomTerrain.AtPos(c); v != NoTerrainOverride {
		return v, true
	}
	cat, ok := ts.TerrainType(m.Tiles().AtPos(c))
	if !ok {
		return 0, false
	}
	return ts.CategoryIndex(cat)
}

// SpawnPoints lists the cells of spawn-point actors with a parseable
// location, in actor insertion order.
func (m *Map) SpawnPoints() []grid.CPos {
	var out []grid.CPos
	for _, a := range m.Actors().All() {
		if a.Type != SpawnPointType {
			continue
		}
		if c, ok := a.Location(); ok {
			out = append(out, c)
		}
	}
	return out
}

// ValidatePlacements checks actor and smudge coordinates against the
// playable bounds. Load does not enforce this; strict consumers call it
// explicitly.
func (m *Map) ValidatePlacements() error {
	region := m.BoundsRegion()
	for _, a := range m.Actors().All() {
		c, ok := a.Location()
		if !ok {
			continue
		}
		if !region.Contains(c) {
			return fmt.Errorf("tilemap: actor %s at %s outside bounds %s", a.ID, c, m.Bounds)
		}
	}
	for _, s := range m.Smudges() {
		if !region.Contains(s.Location) {
			return fmt.Errorf("tilemap: smudge %s at %s outside bounds %s", s.Type, s.Location, m.Bounds)
		}
	}
	return nil
}
