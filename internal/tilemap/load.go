package tilemap

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"mapvault.dev/internal/container"
	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/tiles"
)

var (
	// ErrMissingEntry marks a container without both canonical entries.
	ErrMissingEntry = errors.New("tilemap: missing required entry")
	// ErrUnsupportedFormat marks a descriptor this library cannot load.
	ErrUnsupportedFormat = errors.New("tilemap: unsupported map format")
)

// Load opens the container at path and constructs the map. upgradeMod is
// the mod id stamped into a format-5 map on upgrade; loading a format-5
// map without one fails. Maps older than the current format are re-saved
// in place to normalize their layout before the uid is computed.
func Load(path, upgradeMod string) (*Map, error) {
	store, err := container.Open(path)
	if err != nil {
		return nil, err
	}

	yamlBytes, err := store.Read(descriptorEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, descriptorEntry)
	}
	binBytes, err := store.Read(binaryEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, binaryEntry)
	}

	m := &Map{
		Players: NewPlayers(),
		actors:  resolved(NewActors()),
		smudges: resolved[[]Smudge](nil),
		store:   store,
		path:    path,
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(yamlBytes, &doc); err != nil {
		return nil, fmt.Errorf("tilemap: %s: %w", descriptorEntry, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tilemap: %s: not a mapping", descriptorEntry)
	}
	root := doc.Content[0]

	byKey := map[string]fieldSpec{}
	for _, f := range descriptorFields() {
		byKey[f.key] = f
	}
	sawFormat := false
	for _, pair := range mappingPairs(root) {
		f, ok := byKey[pair[0].Value]
		if !ok {
			continue // unknown keys are ignored
		}
		if f.key == "MapFormat" {
			sawFormat = true
		}
		if err := f.parse(m, pair[1]); err != nil {
			return nil, err
		}
	}
	if !sawFormat {
		return nil, fmt.Errorf("%w: MapFormat missing", ErrUnsupportedFormat)
	}

	loadedFormat := m.Format
	if loadedFormat < minimumFormat {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrUnsupportedFormat, loadedFormat, minimumFormat)
	}
	if loadedFormat == minimumFormat {
		if upgradeMod == "" {
			return nil, fmt.Errorf("%w: format %d requires an upgrade mod", ErrUnsupportedFormat, minimumFormat)
		}
		m.Format = SupportedFormat
		m.RequiresMod = upgradeMod
	}

	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("tilemap: bad MapSize %d,%d", m.Width, m.Height)
	}
	if m.Bounds == (Rect{}) {
		m.Bounds = Rect{0, 0, m.Width, m.Height}
	}
	m.clampBounds()

	// Validate the binary header eagerly so dimension mismatches fail
	// construction; the O(W*H) cell decode stays deferred.
	if err := tiles.ValidateHeader(binBytes, m.Width, m.Height); err != nil {
		return nil, err
	}
	m.bindGrids(binBytes)

	m.CustomTerrain = grid.NewLayer[uint8](m.Width, m.Height)
	m.CustomTerrain.Fill(NoTerrainOverride)

	if loadedFormat < SupportedFormat {
		// Normalize old layouts on disk before hashing.
		if err := m.Save(path); err != nil {
			return nil, fmt.Errorf("tilemap: normalize: %w", err)
		}
	} else {
		m.uid = ComputeUID(yamlBytes, binBytes)
	}

	if b, err := m.store.Read(previewEntry); err == nil {
		m.Preview = b
	}
	return m, nil
}

// bindGrids wires the lazy terrain/resource layers to the raw payload.
// The header has been validated, so the deferred decode cannot fail.
func (m *Map) bindGrids(binBytes []byte) {
	decode := func() (*grid.Layer[tiles.TerrainTile], *grid.Layer[tiles.ResourceTile]) {
		t, r, err := tiles.Decode(binBytes, m.Width, m.Height)
		if err != nil {
			panic(fmt.Sprintf("tilemap: decode after validated header: %v", err))
		}
		return t, r
	}
	m.terrain = newLazy(func() *grid.Layer[tiles.TerrainTile] {
		t, r := decode()
		m.resources.set(r)
		return t
	})
	m.resources = newLazy(func() *grid.Layer[tiles.ResourceTile] {
		t, r := decode()
		m.terrain.set(t)
		return r
	})
}
