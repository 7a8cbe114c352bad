// Package tiles holds the terrain/resource tile value types and the
// binary codec for the map.bin container entry.
package tiles

// TerrainTile identifies one terrain template variant at a cell.
type TerrainTile struct {
	Type  uint16 // template id
	Index uint8  // sub-tile within the template
}

// ResourceTile is one cell of the resource overlay.
type ResourceTile struct {
	Type  uint8
	Index uint8 // density/variant
}
