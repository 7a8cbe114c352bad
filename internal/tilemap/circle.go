package tilemap

import (
	"iter"

	"mapvault.dev/internal/grid"
	"mapvault.dev/internal/spatial"
)

// TilesInCircle yields the cells of the playable bounds within the given
// range of center, nearest first. Range is capped by the precomputed
// offset table; larger queries fail with spatial.ErrRangeExceeded.
func (m *Map) TilesInCircle(center grid.CPos, r int) (iter.Seq[grid.CPos], error) {
	return spatial.TilesInCircle(m.BoundsRegion(), center, r)
}
