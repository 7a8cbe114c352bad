// Package spatial precomputes distance-ordered cell offsets for radius
// queries over the tile grid.
package spatial

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sync"

	"mapvault.dev/internal/grid"
)

// MaxRange is the largest radius the offset table supports.
const MaxRange = 50

// ErrRangeExceeded is returned for queries beyond MaxRange.
var ErrRangeExceeded = errors.New("spatial: range exceeds precomputed table")

var (
	tableOnce sync.Once
	// offsetsByDistance[d] holds every offset whose Euclidean distance
	// rounds up to d, in y-outer/x-inner build order. Consumers depend on
	// this exact order for reproducible nearest-first scans.
	offsetsByDistance [][]grid.CVec
)

func buildTable() {
	offsetsByDistance = make([][]grid.CVec, MaxRange+1)
	for y := -MaxRange; y <= MaxRange; y++ {
		for x := -MaxRange; x <= MaxRange; x++ {
			if x*x+y*y > MaxRange*MaxRange {
				continue
			}
			d := int(math.Ceil(math.Sqrt(float64(x*x + y*y))))
			offsetsByDistance[d] = append(offsetsByDistance[d], grid.CVec{X: x, Y: y})
		}
	}
}

// TilesInCircle yields every cell of bounds within the given range of
// center, nearest distance bucket first. The sequence is lazy; ranging
// over it again restarts from the center.
func TilesInCircle(bounds grid.CellRegion, center grid.CPos, r int) (iter.Seq[grid.CPos], error) {
	if r < 0 {
		return nil, fmt.Errorf("%w: negative range %d", ErrRangeExceeded, r)
	}
	if r > MaxRange {
		return nil, fmt.Errorf("%w: %d > %d", ErrRangeExceeded, r, MaxRange)
	}
	tableOnce.Do(buildTable)

	return func(yield func(grid.CPos) bool) {
		for d := 0; d <= r; d++ {
			for _, off := range offsetsByDistance[d] {
				c := center.Add(off)
				if !bounds.Contains(c) {
					continue
				}
				if !yield(c) {
					return
				}
			}
		}
	}, nil
}
