package spatial

import (
	"errors"
	"math"
	"testing"

	"mapvault.dev/internal/grid"
)

func collect(t *testing.T, bounds grid.CellRegion, center grid.CPos, r int) []grid.CPos {
	t.Helper()
	seq, err := TilesInCircle(bounds, center, r)
	if err != nil {
		t.Fatalf("TilesInCircle: %v", err)
	}
	var out []grid.CPos
	for c := range seq {
		out = append(out, c)
	}
	return out
}

func TestTilesInCircle_ZeroRange(t *testing.T) {
	bounds := grid.Region(0, 0, 9, 9)

	got := collect(t, bounds, grid.CPos{X: 4, Y: 4}, 0)
	if len(got) != 1 || got[0] != (grid.CPos{X: 4, Y: 4}) {
		t.Fatalf("in-bounds center: got %v", got)
	}

	if got := collect(t, bounds, grid.CPos{X: -3, Y: 4}, 0); len(got) != 0 {
		t.Fatalf("out-of-bounds center: got %v", got)
	}
}

func TestTilesInCircle_RangeExceeded(t *testing.T) {
	_, err := TilesInCircle(grid.Region(0, 0, 9, 9), grid.CPos{X: 0, Y: 0}, MaxRange+1)
	if !errors.Is(err, ErrRangeExceeded) {
		t.Fatalf("got %v", err)
	}
}

func TestTilesInCircle_CoverageAndOrder(t *testing.T) {
	bounds := grid.Region(0, 0, 200, 200)
	center := grid.CPos{X: 100, Y: 100}
	const r = 5

	got := collect(t, bounds, center, r)

	// Every yielded cell is within r, and distance buckets never decrease.
	seen := make(map[grid.CPos]bool, len(got))
	prev := 0
	for _, c := range got {
		dx, dy := c.X-center.X, c.Y-center.Y
		if dx*dx+dy*dy > r*r {
			t.Fatalf("cell %v outside radius %d", c, r)
		}
		if seen[c] {
			t.Fatalf("cell %v yielded twice", c)
		}
		seen[c] = true
		d := int(math.Ceil(math.Sqrt(float64(dx*dx + dy*dy))))
		if d < prev {
			t.Fatalf("bucket order regressed at %v: %d after %d", c, d, prev)
		}
		prev = d
	}

	// Exactly the cells with dx*dx+dy*dy <= r*r.
	want := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				want++
			}
		}
	}
	if len(got) != want {
		t.Fatalf("coverage: got %d cells want %d", len(got), want)
	}
}

func TestTilesInCircle_Deterministic(t *testing.T) {
	bounds := grid.Region(0, 0, 30, 30)
	a := collect(t, bounds, grid.CPos{X: 3, Y: 3}, 7)
	b := collect(t, bounds, grid.CPos{X: 3, Y: 3}, 7)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
