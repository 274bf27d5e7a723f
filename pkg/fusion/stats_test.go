package fusion

import (
	"math"
	"testing"
)

// TestCollectStats verifies the per-frame summary on a small grid
func TestCollectStats(t *testing.T) {
	const size = 4
	grid := NewFrameGrid(size)

	grid.Add(Observation{X: 0, Y: 0, Z: 0, R: 1})
	grid.Add(Observation{X: 0, Y: 0, Z: 0, R: 1})
	grid.Add(Observation{X: 1, Y: 1, Z: 1, G: 1})

	s := CollectStats(grid, 3, 2)

	if s.Frame != 3 || s.MissingViews != 2 {
		t.Errorf("Metadata not carried through: %+v", s)
	}
	if s.Populated != 2 {
		t.Errorf("Expected 2 populated voxels, got %d", s.Populated)
	}
	if math.Abs(s.Occupancy-2.0/64.0) > tolerance {
		t.Errorf("Expected occupancy %.4f, got %.4f", 2.0/64.0, s.Occupancy)
	}
	if math.Abs(s.MeanWeight-1.5) > tolerance {
		t.Errorf("Expected mean weight 1.5, got %f", s.MeanWeight)
	}
	if s.MaxWeight != 2 {
		t.Errorf("Expected max weight 2, got %f", s.MaxWeight)
	}
	if s.MeanLuminance <= 0 {
		t.Errorf("Expected positive mean luminance, got %f", s.MeanLuminance)
	}
}

// TestCollectStatsEmptyGrid verifies the degenerate empty-frame case
func TestCollectStatsEmptyGrid(t *testing.T) {
	s := CollectStats(NewFrameGrid(4), 1, 0)

	if s.Populated != 0 || s.Occupancy != 0 || s.MeanWeight != 0 {
		t.Errorf("Expected zeroed stats for empty grid, got %+v", s)
	}
}
