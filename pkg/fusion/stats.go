package fusion

import (
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarizes the accumulation outcome of one fused frame.
// The stats are purely informational: they feed verbose logging and the
// end-of-run summary and never influence fusion itself.
type FrameStats struct {
	// Frame is the animation frame index the stats describe
	Frame int

	// Populated is the number of voxels holding at least one observation
	Populated int

	// Occupancy is Populated divided by the total voxel count of the grid
	Occupancy float64

	// MeanWeight and WeightVariance describe the distribution of
	// per-voxel observation counts
	MeanWeight     float64
	WeightVariance float64

	// MaxWeight is the largest observation count on any single voxel
	MaxWeight float64

	// MeanLuminance is the average Rec. 601 luma of the fused colors
	MeanLuminance float64

	// MissingViews counts how many of the six views could not be loaded
	MissingViews int
}

// CollectStats computes the summary statistics of a fused frame grid
func CollectStats(grid *FrameGrid, frame, missingViews int) FrameStats {
	populated := grid.Populated()

	weights := make([]float64, 0, populated)
	lumas := make([]float64, 0, populated)
	maxWeight := 0.0

	grid.Each(func(_ Coord, cell Cell) {
		weights = append(weights, cell.Weight)
		lumas = append(lumas, 0.299*cell.R+0.587*cell.G+0.114*cell.B)
		if cell.Weight > maxWeight {
			maxWeight = cell.Weight
		}
	})

	s := FrameStats{
		Frame:        frame,
		Populated:    populated,
		MaxWeight:    maxWeight,
		MissingViews: missingViews,
	}

	total := grid.Size() * grid.Size() * grid.Size()
	if total > 0 {
		s.Occupancy = float64(populated) / float64(total)
	}
	if populated > 0 {
		s.MeanWeight = stat.Mean(weights, nil)
		s.WeightVariance = stat.Variance(weights, nil)
		s.MeanLuminance = stat.Mean(lumas, nil)
	}

	return s
}
