package fusion

import (
	"multiview3d/internal/models"
)

// Coord addresses one voxel of the cubic grid
type Coord struct {
	X, Y, Z int
}

// FrameGrid is the accumulation state of one frame: a sparse mapping from
// grid coordinate to cell. Coordinates never written remain empty. A grid
// is owned by exactly one frame's processing and discarded after emission;
// nothing is shared across frames.
type FrameGrid struct {
	size  int
	cells map[Coord]Cell
}

// NewFrameGrid creates an empty grid for a cubic [0,size)³ domain
func NewFrameGrid(size int) *FrameGrid {
	return &FrameGrid{
		size:  size,
		cells: make(map[Coord]Cell),
	}
}

// Size returns the edge length of the grid in voxels
func (g *FrameGrid) Size() int {
	return g.size
}

// Add folds one observation into the grid. Observations whose coordinate
// falls outside [0,size)³ are silently dropped: out-of-range coordinates
// are the normal fate of view-boundary pixels, not an error.
func (g *FrameGrid) Add(o Observation) {
	if o.X < 0 || o.X >= g.size || o.Y < 0 || o.Y >= g.size || o.Z < 0 || o.Z >= g.size {
		return
	}
	key := Coord{o.X, o.Y, o.Z}
	g.cells[key] = Combine(g.cells[key], observationCell(o))
}

// Merge folds every populated cell of another grid of the same size into
// this one. Because Combine is associative and commutative, merging
// per-view partial grids in any order yields the same result as folding
// all observations sequentially.
func (g *FrameGrid) Merge(other *FrameGrid) {
	for key, cell := range other.cells {
		g.cells[key] = Combine(g.cells[key], cell)
	}
}

// Cell returns the accumulation state at a coordinate. Unwritten
// coordinates return the empty cell.
func (g *FrameGrid) Cell(x, y, z int) Cell {
	return g.cells[Coord{x, y, z}]
}

// Populated returns the number of voxels holding at least one observation
func (g *FrameGrid) Populated() int {
	return len(g.cells)
}

// Each calls fn for every populated cell in unspecified order
func (g *FrameGrid) Each(fn func(c Coord, cell Cell)) {
	for key, cell := range g.cells {
		fn(key, cell)
	}
}

// Volume renders the grid into its dense two-field form for emission:
// the fused RGB field and the scalar weight field
func (g *FrameGrid) Volume(frame int) *models.Volume {
	vol := models.NewVolume(g.size, frame)
	for key, cell := range g.cells {
		idx := vol.Index(key.X, key.Y, key.Z)
		vol.RGB[3*idx] = cell.R
		vol.RGB[3*idx+1] = cell.G
		vol.RGB[3*idx+2] = cell.B
		vol.Alpha[idx] = cell.Weight
	}
	return vol
}
