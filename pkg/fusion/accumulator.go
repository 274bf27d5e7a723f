package fusion

// Cell is the accumulation state of one voxel: the running mean color of
// all observations folded into it and their total weight. The zero value
// is an empty cell.
type Cell struct {
	R, G, B float64
	Weight  float64
}

// Empty reports whether no observation has been folded into the cell
func (c Cell) Empty() bool {
	return c.Weight == 0
}

// Combine merges two partial accumulation states into one. The result
// holds the weighted mean of the two colors and the summed weight, so the
// operation is associative and commutative over any set of observations
// landing on one coordinate: folding them in any order or grouping yields
// the same cell.
//
// Folding a single observation is the special case where b has weight 1.
func Combine(a, b Cell) Cell {
	if a.Weight == 0 {
		return b
	}
	if b.Weight == 0 {
		return a
	}
	total := a.Weight + b.Weight
	return Cell{
		R:      (a.R*a.Weight + b.R*b.Weight) / total,
		G:      (a.G*a.Weight + b.G*b.Weight) / total,
		B:      (a.B*a.Weight + b.B*b.Weight) / total,
		Weight: total,
	}
}

// observationCell lifts an observation into its unit-weight cell form
func observationCell(o Observation) Cell {
	return Cell{R: o.R, G: o.G, B: o.B, Weight: 1}
}
