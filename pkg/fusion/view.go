package fusion

// View identifies one of the six fixed orthographic capture directions.
// Each view owns a filename suffix and a signed axis-permutation rule that
// maps (primary, u, v) image space into grid space.
type View int

const (
	NX View = iota
	NY
	NZ
	PX
	PY
	PZ
)

// Views lists all six views in the fixed processing order used per frame.
var Views = []View{NX, NY, NZ, PX, PY, PZ}

// Suffix returns the filename suffix used to locate this view's image
func (v View) Suffix() string {
	return viewSuffixes[v]
}

func (v View) String() string {
	return viewSuffixes[v]
}

var viewSuffixes = [...]string{"nx", "ny", "nz", "px", "py", "pz"}

// axisSource selects which mapper input feeds one grid axis
type axisSource int

const (
	fromPrimary axisSource = iota
	fromU
	fromV
)

// axisRule produces one grid axis component: the selected source value,
// mirrored to size-1-value when flip is set
type axisRule struct {
	src  axisSource
	flip bool
}

// viewRules holds the signed permutation for each view as (x, y, z) rules.
// The rule set is data rather than branching logic so it can be tested
// independently of pixel iteration.
var viewRules = [...][3]axisRule{
	NX: {{fromPrimary, true}, {fromV, false}, {fromU, false}},
	NY: {{fromU, true}, {fromV, true}, {fromPrimary, false}},
	NZ: {{fromV, true}, {fromPrimary, true}, {fromU, false}},
	PX: {{fromPrimary, false}, {fromV, true}, {fromU, false}},
	PY: {{fromU, true}, {fromV, false}, {fromPrimary, true}},
	PZ: {{fromV, false}, {fromPrimary, false}, {fromU, false}},
}

// apply resolves one axis rule against the mapper inputs for a grid of
// the given size
func (r axisRule) apply(primary, u, v, size int) int {
	var val int
	switch r.src {
	case fromPrimary:
		val = primary
	case fromU:
		val = u
	case fromV:
		val = v
	}
	if r.flip {
		return size - 1 - val
	}
	return val
}
