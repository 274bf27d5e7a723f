package models

import (
	"image"
)

// ViewImage represents one decoded orthographic capture with metadata
type ViewImage struct {
	// Image is the decoded depth-color image data
	Image image.Image

	// Frame is the animation frame index this capture belongs to
	Frame int

	// Suffix is the view suffix the file was located by (nx, ny, ...)
	Suffix string

	// Filename is the original filename of the capture
	Filename string
}

// Volume represents a fused volumetric frame: two co-registered fields
// over a cubic [0,Size)³ domain
type Volume struct {
	// RGB is the color field as a 1D array in x-major order,
	// three float64 components per voxel
	RGB []float64

	// Alpha is the scalar weight field in the same voxel order
	Alpha []float64

	// Size is the edge length of the cubic grid in voxels
	Size int

	// Frame is the animation frame index this volume was fused from
	Frame int
}

// NewVolume allocates an empty volume for a cubic grid of the given size
func NewVolume(size, frame int) *Volume {
	n := size * size * size
	return &Volume{
		RGB:   make([]float64, 3*n),
		Alpha: make([]float64, n),
		Size:  size,
		Frame: frame,
	}
}

// Index returns the voxel index for an integer coordinate.
// Coordinates are assumed to be in [0,Size)³.
func (v *Volume) Index(x, y, z int) int {
	return (x*v.Size+y)*v.Size + z
}
