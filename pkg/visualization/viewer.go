package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"multiview3d/internal/models"
)

// Viewer extracts 2D inspection slices from a fused volumetric frame.
// Voxels holding at least one observation are rendered with their fused
// color and full opacity; empty voxels are transparent.
type Viewer struct {
	// vol holds the fused volume being inspected
	vol *models.Volume
}

// NewViewer creates a viewer for one fused volume
func NewViewer(vol *models.Volume) *Viewer {
	return &Viewer{vol: vol}
}

// ExtractSlice extracts a 2D slice of the volume along the specified axis
// at the given position
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	size := v.vol.Size
	if position < 0 || position >= size {
		return nil, fmt.Errorf("position %d out of range [0,%d)", position, size)
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	for a := 0; a < size; a++ {
		for b := 0; b < size; b++ {
			var idx int
			switch axis {
			case "x", "X":
				// YZ plane
				idx = v.vol.Index(position, a, b)
			case "y", "Y":
				// XZ plane
				idx = v.vol.Index(a, position, b)
			case "z", "Z":
				// XY plane
				idx = v.vol.Index(a, b, position)
			default:
				return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
			}

			if v.vol.Alpha[idx] == 0 {
				continue
			}

			img.SetNRGBA(b, a, color.NRGBA{
				R: channelByte(v.vol.RGB[3*idx]),
				G: channelByte(v.vol.RGB[3*idx+1]),
				B: channelByte(v.vol.RGB[3*idx+2]),
				A: 255,
			})
		}
	}

	return img, nil
}

// channelByte converts a [0,1] channel value to its 8-bit form
func channelByte(value float64) uint8 {
	if value <= 0 {
		return 0
	}
	if value >= 1 {
		return 255
	}
	return uint8(value*255 + 0.5)
}

// SaveSlice saves an extracted slice as a PNG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves a sequence of slices along the
// specified axis, one PNG per grid position
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < v.vol.Size; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
