package fusion

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"multiview3d/internal/models"
)

// viewFileExt is the extension the capture tool writes view images with
const viewFileExt = ".png"

// ViewFilename constructs the filename for one (frame, view) capture:
// the frame index zero-padded to 4 digits followed by the view suffix
func ViewFilename(frame int, view View) string {
	return fmt.Sprintf("%04d%s%s", frame, view.Suffix(), viewFileExt)
}

// LoadViewImage loads and decodes the image for one (frame, view) pair
// from the base directory. The caller decides whether a failure is fatal;
// during fusion a missing or undecodable view is skipped, not fatal.
func LoadViewImage(baseDir string, frame int, view View) (*models.ViewImage, error) {
	filename := ViewFilename(frame, view)
	path := filepath.Join(baseDir, filename)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %v", filename, err)
	}

	return &models.ViewImage{
		Image:    img,
		Frame:    frame,
		Suffix:   view.Suffix(),
		Filename: filename,
	}, nil
}

// samplePixel reads one pixel as a normalized sample. u addresses the
// image's fast axis (column) and v its slow axis (row). image.Image
// exposes premultiplied 16-bit channels; the capture tool writes straight
// color, so the color channels are divided back out by alpha.
func samplePixel(img image.Image, u, v int) PixelSample {
	bounds := img.Bounds()
	r, g, b, a := img.At(bounds.Min.X+u, bounds.Min.Y+v).RGBA()

	alpha := float64(a) / 65535.0
	s := PixelSample{
		U: u,
		V: v,
		R: float64(r) / 65535.0,
		G: float64(g) / 65535.0,
		B: float64(b) / 65535.0,
		A: alpha,
	}
	if a > 0 && a < 65535 {
		s.R /= alpha
		s.G /= alpha
		s.B /= alpha
	}
	return s
}
