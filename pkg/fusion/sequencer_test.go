package fusion

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"multiview3d/internal/models"
)

// memSink captures emitted volumes in memory for inspection
type memSink struct {
	volumes []*models.Volume
}

func (m *memSink) WriteFrame(vol *models.Volume) error {
	m.volumes = append(m.volumes, vol)
	return nil
}

// writeViewImage writes one uniform view image: every pixel carries the
// given tint and alpha
func writeViewImage(t *testing.T, dir string, frame int, view View, size int, tint color.NRGBA) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			img.SetNRGBA(u, v, tint)
		}
	}

	path := filepath.Join(dir, ViewFilename(frame, view))
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create view image: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode view image: %v", err)
	}
}

// viewTints assigns each view a distinct pure color. Alpha 127 decodes to
// roughly 0.498, placing the fused plane at primary = 2 on a 4³ grid.
var viewTints = map[View]color.NRGBA{
	NX: {R: 255, A: 127},
	NY: {G: 255, A: 127},
	NZ: {B: 255, A: 127},
	PX: {R: 255, G: 255, A: 127},
	PY: {R: 255, B: 255, A: 127},
	PZ: {G: 255, B: 255, A: 127},
}

// runFusion fuses one frame from the given directory into the memory sink
func runFusion(t *testing.T, baseDir string, size int) (*memSink, *Sequencer) {
	t.Helper()

	sink := &memSink{}
	seq := NewSequencer(&Params{
		BaseDir:     baseDir,
		StartFrame:  1,
		EndFrame:    1,
		TextureSize: size,
		NumCores:    2,
	}, sink)

	if err := seq.Run(); err != nil {
		t.Fatalf("Fusion failed: %v", err)
	}
	return sink, seq
}

// TestUniformPlaneFusion fuses six uniform views on a 4³ grid and checks
// the plane placement, the per-voxel weights and the averaged colors
func TestUniformPlaneFusion(t *testing.T) {
	const size = 4
	dir := t.TempDir()

	for _, view := range Views {
		writeViewImage(t, dir, 1, view, size, viewTints[view])
	}

	sink, _ := runFusion(t, dir, size)

	if len(sink.volumes) != 1 {
		t.Fatalf("Expected 1 emitted volume, got %d", len(sink.volumes))
	}
	vol := sink.volumes[0]

	// Each view contributes one full 4x4 plane of unit-weight observations
	totalWeight := 0.0
	for _, w := range vol.Alpha {
		totalWeight += w
	}
	if totalWeight != float64(len(Views)*size*size) {
		t.Errorf("Expected total weight %d, got %f", len(Views)*size*size, totalWeight)
	}

	// A voxel on exactly one view's plane holds that view's color at weight 1
	idx := vol.Index(1, 0, 0)
	if vol.Alpha[idx] != 1 {
		t.Errorf("Expected weight 1 at (1,0,0), got %f", vol.Alpha[idx])
	}
	if math.Abs(vol.RGB[3*idx]-1.0) > tolerance || vol.RGB[3*idx+1] > tolerance {
		t.Errorf("Expected pure red at (1,0,0), got (%f,%f,%f)",
			vol.RGB[3*idx], vol.RGB[3*idx+1], vol.RGB[3*idx+2])
	}

	// Two planes intersect at weight 2 with the averaged color:
	// x=1 is the nx plane (red), y=1 the nz plane (blue)
	idx = vol.Index(1, 1, 0)
	if vol.Alpha[idx] != 2 {
		t.Errorf("Expected weight 2 at (1,1,0), got %f", vol.Alpha[idx])
	}
	if math.Abs(vol.RGB[3*idx]-0.5) > tolerance || math.Abs(vol.RGB[3*idx+2]-0.5) > tolerance {
		t.Errorf("Expected red/blue average at (1,1,0), got (%f,%f,%f)",
			vol.RGB[3*idx], vol.RGB[3*idx+1], vol.RGB[3*idx+2])
	}

	// Three planes meet at the corner points: x=1, y=1 and z=1
	// (nx red, nz blue, py magenta)
	idx = vol.Index(1, 1, 1)
	if vol.Alpha[idx] != 3 {
		t.Errorf("Expected weight 3 at (1,1,1), got %f", vol.Alpha[idx])
	}
	if math.Abs(vol.RGB[3*idx]-2.0/3.0) > tolerance ||
		vol.RGB[3*idx+1] > tolerance ||
		math.Abs(vol.RGB[3*idx+2]-2.0/3.0) > tolerance {
		t.Errorf("Expected (2/3,0,2/3) at (1,1,1), got (%f,%f,%f)",
			vol.RGB[3*idx], vol.RGB[3*idx+1], vol.RGB[3*idx+2])
	}

	// Off-plane voxels stay empty
	if w := vol.Alpha[vol.Index(0, 0, 0)]; w != 0 {
		t.Errorf("Expected empty voxel at (0,0,0), got weight %f", w)
	}
}

// TestMissingViewFusion verifies that a frame fuses from five views when
// one input file is absent
func TestMissingViewFusion(t *testing.T) {
	const size = 4
	dir := t.TempDir()

	for _, view := range Views {
		if view == PY {
			continue
		}
		writeViewImage(t, dir, 1, view, size, viewTints[view])
	}

	sink, seq := runFusion(t, dir, size)

	vol := sink.volumes[0]

	// The py plane (z=1) contributes nothing: a voxel only it would have
	// written stays empty
	if w := vol.Alpha[vol.Index(0, 0, 1)]; w != 0 {
		t.Errorf("Voxel written by missing view holds weight %f", w)
	}

	// The other five planes are intact
	totalWeight := 0.0
	for _, w := range vol.Alpha {
		totalWeight += w
	}
	if totalWeight != float64((len(Views)-1)*size*size) {
		t.Errorf("Expected total weight %d, got %f", (len(Views)-1)*size*size, totalWeight)
	}

	stats := seq.Stats()
	if len(stats) != 1 || stats[0].MissingViews != 1 {
		t.Errorf("Expected 1 missing view recorded, got %+v", stats)
	}
}

// TestEmptyFrameFusion verifies that fully transparent views produce an
// emitted volume with zero populated voxels
func TestEmptyFrameFusion(t *testing.T) {
	const size = 4
	dir := t.TempDir()

	for _, view := range Views {
		writeViewImage(t, dir, 1, view, size, color.NRGBA{})
	}

	sink, seq := runFusion(t, dir, size)

	for i, w := range sink.volumes[0].Alpha {
		if w != 0 {
			t.Fatalf("Expected empty volume, found weight %f at index %d", w, i)
		}
	}
	if stats := seq.Stats(); stats[0].Populated != 0 {
		t.Errorf("Expected 0 populated voxels, got %d", stats[0].Populated)
	}
}

// TestInvalidInputRoot verifies that a missing base directory aborts the
// run before any frame is processed
func TestInvalidInputRoot(t *testing.T) {
	sink := &memSink{}
	seq := NewSequencer(&Params{
		BaseDir:     filepath.Join(t.TempDir(), "does-not-exist"),
		StartFrame:  1,
		EndFrame:    3,
		TextureSize: 4,
	}, sink)

	if err := seq.Run(); err == nil {
		t.Fatal("Expected error for missing input directory")
	}
	if len(sink.volumes) != 0 {
		t.Errorf("Expected no emitted volumes, got %d", len(sink.volumes))
	}
}

// TestMultiFrameRun verifies that each frame in the range is fused
// independently and emitted in order
func TestMultiFrameRun(t *testing.T) {
	const size = 4
	dir := t.TempDir()

	writeViewImage(t, dir, 1, NX, size, viewTints[NX])
	writeViewImage(t, dir, 2, NX, size, viewTints[NX])

	sink := &memSink{}
	seq := NewSequencer(&Params{
		BaseDir:     dir,
		StartFrame:  1,
		EndFrame:    2,
		TextureSize: size,
	}, sink)

	if err := seq.Run(); err != nil {
		t.Fatalf("Fusion failed: %v", err)
	}

	if len(sink.volumes) != 2 {
		t.Fatalf("Expected 2 emitted volumes, got %d", len(sink.volumes))
	}
	for i, vol := range sink.volumes {
		if vol.Frame != i+1 {
			t.Errorf("Volume %d carries frame index %d", i, vol.Frame)
		}
		if w := vol.Alpha[vol.Index(1, 0, 0)]; w != 1 {
			t.Errorf("Frame %d: expected weight 1 on the nx plane, got %f", vol.Frame, w)
		}
	}
}
