package fusion

import (
	"fmt"
	"image"
	"os"
	"runtime"

	"multiview3d/internal/models"
)

// Params holds the fusion run configuration. It is constructed by the CLI
// layer (or directly by tests) and consumed read-only by the Sequencer.
type Params struct {
	// BaseDir is the directory containing the per-frame view images.
	// It must exist before the run starts; a missing base directory
	// aborts the whole run before any frame is processed.
	BaseDir string

	// StartFrame and EndFrame bound the frame loop, both inclusive
	StartFrame int
	EndFrame   int

	// TextureSize is the edge length N of the view images and of the
	// cubic output grid, in pixels/voxels
	TextureSize int

	// NumCores bounds how many views of one frame are mapped
	// concurrently. Zero or negative means all available cores.
	NumCores int

	// Verbose enables per-frame progress and statistics output
	Verbose bool
}

// Sink receives finished volumetric frames. The default implementation
// writes the container format in pkg/vol; tests substitute an in-memory
// sink.
type Sink interface {
	WriteFrame(vol *models.Volume) error
}

// Sequencer drives the per-frame fusion pipeline: for every frame index
// it loads the six view images, maps every pixel onto the grid, folds the
// observations into a fresh FrameGrid and hands the finished volume to
// the sink. No state survives from one frame to the next; each frame is
// fused independently from scratch.
type Sequencer struct {
	// params stores the run configuration
	params *Params

	// sink receives each finished frame
	sink Sink

	// stats collects the per-frame summaries for the run report
	stats []FrameStats
}

// loadedView pairs a view with its successfully decoded image
type loadedView struct {
	view View
	img  image.Image
}

// NewSequencer creates a sequencer for the given run configuration and
// output sink
func NewSequencer(params *Params, sink Sink) *Sequencer {
	return &Sequencer{
		params: params,
		sink:   sink,
	}
}

// Run executes the full fusion loop from StartFrame to EndFrame.
// A missing base directory or an invalid grid size is fatal and aborts
// before any frame is processed; a missing or undecodable view image is
// logged and skipped so the frame fuses from the remaining views.
func (s *Sequencer) Run() error {
	if s.params.TextureSize <= 0 {
		return fmt.Errorf("invalid texture size %d, must be positive", s.params.TextureSize)
	}

	info, err := os.Stat(s.params.BaseDir)
	if err != nil {
		return fmt.Errorf("input directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", s.params.BaseDir)
	}

	for frame := s.params.StartFrame; frame <= s.params.EndFrame; frame++ {
		if err := s.processFrame(frame); err != nil {
			return fmt.Errorf("frame %d: %v", frame, err)
		}
	}

	return nil
}

// processFrame fuses one frame: load, map, accumulate, emit
func (s *Sequencer) processFrame(frame int) error {
	views := s.loadViews(frame)

	grid := s.fuseViews(views)

	missing := len(Views) - len(views)
	stats := CollectStats(grid, frame, missing)
	s.stats = append(s.stats, stats)

	if s.params.Verbose {
		fmt.Printf("Frame %04d: %d/%d views, %d voxels (occupancy %.2f%%), mean weight %.2f\n",
			frame, len(views), len(Views), stats.Populated, stats.Occupancy*100, stats.MeanWeight)
	}

	if err := s.sink.WriteFrame(grid.Volume(frame)); err != nil {
		return fmt.Errorf("failed to emit volume: %v", err)
	}

	return nil
}

// loadViews loads the six view images of one frame in the fixed view
// order. A view that cannot be loaded or decoded is reported and skipped;
// the frame is then fused from the views that remain.
func (s *Sequencer) loadViews(frame int) []loadedView {
	views := make([]loadedView, 0, len(Views))

	for _, view := range Views {
		vi, err := LoadViewImage(s.params.BaseDir, frame, view)
		if err != nil {
			fmt.Printf("Warning: skipping view %s for frame %d: %v\n", view, frame, err)
			continue
		}
		views = append(views, loadedView{view: view, img: vi.Image})
	}

	return views
}

// fuseViews maps every pixel of every loaded view and folds the resulting
// observations into one fresh frame grid.
//
// Mapping is pure per pixel and accumulation is an associative and
// commutative reduction, so the views are mapped concurrently into
// per-view partial grids which are then merged in fixed view order. The
// fixed merge order keeps the result bit-for-bit identical regardless of
// which worker finishes first.
func (s *Sequencer) fuseViews(views []loadedView) *FrameGrid {
	size := s.params.TextureSize

	workers := s.params.NumCores
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(views) {
		workers = len(views)
	}

	type viewResult struct {
		idx  int
		grid *FrameGrid
	}

	resultChan := make(chan viewResult)
	sem := make(chan struct{}, max(workers, 1))

	for i, lv := range views {
		go func(idx int, lv loadedView) {
			sem <- struct{}{}
			defer func() { <-sem }()

			resultChan <- viewResult{idx: idx, grid: mapView(lv.view, lv.img, size)}
		}(i, lv)
	}

	partials := make([]*FrameGrid, len(views))
	for range views {
		res := <-resultChan
		partials[res.idx] = res.grid
	}

	grid := NewFrameGrid(size)
	for _, partial := range partials {
		grid.Merge(partial)
	}

	return grid
}

// mapView runs the coordinate mapper over every pixel of one view image
// and accumulates the passing observations into a partial grid. Pixels
// beyond the configured grid size are ignored when the image is larger
// than expected.
func mapView(view View, img image.Image, size int) *FrameGrid {
	grid := NewFrameGrid(size)
	bounds := img.Bounds()

	width := bounds.Dx()
	height := bounds.Dy()
	if width > size {
		width = size
	}
	if height > size {
		height = size
	}

	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			if obs, ok := MapPixel(view, size, samplePixel(img, u, v)); ok {
				grid.Add(obs)
			}
		}
	}

	return grid
}

// Stats returns the per-frame summaries collected so far, one entry per
// processed frame in frame order
func (s *Sequencer) Stats() []FrameStats {
	return s.stats
}
