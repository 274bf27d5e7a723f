package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"multiview3d/pkg/config"
	"multiview3d/pkg/fusion"
	"multiview3d/pkg/visualization"
	"multiview3d/pkg/vol"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "", "Optional YAML configuration file")
	baseDir := flag.String("input", "", "Directory containing per-frame view depth maps")
	startFrame := flag.Int("start", 0, "First frame index to fuse (inclusive)")
	endFrame := flag.Int("end", 0, "Last frame index to fuse (inclusive)")
	textureSize := flag.Int("size", 0, "View image edge length / output grid size in voxels")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: all available)")
	outputDir := flag.String("output-dir", "", "Directory to write fused volume files")
	outputPrefix := flag.String("prefix", "", "Filename prefix for fused volume files")
	verbose := flag.Bool("verbose", false, "Print per-frame fusion statistics")
	extractSlices := flag.Bool("extract-slices", false, "Extract and save slices of each fused volume")
	slicesDir := flag.String("slices-dir", "", "Directory to save extracted slices")
	flag.Parse()

	// Load configuration file (defaults when absent), then let explicitly
	// set flags override it
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.BaseDir = *baseDir
		case "start":
			cfg.Input.StartFrame = *startFrame
		case "end":
			cfg.Input.EndFrame = *endFrame
		case "size":
			cfg.Input.TextureSize = *textureSize
		case "cores":
			cfg.Processing.NumCores = *numCores
		case "output-dir":
			cfg.Output.Dir = *outputDir
		case "prefix":
			cfg.Output.Prefix = *outputPrefix
		case "verbose":
			cfg.Output.Verbose = *verbose
		case "extract-slices":
			cfg.Output.ExtractSlices = *extractSlices
		case "slices-dir":
			cfg.Output.SlicesDir = *slicesDir
		}
	})

	if cfg.Input.BaseDir == "" {
		flag.Usage()
		log.Fatal("No input directory configured")
	}
	if cfg.Input.EndFrame < cfg.Input.StartFrame {
		log.Fatalf("End frame %d precedes start frame %d", cfg.Input.EndFrame, cfg.Input.StartFrame)
	}

	fmt.Println("================================")
	fmt.Println("MULTIVIEW DEPTH MAP TO VOLUMETRIC FRAME FUSION")
	fmt.Println("================================")
	fmt.Printf("Input directory: %s\n", cfg.Input.BaseDir)
	fmt.Printf("Frames: %d..%d, grid size %d\n",
		cfg.Input.StartFrame, cfg.Input.EndFrame, cfg.Input.TextureSize)

	// Create the default volumetric container sink
	writer, err := vol.NewWriter(cfg.Output.Dir, cfg.Output.Prefix)
	if err != nil {
		log.Fatalf("Failed to create output writer: %v", err)
	}

	// Initialize fusion parameters
	params := &fusion.Params{
		BaseDir:     cfg.Input.BaseDir,
		StartFrame:  cfg.Input.StartFrame,
		EndFrame:    cfg.Input.EndFrame,
		TextureSize: cfg.Input.TextureSize,
		NumCores:    cfg.Processing.NumCores,
		Verbose:     cfg.Output.Verbose,
	}

	// Run the fusion pipeline
	sequencer := fusion.NewSequencer(params, writer)

	startTime := time.Now()
	if err := sequencer.Run(); err != nil {
		log.Fatalf("Fusion failed: %v", err)
	}
	elapsed := time.Since(startTime)

	// Summarize the run
	stats := sequencer.Stats()
	totalVoxels := 0
	missingViews := 0
	for _, s := range stats {
		totalVoxels += s.Populated
		missingViews += s.MissingViews
	}

	fmt.Printf("\nFused %d frames in %.2f seconds\n", len(stats), elapsed.Seconds())
	fmt.Printf("Total populated voxels: %d\n", totalVoxels)
	if missingViews > 0 {
		fmt.Printf("Views missing or undecodable across the run: %d\n", missingViews)
	}
	fmt.Printf("Output volumes saved to: %s\n", cfg.Output.Dir)

	// Extract and save inspection slices if requested
	if cfg.Output.ExtractSlices {
		fmt.Println("\nExtracting slices from fused volumes...")

		for frame := cfg.Input.StartFrame; frame <= cfg.Input.EndFrame; frame++ {
			volume, err := vol.ReadFrame(writer.FramePath(frame))
			if err != nil {
				log.Printf("Warning: failed to load volume for frame %d: %v", frame, err)
				continue
			}

			viewer := visualization.NewViewer(volume)
			for _, axis := range []string{"x", "y", "z"} {
				axisDir := filepath.Join(cfg.Output.SlicesDir, fmt.Sprintf("%04d", frame), axis)
				if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
					log.Printf("Warning: failed to save %s-axis slices for frame %d: %v", axis, frame, err)
				}
			}
		}

		fmt.Println("Slice extraction completed!")
	}
}
