// Package vol implements the default volumetric container: a dense binary
// file holding the fused RGB and Alpha fields of one frame. The format is
// deliberately simple so downstream tools can load frames without a VDB
// dependency; the fusion core only sees the Sink interface and any other
// container writer can be substituted.
package vol

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"multiview3d/internal/models"
)

// Magic identifies a multiview volume container file
const Magic = "MVVOL"

// FormatVersion is the container format version written by this package
const FormatVersion uint32 = 1

// header is the fixed-size file preamble preceding the two fields
type header struct {
	Version uint32
	Size    uint32
	Frame   uint32
}

// Writer emits one container file per frame into an output directory,
// named <prefix>_<frame:4-digit>.mvv
type Writer struct {
	// outputDir is the directory container files are written into
	outputDir string

	// prefix is the filename prefix shared by all frames of one run
	prefix string
}

// NewWriter creates a writer for the given output directory and filename
// prefix. The directory is created if it does not exist.
func NewWriter(outputDir, prefix string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir, prefix: prefix}, nil
}

// FramePath returns the path the given frame index is written to
func (w *Writer) FramePath(frame int) string {
	return filepath.Join(w.outputDir, fmt.Sprintf("%s_%04d.mvv", w.prefix, frame))
}

// WriteFrame persists one fused volume. The Alpha field is written first,
// then the RGB field, both as little-endian float32 in voxel index order.
func (w *Writer) WriteFrame(vol *models.Volume) error {
	file, err := os.Create(w.FramePath(vol.Frame))
	if err != nil {
		return fmt.Errorf("failed to create volume file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(Magic); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}

	hdr := header{
		Version: FormatVersion,
		Size:    uint32(vol.Size),
		Frame:   uint32(vol.Frame),
	}
	if err := binary.Write(file, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writeField(file, vol.Alpha); err != nil {
		return fmt.Errorf("failed to write alpha field: %w", err)
	}
	if err := writeField(file, vol.RGB); err != nil {
		return fmt.Errorf("failed to write rgb field: %w", err)
	}

	return nil
}

// writeField writes a float64 field as little-endian float32 values
func writeField(file *os.File, field []float64) error {
	buf := make([]float32, len(field))
	for i, v := range field {
		buf[i] = float32(v)
	}
	return binary.Write(file, binary.LittleEndian, buf)
}

// ReadFrame loads one container file back into its volume form
func ReadFrame(path string) (*models.Volume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume file: %w", err)
	}
	defer file.Close()

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(file, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("not a volume container file: %s", path)
	}

	var hdr header
	if err := binary.Read(file, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if hdr.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported container version %d", hdr.Version)
	}

	vol := models.NewVolume(int(hdr.Size), int(hdr.Frame))

	if err := readField(file, vol.Alpha); err != nil {
		return nil, fmt.Errorf("failed to read alpha field: %w", err)
	}
	if err := readField(file, vol.RGB); err != nil {
		return nil, fmt.Errorf("failed to read rgb field: %w", err)
	}

	return vol, nil
}

// readField reads little-endian float32 values into a float64 field
func readField(file *os.File, field []float64) error {
	buf := make([]float32, len(field))
	if err := binary.Read(file, binary.LittleEndian, buf); err != nil {
		return err
	}
	for i, v := range buf {
		field[i] = float64(v)
	}
	return nil
}
