// Package rawfile loads sensor mosaics into rawcv arrays.
package rawfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rawcv/pkg/rawcv"
)

// Frame is a single-channel U16 mosaic with the metadata needed to develop it.
type Frame struct {
	Bayer  *rawcv.Array
	Meta   Metadata
	Source string
}

// Open loads a frame by file extension: .fits and .fit are read as FITS,
// everything else as a raw dump with a sidecar metadata file.
func Open(path string) (*Frame, error) {
	if IsFITS(path) {
		return ReadFits(path)
	}
	return ReadRawFile(path)
}

// IsFITS reports whether path has a FITS extension.
func IsFITS(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".fits") || strings.HasSuffix(lower, ".fit")
}

// ReadRawFile reads a little-endian 16-bit raw dump and its sidecar.
func ReadRawFile(path string) (*Frame, error) {
	meta, err := ReadMetadataFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw file: %w", err)
	}
	defer f.Close()

	frame, err := ReadRaw(f, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	frame.Source = path
	return frame, nil
}

// ReadRaw reads Width*Height little-endian uint16 samples from r. Trailing
// bytes are ignored; a short read is an error.
func ReadRaw(r io.Reader, meta Metadata) (*Frame, error) {
	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("invalid raw size %dx%d", meta.Width, meta.Height)
	}
	numPixels := meta.Width * meta.Height
	rawBytes := make([]byte, numPixels*2)
	if _, err := io.ReadFull(r, rawBytes); err != nil {
		return nil, fmt.Errorf("reading %dx%d raw samples: %w", meta.Width, meta.Height, err)
	}

	pixels := make([]uint16, numPixels)
	for i := range pixels {
		pixels[i] = binary.LittleEndian.Uint16(rawBytes[i*2:])
	}
	bayer, err := rawcv.FromUint16(pixels, meta.Height, meta.Width, 1, meta.Pattern)
	if err != nil {
		return nil, err
	}
	return &Frame{Bayer: bayer, Meta: meta}, nil
}
