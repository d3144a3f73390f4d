//go:build purego || js

package preview

import (
	"fmt"
	"image"
	"os"

	"rawcv/pkg/rawcv"
)

// Write saves an RGB U8 array to path, downscaled to fit maxSize. The
// encoding follows the file extension.
func Write(path string, a *rawcv.Array, maxSize int) error {
	img, err := ToImage(a)
	if err != nil {
		return err
	}
	return WriteImage(path, Scale(img, maxSize))
}

// WriteImage saves img to path, encoded by the file extension.
func WriteImage(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return out.Close()
}
