//go:build !purego && !js

package preview

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"rawcv/pkg/rawcv"
)

// Write saves an RGB U8 array to path, downscaled to fit maxSize. The
// encoding follows the file extension.
func Write(path string, a *rawcv.Array, maxSize int) error {
	if err := checkRGB8(a); err != nil {
		return err
	}
	if _, err := FormatFromPath(path); err != nil {
		return err
	}

	rgb, err := gocv.NewMatFromBytes(a.Height(), a.Width(), gocv.MatTypeCV8UC3, a.Bytes())
	if err != nil {
		return fmt.Errorf("wrapping preview: %w", err)
	}
	defer rgb.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgb, &bgr, gocv.ColorRGBToBGR)

	w, h := FitSize(a.Width(), a.Height(), maxSize)
	if w != a.Width() || h != a.Height() {
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(bgr, &scaled, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
		return imWrite(path, scaled)
	}
	return imWrite(path, bgr)
}

// WriteImage saves img to path, encoded by the file extension.
func WriteImage(path string, img image.Image) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("converting image: %w", err)
	}
	defer m.Close()
	return imWrite(path, m)
}

func imWrite(path string, m gocv.Mat) error {
	if !gocv.IMWrite(path, m) {
		return fmt.Errorf("could not write image: %s", path)
	}
	return nil
}
