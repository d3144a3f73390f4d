// Package develop turns a raw sensor frame into an 8-bit RGB image by
// running the rawcv kernels in a fixed order.
package develop

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"rawcv/pkg/rawcv"
	"rawcv/pkg/rawfile"
)

// Options controls the range mapping of the pipeline.
type Options struct {
	// BlackLevel and WhiteLevel are the sensor values mapped to 0 and 1.
	// A zero WhiteLevel uses the frame's bit width.
	BlackLevel float32
	WhiteLevel float32

	// FrameBlack takes the black level from the frame metadata and ignores
	// BlackLevel.
	FrameBlack bool

	// AutoWhite replaces the white level with the brightest mosaic sample.
	AutoWhite bool

	Logger logrus.FieldLogger
}

// DefaultOptions returns the levels used for 10-bit sensor dumps.
func DefaultOptions() Options {
	return Options{BlackLevel: 64, WhiteLevel: 1023}
}

type stage struct {
	name string
	run  func() error
}

// Develop runs
//
//	canonicalize -> demosaic -> normalize -> ccm -> gain -> quantize
//
// and returns an H x W x 3 U8 RGB array. The frame's mosaic is reordered to
// RGGB in place. The one-pixel border of the result is black because the
// demosaic does not interpolate it. Errors are wrapped with the failing
// stage; ctx is checked between stages.
func Develop(ctx context.Context, frame *rawfile.Frame, opts Options) (*rawcv.Array, error) {
	if frame == nil || frame.Bayer == nil {
		return nil, fmt.Errorf("develop: %w", rawcv.ErrNilArray)
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	bayer := frame.Bayer
	height, width := bayer.Height(), bayer.Width()
	black, white := opts.BlackLevel, opts.WhiteLevel
	if opts.FrameBlack {
		black = frame.Meta.Black()
	}
	if white == 0 {
		white = frame.Meta.WhiteLevel()
	}

	var rgb16, rgbF, out *rawcv.Array
	stages := []stage{
		{"canonicalize", func() error { return rawcv.ToRGGB(bayer) }},
		{"levels", func() error {
			if !opts.AutoWhite {
				return nil
			}
			st, err := rawcv.Stats(bayer, rawcv.StatNone)
			if err != nil {
				return err
			}
			if peak := float32(st[0].Max); peak > black {
				white = peak
			}
			return nil
		}},
		{"demosaic", func() (err error) {
			if rgb16, err = rawcv.NewArray(height, width, 3, rawcv.U16, rawcv.RGB); err != nil {
				return err
			}
			return rawcv.Demosaic(bayer, rgb16)
		}},
		{"normalize", func() (err error) {
			if rgbF, err = rawcv.NewArray(height, width, 3, rawcv.F32, rawcv.RGB); err != nil {
				return err
			}
			return rawcv.Normalize(rgb16, rgbF, black, white)
		}},
		{"ccm", func() error { return rawcv.ApplyCCM(rgbF, frame.Meta.CCM) }},
		{"gain", func() error { return rawcv.ApplyGain(rgbF, frame.Meta.Gains) }},
		{"quantize", func() (err error) {
			if out, err = rawcv.NewArray(height, width, 3, rawcv.U8, rawcv.RGB); err != nil {
				return err
			}
			return rawcv.Normalize(rgbF, out, 0, 1)
		}},
	}

	total := time.Now()
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := s.run(); err != nil {
			return nil, fmt.Errorf("develop: %s: %w", s.name, err)
		}
		log.WithFields(logrus.Fields{
			"stage":   s.name,
			"elapsed": time.Since(start),
		}).Debug("stage done")
	}

	log.WithFields(logrus.Fields{
		"source":  frame.Source,
		"size":    fmt.Sprintf("%dx%d", width, height),
		"black":   black,
		"white":   white,
		"elapsed": time.Since(total),
	}).Debug("developed")
	return out, nil
}
