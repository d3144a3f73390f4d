package rawcv

import (
	"fmt"
	"math"
)

// Normalize maps every sample of in from [inMin, inMax] onto the full range
// of out's element type:
//
//	norm = clamp((v - inMin) / (inMax - inMin), 0, 1)
//	u8:  round(norm * 255)
//	u16: round(norm * 65535)
//	f32: norm
//
// Rounding is half away from zero. NaN samples map to 0. Input and output
// element types are independent; in and out may be the same array.
func Normalize(in, out *Array, inMin, inMax float32) error {
	if err := validateNormalize(in, out, inMin, inMax); err != nil {
		return err
	}

	switch in.DType {
	case U8:
		normalizeFrom(in.Uint8s(), out, inMin, inMax)
	case U16:
		normalizeFrom(in.Uint16s(), out, inMin, inMax)
	case F32:
		normalizeFrom(in.Float32s(), out, inMin, inMax)
	default:
		// Unreachable after validation.
		return fmt.Errorf("normalize from %v: %w", in.DType, ErrDataType)
	}
	return nil
}

type sample interface {
	~uint8 | ~uint16 | ~float32
}

func normalizeFrom[I sample](src []I, out *Array, inMin, inMax float32) {
	switch out.DType {
	case U8:
		normalizeTyped(src, out.Uint8s(), inMin, inMax, quantizeU8)
	case U16:
		normalizeTyped(src, out.Uint16s(), inMin, inMax, quantizeU16)
	case F32:
		normalizeTyped(src, out.Float32s(), inMin, inMax, quantizeF32)
	}
}

// normalizeTyped is the numeric body for one (input, output) type pair; the
// output quantization is passed in as a policy.
func normalizeTyped[I, O sample](src []I, dst []O, inMin, inMax float32, quantize func(float32) O) {
	span := inMax - inMin
	for i, v := range src {
		dst[i] = quantize(unitClamp((float32(v) - inMin) / span))
	}
}

// unitClamp clamps to [0, 1] and maps NaN to 0.
func unitClamp(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func quantizeU8(norm float32) uint8 {
	return uint8(math.Round(float64(norm * 255)))
}

func quantizeU16(norm float32) uint16 {
	return uint16(math.Round(float64(norm * 65535)))
}

func quantizeF32(norm float32) float32 { return norm }
