package rawcv

import (
	"errors"
	"fmt"
	"math"
)

// Validation failures. Every kernel error wraps exactly one of these.
var (
	ErrNilArray = errors.New("rawcv: nil array or data")
	ErrDataType = errors.New("rawcv: unsupported data type")
	ErrChannels = errors.New("rawcv: unexpected channel count")
	ErrShape    = errors.New("rawcv: shape mismatch")
	ErrRange    = errors.New("rawcv: invalid value range")
	ErrGain     = errors.New("rawcv: invalid gain")
	ErrPattern  = errors.New("rawcv: invalid bayer pattern")
)

func checkArray(a *Array, name string) error {
	if a == nil {
		return fmt.Errorf("%s: %w", name, ErrNilArray)
	}
	if !a.DType.Valid() {
		return fmt.Errorf("%s is %v: %w", name, a.DType, ErrDataType)
	}
	if !addressable(a.Dims, a.DType) {
		return fmt.Errorf("%s is %v, too large: %w", name, a, ErrShape)
	}
	if a.Data == nil && a.Len() > 0 {
		return fmt.Errorf("%s has no data for %v: %w", name, a, ErrNilArray)
	}
	return nil
}

// addressable reports whether the byte size of dims fits in an int, so Len
// and ByteSize cannot overflow and the typed views can be built.
func addressable(dims [3]uint32, dtype DataType) bool {
	limit := uint64(math.MaxInt) / uint64(dtype.ItemSize())
	n := uint64(dims[0]) * uint64(dims[1])
	return dims[2] == 0 || n <= limit/uint64(dims[2])
}

func checkType(a *Array, name string, want DataType) error {
	if a.DType != want {
		return fmt.Errorf("%s is %v, want %v: %w", name, a.DType, want, ErrDataType)
	}
	return nil
}

func checkChannels(a *Array, name string, want uint32) error {
	if a.Dims[2] != want {
		return fmt.Errorf("%s has %d channels, want %d: %w", name, a.Dims[2], want, ErrChannels)
	}
	return nil
}

func validateToRGGB(a *Array) error {
	if err := checkArray(a, "bayer"); err != nil {
		return err
	}
	if err := checkType(a, "bayer", U16); err != nil {
		return err
	}
	if err := checkChannels(a, "bayer", 1); err != nil {
		return err
	}
	if !a.Pattern.IsMosaic() {
		return fmt.Errorf("bayer is tagged %v: %w", a.Pattern, ErrPattern)
	}
	return nil
}

func validateNormalize(in, out *Array, inMin, inMax float32) error {
	if err := checkArray(in, "input"); err != nil {
		return err
	}
	if err := checkArray(out, "output"); err != nil {
		return err
	}
	// Written so that NaN bounds fail too.
	if !(inMax > inMin) {
		return fmt.Errorf("range [%g, %g]: %w", inMin, inMax, ErrRange)
	}
	if in.Dims != out.Dims {
		return fmt.Errorf("input %v, output %v: %w", in, out, ErrShape)
	}
	return nil
}

func validatePack(in, out *Array) error {
	if err := checkArray(in, "input"); err != nil {
		return err
	}
	if err := checkArray(out, "output"); err != nil {
		return err
	}
	if err := checkType(in, "input", U16); err != nil {
		return err
	}
	if err := checkType(out, "output", U16); err != nil {
		return err
	}
	if err := checkChannels(in, "input", 1); err != nil {
		return err
	}
	if err := checkChannels(out, "output", 4); err != nil {
		return err
	}
	if uint64(out.Dims[0])*2 != uint64(in.Dims[0]) || uint64(out.Dims[1])*2 != uint64(in.Dims[1]) {
		return fmt.Errorf("packing %v into %v: %w", in, out, ErrShape)
	}
	return nil
}

func validateUnpack(in, out *Array) error {
	if err := checkArray(in, "input"); err != nil {
		return err
	}
	if err := checkArray(out, "output"); err != nil {
		return err
	}
	if err := checkType(in, "input", U16); err != nil {
		return err
	}
	if err := checkType(out, "output", U16); err != nil {
		return err
	}
	if err := checkChannels(in, "input", 4); err != nil {
		return err
	}
	if err := checkChannels(out, "output", 1); err != nil {
		return err
	}
	if uint64(out.Dims[0]) != uint64(in.Dims[0])*2 || uint64(out.Dims[1]) != uint64(in.Dims[1])*2 {
		return fmt.Errorf("unpacking %v into %v: %w", in, out, ErrShape)
	}
	return nil
}

func validateDemosaic(in, out *Array) error {
	if err := checkArray(in, "input"); err != nil {
		return err
	}
	if err := checkArray(out, "output"); err != nil {
		return err
	}
	if err := checkType(in, "input", U16); err != nil {
		return err
	}
	if err := checkType(out, "output", U16); err != nil {
		return err
	}
	if err := checkChannels(in, "input", 1); err != nil {
		return err
	}
	if err := checkChannels(out, "output", 3); err != nil {
		return err
	}
	if in.Dims[0] != out.Dims[0] || in.Dims[1] != out.Dims[1] {
		return fmt.Errorf("demosaicing %v into %v: %w", in, out, ErrShape)
	}
	return nil
}

func validateRGBF32(a *Array) error {
	if err := checkArray(a, "rgb"); err != nil {
		return err
	}
	if err := checkType(a, "rgb", F32); err != nil {
		return err
	}
	return checkChannels(a, "rgb", 3)
}

func validateGain(a *Array, g Gains) error {
	if err := validateRGBF32(a); err != nil {
		return err
	}
	for i, v := range g {
		if !(v >= 0) {
			return fmt.Errorf("gain[%d] = %g: %w", i, v, ErrGain)
		}
	}
	return nil
}
