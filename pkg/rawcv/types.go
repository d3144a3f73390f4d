package rawcv

import (
	"fmt"
	"strings"
)

// DataType identifies how the bytes behind an Array are interpreted.
// The numeric values are part of the C ABI and must not change.
type DataType uint8

const (
	U8 DataType = iota
	U16
	F32
)

func (t DataType) String() string {
	switch t {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case F32:
		return "f32"
	default:
		return fmt.Sprintf("DataType(%d)", uint8(t))
	}
}

// ItemSize returns the size of one element in bytes, or 0 for an unknown type.
func (t DataType) ItemSize() int {
	switch t {
	case U8:
		return 1
	case U16:
		return 2
	case F32:
		return 4
	default:
		return 0
	}
}

// Valid reports whether t is one of the supported element types.
func (t DataType) Valid() bool { return t <= F32 }

// BayerPattern is the ordering of the 2x2 color filter tile, read row-major
// from the top-left sample. The numeric values are part of the C ABI.
type BayerPattern uint8

const (
	RGGB BayerPattern = iota
	BGGR
	GRBG
	GBRG
	// RGB tags buffers that are not mosaics.
	RGB
)

func (p BayerPattern) String() string {
	switch p {
	case RGGB:
		return "RGGB"
	case BGGR:
		return "BGGR"
	case GRBG:
		return "GRBG"
	case GBRG:
		return "GBRG"
	case RGB:
		return "RGB"
	default:
		return fmt.Sprintf("BayerPattern(%d)", uint8(p))
	}
}

// IsMosaic reports whether p is one of the four Bayer orderings.
func (p BayerPattern) IsMosaic() bool { return p <= GBRG }

// ParseBayerPattern accepts the pattern names in any case, as they appear in
// FITS BAYERPAT cards and sidecar files.
func ParseBayerPattern(s string) (BayerPattern, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGGB":
		return RGGB, nil
	case "BGGR":
		return BGGR, nil
	case "GRBG":
		return GRBG, nil
	case "GBRG":
		return GBRG, nil
	case "RGB":
		return RGB, nil
	default:
		return 0, fmt.Errorf("unknown bayer pattern %q: %w", s, ErrPattern)
	}
}

// CCM is a row-major 3x3 color correction matrix.
type CCM [9]float32

// IdentityCCM leaves colors unchanged.
var IdentityCCM = CCM{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// Gains holds one multiplier per RGB channel.
type Gains [3]float32

// UnityGains leaves colors unchanged.
var UnityGains = Gains{1, 1, 1}
