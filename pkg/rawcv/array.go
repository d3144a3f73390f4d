// Package rawcv implements the raw sensor kernels: Bayer canonicalization,
// range normalization, mosaic packing, bilinear demosaic and color
// correction. Every kernel validates its descriptors before touching memory
// and leaves all buffers unmodified when it returns an error.
package rawcv

import (
	"fmt"
	"math"
	"unsafe"
)

// Array describes a height x width x channels block of typed samples that
// lives in memory the caller owns. It mirrors the C CRawArray layout field
// for field; kernels read and write through Data but never free it.
type Array struct {
	Data    unsafe.Pointer
	Dims    [3]uint32 // height, width, channels
	Strides [3]uint32 // elements; reserved, kernels assume contiguous rows
	DType   DataType
	Pattern BayerPattern
	Owner   bool
}

// NewArray allocates a zeroed, owned array. The backing store is allocated
// as uint64 words so every element type is naturally aligned.
func NewArray(height, width, channels int, dtype DataType, pattern BayerPattern) (*Array, error) {
	if height < 0 || width < 0 || channels < 0 {
		return nil, fmt.Errorf("negative dims %dx%dx%d: %w", height, width, channels, ErrShape)
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("allocating %v: %w", dtype, ErrDataType)
	}
	if uint64(height) > math.MaxUint32 || uint64(width) > math.MaxUint32 || uint64(channels) > math.MaxUint32 {
		return nil, fmt.Errorf("dims %dx%dx%d exceed 32 bits: %w", height, width, channels, ErrShape)
	}
	dims := [3]uint32{uint32(height), uint32(width), uint32(channels)}
	if !addressable(dims, dtype) {
		return nil, fmt.Errorf("%dx%dx%d %v is too large: %w", height, width, channels, dtype, ErrShape)
	}
	n := height * width * channels * dtype.ItemSize()
	words := make([]uint64, (n+7)/8)
	a := &Array{
		Dims:    dims,
		Strides: contiguousStrides(width, channels),
		DType:   dtype,
		Pattern: pattern,
		Owner:   true,
	}
	if len(words) > 0 {
		a.Data = unsafe.Pointer(&words[0])
	}
	return a, nil
}

// FromUint16 wraps pix without copying. len(pix) must equal height*width*channels.
func FromUint16(pix []uint16, height, width, channels int, pattern BayerPattern) (*Array, error) {
	return wrap(unsafe.Pointer(unsafe.SliceData(pix)), len(pix), height, width, channels, U16, pattern)
}

// FromUint8 wraps pix without copying.
func FromUint8(pix []uint8, height, width, channels int, pattern BayerPattern) (*Array, error) {
	return wrap(unsafe.Pointer(unsafe.SliceData(pix)), len(pix), height, width, channels, U8, pattern)
}

// FromFloat32 wraps pix without copying.
func FromFloat32(pix []float32, height, width, channels int, pattern BayerPattern) (*Array, error) {
	return wrap(unsafe.Pointer(unsafe.SliceData(pix)), len(pix), height, width, channels, F32, pattern)
}

// WrapBytes wraps a byte buffer holding native-endian samples of dtype.
// The caller must make sure b is suitably aligned for dtype.
func WrapBytes(b []byte, height, width, channels int, dtype DataType, pattern BayerPattern) (*Array, error) {
	size := dtype.ItemSize()
	if size == 0 {
		return nil, fmt.Errorf("wrapping %v: %w", dtype, ErrDataType)
	}
	if len(b)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %v samples: %w", len(b), dtype, ErrShape)
	}
	return wrap(unsafe.Pointer(unsafe.SliceData(b)), len(b)/size, height, width, channels, dtype, pattern)
}

func wrap(p unsafe.Pointer, n, height, width, channels int, dtype DataType, pattern BayerPattern) (*Array, error) {
	if height < 0 || width < 0 || channels < 0 || height*width*channels != n {
		return nil, fmt.Errorf("%d samples do not fill %dx%dx%d: %w", n, height, width, channels, ErrShape)
	}
	return &Array{
		Data:    p,
		Dims:    [3]uint32{uint32(height), uint32(width), uint32(channels)},
		Strides: contiguousStrides(width, channels),
		DType:   dtype,
		Pattern: pattern,
	}, nil
}

func contiguousStrides(width, channels int) [3]uint32 {
	return [3]uint32{uint32(width * channels), uint32(channels), 1}
}

func (a *Array) Height() int   { return int(a.Dims[0]) }
func (a *Array) Width() int    { return int(a.Dims[1]) }
func (a *Array) Channels() int { return int(a.Dims[2]) }

// Len returns the number of samples described by Dims.
func (a *Array) Len() int {
	return int(a.Dims[0]) * int(a.Dims[1]) * int(a.Dims[2])
}

// ByteSize returns the number of bytes described by Dims and DType.
func (a *Array) ByteSize() int { return a.Len() * a.DType.ItemSize() }

func (a *Array) String() string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%dx%dx%d %v %v", a.Dims[0], a.Dims[1], a.Dims[2], a.DType, a.Pattern)
}

// The typed views below are the only place raw memory is reinterpreted.
// They trust Dims and DType; callers validate first.

// Uint8s returns the samples as a []uint8 of length Len.
func (a *Array) Uint8s() []uint8 {
	if a.Data == nil {
		return nil
	}
	return unsafe.Slice((*uint8)(a.Data), a.Len())
}

// Uint16s returns the samples as a []uint16 of length Len.
func (a *Array) Uint16s() []uint16 {
	if a.Data == nil {
		return nil
	}
	return unsafe.Slice((*uint16)(a.Data), a.Len())
}

// Float32s returns the samples as a []float32 of length Len.
func (a *Array) Float32s() []float32 {
	if a.Data == nil {
		return nil
	}
	return unsafe.Slice((*float32)(a.Data), a.Len())
}

// Bytes returns the raw bytes behind the array.
func (a *Array) Bytes() []byte {
	if a.Data == nil {
		return nil
	}
	return unsafe.Slice((*byte)(a.Data), a.ByteSize())
}

// Row16 returns row y of a U16 array: width*channels samples.
func (a *Array) Row16(y int) []uint16 {
	n := a.Width() * a.Channels()
	return a.Uint16s()[y*n : (y+1)*n]
}
