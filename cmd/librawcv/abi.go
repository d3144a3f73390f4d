// Command librawcv builds the rawcv kernels as a C shared library:
//
//	go build -buildmode=c-shared -o librawcv.so ./cmd/librawcv
//
// Every entry point returns false, without touching memory, when its
// arguments fail validation.
package main

import (
	"unsafe"

	"rawcv/pkg/rawcv"
)

func main() {}

// rawArray has the memory layout of the C descriptor CRawArray; the enums
// are int sized.
type rawArray struct {
	Data    unsafe.Pointer
	Dims    [3]uint32
	Strides [3]uint32
	DType   int32
	Pattern int32
	IsOwner uint8
}

// Enum values outside the uint8 range narrow to these, which every kernel
// rejects or never matches.
const (
	badDataType = rawcv.DataType(0xff)
	badPattern  = rawcv.BayerPattern(0xff)
)

func (r *rawArray) view() *rawcv.Array {
	if r == nil {
		return nil
	}
	dtype := badDataType
	if r.DType >= 0 && r.DType <= int32(rawcv.F32) {
		dtype = rawcv.DataType(r.DType)
	}
	pattern := badPattern
	if r.Pattern >= 0 && r.Pattern <= int32(rawcv.RGB) {
		pattern = rawcv.BayerPattern(r.Pattern)
	}
	return &rawcv.Array{
		Data:    r.Data,
		Dims:    r.Dims,
		Strides: r.Strides,
		DType:   dtype,
		Pattern: pattern,
		Owner:   r.IsOwner != 0,
	}
}

func runToRGGB(bayer *rawArray) bool {
	a := bayer.view()
	if err := rawcv.ToRGGB(a); err != nil {
		return false
	}
	bayer.Pattern = int32(a.Pattern)
	return true
}

func runNormalize(in, out *rawArray, inMin, inMax float32) bool {
	return rawcv.Normalize(in.view(), out.view(), inMin, inMax) == nil
}

func runPack(in, out *rawArray) bool {
	return rawcv.Pack(in.view(), out.view()) == nil
}

func runUnpack(in, out *rawArray) bool {
	return rawcv.Unpack(in.view(), out.view()) == nil
}

func runDemosaic(in, out *rawArray) bool {
	return rawcv.Demosaic(in.view(), out.view()) == nil
}

func runCCM(rgb *rawArray, m *[9]float32) bool {
	if m == nil {
		return false
	}
	return rawcv.ApplyCCM(rgb.view(), rawcv.CCM(*m)) == nil
}

func runGain(rgb *rawArray, g *[3]float32) bool {
	if g == nil {
		return false
	}
	return rawcv.ApplyGain(rgb.view(), rawcv.Gains(*g)) == nil
}
