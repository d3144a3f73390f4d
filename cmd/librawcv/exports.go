//go:build cgo

package main

/*
#include <stdbool.h>
#include <stdint.h>

typedef enum { DT_U8 = 0, DT_U16 = 1, DT_F32 = 2 } DataType;
typedef enum { BP_RGGB = 0, BP_BGGR = 1, BP_GRBG = 2, BP_GBRG = 3, BP_RGB = 4 } BayerPattern;

typedef struct {
	void* data;
	uint32_t dims[3];
	uint32_t strides[3];
	DataType dtype;
	BayerPattern pattern;
	uint8_t is_owner;
} CRawArray;
*/
import "C"

import "unsafe"

// Compile-time layout checks against rawArray: each difference must be
// zero or the constant overflows.
const (
	_ = -(unsafe.Sizeof(C.CRawArray{}) - unsafe.Sizeof(rawArray{}))
	_ = -(unsafe.Offsetof(C.CRawArray{}.dtype) - unsafe.Offsetof(rawArray{}.DType))
	_ = -(unsafe.Offsetof(C.CRawArray{}.pattern) - unsafe.Offsetof(rawArray{}.Pattern))
	_ = -(unsafe.Offsetof(C.CRawArray{}.is_owner) - unsafe.Offsetof(rawArray{}.IsOwner))
)

func goArray(a *C.CRawArray) *rawArray {
	return (*rawArray)(unsafe.Pointer(a))
}

//export bayer_to_bayer_rggb
func bayer_to_bayer_rggb(bayer *C.CRawArray) C.bool {
	return C.bool(runToRGGB(goArray(bayer)))
}

//export normalize
func normalize(input, output *C.CRawArray, inputMin, inputMax C.float) C.bool {
	return C.bool(runNormalize(goArray(input), goArray(output), float32(inputMin), float32(inputMax)))
}

//export bayer_rggb_to_rggb
func bayer_rggb_to_rggb(input, output *C.CRawArray) C.bool {
	return C.bool(runPack(goArray(input), goArray(output)))
}

//export rggb_to_bayer_rggb
func rggb_to_bayer_rggb(input, output *C.CRawArray) C.bool {
	return C.bool(runUnpack(goArray(input), goArray(output)))
}

//export apply_ccm
func apply_ccm(rgb *C.CRawArray, ccm *C.float) C.bool {
	return C.bool(runCCM(goArray(rgb), (*[9]float32)(unsafe.Pointer(ccm))))
}

//export apply_rgb_gain
func apply_rgb_gain(rgb *C.CRawArray, gain *C.float) C.bool {
	return C.bool(runGain(goArray(rgb), (*[3]float32)(unsafe.Pointer(gain))))
}

//export bayer_rggb_to_rgb
func bayer_rggb_to_rgb(input, output *C.CRawArray) C.bool {
	return C.bool(runDemosaic(goArray(input), goArray(output)))
}
