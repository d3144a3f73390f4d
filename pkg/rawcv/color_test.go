package rawcv

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rgbRamp() []float32 {
	pix := make([]float32, 5*4*3)
	for i := range pix {
		pix[i] = float32(i) / float32(len(pix)-1)
	}
	return pix
}

func TestApplyCCMIdentity(t *testing.T) {
	pix := rgbRamp()
	want := slices.Clone(pix)
	if err := ApplyCCM(mustF32(t, pix, 5, 4, 3), IdentityCCM); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, pix); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestApplyCCM(t *testing.T) {
	pix := []float32{
		0.2, 0.4, 0.6,
		0.9, 0.5, 0.1,
	}
	swap := CCM{
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
	}
	boost := CCM{
		2, 0, 0,
		0, 1, 0,
		-1, 0, 0,
	}
	a := mustF32(t, pix, 1, 2, 3)

	if err := ApplyCCM(a, swap); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{0.6, 0.4, 0.2, 0.1, 0.5, 0.9}, pix); diff != "" {
		t.Errorf("swap (-want +got):\n%s", diff)
	}

	if err := ApplyCCM(a, boost); err != nil {
		t.Fatal(err)
	}
	// 2*0.6 clamps to 1, -0.6 clamps to 0.
	if diff := cmp.Diff([]float32{1, 0.4, 0, 0.2, 0.5, 0}, pix); diff != "" {
		t.Errorf("boost (-want +got):\n%s", diff)
	}
}

func TestApplyGain(t *testing.T) {
	pix := rgbRamp()
	want := slices.Clone(pix)
	a := mustF32(t, pix, 5, 4, 3)
	if err := ApplyGain(a, UnityGains); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, pix); diff != "" {
		t.Errorf("unity gain (-want +got):\n%s", diff)
	}

	small := []float32{0.25, 0.5, 0.75}
	if err := ApplyGain(mustF32(t, small, 1, 1, 3), Gains{2, 0, 4}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{0.5, 0, 1}, small); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestApplyGainRejects(t *testing.T) {
	pix := rgbRamp()
	want := slices.Clone(pix)
	a := mustF32(t, pix, 5, 4, 3)

	for _, g := range []Gains{{-1, 1, 1}, {1, -0.001, 1}, {1, 1, float32(math.NaN())}} {
		if err := ApplyGain(a, g); !errors.Is(err, ErrGain) {
			t.Errorf("gain %v: got %v", g, err)
		}
	}
	if diff := cmp.Diff(want, pix); diff != "" {
		t.Errorf("rejected gain modified data (-want +got):\n%s", diff)
	}
}

func TestColorKernelsReject(t *testing.T) {
	testCases := []struct {
		name string
		a    *Array
		want error
	}{
		{"nil", nil, ErrNilArray},
		{"u16", mustNew(t, 2, 2, 3, U16, RGB), ErrDataType},
		{"u8", mustNew(t, 2, 2, 3, U8, RGB), ErrDataType},
		{"one channel", mustNew(t, 2, 2, 1, F32, RGGB), ErrChannels},
		{"four channels", mustNew(t, 2, 2, 4, F32, RGB), ErrChannels},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ApplyCCM(tc.a, IdentityCCM); !errors.Is(err, tc.want) {
				t.Errorf("ApplyCCM: got %v, want %v", err, tc.want)
			}
			if err := ApplyGain(tc.a, UnityGains); !errors.Is(err, tc.want) {
				t.Errorf("ApplyGain: got %v, want %v", err, tc.want)
			}
		})
	}
}
