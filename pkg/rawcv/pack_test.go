package rawcv

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPack4x4(t *testing.T) {
	pix := make([]uint16, 16)
	for i := range pix {
		pix[i] = uint16(i + 1)
	}
	in := mustU16(t, pix, 4, 4, 1, RGGB)
	out := mustNew(t, 2, 2, 4, U16, RGB)

	if err := Pack(in, out); err != nil {
		t.Fatal(err)
	}
	want := []uint16{
		1, 2, 5, 6, 3, 4, 7, 8,
		9, 10, 13, 14, 11, 12, 15, 16,
	}
	if diff := cmp.Diff(want, out.Uint16s()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint16{1, 2, 5, 6}, out.Uint16s()[:4]); diff != "" {
		t.Errorf("pixel (0,0) (-want +got):\n%s", diff)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	sizes := []struct{ h, w int }{{2, 2}, {4, 6}, {8, 2}, {0, 0}, {10, 14}}
	for _, sz := range sizes {
		mosaic := make([]uint16, sz.h*sz.w)
		for i := range mosaic {
			mosaic[i] = uint16(i*7919 + 13)
		}
		m := mustU16(t, mosaic, sz.h, sz.w, 1, RGGB)
		packed := mustNew(t, sz.h/2, sz.w/2, 4, U16, RGB)
		back := mustNew(t, sz.h, sz.w, 1, U16, RGGB)

		if err := Pack(m, packed); err != nil {
			t.Fatalf("%dx%d: pack: %v", sz.h, sz.w, err)
		}
		if err := Unpack(packed, back); err != nil {
			t.Fatalf("%dx%d: unpack: %v", sz.h, sz.w, err)
		}
		if !slices.Equal(mosaic, back.Uint16s()) {
			t.Errorf("%dx%d: unpack(pack(x)) differs", sz.h, sz.w)
		}

		repacked := mustNew(t, sz.h/2, sz.w/2, 4, U16, RGB)
		if err := Pack(back, repacked); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(packed.Uint16s(), repacked.Uint16s()) {
			t.Errorf("%dx%d: pack(unpack(y)) differs", sz.h, sz.w)
		}
	}
}

func TestPackRejects(t *testing.T) {
	mosaic := mustNew(t, 4, 4, 1, U16, RGGB)
	packed := mustNew(t, 2, 2, 4, U16, RGB)
	packed.Uint16s()[0] = 4242

	testCases := []struct {
		name    string
		in, out *Array
		want    error
	}{
		{"nil", nil, packed, ErrNilArray},
		{"input type", mustNew(t, 4, 4, 1, U8, RGGB), packed, ErrDataType},
		{"output type", mosaic, mustNew(t, 2, 2, 4, F32, RGB), ErrDataType},
		{"input channels", mustNew(t, 4, 4, 3, U16, RGB), packed, ErrChannels},
		{"output channels", mosaic, mustNew(t, 2, 2, 3, U16, RGB), ErrChannels},
		{"height", mustNew(t, 6, 4, 1, U16, RGGB), packed, ErrShape},
		{"width", mustNew(t, 4, 5, 1, U16, RGGB), packed, ErrShape},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Pack(tc.in, tc.out); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
	if packed.Uint16s()[0] != 4242 {
		t.Error("failed call wrote to output")
	}
}

func TestUnpackRejects(t *testing.T) {
	packed := mustNew(t, 2, 2, 4, U16, RGB)
	testCases := []struct {
		name    string
		in, out *Array
		want    error
	}{
		{"nil", packed, nil, ErrNilArray},
		{"input channels", mustNew(t, 2, 2, 1, U16, RGGB), mustNew(t, 4, 4, 1, U16, RGGB), ErrChannels},
		{"output channels", packed, mustNew(t, 4, 4, 4, U16, RGB), ErrChannels},
		{"output type", packed, mustNew(t, 4, 4, 1, U8, RGGB), ErrDataType},
		{"shape", packed, mustNew(t, 4, 2, 1, U16, RGGB), ErrShape},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Unpack(tc.in, tc.out); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
