package rawcv

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// flatMosaic builds an RGGB mosaic of a uniformly colored scene.
func flatMosaic(h, w int, r, g, b uint16) []uint16 {
	pix := make([]uint16, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case y%2 == 0 && x%2 == 0:
				pix[y*w+x] = r
			case y%2 == 1 && x%2 == 1:
				pix[y*w+x] = b
			default:
				pix[y*w+x] = g
			}
		}
	}
	return pix
}

func fill16(a *Array, v uint16) {
	pix := a.Uint16s()
	for i := range pix {
		pix[i] = v
	}
}

func TestDemosaicFlatScene(t *testing.T) {
	const h, w = 6, 8
	in := mustU16(t, flatMosaic(h, w, 100, 200, 50), h, w, 1, RGGB)
	out := mustNew(t, h, w, 3, U16, RGB)
	const sentinel = 7777
	fill16(out, sentinel)

	if err := Demosaic(in, out); err != nil {
		t.Fatal(err)
	}

	pix := out.Uint16s()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := pix[(y*w+x)*3 : (y*w+x)*3+3]
			want := []uint16{100, 200, 50}
			if y == 0 || x == 0 || y == h-1 || x == w-1 {
				want = []uint16{sentinel, sentinel, sentinel}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("pixel (%d,%d) (-want +got):\n%s", y, x, diff)
			}
		}
	}
}

func TestDemosaicSites(t *testing.T) {
	// 4x4 RGGB mosaic; the interior is (1,1) B, (1,2) Gb, (2,1) Gr, (2,2) R.
	pix := []uint16{
		10, 20, 30, 40,
		50, 60, 70, 80,
		90, 100, 110, 120,
		130, 140, 150, 161,
	}
	in := mustU16(t, pix, 4, 4, 1, RGGB)
	out := mustNew(t, 4, 4, 3, U16, RGB)
	if err := Demosaic(in, out); err != nil {
		t.Fatal(err)
	}

	at := func(y, x int) []uint16 {
		o := (y*4 + x) * 3
		return out.Uint16s()[o : o+3]
	}
	testCases := []struct {
		y, x int
		want []uint16
	}{
		// blue site: R diagonal, G orthogonal, B self
		{1, 1, []uint16{(10 + 30 + 90 + 110) / 4, (50 + 70 + 20 + 100) / 4, 60}},
		// green on blue row: R up/down, B left/right
		{1, 2, []uint16{(30 + 110) / 2, 70, (60 + 80) / 2}},
		// green on red row: R left/right, B up/down
		{2, 1, []uint16{(90 + 110) / 2, 100, (60 + 140) / 2}},
		// red site: R self, G orthogonal, B diagonal (truncated)
		{2, 2, []uint16{110, (100 + 120 + 70 + 150) / 4, (60 + 80 + 140 + 161) / 4}},
	}
	for _, tc := range testCases {
		if diff := cmp.Diff(tc.want, at(tc.y, tc.x)); diff != "" {
			t.Errorf("pixel (%d,%d) (-want +got):\n%s", tc.y, tc.x, diff)
		}
	}
}

func TestDemosaicNoOverflow(t *testing.T) {
	in := mustU16(t, flatMosaic(4, 4, 65535, 65535, 65535), 4, 4, 1, RGGB)
	out := mustNew(t, 4, 4, 3, U16, RGB)
	if err := Demosaic(in, out); err != nil {
		t.Fatal(err)
	}
	o := (1*4 + 1) * 3
	if diff := cmp.Diff([]uint16{65535, 65535, 65535}, out.Uint16s()[o:o+3]); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDemosaicTinyImages(t *testing.T) {
	// Nothing is interior; the call succeeds and writes nothing.
	for _, sz := range []struct{ h, w int }{{0, 0}, {1, 1}, {2, 2}, {2, 5}} {
		in := mustNew(t, sz.h, sz.w, 1, U16, RGGB)
		out := mustNew(t, sz.h, sz.w, 3, U16, RGB)
		fill16(out, 3)
		if err := Demosaic(in, out); err != nil {
			t.Errorf("%dx%d: %v", sz.h, sz.w, err)
		}
		for _, v := range out.Uint16s() {
			if v != 3 {
				t.Fatalf("%dx%d: output modified", sz.h, sz.w)
			}
		}
	}
}

func TestDemosaicRejects(t *testing.T) {
	in := mustNew(t, 4, 4, 1, U16, RGGB)
	out := mustNew(t, 4, 4, 3, U16, RGB)
	testCases := []struct {
		name    string
		in, out *Array
		want    error
	}{
		{"nil output", in, nil, ErrNilArray},
		{"float output", in, mustNew(t, 4, 4, 3, F32, RGB), ErrDataType},
		{"u8 input", mustNew(t, 4, 4, 1, U8, RGGB), out, ErrDataType},
		{"rgb input", mustNew(t, 4, 4, 3, U16, RGB), out, ErrChannels},
		{"four channel output", in, mustNew(t, 4, 4, 4, U16, RGB), ErrChannels},
		{"size", in, mustNew(t, 4, 6, 3, U16, RGB), ErrShape},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Demosaic(tc.in, tc.out); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}
