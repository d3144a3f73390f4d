package rawcv

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeHalfRoundsUp(t *testing.T) {
	in := mustU8(t, []uint8{5}, 1, 1, 1)
	out := mustNew(t, 1, 1, 1, U8, RGB)
	if err := Normalize(in, out, 0, 10); err != nil {
		t.Fatal(err)
	}
	// 0.5 * 255 = 127.5 rounds half away from zero.
	if got := out.Uint8s()[0]; got != 128 {
		t.Errorf("normalize(5, [0,10]) = %d, want 128", got)
	}
}

func TestNormalizeTypePairs(t *testing.T) {
	inputs := map[DataType]*Array{
		U8:  mustU8(t, []uint8{0, 50, 100, 200}, 1, 4, 1),
		U16: mustU16(t, []uint16{0, 50, 100, 200}, 1, 4, 1, RGB),
		F32: mustF32(t, []float32{0, 50, 100, 200}, 1, 4, 1),
	}
	want := map[DataType]any{
		U8:  []uint8{0, 64, 128, 255},
		U16: []uint16{0, 16384, 32768, 65535},
		F32: []float32{0, 0.25, 0.5, 1},
	}

	for inType, in := range inputs {
		for _, outType := range []DataType{U8, U16, F32} {
			t.Run(inType.String()+"_"+outType.String(), func(t *testing.T) {
				out := mustNew(t, 1, 4, 1, outType, RGB)
				if err := Normalize(in, out, 0, 200); err != nil {
					t.Fatal(err)
				}
				var got any
				switch outType {
				case U8:
					got = out.Uint8s()
				case U16:
					got = out.Uint16s()
				case F32:
					got = out.Float32s()
				}
				if diff := cmp.Diff(want[outType], got); diff != "" {
					t.Errorf("(-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestNormalizeClamps(t *testing.T) {
	nan := float32(math.NaN())
	in := mustF32(t, []float32{-5, 64, 1023, 5000, nan, float32(math.Inf(1))}, 2, 1, 3)
	out := mustNew(t, 2, 1, 3, U16, RGB)
	if err := Normalize(in, out, 64, 1023); err != nil {
		t.Fatal(err)
	}
	want := []uint16{0, 0, 65535, 65535, 0, 65535}
	if diff := cmp.Diff(want, out.Uint16s()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	const n = 4096
	pix := make([]uint16, n)
	for i := range pix {
		pix[i] = uint16(i * 16)
	}
	in := mustU16(t, pix, 1, n, 1, RGB)
	out := mustNew(t, 1, n, 1, U8, RGB)
	if err := Normalize(in, out, 1000, 60000); err != nil {
		t.Fatal(err)
	}
	got := out.Uint8s()
	for i := 1; i < n; i++ {
		if got[i] < got[i-1] {
			t.Fatalf("not monotonic at %d: %d < %d", i, got[i], got[i-1])
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pix := make([]uint8, 256*3)
	for i := range pix {
		pix[i] = uint8(i % 256)
	}
	in := mustU8(t, pix, 16, 16, 3)
	mid := mustNew(t, 16, 16, 3, F32, RGB)
	back := mustNew(t, 16, 16, 3, U8, RGB)

	if err := Normalize(in, mid, 0, 255); err != nil {
		t.Fatal(err)
	}
	if err := Normalize(mid, back, 0, 1); err != nil {
		t.Fatal(err)
	}
	for i, v := range back.Uint8s() {
		d := int(v) - int(pix[i])
		if d < -1 || d > 1 {
			t.Fatalf("sample %d: %d -> %d", i, pix[i], v)
		}
	}
}

func TestNormalizeInPlace(t *testing.T) {
	pix := []float32{0, 2, 4, 8}
	a := mustF32(t, pix, 1, 4, 1)
	if err := Normalize(a, a, 0, 8); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{0, 0.25, 0.5, 1}, pix); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNormalizeRejects(t *testing.T) {
	in := mustU16(t, []uint16{1, 2, 3, 4}, 2, 2, 1, RGB)
	out := mustNew(t, 2, 2, 1, U8, RGB)
	out.Uint8s()[0] = 99

	testCases := []struct {
		name     string
		in, out  *Array
		min, max float32
		want     error
	}{
		{"nil input", nil, out, 0, 1, ErrNilArray},
		{"nil output", in, nil, 0, 1, ErrNilArray},
		{"empty range", in, out, 5, 5, ErrRange},
		{"inverted range", in, out, 10, 0, ErrRange},
		{"nan range", in, out, 0, float32(math.NaN()), ErrRange},
		{"shape", in, mustNew(t, 2, 2, 3, U8, RGB), 0, 1, ErrShape},
		{"dtype", in, &Array{Data: out.Data, Dims: out.Dims, DType: DataType(7)}, 0, 1, ErrDataType},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Normalize(tc.in, tc.out, tc.min, tc.max); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
	if out.Uint8s()[0] != 99 {
		t.Error("failed call wrote to output")
	}
}
