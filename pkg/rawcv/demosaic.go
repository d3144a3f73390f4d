package rawcv

// Demosaic reconstructs a U16 RGB image from a U16 RGGB mosaic by bilinear
// interpolation.
//
// RGGB layout (row-major, 0-indexed):
//
//	(even row, even col) = R
//	(even row, odd  col) = G  (Gr)
//	(odd  row, even col) = G  (Gb)
//	(odd  row, odd  col) = B
//
// Only interior pixels are written. The outermost row and column on each side
// keep whatever out held before the call. Neighbor means are summed in 32
// bits and truncated.
func Demosaic(in, out *Array) error {
	if err := validateDemosaic(in, out); err != nil {
		return err
	}

	width, height := in.Width(), in.Height()
	data := in.Uint16s()
	dst := out.Uint16s()

	px := func(x, y int) uint32 {
		return uint32(data[y*width+x])
	}

	for y := 1; y < height-1; y++ {
		evenRow := y%2 == 0
		for x := 1; x < width-1; x++ {
			evenCol := x%2 == 0
			var r, g, b uint32

			switch {
			case evenRow && evenCol:
				// Red pixel: have R, need G and B
				r = px(x, y)
				g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
				b = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4

			case evenRow && !evenCol:
				// Green on red row (Gr)
				r = (px(x-1, y) + px(x+1, y)) / 2
				g = px(x, y)
				b = (px(x, y-1) + px(x, y+1)) / 2

			case !evenRow && evenCol:
				// Green on blue row (Gb)
				r = (px(x, y-1) + px(x, y+1)) / 2
				g = px(x, y)
				b = (px(x-1, y) + px(x+1, y)) / 2

			default:
				// Blue pixel: have B, need R and G
				r = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
				g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
				b = px(x, y)
			}

			o := (y*width + x) * 3
			dst[o] = uint16(r)
			dst[o+1] = uint16(g)
			dst[o+2] = uint16(b)
		}
	}

	return nil
}
