package rawcv

// ToRGGB reorders a single-channel U16 mosaic in place so that its samples
// follow the RGGB tile, then retags it. The mapping per source pattern:
//
//	RGGB  identity
//	BGGR  flip rows and columns
//	GRBG  flip columns
//	GBRG  flip rows
//
// The flipped image is built in a scratch buffer and copied back, because
// reversing an axis in place would read samples that were already written.
func ToRGGB(bayer *Array) error {
	if err := validateToRGGB(bayer); err != nil {
		return err
	}

	height, width := bayer.Height(), bayer.Width()
	flipRows := bayer.Pattern == BGGR || bayer.Pattern == GBRG
	flipCols := bayer.Pattern == BGGR || bayer.Pattern == GRBG

	if flipRows || flipCols {
		src := bayer.Uint16s()
		tmp := make([]uint16, len(src))
		for y := 0; y < height; y++ {
			sy := y
			if flipRows {
				sy = height - 1 - y
			}
			srcRow := src[sy*width : (sy+1)*width]
			dstRow := tmp[y*width : (y+1)*width]
			if !flipCols {
				copy(dstRow, srcRow)
				continue
			}
			for x := range dstRow {
				dstRow[x] = srcRow[width-1-x]
			}
		}
		copy(src, tmp)
	}

	bayer.Pattern = RGGB
	return nil
}
