package rawcv

// Pack turns an (H, W, 1) U16 mosaic into an (H/2, W/2, 4) U16 array. Each
// output pixel holds its 2x2 cell in row-major order: top-left, top-right,
// bottom-left, bottom-right. For an RGGB mosaic that is R, G, G, B.
func Pack(in, out *Array) error {
	if err := validatePack(in, out); err != nil {
		return err
	}

	inWidth := in.Width()
	src := in.Uint16s()
	for y := 0; y < out.Height(); y++ {
		top := src[2*y*inWidth : (2*y+1)*inWidth]
		bottom := src[(2*y+1)*inWidth : (2*y+2)*inWidth]
		row := out.Row16(y)
		for x := 0; x < out.Width(); x++ {
			px := row[4*x : 4*x+4]
			px[0] = top[2*x]
			px[1] = top[2*x+1]
			px[2] = bottom[2*x]
			px[3] = bottom[2*x+1]
		}
	}
	return nil
}

// Unpack is the inverse of Pack: an (H, W, 4) U16 array becomes a
// (2H, 2W, 1) mosaic.
func Unpack(in, out *Array) error {
	if err := validateUnpack(in, out); err != nil {
		return err
	}

	outWidth := out.Width()
	dst := out.Uint16s()
	for y := 0; y < in.Height(); y++ {
		top := dst[2*y*outWidth : (2*y+1)*outWidth]
		bottom := dst[(2*y+1)*outWidth : (2*y+2)*outWidth]
		row := in.Row16(y)
		for x := 0; x < in.Width(); x++ {
			px := row[4*x : 4*x+4]
			top[2*x] = px[0]
			top[2*x+1] = px[1]
			bottom[2*x] = px[2]
			bottom[2*x+1] = px[3]
		}
	}
	return nil
}
