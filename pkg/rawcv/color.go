package rawcv

// ApplyCCM multiplies every pixel of an F32 RGB array by m in place and
// clamps each result to [0, 1].
func ApplyCCM(rgb *Array, m CCM) error {
	if err := validateRGBF32(rgb); err != nil {
		return err
	}

	pix := rgb.Float32s()
	for i := 0; i+2 < len(pix); i += 3 {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		pix[i] = unitClamp(m[0]*r + m[1]*g + m[2]*b)
		pix[i+1] = unitClamp(m[3]*r + m[4]*g + m[5]*b)
		pix[i+2] = unitClamp(m[6]*r + m[7]*g + m[8]*b)
	}
	return nil
}

// ApplyGain scales each channel of an F32 RGB array in place and clamps the
// result to [0, 1]. Negative or NaN gains are rejected.
func ApplyGain(rgb *Array, gains Gains) error {
	if err := validateGain(rgb, gains); err != nil {
		return err
	}

	pix := rgb.Float32s()
	for i := 0; i+2 < len(pix); i += 3 {
		pix[i] = unitClamp(pix[i] * gains[0])
		pix[i+1] = unitClamp(pix[i+1] * gains[1])
		pix[i+2] = unitClamp(pix[i+2] * gains[2])
	}
	return nil
}
