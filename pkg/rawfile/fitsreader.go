package rawfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"rawcv/pkg/rawcv"
)

// FitsHeader holds parsed FITS header cards keyed by upper-case keyword.
type FitsHeader map[string]string

func (h FitsHeader) GetString(key string) string {
	return h[strings.ToUpper(key)]
}

func (h FitsHeader) GetDouble(key string) (float64, bool) {
	v, ok := h[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (h FitsHeader) GetInt(key string) (int, bool) {
	v, ok := h[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

func (h FitsHeader) CameraName() string { return h.GetString("INSTRUME") }

func (h FitsHeader) ExposureTime() (float64, bool) {
	if v, ok := h.GetDouble("EXPTIME"); ok {
		return v, true
	}
	return h.GetDouble("EXPOSURE")
}

// ReadFits reads a one-shot-color FITS frame. The mosaic ordering comes from
// BAYERPAT, shifted by XBAYROFF/YBAYROFF when present.
func ReadFits(filePath string) (*Frame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening FITS file: %w", err)
	}
	defer f.Close()
	frame, _, err := readFits(f)
	if err != nil {
		return nil, err
	}
	frame.Source = filePath
	return frame, nil
}

// ReadFitsFromBytes reads a FITS frame from memory and also returns its header.
func ReadFitsFromBytes(data []byte) (*Frame, FitsHeader, error) {
	return readFits(bytes.NewReader(data))
}

func readFits(r io.Reader) (*Frame, FitsHeader, error) {
	var bitpix, naxis, width, height int
	bzero := 0.0
	bscale := 1.0
	headerDone := false
	header := FitsHeader{}

	recordBuf := make([]byte, 80)

	for !headerDone {
		for i := 0; i < 36; i++ {
			if _, err := io.ReadFull(r, recordBuf); err != nil {
				return nil, nil, fmt.Errorf("reading FITS header record: %w", err)
			}
			record := string(recordBuf)
			keyword := strings.TrimSpace(record[:8])

			if keyword == "END" {
				headerDone = true
				if remaining := 35 - i; remaining > 0 {
					if _, err := io.CopyN(io.Discard, r, int64(remaining*80)); err != nil {
						return nil, nil, fmt.Errorf("skipping FITS header padding: %w", err)
					}
				}
				break
			}

			if record[8] != '=' || record[9] != ' ' {
				continue
			}
			rawValue := strings.TrimSpace(strings.SplitN(record[10:], "/", 2)[0])
			if parsed := parseFitsValue(rawValue); keyword != "" && parsed != "" {
				header[strings.ToUpper(keyword)] = parsed
			}

			switch keyword {
			case "BITPIX":
				bitpix, _ = strconv.Atoi(rawValue)
			case "NAXIS":
				naxis, _ = strconv.Atoi(rawValue)
			case "NAXIS1":
				width, _ = strconv.Atoi(rawValue)
			case "NAXIS2":
				height, _ = strconv.Atoi(rawValue)
			case "BZERO":
				bzero, _ = strconv.ParseFloat(rawValue, 64)
			case "BSCALE":
				bscale, _ = strconv.ParseFloat(rawValue, 64)
			}
		}
	}

	if naxis != 2 || width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("not a single-plane FITS mosaic: NAXIS=%d, NAXIS1=%d, NAXIS2=%d", naxis, width, height)
	}

	pattern, err := fitsPattern(header)
	if err != nil {
		return nil, nil, err
	}

	numPixels := width * height
	pixels := make([]uint16, numPixels)
	bitWidth := 16

	switch bitpix {
	case 16:
		rawBytes := make([]byte, numPixels*2)
		if _, err := io.ReadFull(r, rawBytes); err != nil {
			return nil, nil, fmt.Errorf("reading 16-bit pixel data: %w", err)
		}
		for i := range pixels {
			signedVal := int16(binary.BigEndian.Uint16(rawBytes[i*2:]))
			pixels[i] = toUint16(float64(signedVal)*bscale + bzero)
		}

	case 8:
		bitWidth = 8
		rawBytes := make([]byte, numPixels)
		if _, err := io.ReadFull(r, rawBytes); err != nil {
			return nil, nil, fmt.Errorf("reading 8-bit pixel data: %w", err)
		}
		for i := range pixels {
			pixels[i] = toUint16(float64(rawBytes[i])*bscale + bzero)
		}

	case -32:
		rawBytes := make([]byte, numPixels*4)
		if _, err := io.ReadFull(r, rawBytes); err != nil {
			return nil, nil, fmt.Errorf("reading -32 float pixel data: %w", err)
		}
		for i := range pixels {
			floatVal := math.Float32frombits(binary.BigEndian.Uint32(rawBytes[i*4:]))
			pixels[i] = toUint16(float64(floatVal)*bscale + bzero)
		}

	default:
		return nil, nil, fmt.Errorf("unsupported BITPIX: %d", bitpix)
	}

	meta := DefaultMetadata()
	meta.Width, meta.Height = width, height
	meta.BitWidth = bitWidth
	meta.Pattern = pattern
	if black, ok := header.GetDouble("BLKLEVEL"); ok {
		for i := range meta.BlackLevel {
			meta.BlackLevel[i] = float32(black)
		}
	}

	bayer, err := rawcv.FromUint16(pixels, height, width, 1, pattern)
	if err != nil {
		return nil, nil, err
	}
	return &Frame{Bayer: bayer, Meta: meta}, header, nil
}

// fitsPattern resolves BAYERPAT and the optional read-out offsets. An odd
// X offset swaps the columns of the tile, an odd Y offset its rows.
func fitsPattern(h FitsHeader) (rawcv.BayerPattern, error) {
	name := h.GetString("BAYERPAT")
	if name == "" {
		return 0, fmt.Errorf("FITS header has no BAYERPAT: %w", rawcv.ErrPattern)
	}
	p, err := rawcv.ParseBayerPattern(name)
	if err != nil {
		return 0, err
	}
	if !p.IsMosaic() {
		return 0, fmt.Errorf("BAYERPAT %q: %w", name, rawcv.ErrPattern)
	}
	if x, ok := h.GetInt("XBAYROFF"); ok && x%2 != 0 {
		p = swapColumns(p)
	}
	if y, ok := h.GetInt("YBAYROFF"); ok && y%2 != 0 {
		p = swapRows(p)
	}
	return p, nil
}

func swapColumns(p rawcv.BayerPattern) rawcv.BayerPattern {
	switch p {
	case rawcv.RGGB:
		return rawcv.GRBG
	case rawcv.GRBG:
		return rawcv.RGGB
	case rawcv.BGGR:
		return rawcv.GBRG
	default:
		return rawcv.BGGR
	}
}

func swapRows(p rawcv.BayerPattern) rawcv.BayerPattern {
	switch p {
	case rawcv.RGGB:
		return rawcv.GBRG
	case rawcv.GBRG:
		return rawcv.RGGB
	case rawcv.BGGR:
		return rawcv.GRBG
	default:
		return rawcv.BGGR
	}
}

func toUint16(v float64) uint16 {
	if !(v > 0) {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

func parseFitsValue(rawValue string) string {
	if rawValue == "" {
		return ""
	}
	if rawValue == "T" {
		return "True"
	}
	if rawValue == "F" {
		return "False"
	}
	if strings.HasPrefix(rawValue, "'") {
		endQuote := strings.LastIndex(rawValue, "'")
		if endQuote > 0 {
			return strings.TrimRight(rawValue[1:endQuote], " ")
		}
		return strings.TrimLeft(strings.TrimRight(rawValue, " "), "'")
	}
	return rawValue
}
