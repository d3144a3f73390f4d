package rawfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rawcv/pkg/rawcv"
)

// MetadataFileName is the sidecar written next to raw dumps by the capture SDK.
const MetadataFileName = "jiigan_siq_sdk_dump_metadata.txt"

// Metadata describes a raw sensor frame and the color processing the
// capture pipeline recorded for it.
type Metadata struct {
	Width      int
	Height     int
	BitWidth   int
	Pattern    rawcv.BayerPattern
	BlackLevel [4]float32
	Gains      rawcv.Gains
	CCM        rawcv.CCM
}

// DefaultMetadata returns the values assumed for keys missing from a sidecar.
func DefaultMetadata() Metadata {
	return Metadata{
		BitWidth: 10,
		Pattern:  rawcv.RGGB,
		Gains:    rawcv.UnityGains,
		CCM:      rawcv.IdentityCCM,
	}
}

// WhiteLevel is the largest sample value the sensor can produce.
func (m Metadata) WhiteLevel() float32 {
	if m.BitWidth <= 0 || m.BitWidth > 16 {
		return 65535
	}
	return float32(uint32(1)<<uint(m.BitWidth) - 1)
}

// Black is the mean of the four per-site black levels.
func (m Metadata) Black() float32 {
	var sum float32
	for _, b := range m.BlackLevel {
		sum += b
	}
	return sum / 4
}

func (m Metadata) String() string {
	return fmt.Sprintf("{%dx%d, %d-bit, %v, black=%v, gains=%v}",
		m.Width, m.Height, m.BitWidth, m.Pattern, m.BlackLevel, m.Gains)
}

// ReadMetadataFile parses the sidecar stored in the same directory as rawPath.
func ReadMetadataFile(rawPath string) (Metadata, error) {
	f, err := os.Open(filepath.Join(filepath.Dir(rawPath), MetadataFileName))
	if err != nil {
		return Metadata{}, fmt.Errorf("opening metadata: %w", err)
	}
	defer f.Close()
	return ParseMetadata(f)
}

// ParseMetadata reads sidecar lines of the form
//
//	WbGain:1.8,1.0,1.6
//	CCM:1.5,-0.3,-0.2,-0.2,1.4,-0.2,0,-0.5,1.5
//	BlackLevel:64,64,64,64
//	BayerInfo pattern:1, bitwidth:10
//	ImageSize width:4000, height:3000, stride:8000
//
// Unknown lines are ignored. Width and height are required.
func ParseMetadata(r io.Reader) (Metadata, error) {
	meta := DefaultMetadata()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		var err error
		switch {
		case strings.HasPrefix(line, "WbGain:"):
			var v []float32
			if v, err = parseFloats(line[len("WbGain:"):]); err == nil && len(v) == 3 {
				copy(meta.Gains[:], v)
			}
		case strings.HasPrefix(line, "CCM:"):
			var v []float32
			if v, err = parseFloats(line[len("CCM:"):]); err == nil && len(v) == 9 {
				copy(meta.CCM[:], v)
			}
		case strings.HasPrefix(line, "BlackLevel:"):
			var v []float32
			if v, err = parseFloats(line[len("BlackLevel:"):]); err == nil && len(v) >= 4 {
				copy(meta.BlackLevel[:], v[:4])
			}
		case strings.HasPrefix(line, "BayerInfo"):
			var p int
			if p, err = intField(line, "pattern:"); err != nil {
				break
			}
			if p < 0 || !rawcv.BayerPattern(p).IsMosaic() {
				err = fmt.Errorf("pattern %d: %w", p, rawcv.ErrPattern)
				break
			}
			meta.Pattern = rawcv.BayerPattern(p)
			meta.BitWidth, err = intField(line, "bitwidth:")
		case strings.HasPrefix(line, "ImageSize"):
			if meta.Width, err = intField(line, "width:"); err != nil {
				break
			}
			meta.Height, err = intField(line, "height:")
		}
		if err != nil {
			return Metadata{}, fmt.Errorf("metadata line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Metadata{}, fmt.Errorf("reading metadata: %w", err)
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return Metadata{}, fmt.Errorf("metadata has no image size (%dx%d)", meta.Width, meta.Height)
	}
	return meta, nil
}

func parseFloats(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(v))
	}
	return out, nil
}

// intField extracts the integer following key, up to the next comma or the
// end of the line.
func intField(line, key string) (int, error) {
	start := strings.Index(line, key)
	if start < 0 {
		return 0, fmt.Errorf("missing %q", key)
	}
	rest := line[start+len(key):]
	if end := strings.IndexByte(rest, ','); end >= 0 {
		rest = rest[:end]
	}
	return strconv.Atoi(strings.TrimSpace(rest))
}
