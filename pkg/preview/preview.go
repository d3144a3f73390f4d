// Package preview converts developed rawcv arrays into viewable images.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"rawcv/pkg/rawcv"
)

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	JPEG Format = "jpg"
)

// ParseFormat accepts a format name or file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == TIFF {
		return ".tif"
	}
	return "." + string(f)
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	}
	return fmt.Errorf("unsupported image format %q", f)
}

// FitSize scales width x height to fit in a maxSize square, keeping the
// aspect ratio. Images already inside the square, or maxSize <= 0, keep
// their size.
func FitSize(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	scale := float64(maxSize) / float64(max(width, height))
	w := max(1, int(math.Round(float64(width)*scale)))
	h := max(1, int(math.Round(float64(height)*scale)))
	return w, h
}

// Scale resamples img with Catmull-Rom so it fits in a maxSize square.
func Scale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxSize)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToImage copies an H x W x 3 U8 RGB array into an opaque RGBA image.
func ToImage(a *rawcv.Array) (*image.RGBA, error) {
	if err := checkRGB8(a); err != nil {
		return nil, err
	}
	h, w := a.Height(), a.Width()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	src := a.Uint8s()
	for i, j := 0, 0; i < len(src); i, j = i+3, j+4 {
		img.Pix[j] = src[i]
		img.Pix[j+1] = src[i+1]
		img.Pix[j+2] = src[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

func checkRGB8(a *rawcv.Array) error {
	if a == nil {
		return fmt.Errorf("preview: %w", rawcv.ErrNilArray)
	}
	if a.DType != rawcv.U8 {
		return fmt.Errorf("preview wants u8, got %v: %w", a.DType, rawcv.ErrDataType)
	}
	if a.Channels() != 3 {
		return fmt.Errorf("preview wants 3 channels, got %d: %w", a.Channels(), rawcv.ErrChannels)
	}
	return nil
}

// ErrorImageSize is the edge length of the placeholder drawn for frames
// that failed to develop.
const ErrorImageSize = 256

var errorRed = color.RGBA{255, 0, 0, 255}

// ErrorImage draws msg in white, word-wrapped and centered, on a red square.
func ErrorImage(msg string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ErrorImageSize, ErrorImageSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(errorRed), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	const lineHeight = 15
	lines := wrapText(face, msg, ErrorImageSize-16)
	maxLines := (ErrorImageSize - 16) / lineHeight
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	white := color.RGBA{255, 255, 255, 255}
	top := (ErrorImageSize-len(lines)*lineHeight)/2 + face.Ascent
	for i, line := range lines {
		drawCenteredText(img, face, line, ErrorImageSize/2, top+i*lineHeight, white)
	}
	return img
}

// wrapText breaks s into lines no wider than width pixels. Words longer than
// a line are split.
func wrapText(face font.Face, s string, width int) []string {
	limit := fixed.I(width)
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		for font.MeasureString(face, word) > limit {
			n := len(word) - 1
			for n > 1 && font.MeasureString(face, word[:n]) > limit {
				n--
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, word[:n])
			word = word[n:]
		}
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if font.MeasureString(face, next) > limit {
			lines = append(lines, cur)
			next = word
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawCenteredText draws s with its baseline at y, centered on cx.
func drawCenteredText(img *image.RGBA, face font.Face, s string, cx, y int, c color.RGBA) {
	advance := font.MeasureString(face, s)
	drawText(img, face, s, cx-advance.Round()/2, y, c)
}
