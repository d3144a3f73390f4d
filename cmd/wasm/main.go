//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"strings"
	"syscall/js"

	"rawcv/pkg/develop"
	"rawcv/pkg/preview"
	"rawcv/pkg/rawcv"
	"rawcv/pkg/rawfile"
)

func main() {
	js.Global().Set("rawcvDevelop", js.FuncOf(rawcvDevelop))
	js.Global().Set("rawcvPack", js.FuncOf(rawcvPack))
	js.Global().Set("rawcvUnpack", js.FuncOf(rawcvUnpack))
	select {} // block forever
}

// rawcvDevelop(rawBytes: Uint8Array, metadataText: string, options?: {black, white, autoWhite})
// returns {width, height, rgb}. On failure it returns {error} together with
// the red placeholder image in width, height and rgb.
func rawcvDevelop(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("usage: rawcvDevelop(rawBytes, metadataText, options)")
	}

	rawBytes := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(rawBytes, args[0])

	opts := develop.DefaultOptions()
	if len(args) >= 3 && args[2].Type() == js.TypeObject {
		o := args[2]
		if v := o.Get("black"); v.Type() == js.TypeNumber {
			opts.BlackLevel = float32(v.Float())
		}
		if v := o.Get("white"); v.Type() == js.TypeNumber {
			opts.WhiteLevel = float32(v.Float())
		}
		if v := o.Get("autoWhite"); v.Type() == js.TypeBoolean {
			opts.AutoWhite = v.Bool()
		}
	}

	meta, err := rawfile.ParseMetadata(strings.NewReader(args[1].String()))
	if err != nil {
		return developFailure(err)
	}
	frame, err := rawfile.ReadRaw(bytes.NewReader(rawBytes), meta)
	if err != nil {
		return developFailure(err)
	}
	rgb, err := develop.Develop(context.Background(), frame, opts)
	if err != nil {
		return developFailure(err)
	}

	return js.ValueOf(map[string]interface{}{
		"width":  rgb.Width(),
		"height": rgb.Height(),
		"rgb":    toUint8Array(rgb.Uint8s()),
	})
}

// rawcvPack(mosaic: Uint16Array, height, width) returns {height, width, data}
// with one plane per RGGB site.
func rawcvPack(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("usage: rawcvPack(mosaic, height, width)")
	}
	h, w := args[1].Int(), args[2].Int()
	in, err := u16FromJS(args[0], h, w, 1)
	if err != nil {
		return errorResult(err.Error())
	}
	out, err := rawcv.NewArray(h/2, w/2, 4, rawcv.U16, rawcv.RGGB)
	if err != nil {
		return errorResult(err.Error())
	}
	if err := rawcv.Pack(in, out); err != nil {
		return errorResult(err.Error())
	}
	return u16Result(out)
}

// rawcvUnpack(planes: Uint16Array, height, width) takes the packed
// dimensions and returns the (2*height, 2*width) mosaic.
func rawcvUnpack(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("usage: rawcvUnpack(planes, height, width)")
	}
	h, w := args[1].Int(), args[2].Int()
	in, err := u16FromJS(args[0], h, w, 4)
	if err != nil {
		return errorResult(err.Error())
	}
	out, err := rawcv.NewArray(h*2, w*2, 1, rawcv.U16, rawcv.RGGB)
	if err != nil {
		return errorResult(err.Error())
	}
	if err := rawcv.Unpack(in, out); err != nil {
		return errorResult(err.Error())
	}
	return u16Result(out)
}

func u16FromJS(v js.Value, h, w, c int) (*rawcv.Array, error) {
	n := v.Get("length").Int()
	if n != h*w*c {
		return nil, fmt.Errorf("%d samples do not fill %dx%dx%d: %w", n, h, w, c, rawcv.ErrShape)
	}
	view := js.Global().Get("Uint8Array").New(v.Get("buffer"), v.Get("byteOffset"), v.Get("byteLength"))
	raw := make([]byte, n*2)
	js.CopyBytesToGo(raw, view)
	pix := make([]uint16, n)
	for i := range pix {
		pix[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return rawcv.FromUint16(pix, h, w, c, rawcv.RGGB)
}

func u16Result(a *rawcv.Array) interface{} {
	src := a.Uint16s()
	arr := js.Global().Get("Uint16Array").New(len(src))
	raw := make([]byte, len(src)*2)
	for i, v := range src {
		binary.LittleEndian.PutUint16(raw[i*2:], v)
	}
	js.CopyBytesToJS(js.Global().Get("Uint8Array").New(arr.Get("buffer")), raw)
	return js.ValueOf(map[string]interface{}{
		"height": a.Height(),
		"width":  a.Width(),
		"data":   arr,
	})
}

func developFailure(err error) interface{} {
	img := preview.ErrorImage(err.Error())
	return js.ValueOf(map[string]interface{}{
		"error":  err.Error(),
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"rgb":    toUint8Array(rgbPixels(img)),
	})
}

func rgbPixels(img *image.RGBA) []byte {
	out := make([]byte, 0, len(img.Pix)/4*3)
	for i := 0; i < len(img.Pix); i += 4 {
		out = append(out, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}
	return out
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
