// Package encode converts raw device frames into encoded still images.
// The conversion is lossless for uncompressed inputs: pixels are mapped
// to interleaved RGB and written as PNG.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/smazurov/camnode/internal/camera"
)

// Image is an encoded still image payload.
type Image struct {
	Data     []byte
	Format   string
	MIMEType string
}

// PNG encodes a raw frame as a PNG image. MJPEG frames are decoded
// first; RGB24 and YUYV frames are converted pixel-for-pixel.
func PNG(frame *camera.Frame) (*Image, error) {
	if frame == nil || len(frame.Data) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	img, err := toImage(frame)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &Image{Data: buf.Bytes(), Format: "png", MIMEType: "image/png"}, nil
}

// toImage converts a raw frame to an image.Image in RGB space.
func toImage(frame *camera.Frame) (image.Image, error) {
	switch frame.Format {
	case camera.FormatRGB24:
		return rgb24ToImage(frame)
	case camera.FormatYUYV:
		return yuyvToImage(frame)
	case camera.FormatMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(frame.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode MJPEG frame: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported frame format %q", frame.Format)
	}
}

func rgb24ToImage(frame *camera.Frame) (image.Image, error) {
	if len(frame.Data) < frame.Width*frame.Height*3 {
		return nil, fmt.Errorf("short RGB24 frame: %d bytes for %dx%d", len(frame.Data), frame.Width, frame.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	src := frame.Data
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			i := (y*frame.Width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: src[i], G: src[i+1], B: src[i+2], A: 255})
		}
	}
	return img, nil
}

// yuyvToImage expands packed YUYV 4:2:2 into RGB using BT.601 full
// range coefficients, the layout V4L2 webcams report by default.
func yuyvToImage(frame *camera.Frame) (image.Image, error) {
	if len(frame.Data) < frame.Width*frame.Height*2 {
		return nil, fmt.Errorf("short YUYV frame: %d bytes for %dx%d", len(frame.Data), frame.Width, frame.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	src := frame.Data
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x += 2 {
			i := (y*frame.Width + x) * 2
			y0, u, y1, v := src[i], src[i+1], src[i+2], src[i+3]
			img.SetRGBA(x, y, yuvToRGBA(y0, u, v))
			if x+1 < frame.Width {
				img.SetRGBA(x+1, y, yuvToRGBA(y1, u, v))
			}
		}
	}
	return img, nil
}

func yuvToRGBA(y, u, v byte) color.RGBA {
	c := int(y)
	d := int(u) - 128
	e := int(v) - 128

	r := clamp(c + (91881*e)>>16)
	g := clamp(c - ((22554*d + 46802*e) >> 16))
	b := clamp(c + (116130*d)>>16)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
