package camera

import "time"

// PixelFormat identifies the pixel layout of a raw frame.
type PixelFormat string

// Frame formats produced by sources. RGB24 is interleaved R,G,B bytes,
// YUYV is packed 4:2:2, MJPEG is a complete JPEG image per frame.
const (
	FormatRGB24 PixelFormat = "rgb24"
	FormatYUYV  PixelFormat = "yuyv422"
	FormatMJPEG PixelFormat = "mjpeg"
)

// Frame is one raw image sample from a device, in device-native layout.
// A frame is immutable once produced; readers take the pointer as a
// snapshot and must not mutate Data.
type Frame struct {
	Data     []byte
	Width    int
	Height   int
	Format   PixelFormat
	Captured time.Time
	Sequence uint64
}

// Info describes a camera device's reported capabilities. Values are
// passed through from the driver and may be zero if the device reports
// defaults.
type Info struct {
	ID     string  `json:"id"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
}
