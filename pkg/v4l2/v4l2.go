// Package v4l2 provides minimal pure Go bindings to the Video4Linux2
// (V4L2) API: device availability checks and current-format / frame
// rate queries via ioctl. No cgo, so cross-compilation for Linux
// targets stays simple.
package v4l2

// Capability describes what a device reported for its current capture
// configuration. Values come straight from the driver and may be zero
// when the device reports defaults.
type Capability struct {
	DevicePath string
	DeviceName string
	Width      uint32
	Height     uint32
	FPS        float64
}
