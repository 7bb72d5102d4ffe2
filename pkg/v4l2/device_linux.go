//go:build linux

package v4l2

import (
	"bytes"
	"fmt"
	"syscall"
	"unsafe"
)

// CheckDevice opens the device and verifies it is a video capture
// device. The handle is closed before returning.
func CheckDevice(devicePath string) error {
	fd, err := open(devicePath)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	defer close(fd)

	caps, err := queryCapability(fd)
	if err != nil {
		return fmt.Errorf("failed to query device capabilities: %w", err)
	}
	if caps&V4L2_CAP_VIDEO_CAPTURE == 0 {
		return fmt.Errorf("device %s does not support video capture", devicePath)
	}
	return nil
}

// QueryCapability opens the device transiently and reads its name,
// current capture format, and frame rate.
func QueryCapability(devicePath string) (Capability, error) {
	fd, err := open(devicePath)
	if err != nil {
		return Capability{}, fmt.Errorf("failed to open device: %w", err)
	}
	defer close(fd)

	cap := v4l2_capability{}
	if err := ioctl(fd, VIDIOC_QUERYCAP, unsafe.Pointer(&cap)); err != nil {
		return Capability{}, fmt.Errorf("failed to query device capabilities: %w", err)
	}

	result := Capability{
		DevicePath: devicePath,
		DeviceName: cstr(cap.card[:]),
	}

	// Current capture format; drivers without a configured format
	// report zeros, which is passed through.
	format := v4l2_format{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	if err := ioctl(fd, VIDIOC_G_FMT, unsafe.Pointer(&format)); err == nil {
		result.Width = format.pix.width
		result.Height = format.pix.height
	}

	// Frame interval, as a fraction of seconds per frame.
	parm := v4l2_streamparm{typ: V4L2_BUF_TYPE_VIDEO_CAPTURE}
	if err := ioctl(fd, VIDIOC_G_PARM, unsafe.Pointer(&parm)); err == nil {
		tpf := parm.capture.timeperframe
		if tpf.numerator != 0 {
			result.FPS = float64(tpf.denominator) / float64(tpf.numerator)
		}
	}

	return result, nil
}

func queryCapability(fd int) (uint32, error) {
	cap := v4l2_capability{}
	if err := ioctl(fd, VIDIOC_QUERYCAP, unsafe.Pointer(&cap)); err != nil {
		return 0, err
	}
	caps := cap.capabilities
	if caps&V4L2_CAP_DEVICE_CAPS != 0 {
		caps = cap.device_caps
	}
	return caps, nil
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func open(path string) (int, error) {
	return syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
}

func close(fd int) error {
	return syscall.Close(fd)
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
