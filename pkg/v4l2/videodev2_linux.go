//go:build linux

package v4l2

// ioctl request codes for 64-bit Linux (from linux/videodev2.h).
const (
	VIDIOC_QUERYCAP = 0x80685600 // VIDIOC_QUERYCAP - query device capabilities
	VIDIOC_G_FMT    = 0xc0d05604 // VIDIOC_G_FMT - get current data format
	VIDIOC_G_PARM   = 0xc0cc5615 // VIDIOC_G_PARM - get streaming parameters
)

// Capability flags (from linux/videodev2.h).
const (
	V4L2_CAP_VIDEO_CAPTURE = 0x00000001
	V4L2_CAP_STREAMING     = 0x04000000
	V4L2_CAP_DEVICE_CAPS   = 0x80000000
)

// Buffer types.
const (
	V4L2_BUF_TYPE_VIDEO_CAPTURE = 1
)

// struct v4l2_capability, 104 bytes.
type v4l2_capability struct {
	driver       [16]byte
	card         [32]byte
	bus_info     [32]byte
	version      uint32
	capabilities uint32
	device_caps  uint32
	reserved     [3]uint32
}

// struct v4l2_pix_format, 48 bytes.
type v4l2_pix_format struct {
	width        uint32
	height       uint32
	pixelformat  uint32
	field        uint32
	bytesperline uint32
	sizeimage    uint32
	colorspace   uint32
	priv         uint32
	flags        uint32
	ycbcr_enc    uint32
	quantization uint32
	xfer_func    uint32
}

// struct v4l2_format, 208 bytes on 64-bit: the fmt union is 8-byte
// aligned (it can hold pointers) and 200 bytes wide.
type v4l2_format struct {
	typ uint32
	_   uint32
	pix v4l2_pix_format
	_   [152]byte
}

// struct v4l2_fract.
type v4l2_fract struct {
	numerator   uint32
	denominator uint32
}

// struct v4l2_captureparm, 40 bytes.
type v4l2_captureparm struct {
	capability   uint32
	capturemode  uint32
	timeperframe v4l2_fract
	extendedmode uint32
	readbuffers  uint32
	reserved     [4]uint32
}

// struct v4l2_streamparm, 204 bytes: 4-byte type plus a 200-byte union.
type v4l2_streamparm struct {
	typ     uint32
	capture v4l2_captureparm
	_       [160]byte
}
