package devices

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/smazurov/camnode/internal/camera"
)

func TestResolveDevicePath(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0", "/dev/video0"},
		{"2", "/dev/video2"},
		{"/dev/video5", "/dev/video5"},
		{"/dev/media0", "/dev/media0"},
	}
	for _, tt := range tests {
		if got := ResolveDevicePath(tt.id); got != tt.want {
			t.Errorf("ResolveDevicePath(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestReadFrameScansJPEGBoundaries(t *testing.T) {
	first := []byte{0xFF, 0xD8, 0x01, 0x02, 0x03, 0xFF, 0xD9}
	second := []byte{0xFF, 0xD8, 0xAA, 0xBB, 0xFF, 0xD9}

	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0x11, 0xFF, 0x22}) // junk before the first marker
	stream.Write(first)
	stream.Write(second)

	src := &ffmpegSource{id: "0", reader: bufio.NewReader(&stream)}

	frame, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("first ReadFrame: %v", err)
	}
	if !bytes.Equal(frame.Data, first) {
		t.Errorf("first frame = % X, want % X", frame.Data, first)
	}
	if frame.Format != camera.FormatMJPEG {
		t.Errorf("format = %q, want %q", frame.Format, camera.FormatMJPEG)
	}

	frame, err = src.ReadFrame()
	if err != nil {
		t.Fatalf("second ReadFrame: %v", err)
	}
	if !bytes.Equal(frame.Data, second) {
		t.Errorf("second frame = % X, want % X", frame.Data, second)
	}

	if _, err := src.ReadFrame(); !errors.Is(err, camera.ErrEndOfStream) {
		t.Errorf("after EOF err = %v, want ErrEndOfStream", err)
	}
}

// zeroReader produces zero bytes forever, like a device stuck
// streaming non-JPEG data.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestReadFrameBoundsOversizedFrame(t *testing.T) {
	stream := io.MultiReader(bytes.NewReader([]byte{0xFF, 0xD8}), zeroReader{})
	src := &ffmpegSource{
		id:     "0",
		reader: bufio.NewReader(stream),
		logger: slog.New(slog.DiscardHandler),
	}

	if _, err := src.ReadFrame(); !errors.Is(err, camera.ErrEndOfStream) {
		t.Errorf("oversized frame err = %v, want ErrEndOfStream", err)
	}
}

func TestReadFrameTruncatedStream(t *testing.T) {
	// SOI with no terminating EOI.
	stream := bytes.NewReader([]byte{0xFF, 0xD8, 0x01, 0x02})
	src := &ffmpegSource{id: "0", reader: bufio.NewReader(stream)}

	if _, err := src.ReadFrame(); !errors.Is(err, camera.ErrEndOfStream) {
		t.Errorf("truncated stream err = %v, want ErrEndOfStream", err)
	}
}
