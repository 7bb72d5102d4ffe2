package devices

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/smazurov/camnode/internal/camera"
)

const (
	jpegMarker = 0xFF
	jpegSOI    = 0xD8 // start of image
	jpegEOI    = 0xD9 // end of image

	// maxFrameBytes bounds a single frame. A device feeding garbage
	// with no EOI marker must not grow the buffer without limit.
	maxFrameBytes = 16 << 20
)

// ffmpegSource owns one ffmpeg process streaming the device as MJPEG
// on stdout. ReadFrame returns one complete JPEG per call.
type ffmpegSource struct {
	id     string
	cmd    *exec.Cmd
	reader *bufio.Reader
	stderr *bytes.Buffer
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func newFFmpegSource(ctx context.Context, ffmpegPath, id, devicePath string, logger *slog.Logger) (*ffmpegSource, error) {
	// ctx scopes process startup only; the handle outlives the call
	// and is torn down via Close.
	_ = ctx

	cmd := exec.Command(ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-f", "v4l2",
		"-i", devicePath,
		"-f", "mjpeg",
		"-q:v", "2",
		"-",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), err)
	}
	if err := cmd.Start(); err != nil {
		return nil, camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), err)
	}

	return &ffmpegSource{
		id:     id,
		cmd:    cmd,
		reader: bufio.NewReaderSize(stdout, 256*1024),
		stderr: stderr,
		logger: logger,
	}, nil
}

// ReadFrame blocks until ffmpeg delivers the next complete JPEG. A
// closed pipe (device unplugged, process exited or killed) reports
// ErrEndOfStream.
func (s *ffmpegSource) ReadFrame() (*camera.Frame, error) {
	if err := s.skipToSOI(); err != nil {
		return nil, camera.ErrEndOfStream
	}

	data := []byte{jpegMarker, jpegSOI}
	prev := byte(0)
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return nil, camera.ErrEndOfStream
		}
		data = append(data, b)
		if prev == jpegMarker && b == jpegEOI {
			break
		}
		if len(data) > maxFrameBytes {
			s.logger.Warn("Oversized frame, dropping stream", "camera", s.id, "bytes", len(data))
			return nil, camera.ErrEndOfStream
		}
		prev = b
	}

	frame := &camera.Frame{
		Data:     data,
		Format:   camera.FormatMJPEG,
		Captured: time.Now(),
	}
	// Dimensions come from the JPEG header; zero on parse failure.
	if cfg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
		frame.Width = cfg.Width
		frame.Height = cfg.Height
	}
	return frame, nil
}

// skipToSOI discards bytes until the next JPEG start-of-image marker.
func (s *ffmpegSource) skipToSOI() error {
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		if b != jpegMarker {
			continue
		}
		nb, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		if nb == jpegSOI {
			return nil
		}
	}
}

// Close terminates the ffmpeg process and releases the device. It is
// safe to call more than once; a pending ReadFrame unblocks with
// ErrEndOfStream once the pipe closes.
func (s *ffmpegSource) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd.Process != nil {
			if err := s.cmd.Process.Kill(); err != nil {
				s.logger.Debug("Failed to kill ffmpeg", "camera", s.id, "error", err)
			}
		}
		err := s.cmd.Wait()
		if err != nil && s.stderr.Len() > 0 {
			s.logger.Debug("ffmpeg exited", "camera", s.id, "error", err, "stderr", s.stderr.String())
		}
	})
	return s.closeErr
}
