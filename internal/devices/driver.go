// Package devices implements the camera.Driver backed by real
// hardware: V4L2 ioctls answer availability and capability queries,
// and a per-handle ffmpeg process turns the device into an MJPEG
// frame stream.
package devices

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/smazurov/camnode/internal/camera"
)

// Options configures the hardware driver.
type Options struct {
	// FFmpegPath overrides the ffmpeg binary used for frame streaming.
	FFmpegPath string
	// Aliases maps logical camera ids to device paths, typically
	// loaded from cameras.toml.
	Aliases map[string]string
	Logger  *slog.Logger
}

// Driver is the production camera.Driver.
type Driver struct {
	ffmpegPath string
	logger     *slog.Logger

	mu      sync.RWMutex
	aliases map[string]string
}

// New creates a hardware-backed driver.
func New(opts *Options) *Driver {
	ffmpegPath := "ffmpeg"
	var aliases map[string]string
	var logger *slog.Logger
	if opts != nil {
		if opts.FFmpegPath != "" {
			ffmpegPath = opts.FFmpegPath
		}
		aliases = opts.Aliases
		logger = opts.Logger
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{ffmpegPath: ffmpegPath, aliases: aliases, logger: logger}
}

// Open acquires the device and starts its frame stream.
func (d *Driver) Open(ctx context.Context, id string) (camera.Source, error) {
	devicePath, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	return newFFmpegSource(ctx, d.ffmpegPath, id, devicePath, d.logger)
}

// Info opens the device transiently and returns its reported
// resolution and frame rate.
func (d *Driver) Info(ctx context.Context, id string) (camera.Info, error) {
	devicePath, err := d.resolve(id)
	if err != nil {
		return camera.Info{}, err
	}
	return deviceInfo(id, devicePath)
}

// SetAliases replaces the alias table, typically after the cameras
// file changed through the API.
func (d *Driver) SetAliases(aliases map[string]string) {
	d.mu.Lock()
	d.aliases = aliases
	d.mu.Unlock()
}

// resolve maps a camera identifier to a device path and verifies the
// device can be acquired.
func (d *Driver) resolve(id string) (string, error) {
	d.mu.RLock()
	devicePath, ok := d.aliases[id]
	d.mu.RUnlock()
	if !ok {
		devicePath = ResolveDevicePath(id)
	}
	if _, err := os.Stat(devicePath); err != nil {
		return "", camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), err)
	}
	if err := checkDevice(devicePath); err != nil {
		return "", camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), err)
	}
	return devicePath, nil
}

// ResolveDevicePath converts a camera identifier to a device path.
// Numeric identifiers map to /dev/video<N>; full paths pass through.
func ResolveDevicePath(id string) string {
	if strings.HasPrefix(id, "/dev/") {
		return id
	}
	return "/dev/video" + id
}
