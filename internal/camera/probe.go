package camera

import (
	"context"
	"log/slog"
	"strconv"
)

// DefaultProbeLimit is the number of device indices tested during
// discovery (identifiers "0" through "4").
const DefaultProbeLimit = 5

// Probe tests device availability by opening handles transiently.
// It keeps no state between calls.
type Probe struct {
	driver Driver
	limit  int
	logger *slog.Logger
}

// NewProbe creates a probe over the given driver. limit bounds the
// device index range tested by ListAvailable; values <= 0 fall back to
// DefaultProbeLimit.
func NewProbe(driver Driver, limit int, logger *slog.Logger) *Probe {
	if limit <= 0 {
		limit = DefaultProbeLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{driver: driver, limit: limit, logger: logger}
}

// ListAvailable attempts to open each candidate index and reports the
// ones that succeeded, in ascending order. A failed open is not an
// error; the index is simply excluded.
func (p *Probe) ListAvailable(ctx context.Context) []string {
	available := make([]string, 0, p.limit)
	for i := 0; i < p.limit; i++ {
		id := strconv.Itoa(i)
		src, err := p.driver.Open(ctx, id)
		if err != nil {
			continue
		}
		if closeErr := src.Close(); closeErr != nil {
			p.logger.Warn("Failed to close probed device", "camera", id, "error", closeErr)
		}
		available = append(available, id)
	}
	p.logger.Info("Discovered cameras", "cameras", available)
	return available
}

// Info returns the device's reported capabilities, or a
// DEVICE_UNAVAILABLE error if it cannot be opened.
func (p *Probe) Info(ctx context.Context, id string) (Info, error) {
	info, err := p.driver.Info(ctx, id)
	if err != nil {
		return Info{}, err
	}
	p.logger.Info("Camera info", "camera", id, "width", info.Width, "height", info.Height, "fps", info.FPS)
	return info, nil
}
