// Package capture is the externally callable camera surface: list,
// info, start/stop shared streams, and still capture either one-shot
// or from a running stream. Both the HTTP API and the MCP server sit
// on top of this service.
package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/encode"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/streams"
)

// StartStatus is the result of StartCamera.
type StartStatus struct {
	Message string `json:"message" example:"Camera 0 started." doc:"Human-readable status"`
	Clients int    `json:"clients" example:"1" doc:"Reference count after the call"`
	Started bool   `json:"started" doc:"True when this call started a new stream worker"`
}

// StopStatus is the result of StopCamera.
type StopStatus struct {
	Message string `json:"message" example:"Camera 0 stopped." doc:"Human-readable status"`
	Clients int    `json:"clients" example:"0" doc:"Remaining reference count"`
	Stopped bool   `json:"stopped" doc:"True when this call removed the stream"`
}

// Options configures a Service.
type Options struct {
	Driver   camera.Driver
	Registry *streams.Registry
	Probe    *camera.Probe
	EventBus *events.Bus
	Logger   *slog.Logger
}

// Service implements the camera tool operations.
type Service struct {
	driver   camera.Driver
	registry *streams.Registry
	probe    *camera.Probe
	bus      *events.Bus
	logger   *slog.Logger
}

// NewService creates the capture facade.
func NewService(opts *Options) *Service {
	if opts == nil || opts.Driver == nil || opts.Registry == nil || opts.Probe == nil {
		panic("capture: Options with Driver, Registry and Probe are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		driver:   opts.Driver,
		registry: opts.Registry,
		probe:    opts.Probe,
		bus:      opts.EventBus,
		logger:   logger,
	}
}

// ListCameras returns the available camera identifiers in ascending
// order.
func (s *Service) ListCameras(ctx context.Context) []string {
	available := s.probe.ListAvailable(ctx)
	s.publish(events.DeviceDiscoveryEvent{Cameras: available, Timestamp: timestamp()})
	return available
}

// GetCameraInfo returns the device's reported resolution and frame
// rate, or a DEVICE_UNAVAILABLE error.
func (s *Service) GetCameraInfo(ctx context.Context, id string) (camera.Info, error) {
	return s.probe.Info(ctx, id)
}

// StartCamera registers a client on the camera's shared stream,
// starting the background worker on first use.
func (s *Service) StartCamera(ctx context.Context, id string) (StartStatus, error) {
	res, err := s.registry.Acquire(ctx, id)
	if err != nil {
		return StartStatus{}, err
	}
	if res.Created {
		return StartStatus{
			Message: fmt.Sprintf("Camera %s started.", id),
			Clients: res.Clients,
			Started: true,
		}, nil
	}
	return StartStatus{
		Message: fmt.Sprintf("Camera %s already running. Clients: %d", id, res.Clients),
		Clients: res.Clients,
	}, nil
}

// StopCamera drops a client from the camera's shared stream, stopping
// the worker when the last client leaves. Returns a NOT_STREAMING
// error for cameras with no active stream.
func (s *Service) StopCamera(ctx context.Context, id string) (StopStatus, error) {
	res, err := s.registry.Release(id)
	if err != nil {
		if camera.HasCode(err, camera.ErrCodeNotStreaming) {
			return StopStatus{}, camera.NewError(camera.ErrCodeNotStreaming,
				fmt.Sprintf("Camera %s is not active.", id), err)
		}
		return StopStatus{}, err
	}
	if res.Stopped {
		return StopStatus{
			Message: fmt.Sprintf("Camera %s stopped.", id),
			Stopped: true,
		}, nil
	}
	return StopStatus{
		Message: fmt.Sprintf("Camera %s still running. Clients: %d", id, res.Clients),
		Clients: res.Clients,
	}, nil
}

// CaptureImage opens the device transiently, reads exactly one frame,
// releases the device, and returns the frame encoded as PNG. It
// bypasses the stream registry entirely and mutates no shared state.
func (s *Service) CaptureImage(ctx context.Context, id string) (*encode.Image, error) {
	src, err := s.driver.Open(ctx, id)
	if err != nil {
		s.captureFailed(id, "oneshot", err)
		return nil, err
	}

	frame, readErr := src.ReadFrame()
	if closeErr := src.Close(); closeErr != nil {
		s.logger.Warn("Failed to release camera after capture", "camera", id, "error", closeErr)
	}
	if readErr != nil {
		err := camera.NewError(camera.ErrCodeCaptureFailed,
			fmt.Sprintf("failed to capture image from camera %s", id), readErr)
		s.captureFailed(id, "oneshot", err)
		return nil, err
	}

	img, err := encode.PNG(frame)
	if err != nil {
		err = camera.NewError(camera.ErrCodeCaptureFailed,
			fmt.Sprintf("failed to encode image from camera %s", id), err)
		s.captureFailed(id, "oneshot", err)
		return nil, err
	}

	s.logger.Info("Captured image", "camera", id)
	s.publish(events.CaptureSuccessEvent{CameraID: id, Source: "oneshot", Timestamp: timestamp()})
	return img, nil
}

// CaptureFromStream returns the most recent frame of an active stream
// encoded as PNG. Fails with NOT_STREAMING or NO_FRAME_YET.
func (s *Service) CaptureFromStream(ctx context.Context, id string) (*encode.Image, error) {
	frame, err := s.registry.PeekLatestFrame(id)
	if err != nil {
		s.captureFailed(id, "stream", err)
		return nil, err
	}

	img, err := encode.PNG(frame)
	if err != nil {
		err = camera.NewError(camera.ErrCodeCaptureFailed,
			fmt.Sprintf("failed to encode stream frame from camera %s", id), err)
		s.captureFailed(id, "stream", err)
		return nil, err
	}

	s.logger.Info("Retrieved stream frame", "camera", id)
	s.publish(events.CaptureSuccessEvent{CameraID: id, Source: "stream", Timestamp: timestamp()})
	return img, nil
}

// ActiveStreams returns the identifiers with a live stream entry.
func (s *Service) ActiveStreams() []string {
	return s.registry.Active()
}

// StreamClients returns the reference count for the camera's stream.
func (s *Service) StreamClients(id string) int {
	return s.registry.Clients(id)
}

// StreamState returns the worker state for the camera's stream.
func (s *Service) StreamState(id string) streams.State {
	return s.registry.WorkerState(id)
}

func (s *Service) captureFailed(id, source string, err error) {
	s.logger.Error("Capture failed", "camera", id, "source", source, "error", err)
	s.publish(events.CaptureErrorEvent{CameraID: id, Source: source, Error: err.Error(), Timestamp: timestamp()})
}

func (s *Service) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func timestamp() string {
	return events.Timestamp()
}
