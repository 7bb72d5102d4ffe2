package events

import "time"

// Timestamp returns the current UTC time in the format events carry.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Event type constants for kelindar/event.
const (
	TypeStreamStateChanged uint32 = iota + 1
	TypeCaptureSuccess
	TypeCaptureError
	TypeDeviceDiscovery
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StreamStateChangedEvent fires on every stream worker transition.
type StreamStateChangedEvent struct {
	CameraID  string `json:"camera_id" example:"0" doc:"Camera identifier"`
	OldState  string `json:"old_state" example:"running" doc:"Previous worker state"`
	NewState  string `json:"new_state" example:"stopped" doc:"New worker state"`
	Error     string `json:"error,omitempty" doc:"Worker error, if the transition was caused by one"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Transition timestamp"`
}

// Type returns the event type identifier for StreamStateChangedEvent.
func (e StreamStateChangedEvent) Type() uint32 { return TypeStreamStateChanged }

// CaptureSuccessEvent represents a successful still capture.
type CaptureSuccessEvent struct {
	CameraID  string `json:"camera_id" example:"0" doc:"Camera identifier"`
	Source    string `json:"source" example:"oneshot" doc:"Capture source: oneshot or stream"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Capture timestamp"`
}

// Type returns the event type identifier for CaptureSuccessEvent.
func (e CaptureSuccessEvent) Type() uint32 { return TypeCaptureSuccess }

// CaptureErrorEvent represents a failed still capture.
type CaptureErrorEvent struct {
	CameraID  string `json:"camera_id" example:"0" doc:"Camera identifier"`
	Source    string `json:"source" example:"oneshot" doc:"Capture source: oneshot or stream"`
	Error     string `json:"error" example:"DEVICE_UNAVAILABLE: cannot open camera 0" doc:"Error description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Error timestamp"`
}

// Type returns the event type identifier for CaptureErrorEvent.
func (e CaptureErrorEvent) Type() uint32 { return TypeCaptureError }

// DeviceDiscoveryEvent fires after a probe sweep.
type DeviceDiscoveryEvent struct {
	Cameras   []string `json:"cameras" doc:"Identifiers that answered the probe"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Probe timestamp"`
}

// Type returns the event type identifier for DeviceDiscoveryEvent.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }
