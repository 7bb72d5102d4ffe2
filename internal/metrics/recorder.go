package metrics

import (
	"github.com/smazurov/camnode/internal/events"
)

// Recorder feeds Prometheus metrics from bus events, keeping the
// capture service and registry free of metrics imports.
type Recorder struct {
	unsubs []func()
}

// NewRecorder subscribes to capture and stream lifecycle events.
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(func(e events.CaptureSuccessEvent) {
			IncCapture(e.CameraID, true)
		}),
		bus.Subscribe(func(e events.CaptureErrorEvent) {
			IncCapture(e.CameraID, false)
		}),
		bus.Subscribe(func(e events.StreamStateChangedEvent) {
			if e.NewState == "stopped" {
				DeleteStreamMetrics(e.CameraID)
			}
		}),
	)
	return r
}

// Close removes the bus subscriptions.
func (r *Recorder) Close() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
