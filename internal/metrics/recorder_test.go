package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smazurov/camnode/internal/events"
)

func TestRecorderCountsCaptures(t *testing.T) {
	bus := events.New()
	rec := NewRecorder(bus)
	defer rec.Close()

	camera := "recorder-test-0"
	before := testutil.ToFloat64(capturesTotal.WithLabelValues(camera, "success"))

	bus.Publish(events.CaptureSuccessEvent{CameraID: camera, Source: "oneshot"})

	deadline := time.After(2 * time.Second)
	for testutil.ToFloat64(capturesTotal.WithLabelValues(camera, "success")) == before {
		select {
		case <-deadline:
			t.Fatal("capture event not recorded")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestRecorderDropsSeriesOnStop(t *testing.T) {
	bus := events.New()
	rec := NewRecorder(bus)
	defer rec.Close()

	camera := "recorder-test-1"
	SetStreamClients(camera, 1)

	bus.Publish(events.StreamStateChangedEvent{
		CameraID: camera,
		OldState: "stopping",
		NewState: "stopped",
	})

	deadline := time.After(2 * time.Second)
	for GetStreamMetrics(camera) != nil {
		select {
		case <-deadline:
			t.Fatal("stream series not dropped after stop event")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
