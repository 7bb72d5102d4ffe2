// Package metrics provides Prometheus metrics for stream workers and
// capture operations.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "streams",
		Name:      "active",
		Help:      "Number of cameras with a running background worker",
	})

	streamClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "streams",
		Name:      "clients",
		Help:      "Reference count per streaming camera",
	}, []string{"camera"})

	streamFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "streams",
		Name:      "frames_total",
		Help:      "Frames read from each camera by its worker",
	}, []string{"camera"})

	// Local cache for API status access.
	streamCache   = make(map[string]*StreamMetrics)
	streamCacheMu sync.RWMutex
)

// StreamMetrics holds current per-camera values.
type StreamMetrics struct {
	Clients int
	Frames  uint64
}

// SetActiveStreams sets the running-worker gauge.
func SetActiveStreams(n int) {
	activeStreams.Set(float64(n))
}

// SetStreamClients sets the reference count for a camera.
func SetStreamClients(camera string, clients int) {
	streamClients.WithLabelValues(camera).Set(float64(clients))
	updateStream(camera, func(m *StreamMetrics) { m.Clients = clients })
}

// IncStreamFrames counts one frame read from a camera.
func IncStreamFrames(camera string) {
	streamFrames.WithLabelValues(camera).Inc()
	updateStream(camera, func(m *StreamMetrics) { m.Frames++ })
}

// DeleteStreamMetrics drops all per-camera series after teardown.
func DeleteStreamMetrics(camera string) {
	streamClients.DeleteLabelValues(camera)
	streamFrames.DeleteLabelValues(camera)

	streamCacheMu.Lock()
	delete(streamCache, camera)
	streamCacheMu.Unlock()
}

// GetStreamMetrics returns current values for a camera, or nil.
func GetStreamMetrics(camera string) *StreamMetrics {
	streamCacheMu.RLock()
	defer streamCacheMu.RUnlock()
	if m, ok := streamCache[camera]; ok {
		dup := *m
		return &dup
	}
	return nil
}

// GetAllStreamMetrics returns values for every tracked camera.
func GetAllStreamMetrics() map[string]*StreamMetrics {
	streamCacheMu.RLock()
	defer streamCacheMu.RUnlock()
	out := make(map[string]*StreamMetrics, len(streamCache))
	for camera, m := range streamCache {
		dup := *m
		out[camera] = &dup
	}
	return out
}

func updateStream(camera string, update func(*StreamMetrics)) {
	streamCacheMu.Lock()
	defer streamCacheMu.Unlock()
	m, ok := streamCache[camera]
	if !ok {
		m = &StreamMetrics{}
		streamCache[camera] = m
	}
	update(m)
}
