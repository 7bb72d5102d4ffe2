package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var capturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "camnode",
	Subsystem: "capture",
	Name:      "total",
	Help:      "Capture attempts by camera and result",
}, []string{"camera", "result"})

// IncCapture counts one capture attempt.
func IncCapture(camera string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	capturesTotal.WithLabelValues(camera, result).Inc()
}
