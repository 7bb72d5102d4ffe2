package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns the Prometheus exposition handler. Everything
// registered through promauto is collected automatically.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
