package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/metrics"
)

// registerStreamRoutes registers the active stream listing.
func (s *Server) registerStreamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-streams",
		Method:      http.MethodGet,
		Path:        "/api/streams",
		Summary:     "List Active Streams",
		Description: "Get all cameras with a running shared stream, including client counts",
		Tags:        []string{"streams"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.StreamListResponse, error) {
		active := s.service.ActiveStreams()
		sort.Strings(active)
		statuses := make([]models.StreamStatus, 0, len(active))
		for _, id := range active {
			status := models.StreamStatus{
				CameraID: id,
				State:    string(s.service.StreamState(id)),
				Clients:  s.service.StreamClients(id),
			}
			if m := metrics.GetStreamMetrics(id); m != nil {
				status.Frames = m.Frames
			}
			statuses = append(statuses, status)
		}
		return &models.StreamListResponse{
			Body: models.StreamListData{
				Streams: statuses,
				Count:   len(statuses),
			},
		}, nil
	})
}
