package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/logging"
)

// registerLogRoutes registers the log history endpoint.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Log History",
		Description: "Return the most recent log entries from the in-memory buffer",
		Tags:        []string{"logs"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Level string `query:"level" enum:"debug,info,warn,error" required:"false" doc:"Only return entries at this level"`
	}) (*models.LogListResponse, error) {
		var entries []logging.LogEntry
		if buffer := logging.History(); buffer != nil {
			for _, entry := range buffer.ReadAll() {
				if input.Level != "" && entry.Level != input.Level {
					continue
				}
				entries = append(entries, entry)
			}
		}
		return &models.LogListResponse{
			Body: models.LogListData{
				Logs:  entries,
				Count: len(entries),
			},
		}, nil
	})
}
