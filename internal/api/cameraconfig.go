package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/config"
)

// registerConfigRoutes registers the camera alias CRUD endpoints.
// Skipped entirely when no cameras file is configured.
func (s *Server) registerConfigRoutes() {
	if s.cameras == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "list-camera-aliases",
		Method:      http.MethodGet,
		Path:        "/api/config/cameras",
		Summary:     "List Camera Aliases",
		Description: "Get the configured camera id to device path mappings",
		Tags:        []string{"config"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.AliasListResponse, error) {
		ids := s.cameras.IDs()
		aliases := make([]models.CameraAlias, 0, len(ids))
		for _, id := range ids {
			c, ok := s.cameras.Get(id)
			if !ok {
				continue
			}
			aliases = append(aliases, aliasModel(id, c))
		}
		return &models.AliasListResponse{
			Body: models.AliasListData{
				Cameras: aliases,
				Count:   len(aliases),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-camera-alias",
		Method:      http.MethodPut,
		Path:        "/api/config/cameras/{camera_id}",
		Summary:     "Set Camera Alias",
		Description: "Create or replace a camera alias and persist the cameras file",
		Tags:        []string{"config"},
		Errors:      []int{400, 401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"front" doc:"Logical camera identifier"`
		Body     models.AliasUpdateBody
	}) (*models.AliasResponse, error) {
		cfg := config.CameraConfig{
			Device:  input.Body.Device,
			Name:    input.Body.Name,
			Enabled: input.Body.Enabled,
		}
		if err := s.cameras.Set(input.CameraID, cfg); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if err := s.saveAliases(); err != nil {
			return nil, err
		}
		s.logger.Info("Camera alias updated", "camera", input.CameraID, "device", cfg.Device)
		return &models.AliasResponse{Body: aliasModel(input.CameraID, cfg)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "remove-camera-alias",
		Method:      http.MethodDelete,
		Path:        "/api/config/cameras/{camera_id}",
		Summary:     "Remove Camera Alias",
		Description: "Delete a camera alias and persist the cameras file",
		Tags:        []string{"config"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"front" doc:"Logical camera identifier"`
	}) (*models.AliasListResponse, error) {
		if !s.cameras.Remove(input.CameraID) {
			return nil, huma.Error404NotFound("camera alias " + input.CameraID + " not found")
		}
		if err := s.saveAliases(); err != nil {
			return nil, err
		}
		s.logger.Info("Camera alias removed", "camera", input.CameraID)

		ids := s.cameras.IDs()
		aliases := make([]models.CameraAlias, 0, len(ids))
		for _, id := range ids {
			if c, ok := s.cameras.Get(id); ok {
				aliases = append(aliases, aliasModel(id, c))
			}
		}
		return &models.AliasListResponse{
			Body: models.AliasListData{
				Cameras: aliases,
				Count:   len(aliases),
			},
		}, nil
	})
}

// saveAliases persists the cameras file and pushes the new alias table
// to whoever resolves device paths.
func (s *Server) saveAliases() error {
	if err := s.cameras.Save(); err != nil {
		s.logger.Error("Failed to save cameras config", "error", err)
		return huma.Error500InternalServerError("failed to save cameras config")
	}
	if s.aliasesChanged != nil {
		s.aliasesChanged(s.cameras.Aliases())
	}
	return nil
}

func aliasModel(id string, c config.CameraConfig) models.CameraAlias {
	return models.CameraAlias{
		CameraID: id,
		Device:   c.Device,
		Name:     c.Name,
		Enabled:  c.Enabled,
	}
}
