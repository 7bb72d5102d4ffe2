package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/camnode/internal/api/models"
	"github.com/smazurov/camnode/internal/camera"
)

// registerCameraRoutes registers camera discovery, lifecycle, and
// capture endpoints.
func (s *Server) registerCameraRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cameras",
		Method:      http.MethodGet,
		Path:        "/api/cameras",
		Summary:     "List Cameras",
		Description: "Probe for available camera devices",
		Tags:        []string{"cameras"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CameraListResponse, error) {
		cameras := s.service.ListCameras(ctx)
		return &models.CameraListResponse{
			Body: models.CameraListData{
				Cameras: cameras,
				Count:   len(cameras),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera-info",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{camera_id}",
		Summary:     "Get Camera Info",
		Description: "Get a camera's reported resolution and frame rate",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"0" doc:"Camera identifier"`
	}) (*models.CameraInfoResponse, error) {
		info, err := s.service.GetCameraInfo(ctx, input.CameraID)
		if err != nil {
			return nil, s.mapCameraError(err)
		}
		return &models.CameraInfoResponse{
			Body: models.CameraInfoData{
				ID:     info.ID,
				Width:  info.Width,
				Height: info.Height,
				FPS:    info.FPS,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "start-camera",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/start",
		Summary:     "Start Camera",
		Description: "Register a client on the camera's shared stream, starting the background worker on first use",
		Tags:        []string{"streams"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"0" doc:"Camera identifier"`
	}) (*models.StreamOpResponse, error) {
		status, err := s.service.StartCamera(ctx, input.CameraID)
		if err != nil {
			return nil, s.mapCameraError(err)
		}
		return &models.StreamOpResponse{
			Body: models.StreamOpData{
				CameraID: input.CameraID,
				Message:  status.Message,
				Clients:  status.Clients,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-camera",
		Method:      http.MethodPost,
		Path:        "/api/cameras/{camera_id}/stop",
		Summary:     "Stop Camera",
		Description: "Drop a client from the camera's shared stream, stopping the worker when the last client leaves",
		Tags:        []string{"streams"},
		Errors:      []int{401, 404},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"0" doc:"Camera identifier"`
	}) (*models.StreamOpResponse, error) {
		status, err := s.service.StopCamera(ctx, input.CameraID)
		if err != nil {
			return nil, s.mapCameraError(err)
		}
		return &models.StreamOpResponse{
			Body: models.StreamOpData{
				CameraID: input.CameraID,
				Message:  status.Message,
				Clients:  status.Clients,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "capture-image",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{camera_id}/capture",
		Summary:     "Capture Image",
		Description: "Open the device exclusively, capture one frame, and return it as PNG",
		Tags:        []string{"capture"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"0" doc:"Camera identifier"`
	}) (*models.ImageResponse, error) {
		img, err := s.service.CaptureImage(ctx, input.CameraID)
		if err != nil {
			return nil, s.mapCameraError(err)
		}
		return &models.ImageResponse{
			ContentType: img.MIMEType,
			Body:        img.Data,
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "capture-from-stream",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{camera_id}/frame",
		Summary:     "Latest Frame",
		Description: "Return the most recent frame of an active stream as PNG, without touching the device",
		Tags:        []string{"capture"},
		Errors:      []int{401, 404, 409},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		CameraID string `path:"camera_id" example:"0" doc:"Camera identifier"`
	}) (*models.ImageResponse, error) {
		img, err := s.service.CaptureFromStream(ctx, input.CameraID)
		if err != nil {
			return nil, s.mapCameraError(err)
		}
		return &models.ImageResponse{
			ContentType: img.MIMEType,
			Body:        img.Data,
		}, nil
	})
}

// mapCameraError maps domain error codes to HTTP errors.
func (s *Server) mapCameraError(err error) error {
	var camErr *camera.Error
	if !errors.As(err, &camErr) {
		return huma.Error500InternalServerError("internal server error", err)
	}
	switch camErr.Code {
	case camera.ErrCodeDeviceUnavailable:
		return huma.Error404NotFound(camErr.Message, err)
	case camera.ErrCodeNotStreaming:
		return huma.Error404NotFound(camErr.Message, err)
	case camera.ErrCodeNoFrameYet:
		return huma.Error409Conflict(camErr.Message, err)
	case camera.ErrCodeCaptureFailed:
		return huma.Error500InternalServerError(camErr.Message, err)
	default:
		return huma.Error500InternalServerError("internal server error", err)
	}
}
