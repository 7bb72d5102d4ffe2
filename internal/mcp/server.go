// Package mcp exposes the camera service as Model Context Protocol
// tools over stdio, so LLM agents can drive cameras directly.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/version"
)

// Server wraps an MCP stdio server around the capture service.
type Server struct {
	mcpServer *server.MCPServer
	service   *capture.Service
	logger    *slog.Logger
}

// NewServer registers the camera tools on a fresh MCP server.
func NewServer(service *capture.Service) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"camera-server",
			version.String(),
			server.WithToolCapabilities(false),
		),
		service: service,
		logger:  logging.GetLogger("mcp"),
	}
	s.registerTools()
	return s
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("Starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_cameras",
		mcp.WithDescription("List available camera identifiers"),
	), s.handleListCameras)

	s.mcpServer.AddTool(mcp.NewTool("get_camera_info",
		mcp.WithDescription("Get a camera's resolution and frame rate"),
		mcp.WithString("camera_id",
			mcp.Required(),
			mcp.Description("Camera identifier, e.g. \"0\""),
		),
	), s.handleGetCameraInfo)

	s.mcpServer.AddTool(mcp.NewTool("start_camera",
		mcp.WithDescription("Start or join the camera's shared stream"),
		mcp.WithString("camera_id",
			mcp.Required(),
			mcp.Description("Camera identifier, e.g. \"0\""),
		),
	), s.handleStartCamera)

	s.mcpServer.AddTool(mcp.NewTool("stop_camera",
		mcp.WithDescription("Leave the camera's shared stream, stopping it when no clients remain"),
		mcp.WithString("camera_id",
			mcp.Required(),
			mcp.Description("Camera identifier, e.g. \"0\""),
		),
	), s.handleStopCamera)

	s.mcpServer.AddTool(mcp.NewTool("capture_image",
		mcp.WithDescription("Capture a single still image from a camera. Fails while the camera is streaming; use capture_from_stream instead."),
		mcp.WithString("camera_id",
			mcp.Required(),
			mcp.Description("Camera identifier, e.g. \"0\""),
		),
	), s.handleCaptureImage)

	s.mcpServer.AddTool(mcp.NewTool("capture_from_stream",
		mcp.WithDescription("Grab the most recent frame from a camera's running stream"),
		mcp.WithString("camera_id",
			mcp.Required(),
			mcp.Description("Camera identifier, e.g. \"0\""),
		),
	), s.handleCaptureFromStream)
}

func (s *Server) handleListCameras(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cameras := s.service.ListCameras(ctx)
	data, err := json.Marshal(cameras)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetCameraInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("camera_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.service.GetCameraInfo(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.Marshal(info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStartCamera(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("camera_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := s.service.StartCamera(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(status.Message), nil
}

func (s *Server) handleStopCamera(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("camera_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := s.service.StopCamera(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(status.Message), nil
}

func (s *Server) handleCaptureImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("camera_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := s.service.CaptureImage(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded := base64.StdEncoding.EncodeToString(img.Data)
	return mcp.NewToolResultImage("Captured image from camera "+id, encoded, img.MIMEType), nil
}

func (s *Server) handleCaptureFromStream(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("camera_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := s.service.CaptureFromStream(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded := base64.StdEncoding.EncodeToString(img.Data)
	return mcp.NewToolResultImage("Latest frame from camera "+id, encoded, img.MIMEType), nil
}
