package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/streams"
)

type fakeSource struct {
	frame camera.Frame
}

func (f *fakeSource) ReadFrame() (*camera.Frame, error) {
	time.Sleep(time.Millisecond)
	frame := f.frame
	frame.Captured = time.Now()
	return &frame, nil
}

func (f *fakeSource) Close() error { return nil }

type fakeDriver struct {
	available map[string]bool
}

func (d *fakeDriver) Open(_ context.Context, id string) (camera.Source, error) {
	if !d.available[id] {
		return nil, camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), nil)
	}
	data := make([]byte, 4*4*3)
	for i := range data {
		data[i] = 200
	}
	return &fakeSource{frame: camera.Frame{Data: data, Width: 4, Height: 4, Format: camera.FormatRGB24}}, nil
}

func (d *fakeDriver) Info(_ context.Context, id string) (camera.Info, error) {
	if !d.available[id] {
		return camera.Info{}, camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot open camera %s", id), nil)
	}
	return camera.Info{ID: id, Width: 1280, Height: 720, FPS: 25}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	driver := &fakeDriver{available: map[string]bool{"0": true}}
	registry := streams.NewRegistry(&streams.Options{
		Driver: driver,
		Logger: slog.New(slog.DiscardHandler),
	})
	t.Cleanup(registry.Close)

	service := capture.NewService(&capture.Options{
		Driver:   driver,
		Registry: registry,
		Probe:    camera.NewProbe(driver, 5, slog.New(slog.DiscardHandler)),
		Logger:   slog.New(slog.DiscardHandler),
	})
	return NewServer(service)
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestListCamerasTool(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListCameras(context.Background(), callReq("list_cameras", nil))
	if err != nil {
		t.Fatal(err)
	}
	var cameras []string
	if err := json.Unmarshal([]byte(textContent(t, result)), &cameras); err != nil {
		t.Fatal(err)
	}
	if len(cameras) != 1 || cameras[0] != "0" {
		t.Errorf("cameras = %v", cameras)
	}
}

func TestGetCameraInfoTool(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetCameraInfo(context.Background(),
		callReq("get_camera_info", map[string]any{"camera_id": "0"}))
	if err != nil {
		t.Fatal(err)
	}
	var info struct {
		Width  int     `json:"width"`
		Height int     `json:"height"`
		FPS    float64 `json:"fps"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &info); err != nil {
		t.Fatal(err)
	}
	if info.Width != 1280 || info.Height != 720 || info.FPS != 25 {
		t.Errorf("info = %+v", info)
	}
}

func TestGetCameraInfoMissingArgument(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGetCameraInfo(context.Background(),
		callReq("get_camera_info", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("missing camera_id should produce a tool error")
	}
}

func TestStartStopTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleStartCamera(ctx, callReq("start_camera", map[string]any{"camera_id": "0"}))
	if err != nil {
		t.Fatal(err)
	}
	if msg := textContent(t, result); msg != "Camera 0 started." {
		t.Errorf("start message = %q", msg)
	}

	result, _ = s.handleStartCamera(ctx, callReq("start_camera", map[string]any{"camera_id": "0"}))
	if msg := textContent(t, result); msg != "Camera 0 already running. Clients: 2" {
		t.Errorf("second start message = %q", msg)
	}

	result, _ = s.handleStopCamera(ctx, callReq("stop_camera", map[string]any{"camera_id": "0"}))
	if msg := textContent(t, result); msg != "Camera 0 still running. Clients: 1" {
		t.Errorf("first stop message = %q", msg)
	}

	result, _ = s.handleStopCamera(ctx, callReq("stop_camera", map[string]any{"camera_id": "0"}))
	if msg := textContent(t, result); msg != "Camera 0 stopped." {
		t.Errorf("final stop message = %q", msg)
	}

	result, _ = s.handleStopCamera(ctx, callReq("stop_camera", map[string]any{"camera_id": "0"}))
	if !result.IsError {
		t.Error("stop of inactive camera should produce a tool error")
	}
	if msg := textContent(t, result); !strings.Contains(msg, "Camera 0 is not active.") {
		t.Errorf("inactive stop message = %q", msg)
	}
}

func TestCaptureImageTool(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleCaptureImage(context.Background(),
		callReq("capture_image", map[string]any{"camera_id": "0"}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("capture failed: %v", result.Content)
	}

	var img *mcp.ImageContent
	for _, c := range result.Content {
		if ic, ok := c.(mcp.ImageContent); ok {
			img = &ic
			break
		}
	}
	if img == nil {
		t.Fatal("no image content in result")
	}
	if img.MIMEType != "image/png" {
		t.Errorf("mime type = %q", img.MIMEType)
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		t.Fatalf("image data is not valid base64: %v", err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if len(data) < 4 || string(data[:4]) != string(pngMagic) {
		t.Error("image data is not PNG")
	}
}

func TestCaptureFromStreamTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, _ := s.handleCaptureFromStream(ctx,
		callReq("capture_from_stream", map[string]any{"camera_id": "0"}))
	if !result.IsError {
		t.Error("capture_from_stream without a stream should produce a tool error")
	}

	if _, err := s.handleStartCamera(ctx, callReq("start_camera", map[string]any{"camera_id": "0"})); err != nil {
		t.Fatal(err)
	}
	defer s.handleStopCamera(ctx, callReq("stop_camera", map[string]any{"camera_id": "0"}))

	deadline := time.After(2 * time.Second)
	for {
		result, err := s.handleCaptureFromStream(ctx,
			callReq("capture_from_stream", map[string]any{"camera_id": "0"}))
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsError {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("frame never became available: %v", result.Content)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
