package capture

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/streams"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource returns copies of a solid-color frame on every read.
type fakeSource struct {
	frame  *camera.Frame
	closed bool
	mu     sync.Mutex
}

func (s *fakeSource) ReadFrame() (*camera.Frame, error) {
	time.Sleep(time.Millisecond)
	f := *s.frame
	return &f, nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fakeDriver simulates a machine with a fixed set of cameras.
type fakeDriver struct {
	available map[string]*camera.Frame
	lock      sync.Mutex
	opens     int
	sources   []*fakeSource
}

func newFakeDriver(ids ...string) *fakeDriver {
	available := make(map[string]*camera.Frame)
	for _, id := range ids {
		available[id] = solidFrame(40, 80, 120)
	}
	return &fakeDriver{available: available}
}

func (d *fakeDriver) Open(_ context.Context, id string) (camera.Source, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	frame, ok := d.available[id]
	if !ok {
		return nil, camera.NewError(camera.ErrCodeDeviceUnavailable, "cannot open camera "+id, nil)
	}
	d.opens++
	src := &fakeSource{frame: frame}
	d.sources = append(d.sources, src)
	return src, nil
}

func (d *fakeDriver) Info(_ context.Context, id string) (camera.Info, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, ok := d.available[id]; !ok {
		return camera.Info{}, camera.NewError(camera.ErrCodeDeviceUnavailable, "cannot open camera "+id, nil)
	}
	return camera.Info{ID: id, Width: 1280, Height: 720, FPS: 30}, nil
}

func solidFrame(r, g, b byte) *camera.Frame {
	data := make([]byte, 4*4*3)
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1], data[i+2] = r, g, b
	}
	return &camera.Frame{Data: data, Width: 4, Height: 4, Format: camera.FormatRGB24}
}

func newTestService(t *testing.T, driver camera.Driver) *Service {
	t.Helper()
	registry := streams.NewRegistry(&streams.Options{Driver: driver, Logger: testLogger()})
	t.Cleanup(registry.Close)
	return NewService(&Options{
		Driver:   driver,
		Registry: registry,
		Probe:    camera.NewProbe(driver, 5, testLogger()),
		EventBus: events.New(),
		Logger:   testLogger(),
	})
}

func TestListCameras(t *testing.T) {
	svc := newTestService(t, newFakeDriver("0", "2", "3"))

	got := svc.ListCameras(context.Background())
	want := []string{"0", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestGetCameraInfo(t *testing.T) {
	svc := newTestService(t, newFakeDriver("0"))

	info, err := svc.GetCameraInfo(context.Background(), "0")
	if err != nil {
		t.Fatalf("GetCameraInfo failed: %v", err)
	}
	if info.ID != "0" || info.Width != 1280 || info.Height != 720 || info.FPS != 30 {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := svc.GetCameraInfo(context.Background(), "9"); !camera.HasCode(err, camera.ErrCodeDeviceUnavailable) {
		t.Errorf("expected DEVICE_UNAVAILABLE, got %v", err)
	}
}

func TestStartStopScenario(t *testing.T) {
	svc := newTestService(t, newFakeDriver("0"))
	ctx := context.Background()

	start, err := svc.StartCamera(ctx, "0")
	if err != nil {
		t.Fatalf("StartCamera failed: %v", err)
	}
	if start.Message != "Camera 0 started." {
		t.Errorf("unexpected message %q", start.Message)
	}

	start, err = svc.StartCamera(ctx, "0")
	if err != nil {
		t.Fatalf("second StartCamera failed: %v", err)
	}
	if start.Message != "Camera 0 already running. Clients: 2" {
		t.Errorf("unexpected message %q", start.Message)
	}

	stop, err := svc.StopCamera(ctx, "0")
	if err != nil {
		t.Fatalf("StopCamera failed: %v", err)
	}
	if stop.Message != "Camera 0 still running. Clients: 1" {
		t.Errorf("unexpected message %q", stop.Message)
	}

	stop, err = svc.StopCamera(ctx, "0")
	if err != nil {
		t.Fatalf("final StopCamera failed: %v", err)
	}
	if stop.Message != "Camera 0 stopped." {
		t.Errorf("unexpected message %q", stop.Message)
	}

	_, err = svc.StopCamera(ctx, "0")
	if !camera.HasCode(err, camera.ErrCodeNotStreaming) {
		t.Fatalf("expected NOT_STREAMING, got %v", err)
	}
	var ce *camera.Error
	if !errors.As(err, &ce) || ce.Message != "Camera 0 is not active." {
		t.Errorf("unexpected error message %v", err)
	}
}

func TestCaptureImage(t *testing.T) {
	driver := newFakeDriver("0")
	svc := newTestService(t, driver)

	img, err := svc.CaptureImage(context.Background(), "0")
	if err != nil {
		t.Fatalf("CaptureImage failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("decoding PNG failed: %v", err)
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 40 || g>>8 != 80 || b>>8 != 120 {
		t.Errorf("expected (40,80,120), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	// One-shot capture must release its transient handle.
	driver.lock.Lock()
	defer driver.lock.Unlock()
	if len(driver.sources) != 1 || !driver.sources[0].closed {
		t.Error("expected transient source to be closed")
	}
}

func TestCaptureImageDeviceUnavailable(t *testing.T) {
	svc := newTestService(t, newFakeDriver())

	_, err := svc.CaptureImage(context.Background(), "0")
	if !camera.HasCode(err, camera.ErrCodeDeviceUnavailable) {
		t.Fatalf("expected DEVICE_UNAVAILABLE, got %v", err)
	}

	// A failed one-shot capture must not touch the registry.
	if active := svc.ActiveStreams(); len(active) != 0 {
		t.Errorf("expected no active streams, got %v", active)
	}
	if _, err := svc.StopCamera(context.Background(), "0"); !camera.HasCode(err, camera.ErrCodeNotStreaming) {
		t.Errorf("expected NOT_STREAMING, got %v", err)
	}
}

func TestCaptureFromStream(t *testing.T) {
	svc := newTestService(t, newFakeDriver("0"))
	ctx := context.Background()

	if _, err := svc.CaptureFromStream(ctx, "0"); !camera.HasCode(err, camera.ErrCodeNotStreaming) {
		t.Fatalf("expected NOT_STREAMING before start, got %v", err)
	}

	if _, err := svc.StartCamera(ctx, "0"); err != nil {
		t.Fatalf("StartCamera failed: %v", err)
	}
	defer svc.StopCamera(ctx, "0")

	// The worker needs a moment to store its first frame.
	deadline := time.Now().Add(time.Second)
	var img *bytesImage
	for time.Now().Before(deadline) {
		res, err := svc.CaptureFromStream(ctx, "0")
		if err == nil {
			img = &bytesImage{data: res.Data}
			break
		}
		if !camera.HasCode(err, camera.ErrCodeNoFrameYet) {
			t.Fatalf("unexpected error %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if img == nil {
		t.Fatal("no frame delivered before deadline")
	}

	decoded, err := png.Decode(bytes.NewReader(img.data))
	if err != nil {
		t.Fatalf("decoding PNG failed: %v", err)
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 40 || g>>8 != 80 || b>>8 != 120 {
		t.Errorf("expected (40,80,120), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

type bytesImage struct{ data []byte }
