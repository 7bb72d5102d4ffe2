//go:build linux

package devices

import (
	"fmt"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/pkg/v4l2"
)

func deviceInfo(id, devicePath string) (camera.Info, error) {
	cap, err := v4l2.QueryCapability(devicePath)
	if err != nil {
		return camera.Info{}, camera.NewError(camera.ErrCodeDeviceUnavailable,
			fmt.Sprintf("cannot query camera %s", id), err)
	}
	return camera.Info{
		ID:     id,
		Width:  int(cap.Width),
		Height: int(cap.Height),
		FPS:    cap.FPS,
	}, nil
}
