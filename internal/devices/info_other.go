//go:build !linux

package devices

import (
	"fmt"

	"github.com/smazurov/camnode/internal/camera"
)

func deviceInfo(id, devicePath string) (camera.Info, error) {
	return camera.Info{}, camera.NewError(camera.ErrCodeDeviceUnavailable,
		fmt.Sprintf("camera metadata for %s requires V4L2 support", id), nil)
}
