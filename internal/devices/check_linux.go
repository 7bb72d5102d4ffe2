//go:build linux

package devices

import "github.com/smazurov/camnode/pkg/v4l2"

func checkDevice(devicePath string) error {
	return v4l2.CheckDevice(devicePath)
}
