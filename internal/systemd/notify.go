// Package systemd integrates the daemon with the service manager via
// sd_notify. All functions are no-ops outside a systemd unit.
package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"
)

// NotifyReady tells systemd the daemon finished starting up. Returns
// false when not running under systemd with Type=notify.
func NotifyReady() bool {
	ok, _ := daemon.SdNotify(false, daemon.SdNotifyReady)
	return ok
}

// NotifyStopping tells systemd a shutdown has begun.
func NotifyStopping() bool {
	ok, _ := daemon.SdNotify(false, daemon.SdNotifyStopping)
	return ok
}

// NotifyStatus updates the human-readable status line shown by
// systemctl status.
func NotifyStatus(status string) bool {
	ok, _ := daemon.SdNotify(false, "STATUS="+status)
	return ok
}
