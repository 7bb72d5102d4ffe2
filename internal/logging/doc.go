// Package logging provides structured logging with per-module log
// level configuration.
//
// The package builds on log/slog and routes records to every output
// that is available at startup:
//   - systemd journal when journald is reachable
//   - a console writer (stdout by default, overridable via
//     Config.Console) when a terminal, pipe, or file is connected
//   - an in-memory ring buffer backing the log history endpoint
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"streams": "debug",
//			"api":     "warn",
//		},
//	})
//
// Then request a logger per module:
//
//	logger := logging.GetLogger("capture")
//	logger.Info("Camera started", "camera", id)
//
// Module levels can be changed at runtime through Initialize, which
// the config watcher calls again when the TOML file changes on disk.
//
// When running under systemd:
//
//	journalctl -t camnode -f
//	journalctl -t camnode MODULE=streams
package logging
