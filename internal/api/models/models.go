// Package models defines the HTTP API request and response bodies.
package models

import "github.com/smazurov/camnode/internal/logging"

// HealthData reports API liveness.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Health status"`
	Message string `json:"message" example:"API is healthy" doc:"Status detail"`
}

// HealthResponse is the health check envelope.
type HealthResponse struct {
	Body HealthData
}

// VersionData carries build metadata.
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go version used"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

// VersionResponse is the version envelope.
type VersionResponse struct {
	Body VersionData
}

// CameraListData enumerates the cameras that answered the probe.
type CameraListData struct {
	Cameras []string `json:"cameras" example:"[\"0\",\"1\"]" doc:"Available camera identifiers"`
	Count   int      `json:"count" example:"2" doc:"Number of cameras found"`
}

// CameraListResponse is the camera list envelope.
type CameraListResponse struct {
	Body CameraListData
}

// CameraInfoData reports a camera's current capture configuration.
type CameraInfoData struct {
	ID     string  `json:"id" example:"0" doc:"Camera identifier"`
	Width  int     `json:"width" example:"1920" doc:"Frame width in pixels"`
	Height int     `json:"height" example:"1080" doc:"Frame height in pixels"`
	FPS    float64 `json:"fps" example:"30" doc:"Frames per second"`
}

// CameraInfoResponse is the camera info envelope.
type CameraInfoResponse struct {
	Body CameraInfoData
}

// StreamOpData is the result of a start or stop call.
type StreamOpData struct {
	CameraID string `json:"camera_id" example:"0" doc:"Camera identifier"`
	Message  string `json:"message" example:"Camera 0 started." doc:"Human-readable status"`
	Clients  int    `json:"clients" example:"1" doc:"Reference count after the call"`
}

// StreamOpResponse is the start/stop envelope.
type StreamOpResponse struct {
	Body StreamOpData
}

// StreamStatus is one active stream in the stream list.
type StreamStatus struct {
	CameraID string `json:"camera_id" example:"0" doc:"Camera identifier"`
	State    string `json:"state" example:"running" doc:"Worker state"`
	Clients  int    `json:"clients" example:"2" doc:"Reference count"`
	Frames   uint64 `json:"frames" example:"1520" doc:"Frames read so far"`
}

// StreamListData enumerates active streams.
type StreamListData struct {
	Streams []StreamStatus `json:"streams" doc:"Active streams"`
	Count   int            `json:"count" example:"1" doc:"Number of active streams"`
}

// StreamListResponse is the stream list envelope.
type StreamListResponse struct {
	Body StreamListData
}

// LogListData returns the recent log history.
type LogListData struct {
	Logs  []logging.LogEntry `json:"logs" doc:"Recent log entries, oldest first"`
	Count int                `json:"count" example:"120" doc:"Number of entries"`
}

// LogListResponse is the log history envelope.
type LogListResponse struct {
	Body LogListData
}

// ImageResponse returns an encoded still image.
type ImageResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// CameraAlias is one configured id to device path mapping.
type CameraAlias struct {
	CameraID string `json:"camera_id" example:"front" doc:"Logical camera identifier"`
	Device   string `json:"device" example:"/dev/video0" doc:"Device path"`
	Name     string `json:"name,omitempty" example:"Front door" doc:"Display name"`
	Enabled  bool   `json:"enabled" example:"true" doc:"Whether the alias resolves"`
}

// AliasListData enumerates the configured camera aliases.
type AliasListData struct {
	Cameras []CameraAlias `json:"cameras" doc:"Configured aliases, sorted by id"`
	Count   int           `json:"count" example:"1" doc:"Number of aliases"`
}

// AliasListResponse is the alias list envelope.
type AliasListResponse struct {
	Body AliasListData
}

// AliasUpdateBody is the request body for creating or replacing an alias.
type AliasUpdateBody struct {
	Device  string `json:"device" example:"/dev/video0" doc:"Device path" minLength:"1"`
	Name    string `json:"name,omitempty" example:"Front door" doc:"Display name"`
	Enabled bool   `json:"enabled,omitempty" default:"true" doc:"Whether the alias resolves"`
}

// AliasResponse is the single-alias envelope.
type AliasResponse struct {
	Body CameraAlias
}
