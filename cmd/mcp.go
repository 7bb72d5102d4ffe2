package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/config"
	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/mcp"
	"github.com/smazurov/camnode/internal/streams"
)

// CreateMCPCmd creates the mcp command, which serves the camera tools
// over stdio instead of HTTP.
func CreateMCPCmd() *cobra.Command {
	var camerasFile string
	var ffmpegPath string
	var probeLimit int
	var logLevel string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP camera server on stdio",
		Long: `Serves the camera tools over the Model Context Protocol on standard ` +
			`input and output. Logs go to stderr and the journal; stdout ` +
			`carries only protocol traffic.`,
		Run: func(_ *cobra.Command, _ []string) {
			// stdout belongs to the protocol, so the text handler
			// writes to stderr. The journal handler is unaffected.
			logging.Initialize(logging.Config{
				Level:   logLevel,
				Format:  "text",
				Console: os.Stderr,
			})
			logger := logging.GetLogger("mcp")

			aliases := map[string]string{}
			if camerasFile != "" {
				manager := config.NewCameraManager(camerasFile)
				if err := manager.Load(); err != nil {
					logger.Warn("Failed to load cameras config", "error", err)
				} else {
					aliases = manager.Aliases()
				}
			}

			driver := devices.New(&devices.Options{
				FFmpegPath: ffmpegPath,
				Aliases:    aliases,
				Logger:     logging.GetLogger("devices"),
			})
			registry := streams.NewRegistry(&streams.Options{
				Driver: driver,
				Logger: logging.GetLogger("streams"),
			})
			defer registry.Close()

			service := capture.NewService(&capture.Options{
				Driver:   driver,
				Registry: registry,
				Probe:    camera.NewProbe(driver, probeLimit, logging.GetLogger("devices")),
				EventBus: events.New(),
				Logger:   logging.GetLogger("capture"),
			})

			if err := mcp.NewServer(service).Serve(); err != nil {
				logger.Error("MCP server failed", "error", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&camerasFile, "cameras", "", "Camera alias file (cameras.toml)")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	cmd.Flags().IntVar(&probeLimit, "probe-limit", camera.DefaultProbeLimit, "Number of device indices probed by list_cameras")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}
