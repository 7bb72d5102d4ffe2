package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/streams"
)

// CreateCaptureCmd creates the capture command, a one-shot still
// capture to a file without running any server.
func CreateCaptureCmd() *cobra.Command {
	var output string
	var ffmpegPath string
	var timeout time.Duration
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "capture [camera-id]",
		Short: "Capture a single image from a camera",
		Long: `Opens the camera exclusively, captures one frame, writes it as PNG ` +
			`to the output file, and releases the device.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cameraID := args[0]

			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("capture").With("camera", cameraID)

			driver := devices.New(&devices.Options{
				FFmpegPath: ffmpegPath,
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
				Probe:    camera.NewProbe(driver, camera.DefaultProbeLimit, logger),
				Logger:   logger,
			})

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			img, err := service.CaptureImage(ctx, cameraID)
			if err != nil {
				logger.Error("Capture failed", "error", err)
				os.Exit(1)
			}
			if err := os.WriteFile(output, img.Data, 0644); err != nil {
				logger.Error("Failed to write output file", "path", output, "error", err)
				os.Exit(1)
			}

			fmt.Printf("Captured %s (%d bytes)\n", output, len(img.Data))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "capture.png", "Output file path")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Capture timeout")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}
