package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/camnode/cmd"
	"github.com/smazurov/camnode/internal/api"
	"github.com/smazurov/camnode/internal/camera"
	"github.com/smazurov/camnode/internal/capture"
	"github.com/smazurov/camnode/internal/config"
	"github.com/smazurov/camnode/internal/devices"
	"github.com/smazurov/camnode/internal/events"
	"github.com/smazurov/camnode/internal/logging"
	"github.com/smazurov/camnode/internal/metrics"
	"github.com/smazurov/camnode/internal/streams"
	"github.com/smazurov/camnode/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Camera settings
	CamerasConfigFile string `help:"Camera alias file" default:"cameras.toml" toml:"cameras.config_file" env:"CAMERAS_CONFIG_FILE"`
	FFmpegPath        string `help:"Path to the ffmpeg binary" default:"ffmpeg" toml:"cameras.ffmpeg_path" env:"FFMPEG_PATH"`
	ProbeLimit        int    `help:"Number of device indices probed during discovery" default:"5" toml:"cameras.probe_limit" env:"PROBE_LIMIT"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingStreams string `help:"Streams logging level" default:"info" toml:"logging.streams" env:"LOGGING_STREAMS"`
	LoggingDevices string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"streams": opts.LoggingStreams,
				"devices": opts.LoggingDevices,
				"capture": opts.LoggingCapture,
				"api":     opts.LoggingAPI,
			},
		})
		logger := logging.GetLogger("main")

		eventBus := events.New()
		recorder := metrics.NewRecorder(eventBus)

		// Camera aliases pin logical ids to device paths across
		// kernel renumbering.
		cameraManager := config.NewCameraManager(opts.CamerasConfigFile)
		if loadErr := cameraManager.Load(); loadErr != nil {
			logger.Warn("Failed to load cameras config", "error", loadErr)
		}

		driver := devices.New(&devices.Options{
			FFmpegPath: opts.FFmpegPath,
			Aliases:    cameraManager.Aliases(),
			Logger:     logging.GetLogger("devices"),
		})

		var registry *streams.Registry
		registry = streams.NewRegistry(&streams.Options{
			Driver: driver,
			Logger: logging.GetLogger("streams"),
			OnStateChange: func(id string, old, new streams.State, err error) {
				ev := events.StreamStateChangedEvent{
					CameraID:  id,
					OldState:  string(old),
					NewState:  string(new),
					Timestamp: events.Timestamp(),
				}
				if err != nil {
					ev.Error = err.Error()
				}
				eventBus.Publish(ev)
				metrics.SetActiveStreams(len(registry.Active()))
				metrics.SetStreamClients(id, registry.Clients(id))
			},
			OnFrame: metrics.IncStreamFrames,
		})

		service := capture.NewService(&capture.Options{
			Driver:   driver,
			Registry: registry,
			Probe:    camera.NewProbe(driver, opts.ProbeLimit, logging.GetLogger("devices")),
			EventBus: eventBus,
			Logger:   logging.GetLogger("capture"),
		})

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Service:           service,
			PrometheusHandler: metrics.HTTPHandler(),
			Cameras:           cameraManager,
			AliasesChanged:    driver.SetAliases,
		})

		// Re-apply logging levels when the config file changes.
		watcher := config.NewConfigWatcher(opts.Config, func(path string) (logging.Config, error) {
			return config.LoadLoggingConfig(path), nil
		}, logger)
		watcher.OnReload(func(cfg logging.Config) {
			logger.Info("Applying updated logging configuration")
			logging.Initialize(cfg)
		})

		hooks.OnStart(func() {
			if err := watcher.Start(); err != nil {
				logger.Warn("Config watcher not started", "error", err)
			}

			systemd.NotifyReady()
			systemd.NotifyStatus("Serving on " + opts.Port)

			logger.Info("Starting HTTP server", "port", opts.Port)
			if err := server.Start(opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			systemd.NotifyStopping()
			logger.Info("Shutting down server")
			if err := server.Stop(); err != nil {
				logger.Error("Error stopping HTTP server", "error", err)
			}

			// Stop all stream workers after the HTTP server stops
			// accepting requests.
			registry.Close()
			if err := watcher.Stop(); err != nil {
				logger.Warn("Error stopping config watcher", "error", err)
			}
			recorder.Close()
		})
	})

	cli.Root().AddCommand(cmd.CreateCaptureCmd())
	cli.Root().AddCommand(cmd.CreateMCPCmd())

	cli.Run()
}
