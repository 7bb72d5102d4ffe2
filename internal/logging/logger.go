package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const historySize = 1000

// Config controls output format and log levels. Modules maps a module
// name to a level string overriding the global level for that module.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`

	// Console overrides where the text or json handler writes. Nil
	// means stdout. Commands whose stdout carries protocol traffic
	// set this to stderr.
	Console io.Writer `toml:"-"`
}

var (
	mu          sync.RWMutex
	cfg         Config
	initialized bool
	loggers     = make(map[string]*slog.Logger)
	levelVars   = make(map[string]*slog.LevelVar)
	history     *RingBuffer
)

// Initialize applies the configuration and rebuilds existing module
// loggers. Safe to call again at runtime to change levels or format.
func Initialize(config Config) {
	mu.Lock()
	defer mu.Unlock()

	cfg = config
	if !initialized {
		history = NewRingBuffer(historySize)
		initialized = true
	}

	for module, lv := range levelVars {
		lv.Set(moduleLevel(config, module))
		loggers[module] = slog.New(newHandler(config, lv)).With("module", module)
	}

	root := &slog.LevelVar{}
	root.Set(moduleLevel(config, ""))
	slog.SetDefault(slog.New(newHandler(config, root)))
}

// GetLogger returns the logger for a module, creating it on first use.
// Loggers created before Initialize default to info level on stdout.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if l, ok := loggers[module]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[module]; ok {
		return l
	}

	lv := &slog.LevelVar{}
	lv.Set(moduleLevel(cfg, module))

	c := cfg
	if !initialized {
		c.Format = "text"
	}
	l := slog.New(newHandler(c, lv)).With("module", module)
	loggers[module] = l
	levelVars[module] = lv
	return l
}

// History returns the ring buffer of recent log entries, or nil before
// Initialize has run.
func History() *RingBuffer {
	mu.RLock()
	defer mu.RUnlock()
	return history
}

func moduleLevel(config Config, module string) slog.Level {
	level := slog.LevelInfo
	if l, ok := parseLevel(config.Level); ok {
		level = l
	}
	if module != "" {
		if s, ok := config.Modules[module]; ok {
			if l, ok := parseLevel(s); ok {
				level = l
			}
		}
	}
	return level
}

// newHandler builds the output chain for one logger. Outputs that are
// unavailable on this system are skipped.
func newHandler(config Config, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	console := config.Console
	if console == nil {
		console = os.Stdout
	}
	var consoleHandler slog.Handler
	if config.Format == "json" {
		consoleHandler = slog.NewJSONHandler(console, opts)
	} else {
		consoleHandler = slog.NewTextHandler(console, opts)
	}

	var handlers []slog.Handler
	if consoleUsable(console) {
		handlers = append(handlers, consoleHandler)
	}
	if journalAvailable() {
		handlers = append(handlers, newJournalHandler(level))
	}
	handlers = append(handlers, newBufferHandler(level))

	switch len(handlers) {
	case 1:
		return handlers[0]
	default:
		return newMultiHandler(handlers...)
	}
}

// consoleUsable reports whether the console writer points somewhere
// worth writing: a terminal, pipe, socket, or regular file. /dev/null
// fails the test. Non-file writers are always usable.
func consoleUsable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&os.ModeCharDevice != 0 || mode&os.ModeNamedPipe != 0 ||
		mode&os.ModeSocket != 0 || mode.IsRegular()
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
