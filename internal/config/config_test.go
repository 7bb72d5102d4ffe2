package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testOptions struct {
	Config     string
	Host       string `toml:"server.host" env:"HOST"`
	Port       int    `toml:"server.port" env:"PORT"`
	Debug      bool   `toml:"debug" env:"DEBUG"`
	ProbeLimit int    `toml:"probe.limit" env:"PROBE_LIMIT"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeFile(t, "camnode.toml", `
debug = true

[server]
host = "0.0.0.0"
port = 9000

[probe]
limit = 8
`)

	opts := testOptions{Config: path, Host: "127.0.0.1", Port: 8080}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if opts.Host != "0.0.0.0" {
		t.Errorf("host = %q, want 0.0.0.0", opts.Host)
	}
	if opts.Port != 9000 {
		t.Errorf("port = %d, want 9000", opts.Port)
	}
	if !opts.Debug {
		t.Error("debug should be true")
	}
	if opts.ProbeLimit != 8 {
		t.Errorf("probe limit = %d, want 8", opts.ProbeLimit)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	path := writeFile(t, "camnode.toml", `
[server]
port = 9000
`)
	t.Setenv("CAMNODE_PORT", "9100")
	t.Setenv("CAMNODE_DEBUG", "true")

	opts := testOptions{Config: path}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if opts.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", opts.Port)
	}
	if !opts.Debug {
		t.Error("debug should come from env")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := testOptions{Config: "/nonexistent/camnode.toml", Port: 8080}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if opts.Port != 8080 {
		t.Errorf("port = %d, want untouched default 8080", opts.Port)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeFile(t, "bad.toml", "this is not toml [[[")
	opts := testOptions{Config: path}
	if err := LoadConfig(&opts, nil); err == nil {
		t.Error("invalid TOML should error")
	}
}

func TestFlagName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Port", "port"},
		{"ProbeLimit", "probe-limit"},
		{"LoggingLevel", "logging-level"},
	}
	for _, tt := range tests {
		if got := flagName(tt.in); got != tt.want {
			t.Errorf("flagName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeFile(t, "camnode.toml", `
[logging]
level = "debug"
format = "json"
streams = "warn"
capture = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("level/format = %q/%q", cfg.Level, cfg.Format)
	}
	if cfg.Modules["streams"] != "warn" || cfg.Modules["capture"] != "error" {
		t.Errorf("modules = %v", cfg.Modules)
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg := LoadLoggingConfig("")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("defaults = %q/%q, want info/text", cfg.Level, cfg.Format)
	}
}

func TestCameraManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.toml")

	cm := NewCameraManager(path)
	if err := cm.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if err := cm.Set("front", CameraConfig{Device: "/dev/video0", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := cm.Set("rear", CameraConfig{Device: "/dev/video2", Enabled: false}); err != nil {
		t.Fatal(err)
	}
	if err := cm.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewCameraManager(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	aliases := loaded.Aliases()
	if aliases["front"] != "/dev/video0" {
		t.Errorf("front alias = %q", aliases["front"])
	}
	if _, ok := aliases["rear"]; ok {
		t.Error("disabled camera should be excluded from aliases")
	}
	ids := loaded.IDs()
	if len(ids) != 2 || ids[0] != "front" || ids[1] != "rear" {
		t.Errorf("ids = %v", ids)
	}
}

func TestCameraManagerValidation(t *testing.T) {
	cm := NewCameraManager("")
	if err := cm.Set("", CameraConfig{Device: "/dev/video0"}); err == nil {
		t.Error("empty id should be rejected")
	}
	if err := cm.Set("front", CameraConfig{}); err == nil {
		t.Error("empty device should be rejected")
	}
	if cm.Remove("ghost") {
		t.Error("removing unknown id should report false")
	}
}
