package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// CameraConfig pins a logical camera id to a device path, so tools can
// keep addressing "front" even when the kernel renumbers /dev/video*.
type CameraConfig struct {
	Device  string `toml:"device" json:"device"`
	Name    string `toml:"name,omitempty" json:"name,omitempty"`
	Enabled bool   `toml:"enabled" json:"enabled"`
}

// CamerasConfig is the complete cameras file.
type CamerasConfig struct {
	Version int                     `toml:"version" json:"version"`
	Cameras map[string]CameraConfig `toml:"cameras" json:"cameras"`
}

// CameraManager loads and persists the camera alias file. Safe for
// concurrent use; the API mutates aliases while the driver reads them.
type CameraManager struct {
	mu   sync.RWMutex
	path string
	cfg  *CamerasConfig
}

func NewCameraManager(path string) *CameraManager {
	if path == "" {
		path = "cameras.toml"
	}
	return &CameraManager{
		path: path,
		cfg: &CamerasConfig{
			Version: 1,
			Cameras: make(map[string]CameraConfig),
		},
	}
}

// Load reads the file from disk. A missing file leaves the manager
// empty, which is not an error.
func (cm *CameraManager) Load() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, err := os.Stat(cm.path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(cm.path)
	if err != nil {
		return fmt.Errorf("failed to read cameras config: %w", err)
	}
	if err := toml.Unmarshal(data, cm.cfg); err != nil {
		return fmt.Errorf("failed to parse cameras config: %w", err)
	}
	if cm.cfg.Cameras == nil {
		cm.cfg.Cameras = make(map[string]CameraConfig)
	}
	if cm.cfg.Version == 0 {
		cm.cfg.Version = 1
	}
	return nil
}

// Save writes the file back to disk, creating the directory if needed.
func (cm *CameraManager) Save() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(cm.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cm.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal cameras config: %w", err)
	}
	if err := os.WriteFile(cm.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cameras config: %w", err)
	}
	return nil
}

// Set adds or replaces an alias.
func (cm *CameraManager) Set(id string, camera CameraConfig) error {
	if id == "" {
		return fmt.Errorf("camera id cannot be empty")
	}
	if camera.Device == "" {
		return fmt.Errorf("camera %s needs a device path", id)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cfg.Cameras[id] = camera
	return nil
}

// Remove deletes an alias, reporting whether it existed.
func (cm *CameraManager) Remove(id string) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if _, ok := cm.cfg.Cameras[id]; !ok {
		return false
	}
	delete(cm.cfg.Cameras, id)
	return true
}

// Get returns one configured camera.
func (cm *CameraManager) Get(id string) (CameraConfig, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	c, ok := cm.cfg.Cameras[id]
	return c, ok
}

// All returns a copy of every configured camera.
func (cm *CameraManager) All() map[string]CameraConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make(map[string]CameraConfig, len(cm.cfg.Cameras))
	for id, c := range cm.cfg.Cameras {
		out[id] = c
	}
	return out
}

// Aliases returns the enabled id to device path mappings.
func (cm *CameraManager) Aliases() map[string]string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := make(map[string]string, len(cm.cfg.Cameras))
	for id, c := range cm.cfg.Cameras {
		if c.Enabled {
			out[id] = c.Device
		}
	}
	return out
}

// IDs returns all configured ids in sorted order.
func (cm *CameraManager) IDs() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	ids := make([]string, 0, len(cm.cfg.Cameras))
	for id := range cm.cfg.Cameras {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
