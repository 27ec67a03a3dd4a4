// Package config loads bibsplit configuration from defaults, a YAML file and
// BIBSPLIT_* environment variables, and reloads it when the file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes environment overrides, e.g. BIBSPLIT_SPLIT_GAP_TOLERANCE.
const EnvPrefix = "BIBSPLIT"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// With an empty cfgFile, ./config.yaml and then searchDirs are tried; a
// missing file is not an error.
func NewManager(cfgFile string, searchDirs ...string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile, searchDirs); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string, searchDirs []string) error {
	for key, value := range defaultValues() {
		cm.v.SetDefault(key, value)
	}

	// Environment variables with BIBSPLIT_ prefix
	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		for _, dir := range searchDirs {
			cm.v.AddConfigPath(dir)
		}
	}

	// Try to read config file (not required)
	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses and validates the current viper state.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// File returns the config file in use, or "" when running on defaults.
func (cm *Manager) File() string {
	return cm.v.ConfigFileUsed()
}

// Set overrides a key for the lifetime of the manager, as command-line
// flags do, and reloads the configuration.
func (cm *Manager) Set(key string, value any) error {
	cm.v.Set(key, value)
	cfg, err := cm.load()
	if err != nil {
		return err
	}
	cm.mu.Lock()
	cm.config = cfg
	cm.mu.Unlock()
	return nil
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. A reload that fails
// to parse or validate keeps the previous configuration; onError, if set,
// receives the failure.
func (cm *Manager) WatchConfig(onError func(error)) {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# bibsplit configuration
# Every key can be overridden from the environment, e.g.
#   export BIBSPLIT_SPLIT_GAP_TOLERANCE=20 BIBSPLIT_LOG_LEVEL=debug

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
