// Package config loads daemon and CLI settings via viper, generalized
// from the teacher's ConfigManager (internal/config/config.go) from a
// multiplexer-backend-selection shape to the daemon's own settings:
// socket path, logging, health probe interval, activity log rotation, and
// default session geometry.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds every daemon-relevant setting.
type Config struct {
	// SocketPath is where the daemon binds its Unix socket. Overridable
	// at runtime by LOOM_SOCKET_PATH (spec.md), which always wins over
	// this value.
	SocketPath string `mapstructure:"socket_path" yaml:"socket_path"`

	// MultiplexerPath overrides binary discovery (PATH + common install
	// locations) with an explicit tmux binary location.
	MultiplexerPath string `mapstructure:"multiplexer_path" yaml:"multiplexer_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFile is the structured JSON log destination.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// LogMaxSizeMB is the log rotation threshold; 0 disables rotation.
	LogMaxSizeMB int64 `mapstructure:"log_max_size_mb" yaml:"log_max_size_mb"`

	// HealthMonitorIntervalSeconds enables the background tmux health
	// probe when > 0. Overridable by LOOM_TMUX_HEALTH_MONITOR.
	HealthMonitorIntervalSeconds int `mapstructure:"health_monitor_interval_seconds" yaml:"health_monitor_interval_seconds"`

	// Activity log configuration.
	Activity ActivityConfig `mapstructure:"activity" yaml:"activity"`

	// Session holds default geometry for newly created sessions.
	Session SessionConfig `mapstructure:"session" yaml:"session"`
}

// ActivityConfig controls the append-only JSONL activity log.
type ActivityConfig struct {
	// Enabled turns the activity writer on at daemon startup.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path is the JSONL log file location.
	Path string `mapstructure:"path" yaml:"path"`

	// MaxSizeMB is the rotation threshold; 0 disables rotation.
	MaxSizeMB int64 `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxFiles bounds how many numbered backups are kept.
	MaxFiles int `mapstructure:"max_files" yaml:"max_files"`
}

// SessionConfig holds the default geometry new sessions are spawned with.
type SessionConfig struct {
	DefaultCols int `mapstructure:"default_cols" yaml:"default_cols"`
	DefaultRows int `mapstructure:"default_rows" yaml:"default_rows"`
}

// DefaultConfig returns sensible defaults, matching original_source's
// standard 80x24 geometry and a disabled health monitor / activity log.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "loom")

	return &Config{
		SocketPath:                   filepath.Join(homeDir, ".loom", "daemon.sock"),
		MultiplexerPath:               "",
		LogLevel:                     "info",
		LogFile:                      filepath.Join(configDir, "loomd.log"),
		LogMaxSizeMB:                 10,
		HealthMonitorIntervalSeconds: 0,
		Activity: ActivityConfig{
			Enabled:   false,
			Path:      filepath.Join(configDir, "activity.jsonl"),
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
		Session: SessionConfig{
			DefaultCols: 80,
			DefaultRows: 24,
		},
	}
}

// Manager loads and saves Config via viper, the same load/create-default
// flow as the teacher's ConfigManager.
type Manager struct {
	configFile string
	config     *Config
}

// NewManager builds a Manager. An empty configFile means "use the default
// location under ~/.config/loom".
func NewManager(configFile string) *Manager {
	return &Manager{configFile: configFile, config: DefaultConfig()}
}

// Load reads configuration from file, creating a default one if none
// exists, and falls back to in-memory defaults if the filesystem is
// read-only.
func (m *Manager) Load() (*Config, error) {
	viper.SetConfigType("yaml")

	if m.configFile != "" {
		if err := os.MkdirAll(filepath.Dir(m.configFile), 0755); err != nil {
			return nil, fmt.Errorf("config: create config directory: %w", err)
		}
		viper.SetConfigFile(m.configFile)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: home directory: %w", err)
		}
		loomConfigDir := filepath.Join(homeDir, ".config", "loom")
		if err := os.MkdirAll(loomConfigDir, 0755); err != nil {
			return nil, fmt.Errorf("config: create config directory: %w", err)
		}
		viper.AddConfigPath(loomConfigDir)
		viper.SetConfigName("loom")
	}

	viper.SetEnvPrefix("LOOM")
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			configPath := m.configFile
			if configPath == "" {
				homeDir, homeErr := os.UserHomeDir()
				if homeErr != nil {
					return m.config, nil
				}
				configPath = filepath.Join(homeDir, ".config", "loom", "loom.yaml")
			}
			if err := m.createDefaultConfigFileAt(configPath); err != nil {
				return m.config, nil
			}
			if err := viper.ReadInConfig(); err != nil {
				return m.config, nil
			}
		} else {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(m.config); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return m.config, nil
}

// Save persists the current configuration.
func (m *Manager) Save() error {
	viper.Set("socket_path", m.config.SocketPath)
	viper.Set("multiplexer_path", m.config.MultiplexerPath)
	viper.Set("log_level", m.config.LogLevel)
	viper.Set("log_file", m.config.LogFile)
	viper.Set("log_max_size_mb", m.config.LogMaxSizeMB)
	viper.Set("health_monitor_interval_seconds", m.config.HealthMonitorIntervalSeconds)
	viper.Set("activity", m.config.Activity)
	viper.Set("session", m.config.Session)
	return viper.WriteConfig()
}

// GetConfig returns the currently loaded configuration.
func (m *Manager) GetConfig() *Config {
	return m.config
}

// UpdateConfig replaces the in-memory configuration; callers still need
// Save to persist it.
func (m *Manager) UpdateConfig(config *Config) {
	m.config = config
}

func (m *Manager) setDefaults() {
	d := DefaultConfig()
	viper.SetDefault("socket_path", d.SocketPath)
	viper.SetDefault("multiplexer_path", d.MultiplexerPath)
	viper.SetDefault("log_level", d.LogLevel)
	viper.SetDefault("log_file", d.LogFile)
	viper.SetDefault("log_max_size_mb", d.LogMaxSizeMB)
	viper.SetDefault("health_monitor_interval_seconds", d.HealthMonitorIntervalSeconds)
	viper.SetDefault("activity.enabled", d.Activity.Enabled)
	viper.SetDefault("activity.path", d.Activity.Path)
	viper.SetDefault("activity.max_size_mb", d.Activity.MaxSizeMB)
	viper.SetDefault("activity.max_files", d.Activity.MaxFiles)
	viper.SetDefault("session.default_cols", d.Session.DefaultCols)
	viper.SetDefault("session.default_rows", d.Session.DefaultRows)
}

func (m *Manager) validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	valid := false
	for _, level := range validLevels {
		if m.config.LogLevel == level {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level %q, must be one of: %v", m.config.LogLevel, validLevels)
	}

	if m.config.Session.DefaultCols <= 0 || m.config.Session.DefaultRows <= 0 {
		return fmt.Errorf("session geometry must be positive, got %dx%d",
			m.config.Session.DefaultCols, m.config.Session.DefaultRows)
	}

	return nil
}

func (m *Manager) createDefaultConfigFileAt(configFilePath string) error {
	if err := os.MkdirAll(filepath.Dir(configFilePath), 0755); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	defaultConfigContent := `# loom daemon configuration
#
# socket_path is overridden at runtime by LOOM_SOCKET_PATH if set.
socket_path: $HOME/.loom/daemon.sock

# multiplexer_path overrides tmux binary discovery; empty means search
# PATH and the common Homebrew/usr install locations.
multiplexer_path: ""

log_level: info
log_file: $HOME/.config/loom/loomd.log
log_max_size_mb: 10

# health_monitor_interval_seconds enables the background tmux health
# probe; 0 disables it. Overridden by LOOM_TMUX_HEALTH_MONITOR if set.
health_monitor_interval_seconds: 0

activity:
  enabled: false
  path: $HOME/.config/loom/activity.jsonl
  max_size_mb: 10
  max_files: 5

session:
  default_cols: 80
  default_rows: 24
`

	if err := os.WriteFile(configFilePath, []byte(os.ExpandEnv(defaultConfigContent)), 0644); err != nil {
		return fmt.Errorf("config: write default config file: %w", err)
	}
	return nil
}
