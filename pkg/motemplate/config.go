package motemplate

import (
	"errors"
	"os"
	"strconv"
	"sync"
)

// Config contains the configuration options for the engine.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// MaxPartialDepth bounds nested partial inclusion. Exceeding it appends a
	// render error instead of recursing without limit.
	MaxPartialDepth int
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		MaxPartialDepth: 100,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// MOTEMPLATE_LOG_LEVEL
	if val := os.Getenv("MOTEMPLATE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// MOTEMPLATE_MAX_PARTIAL_DEPTH
	if val := os.Getenv("MOTEMPLATE_MAX_PARTIAL_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxPartialDepth = depth
		}
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxPartialDepth <= 0 {
		return errors.New("max partial depth must be positive")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}
