package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

// Store drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"port":             8080,
			"shutdown_timeout": "5s",
		},
		"store": map[string]interface{}{
			"driver": DriverJSON,
			"path":   "tasks.json",
		},
		// Background re-check while the UI is idle. Liveness only.
		"scheduler": map[string]interface{}{
			"enabled":  true,
			"interval": "5m",
		},
		"snooze": map[string]interface{}{
			"default_minutes": 5,
		},
		"log": map[string]interface{}{
			"level": "INFO",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
