package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML settings file, expanding ${VAR}
// environment references, and layering it over Defaults().
func Load(path string) (Settings, error) {
	settings := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &settings); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	return settings, nil
}
