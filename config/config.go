// Package config reads the JSON configuration of the transmitter components attached to a
// board and converts their attributes into typed driver configs.
package config

import (
	"encoding/json"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// A Component describes one device: its name, the driver model handling it and the
// model-specific attributes.
type Component struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	Attributes AttributeMap `json:"attributes"`
}

// Config is the top level configuration file.
type Config struct {
	Components []Component `json:"components"`
}

// ReadConfig reads a config file. Environment variables referenced as $VAR or ${VAR} are
// substituted before parsing.
func ReadConfig(fn string) (*Config, error) {
	buf, err := envsubst.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", fn)
	}
	return &cfg, nil
}

// FindComponent returns the component called name, or if name is empty the first component
// of the given model.
func (c *Config) FindComponent(name, model string) (Component, error) {
	comp, ok := lo.Find(c.Components, func(comp Component) bool {
		if name != "" {
			return comp.Name == name
		}
		return comp.Model == model
	})
	if !ok {
		if name != "" {
			return Component{}, errors.Errorf("no component named %q", name)
		}
		return Component{}, errors.Errorf("no %s component configured", model)
	}
	return comp, nil
}
