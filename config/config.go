// Package config provides the flat key/value configuration of a process.
//
// Values come from application.{yaml,yml,toml,json} in the configuration
// directory, overlaid by application_<profile>.{...} when a profile is set.
// Nested tables are flattened into dotted keys, so
//
//	i18n:
//	  dir: resources/i18n
//
// is read with Get("i18n.dir").
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Env holds the process settings read from the environment.
type Env struct {
	// Dir is the configuration directory.
	Dir string `env:"CONFIG_DIR" envDefault:"conf"`
	// Profile selects application_<profile>.* on top of the base file.
	Profile string `env:"PROFILE"`
	// I18nDir overrides the i18n.dir key.
	I18nDir string `env:"I18N_DIR"`
}

// ErrProfileNotFound is returned when a profile is set but none of its files exist.
var ErrProfileNotFound = errors.New("config: profile file not found")

var extensions = []string{".yaml", ".yml", ".toml", ".json"}

// Config is an immutable flat key/value view.
type Config struct {
	values map[string]string
}

// FromEnv reads Env from the environment.
func FromEnv() (Env, error) {
	return env.ParseAs[Env]()
}

// Load reads the environment and then the configuration files it points at.
func Load() (*Config, error) {
	e, err := FromEnv()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return LoadDir(e.Dir, e.Profile)
}

// LoadDir merges application.* and application_<profile>.* found in dir.
// A missing base file is not an error; a missing profile file is.
func LoadDir(dir, profile string) (*Config, error) {
	values := make(map[string]string)

	if _, err := mergeFile(values, filepath.Join(dir, "application")); err != nil {
		return nil, err
	}
	if profile != "" {
		found, err := mergeFile(values, filepath.Join(dir, "application_"+profile))
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s/application_%s", ErrProfileNotFound, dir, profile)
		}
	}
	return &Config{values: values}, nil
}

// New builds a Config from already flattened values.
func New(values map[string]string) *Config {
	return &Config{values: maps.Clone(values)}
}

// mergeFile loads the first existing base+ext file into values.
func mergeFile(values map[string]string, base string) (bool, error) {
	for _, ext := range extensions {
		name := base + ext
		data, err := os.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("config: read %s: %w", name, err)
		}

		raw := make(map[string]any)
		if err := unmarshal(ext, data, &raw); err != nil {
			return false, fmt.Errorf("config: parse %s: %w", name, err)
		}
		flatten(values, "", raw)
		return true, nil
	}
	return false, nil
}

func unmarshal(ext string, data []byte, v *map[string]any) error {
	switch ext {
	case ".toml":
		return toml.Unmarshal(data, v)
	case ".json":
		return json.Unmarshal(data, v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

func flatten(dst map[string]string, prefix string, src map[string]any) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			flatten(dst, key, vv)
		case nil:
			dst[key] = ""
		default:
			dst[key] = fmt.Sprint(vv)
		}
	}
}

// Get returns the value of key.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns the value of key or def when the key is absent or empty.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.values[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}
