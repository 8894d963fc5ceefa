package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config file locations.
const (
	GlobalConfigDir   = "pomodoro"
	GlobalConfigFile  = "config.yaml"
	ProjectConfigDir  = ".pomodoro"
	ProjectConfigFile = "config.yaml"
)

// layer is one config file in merge order.
type layer struct {
	name     string
	path     string
	required bool
}

// layers returns the config files for v, lowest precedence first. The
// explicit file comes from --config or POMODORO_CONFIG and must exist.
func layers(v *viper.Viper) []layer {
	ls := []layer{
		{name: "global", path: globalConfigPath()},
		{name: "project", path: filepath.Join(ProjectConfigDir, ProjectConfigFile)},
	}
	if explicit := v.GetString("config"); explicit != "" {
		ls = append(ls, layer{name: "explicit", path: explicit, required: true})
	}
	return ls
}

// LoadConfig builds the effective configuration. Precedence, later wins:
//  1. Default()
//  2. $XDG_CONFIG_HOME/pomodoro/config.yaml
//  3. .pomodoro/config.yaml in the working directory
//  4. the --config file
//  5. POMODORO_* environment variables and flags bound to v
//
// The result is validated; problems are reported together and wrap
// ErrInvalidConfig.
func LoadConfig(v *viper.Viper) (*Config, error) {
	defaults, err := structToMap(Default())
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, fmt.Errorf("merge defaults: %w", err)
	}

	v.SetConfigType("yaml")
	for _, l := range layers(v) {
		if err := mergeLayer(v, l); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg, viperDecodeHook()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeLayer merges one YAML file into v. Optional layers that do not
// exist are skipped.
func mergeLayer(v *viper.Viper, l layer) error {
	if l.path == "" {
		return nil
	}
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) && !l.required {
			return nil
		}
		return fmt.Errorf("%s config: %w", l.name, err)
	}
	defer func() { _ = file.Close() }()

	if err := v.MergeConfig(file); err != nil {
		return fmt.Errorf("%s config %s: %w", l.name, l.path, err)
	}
	return nil
}

// globalConfigPath is the per-user config file, whether or not it exists.
func globalConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, GlobalConfigDir, GlobalConfigFile)
}

// viperDecodeHook lets YAML and env strings such as "10s" fill durations.
func viperDecodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
}

// structToMap flattens cfg into the nested map viper merges.
func structToMap(cfg *Config) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &result,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	return result, nil
}
