package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// isolateConfigHome points the global config lookup at an empty directory.
func isolateConfigHome(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateConfigHome(t)

	v := viper.New()
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Sound.Timeout != 10*time.Second {
		t.Errorf("Sound.Timeout = %v, want %v", cfg.Sound.Timeout, 10*time.Second)
	}
	if !cfg.Sound.Enabled {
		t.Error("Sound.Enabled = false, want true")
	}
	if cfg.Paths.Log != "events.jsonl" {
		t.Errorf("Paths.Log = %q, want events.jsonl", cfg.Paths.Log)
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	isolateConfigHome(t)

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer func() { _ = os.Chdir(oldWd) }()

	if err := os.MkdirAll(ProjectConfigDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	configContent := `
sound:
  player: "aplay -q"
  timeout: 3s
ui:
  alt_screen: false
`
	configPath := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Sound.Player != "aplay -q" {
		t.Errorf("Sound.Player = %q, want %q", cfg.Sound.Player, "aplay -q")
	}
	if cfg.Sound.Timeout != 3*time.Second {
		t.Errorf("Sound.Timeout = %v, want %v", cfg.Sound.Timeout, 3*time.Second)
	}
	if cfg.UI.AltScreen {
		t.Error("UI.AltScreen = true, want false")
	}
	// Untouched keys keep their defaults.
	if !cfg.UI.Mouse {
		t.Error("UI.Mouse = false, want default true")
	}
}

func TestLoadConfig_GlobalFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte("sound:\n  enabled: false\n"), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Sound.Enabled {
		t.Error("Sound.Enabled = true, want false from global config")
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolateConfigHome(t)
	tmpDir := t.TempDir()

	configContent := `
paths:
  log: /tmp/pomodoro-events.jsonl
log_rotation:
  max_backups: 9
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Paths.Log != "/tmp/pomodoro-events.jsonl" {
		t.Errorf("Paths.Log = %q, want /tmp/pomodoro-events.jsonl", cfg.Paths.Log)
	}
	if cfg.LogRotation.MaxBackups != 9 {
		t.Errorf("LogRotation.MaxBackups = %d, want 9", cfg.LogRotation.MaxBackups)
	}
	if cfg.Paths.Lock != "pomodoro.lock" {
		t.Errorf("Paths.Lock = %q, want default", cfg.Paths.Lock)
	}
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	isolateConfigHome(t)

	v := viper.New()
	v.Set("config", "/nonexistent/path/config.yaml")

	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig should fail for missing explicit config")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	isolateConfigHome(t)

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	defer func() { _ = os.Chdir(oldWd) }()

	if err := os.MkdirAll(ProjectConfigDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	configPath := filepath.Join(ProjectConfigDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, []byte("sound:\n  player: from-file\n"), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("POMODORO")
	v.AutomaticEnv()

	// Simulate env var by setting directly in viper (env binding happens in CLI)
	v.Set("sound.player", "from-env")

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Sound.Player != "from-env" {
		t.Errorf("Sound.Player = %q, want %q", cfg.Sound.Player, "from-env")
	}
}

func TestLoadConfig_DurationParsing(t *testing.T) {
	isolateConfigHome(t)
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		yaml    string
		wantDur time.Duration
	}{
		{"seconds", "sound:\n  timeout: 30s", 30 * time.Second},
		{"milliseconds", "sound:\n  timeout: 1500ms", 1500 * time.Millisecond},
		{"minutes", "sound:\n  timeout: 1m", time.Minute},
		{"combined", "sound:\n  timeout: 1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, tt.name+".yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config failed: %v", err)
			}

			v := viper.New()
			v.Set("config", configPath)

			cfg, err := LoadConfig(v)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if cfg.Sound.Timeout != tt.wantDur {
				t.Errorf("got %v, want %v", cfg.Sound.Timeout, tt.wantDur)
			}
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	isolateConfigHome(t)

	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("sound: [unterminated"), 0644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	v := viper.New()
	v.Set("config", configPath)

	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig should fail for malformed YAML")
	}
}

func TestGlobalConfigPath(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	want := filepath.Join(configHome, "pomodoro", "config.yaml")
	if path := globalConfigPath(); path != want {
		t.Errorf("globalConfigPath() = %q, want %q", path, want)
	}
}

func TestLayers(t *testing.T) {
	isolateConfigHome(t)

	v := viper.New()
	if ls := layers(v); len(ls) != 2 || ls[0].name != "global" || ls[1].name != "project" {
		t.Fatalf("layers without --config = %+v", ls)
	}

	v.Set("config", "/etc/pomodoro.yaml")
	ls := layers(v)
	if len(ls) != 3 {
		t.Fatalf("got %d layers, want 3", len(ls))
	}
	last := ls[2]
	if last.name != "explicit" || last.path != "/etc/pomodoro.yaml" || !last.required {
		t.Errorf("explicit layer = %+v", last)
	}
	if ls[0].required || ls[1].required {
		t.Error("global and project layers must be optional")
	}
}

func TestLoadConfig_RejectsInvalidSound(t *testing.T) {
	isolateConfigHome(t)

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative timeout", "sound:\n  timeout: -5s\n", "sound.timeout"},
		{"blank player", "sound:\n  player: \"   \"\n", "sound.player"},
		{"negative sessions", "log_rotation:\n  keep_sessions: -1\n", "keep_sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write config failed: %v", err)
			}

			v := viper.New()
			v.Set("config", configPath)

			_, err := LoadConfig(v)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("LoadConfig error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should name %s", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_ErrorNamesLayer(t *testing.T) {
	isolateConfigHome(t)

	v := viper.New()
	v.Set("config", "/nonexistent/path/config.yaml")

	_, err := LoadConfig(v)
	if err == nil || !strings.HasPrefix(err.Error(), "explicit config") {
		t.Errorf("error = %v, want it to name the explicit layer", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
}
