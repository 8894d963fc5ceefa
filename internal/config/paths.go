package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the directory under the XDG state home holding logs and the lock.
const StateDirName = "pomodoro"

// StateDir returns $XDG_STATE_HOME/pomodoro, falling back to ~/.local/state/pomodoro.
func StateDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, StateDirName), nil
}

// ResolvePaths converts relative paths to absolute paths using the given base directory.
// If basePath is empty, StateDir() is used.
func ResolvePaths(paths PathsConfig, basePath string) (PathsConfig, error) {
	if basePath == "" {
		var err error
		basePath, err = StateDir()
		if err != nil {
			return paths, err
		}
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(basePath, p)
	}

	return PathsConfig{
		Log:      resolve(paths.Log),
		DebugLog: resolve(paths.DebugLog),
		Lock:     resolve(paths.Lock),
	}, nil
}
