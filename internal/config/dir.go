// Package config provides global and per-repository configuration for cairn.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the cairn configuration directory.
//
// Resolution:
//   - $CAIRN_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/cairn if set (respects XDG on any platform)
//   - %AppData%/cairn on Windows
//   - ~/.config/cairn on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("CAIRN_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cairn")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "cairn")
		}
	}

	// macOS and Linux: ~/.config/cairn
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cairn")
}
