// Package dirs locates per-user application directories.
package dirs

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the user config dir.
const AppName = "spinframes"

// ConfigDirEnv overrides the config directory when set.
const ConfigDirEnv = "SPINFRAMES_CONFIG_DIR"

// ConfigExts are the config file types looked up, in viper's search order.
var ConfigExts = []string{"json", "toml", "yaml", "yml"}

// ConfigDir returns $SPINFRAMES_CONFIG_DIR, or the spinframes directory under
// os.UserConfigDir ($XDG_CONFIG_HOME or ~/.config on Linux,
// ~/Library/Application Support on macOS, %AppData% on Windows).
func ConfigDir() (string, error) {
	if d := os.Getenv(ConfigDirEnv); d != "" {
		return filepath.Clean(d), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// ConfigFile returns the config file that would be loaded, if any.
func ConfigFile() (string, bool) {
	dir, err := ConfigDir()
	if err != nil {
		return "", false
	}
	for _, ext := range ConfigExts {
		p := filepath.Join(dir, "config."+ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}
