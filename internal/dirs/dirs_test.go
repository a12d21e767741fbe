package dirs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfigDir_Override(t *testing.T) {
	base := t.TempDir()
	t.Setenv(ConfigDirEnv, base+string(os.PathSeparator))
	got, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Clean(base) {
		t.Errorf("ConfigDir() = %q, want %q", got, base)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is linux only")
	}
	base := t.TempDir()
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", base)
	got, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(base, "spinframes") {
		t.Errorf("ConfigDir() = %q", got)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	if _, ok := ConfigFile(); ok {
		t.Fatal("empty dir should have no config file")
	}

	// json wins over yaml when both exist, as in viper.
	for _, name := range []string{"config.yaml", "config.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, ok := ConfigFile()
	if !ok || got != filepath.Join(dir, "config.json") {
		t.Errorf("ConfigFile() = %q, %v", got, ok)
	}
}
