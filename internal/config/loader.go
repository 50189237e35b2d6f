package config

import (
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // build version, used to detect dev mode
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load parses the first config file GetConfigPath finds. Without one the
// returned Config is all defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the first existing candidate config file, or an
// empty string when none exists.
func (l *Loader) GetConfigPath() string {
	for _, path := range l.candidates() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// candidates lists the config file locations in precedence order: the
// override path, .inkboardrc in the working directory on dev builds, then
// the XDG names.
func (l *Loader) candidates() []string {
	paths := make([]string, 0, 4)
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".inkboardrc"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "inkboard")
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "inkboard.rc"))
	}
	return paths
}
