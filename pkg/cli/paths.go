package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the per-app directories under ~/.giztoy
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{AppName: appName, HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.giztoy)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns the app directory (~/.giztoy/<app>)
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns the config file path (~/.giztoy/<app>/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir returns the data directory (~/.giztoy/<app>/data)
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// StoreDir returns the directory of the named fact store
// (~/.giztoy/<app>/data/<name>)
func (p *Paths) StoreDir(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// EnsureDir creates dir and its parents if they don't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
