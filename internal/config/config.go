package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Title        string `toml:"title"`
	PhotosDir    string `toml:"photos_dir"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
	CacheEnabled bool   `toml:"cache_enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Title:        "CSES Project Management",
		PhotosDir:    "photos",
		LogLevel:     "info",
		LogFormat:    "json",
		CacheEnabled: true,
	}
}

func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".sitetrack"), nil
}

func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "sitetrack.sqlite"), nil
}

func LogPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sitetrack.log"), nil
}

// PhotosRoot returns the directory photo paths are relative to, and the
// directory name photos are written into. A relative photos_dir lives under
// the app dir; an absolute one is split into its parent and base name.
func (c *Config) PhotosRoot() (root string, dir string, err error) {
	if filepath.IsAbs(c.PhotosDir) {
		return filepath.Dir(c.PhotosDir), filepath.Base(c.PhotosDir), nil
	}
	appDir, err := AppDir()
	if err != nil {
		return "", "", err
	}
	return appDir, filepath.Clean(c.PhotosDir), nil
}

func EnsureDirectories() error {
	dir, err := AppDir()
	if err != nil {
		return err
	}

	// Create main directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create db subdirectory
	dbDir := filepath.Join(dir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	cfg.PhotosDir = expandPath(cfg.PhotosDir)
	if cfg.PhotosDir == "" {
		cfg.PhotosDir = DefaultConfig().PhotosDir
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
