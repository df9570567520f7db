// Package prefs stores preferences in a YAML file for running without the GUI, where fyne's own preference store
// is not available
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// DefaultPath returns prefs.yaml in the user configuration directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error finding config directory: %w", err)
	}
	return filepath.Join(dir, "vescpad", "prefs.yaml"), nil
}

// File is a preference store backed by a YAML file. Values are held in memory until Save
type File struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open reads the preferences at path. A missing file is an empty store
func Open(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading preferences: %w", err)
	}

	return &File{v: v, path: path}, nil
}

// Path returns the file the preferences are saved to
func (f *File) Path() string {
	return f.path
}

// Save writes all preferences to the file, creating its directory if needed
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.MkdirAll(filepath.Dir(f.path), 0o755)
	if err != nil {
		return fmt.Errorf("error creating preferences directory: %w", err)
	}

	err = f.v.WriteConfigAs(f.path)
	if err != nil {
		return fmt.Errorf("error writing preferences: %w", err)
	}
	return nil
}

func (f *File) BoolWithFallback(key string, fallback bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetBool(key)
}

func (f *File) SetBool(key string, value bool) {
	f.set(key, value)
}

func (f *File) IntWithFallback(key string, fallback int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetInt(key)
}

func (f *File) SetInt(key string, value int) {
	f.set(key, value)
}

func (f *File) FloatWithFallback(key string, fallback float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetFloat64(key)
}

func (f *File) SetFloat(key string, value float64) {
	f.set(key, value)
}

func (f *File) StringWithFallback(key, fallback string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetString(key)
}

func (f *File) SetString(key, value string) {
	f.set(key, value)
}

func (f *File) set(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.v.Set(key, value)
}
