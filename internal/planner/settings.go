package planner

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings is the content of calendar_settings.json. It is owned by the
// settings/UI side, not by the stores: the stores only ever see the
// resolved storage directory.
type Settings struct {
	StorageLocation string `mapstructure:"storage_location" json:"storage_location"`
}

// DefaultStorageDir returns the default data directory: a calendar-pro
// folder under the user config dir, or the current working directory when
// that cannot be created.
func DefaultStorageDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		dir := filepath.Join(base, "calendar-pro")
		if err := os.MkdirAll(dir, 0755); err == nil {
			return dir
		}
		log.Printf("Cannot create %s, falling back to working directory", dir)
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// LoadSettings reads calendar_settings.json from dir. A missing or
// malformed file yields the defaults, never an error surfaced to the user.
func LoadSettings(dir string) Settings {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, SettingsFile))
	v.SetConfigType("json")
	v.SetDefault("storage_location", DefaultStorageDir())

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Malformed %s, using defaults: %v", SettingsFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		log.Printf("Cannot decode %s, using defaults: %v", SettingsFile, err)
		return Settings{StorageLocation: DefaultStorageDir()}
	}
	if s.StorageLocation == "" {
		s.StorageLocation = DefaultStorageDir()
	}
	return s
}

// SaveSettings writes calendar_settings.json back to dir.
func SaveSettings(dir string, s Settings) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set("storage_location", s.StorageLocation)
	return v.WriteConfigAs(filepath.Join(dir, SettingsFile))
}
