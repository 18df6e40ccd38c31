package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables that override the file,
// e.g. INTERVAL_TIMER_PREFS_SETTINGS_SOUNDENABLED=false. It must not be the
// command line prefix: INTERVAL_TIMER_SETTINGS names the settings file and
// would shadow every settings.* key.
const EnvPrefix = "INTERVAL_TIMER_PREFS"

// DefaultPath returns ~/.interval-timer/settings.json, or a path in the
// working directory when the home directory cannot be determined.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".interval-timer", "settings.json")
}

// Store reads and writes the persisted State as one JSON document.
type Store struct {
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

// NewStore creates a Store for path. An empty path means DefaultPath.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		panic("Store: logger cannot be nil")
	}
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored state overlaid on the defaults. Environment
// variables take precedence over the file. A missing file is not an error.
// When the file cannot be parsed or holds out-of-range values, Load returns
// DefaultState together with the error.
func (s *Store) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := newViper(s.path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("Store: load %s (no existing file)", s.path)
		} else {
			s.logger.Printf("Store: load %s failed to parse: %v", s.path, err)
			return DefaultState(), fmt.Errorf("load settings %s: %w", s.path, err)
		}
	}

	var st State
	if err := v.Unmarshal(&st); err != nil {
		s.logger.Printf("Store: load %s failed to decode: %v", s.path, err)
		return DefaultState(), fmt.Errorf("load settings %s: %w", s.path, err)
	}
	if err := st.Validate(); err != nil {
		s.logger.Printf("Store: load %s rejected: %v", s.path, err)
		return DefaultState(), fmt.Errorf("load settings %s: %w", s.path, err)
	}

	s.logger.Printf("Store: load %s -> day=%d %+v", s.path, st.SelectedDay, st.Settings)
	return st, nil
}

// Save validates st and writes it as the whole document.
func (s *Store) Save(st State) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Printf("Store: save mkdir failed: %v", err)
		return fmt.Errorf("save settings %s: %w", s.path, err)
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		s.logger.Printf("Store: save %s failed: %v", s.path, err)
		return fmt.Errorf("save settings %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Printf("Store: save %s failed: %v", s.path, err)
		return fmt.Errorf("save settings %s: %w", s.path, err)
	}
	s.logger.Printf("Store: save %s -> day=%d %+v", s.path, st.SelectedDay, st.Settings)
	return nil
}

// newViper builds a viper instance with every key registered as a default,
// so that AutomaticEnv can override keys the file does not mention.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultState()
	v.SetDefault("selectedDay", d.SelectedDay)
	v.SetDefault("settings.soundEnabled", d.Settings.SoundEnabled)
	v.SetDefault("settings.vibrationEnabled", d.Settings.VibrationEnabled)
	v.SetDefault("settings.autoAdvance", d.Settings.AutoAdvance)
	v.SetDefault("settings.voiceEnabled", d.Settings.VoiceEnabled)
	v.SetDefault("settings.voiceVolume", d.Settings.VoiceVolume)
	v.SetDefault("settings.voiceRate", d.Settings.VoiceRate)
	return v
}
