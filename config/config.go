// Package config handles the grue.toml interpreter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the interpreter configuration, normally loaded from
// ~/.config/grue/grue.toml.
type Config struct {
	Screen    Screen `toml:"screen"`
	Save      Save   `toml:"save"`
	Log       Log    `toml:"log"`
	Random    Random `toml:"random"`
	UndoDepth int    `toml:"undo_depth"`
}

// Screen sets the dimensions reported to stories when the terminal size is
// unavailable.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Save locates the save-slot database.
type Save struct {
	Dir string `toml:"dir"`
}

// Log configures the front-end logger.
type Log struct {
	Level string `toml:"level"`
}

// Random pins the story's random stream; 0 keeps it nondeterministic.
type Random struct {
	Seed int64 `toml:"seed"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := ".grue"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".grue")
	}
	return Config{
		Screen:    Screen{Width: 80, Height: 25},
		Save:      Save{Dir: dir},
		Log:       Log{Level: "info"},
		UndoDepth: 1,
	}
}

// Load reads a configuration file over the defaults. Unknown keys are
// rejected so typos surface instead of silently reverting to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
	}
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return Config{}, fmt.Errorf("config: screen dimensions must be positive")
	}
	return cfg, nil
}

// LoadDefaultFile loads the conventional config path if it exists, the
// defaults otherwise.
func LoadDefaultFile() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	path := filepath.Join(home, ".config", "grue", "grue.toml")
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DatabasePath returns the save database location under the save dir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Save.Dir, "saves.db")
}
