package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"termsweeper/engine"
)

var (
	cfgFile = "termsweeper/config.json"
	logFile = "termsweeper/debug.log"
)

// Interfaces a game can be played in.
const (
	InterfaceGUI  = "gui"
	InterfaceText = "text"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// ConfigColors are 256-colour palette indexes.
type ConfigColors struct {
	Hidden      int    `json:"hidden"`
	HiddenAlt   int    `json:"hidden_alt"`
	Revealed    int    `json:"revealed"`
	RevealedAlt int    `json:"revealed_alt"`
	CursorBG    int    `json:"cursor_bg"`
	Numbers     [8]int `json:"numbers"`
	Mine        int    `json:"mine"`
	Flag        int    `json:"flag"`
	Treasure    int    `json:"treasure"`
	Line        int    `json:"line"`
}

type ConfigSymbols struct {
	Hidden    rune `json:"hidden"`
	Flag      rune `json:"flag"`
	Mine      rune `json:"mine"`
	Treasure  rune `json:"treasure"`
	Empty     rune `json:"empty"`
	WrongFlag rune `json:"wrong_flag"`
}

type Theme struct {
	DrawCursorBackground bool          `json:"draw_cursor_bg"`
	FullWidthLetters     bool          `json:"fullwidth_letters"`
	Colors               ConfigColors  `json:"colors"`
	Symbols              ConfigSymbols `json:"symbols"`
}

// GameConfig holds the defaults used when no flags are given.
type GameConfig struct {
	DefaultDifficulty string `json:"default_difficulty"`
	Interface         string `json:"interface"`
	TestBoardDir      string `json:"test_board_dir"`
}

// LogConfig controls the debug log. An empty path logs to the xdg cache dir.
type LogConfig struct {
	Path  string `json:"path"`
	Level string `json:"level"`
}

type Config struct {
	Theme Theme      `json:"theme"`
	Game  GameConfig `json:"game"`
	Log   LogConfig  `json:"log"`
}

// InitConfig loads the user config file, if any, over DefaultConfig.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		config := DefaultConfig
		return &config, nil
	}
	return LoadFile(absPath)
}

// LoadFile reads the config at filePath over DefaultConfig and validates it.
func LoadFile(filePath string) (*Config, error) {
	config := DefaultConfig
	if err := readCfgFile(filePath, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	s := c.Theme.Symbols
	for _, r := range []rune{s.Hidden, s.Flag, s.Mine, s.Treasure, s.Empty, s.WrongFlag} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}

	col := c.Theme.Colors
	palette := []int{col.Hidden, col.HiddenAlt, col.Revealed, col.RevealedAlt, col.CursorBG, col.Mine, col.Flag, col.Treasure, col.Line}
	palette = append(palette, col.Numbers[:]...)
	for _, p := range palette {
		if p < 0 || p > 255 {
			return &InvalidConfig{fmt.Sprintf("colour %d is not a 256-colour palette index", p)}
		}
	}

	if _, err := engine.DifficultyByName(c.Game.DefaultDifficulty); err != nil {
		return &InvalidConfig{fmt.Sprintf("default_difficulty: %s", err)}
	}
	switch c.Game.Interface {
	case InterfaceGUI, InterfaceText:
	default:
		return &InvalidConfig{fmt.Sprintf("interface must be %q or %q, got %q", InterfaceGUI, InterfaceText, c.Game.Interface)}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{fmt.Sprintf("log level: %s", err)}
	}
	return nil
}

// Difficulty returns the configured default tier.
func (c *Config) Difficulty() engine.Difficulty {
	d, err := engine.DifficultyByName(c.Game.DefaultDifficulty)
	if err != nil {
		return engine.Beginner
	}
	return d
}

// LogLevel returns the configured log level, info if it cannot be parsed.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// LogPath returns the log file path, creating the cache directory for the
// default location.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	return xdg.CacheFile(logFile)
}

// BoardPath resolves a test board name against TestBoardDir. Absolute paths
// and paths to existing files are returned unchanged.
func (c *Config) BoardPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) || c.Game.TestBoardDir == "" {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(c.Game.TestBoardDir, name)
}

// Save writes the config to the user config dir.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return c.SaveFile(absPath)
}

// SaveFile writes the config to filePath.
func (c *Config) SaveFile(filePath string) error {
	return saveCfgFile(filePath, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %s", filePath, err)}
	}
	return nil
}
