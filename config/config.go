package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath   string `json:"selfpath"`
	Port       string `json:"port"`
	Blocksize  int    `json:"blocksize"`  // 格子像素尺寸
	GridWidth  int    `json:"gridwidth"`  // 默认地图宽度（格）
	GridHeight int    `json:"gridheight"` // 默认地图高度（格）
	TickMS     int    `json:"tickms"`     // 每次移动的间隔，毫秒
	MaxCatchUp int    `json:"maxcatchup"` // 一次请求最多补跑的tick数
	MaxCells   int    `json:"maxcells"`   // 通过HTTP创建的地图最多格数
	DBPath     string `json:"dbpath"`
	SpriteDir  string `json:"spritedir"`
	OutputDir  string `json:"outputdir"`
}

var (
	instance *AppConfig
	loadErr  error
	once     sync.Once
)

// Default returns the built-in settings: a 640x480 board of 20px cells at 15 moves per second.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:   "http://www.example.com", // Default value
		Port:       "38870",                  // Default value
		Blocksize:  20,
		GridWidth:  32,
		GridHeight: 24,
		TickMS:     66,
		MaxCatchUp: 600,
		MaxCells:   16384,
		DBPath:     "game.db",
		SpriteDir:  "./sprites",
		OutputDir:  "./output",
	}
}

// LoadConfig initializes the process-wide AppConfig once.
func LoadConfig(filePath string) (*AppConfig, error) {
	once.Do(func() {
		instance, loadErr = Load(filePath)
	})
	return instance, loadErr
}

// Load reads filePath over the defaults, creating the file when it is missing.
func Load(filePath string) (*AppConfig, error) {
	cfg := Default()
	// Load the config file if it exists, otherwise create one
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
	} else if err := loadConfig(filePath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filePath, err)
	}
	return cfg, nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Validate checks the values the game core depends on.
func (c *AppConfig) Validate() error {
	switch {
	case c.Blocksize <= 0:
		return fmt.Errorf("blocksize must be positive, got %d", c.Blocksize)
	case c.GridWidth <= 0 || c.GridHeight <= 0:
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", c.GridWidth, c.GridHeight)
	case c.TickMS <= 0:
		return fmt.Errorf("tickms must be positive, got %d", c.TickMS)
	case c.MaxCatchUp <= 0:
		return fmt.Errorf("maxcatchup must be positive, got %d", c.MaxCatchUp)
	case c.MaxCells < c.GridWidth*c.GridHeight:
		return fmt.Errorf("maxcells %d is smaller than the default %dx%d grid", c.MaxCells, c.GridWidth, c.GridHeight)
	}
	return nil
}

// TickInterval is the time between two moves.
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	if instance == nil {
		return nil
	}
	switch key {
	case "selfpath":
		return instance.SelfPath
	case "port":
		return instance.Port
	case "blocksize":
		return instance.Blocksize
	case "gridwidth":
		return instance.GridWidth
	case "gridheight":
		return instance.GridHeight
	case "tickms":
		return instance.TickMS
	case "maxcatchup":
		return instance.MaxCatchUp
	case "maxcells":
		return instance.MaxCells
	case "dbpath":
		return instance.DBPath
	case "spritedir":
		return instance.SpriteDir
	case "outputdir":
		return instance.OutputDir
	default:
		return ""
	}
}
