package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// DefaultPath is where the Nakama module looks for the game configuration.
const DefaultPath = "data/game_config.json"

type GameConfig struct {
	// StorageKey names the storage object (Nakama) or row (sqlite) holding the saved state.
	StorageKey    string `json:"storage_key" env:"PMD_STORAGE_KEY"`
	DatasetPath   string `json:"dataset_path" env:"PMD_DATASET_PATH"`
	DefaultLocale string `json:"default_locale" env:"PMD_DEFAULT_LOCALE"`

	CertificateSecret string `json:"certificate_secret" env:"PMD_CERT_SECRET"`
	CertificateIssuer string `json:"certificate_issuer" env:"PMD_CERT_ISSUER"`

	// BotStrategy selects the strategy used by simulations: first, random or favorite-category.
	BotStrategy         string `json:"bot_strategy" env:"PMD_BOT_STRATEGY"`
	BotFavoriteCategory string `json:"bot_favorite_category" env:"PMD_BOT_FAVORITE_CATEGORY"`
}

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		StorageKey:        "pick-my-degree-v1",
		DefaultLocale:     "en",
		CertificateIssuer: "pickmydegree",
		BotStrategy:       "random",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path once per process.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		d := Default()
		return &d
	}
	return cfg
}

// Load reads the JSON file at path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (GameConfig, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return GameConfig{}, fmt.Errorf("failed to read game config: %w", err)
		default:
			if err := json.Unmarshal(data, &c); err != nil {
				return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
			}
		}
	}
	if err := ParseEnv(&c); err != nil {
		return GameConfig{}, err
	}
	c.normalize()
	return c, nil
}

func (c *GameConfig) normalize() {
	d := Default()
	c.StorageKey = strings.TrimSpace(c.StorageKey)
	if c.StorageKey == "" {
		c.StorageKey = d.StorageKey
	}
	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = d.DefaultLocale
	}
	if c.CertificateIssuer == "" {
		c.CertificateIssuer = d.CertificateIssuer
	}
	if c.BotStrategy == "" {
		c.BotStrategy = d.BotStrategy
	}
}

// CertificatesEnabled reports whether a signing secret is configured.
func (c GameConfig) CertificatesEnabled() bool {
	return c.CertificateSecret != ""
}
