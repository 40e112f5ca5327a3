package fieldfx

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig configures a standalone field program from FIELDFX_* variables.
type EnvConfig struct {
	Width         int     `env:"FIELDFX_WIDTH" envDefault:"960"`
	Height        int     `env:"FIELDFX_HEIGHT" envDefault:"640"`
	Density       float64 `env:"FIELDFX_DENSITY" envDefault:"0.00012"`
	IdleDensity   float64 `env:"FIELDFX_IDLE_DENSITY" envDefault:"1"`
	ThemeFile     string  `env:"FIELDFX_THEME_FILE"`
	Theme         string  `env:"FIELDFX_THEME"`
	ScriptFile    string  `env:"FIELDFX_SCRIPT"`
	ScreenshotDir string  `env:"FIELDFX_SCREENSHOT_DIR" envDefault:"screenshots"`
	AppName       string  `env:"FIELDFX_APP_NAME" envDefault:"fieldfx"`
	Debug         bool    `env:"FIELDFX_DEBUG"`
	ShowStats     bool    `env:"FIELDFX_SHOW_STATS"`
}

// ParseEnv loads an EnvConfig from the environment.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return EnvConfig{}, fmt.Errorf("parse env: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	return cfg, nil
}
