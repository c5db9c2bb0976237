package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取 YAML 配置并套用默认值。path 为空时全部取默认。
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":9980"
	}
	if c.Storage.TradeDBPath == "" {
		c.Storage.TradeDBPath = "data/trades.db"
	}
	if c.Storage.HistoryDBPath == "" {
		c.Storage.HistoryDBPath = "data/imports.db"
	}
	if c.Import.MaxUploadBytes <= 0 {
		c.Import.MaxUploadBytes = 8 << 20
	}
	if c.Import.MaxFilesPerRequest <= 0 {
		c.Import.MaxFilesPerRequest = 10
	}
}

func validate(c *Config) error {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.App.LogLevel)
	}
	if !strings.HasPrefix(c.App.HTTPAddr, ":") && !strings.Contains(c.App.HTTPAddr, ":") {
		return fmt.Errorf("invalid http_addr: %s", c.App.HTTPAddr)
	}
	return nil
}
