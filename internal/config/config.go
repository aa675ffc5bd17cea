package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	CoinGecko struct {
		BaseURL   string  `yaml:"base_url"`
		APIKey    string  `yaml:"api_key"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"coingecko"`
	NewsAPI struct {
		BaseURL   string  `yaml:"base_url"`
		APIKey    string  `yaml:"api_key"`
		PageSize  int     `yaml:"page_size"`
		Language  string  `yaml:"language"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"news_api"`
	Dashboard struct {
		DefaultAsset string `yaml:"default_asset"`
		HistoryDays  int    `yaml:"history_days"`
		ListingSize  int    `yaml:"listing_size"`
		Offline      bool   `yaml:"offline"`
	} `yaml:"dashboard"`
	Lexicon struct {
		Path string `yaml:"path"`
	} `yaml:"lexicon"`
	Schedule struct {
		RefreshCron  string `yaml:"refresh_cron"`
		ListingsCron string `yaml:"listings_cron"`
		DigestCron   string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	User struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"user"`
	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.NewsAPI.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DEFAULT_ASSET"); v != "" {
		c.Dashboard.DefaultAsset = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("USER_NAME"); v != "" {
		c.User.Name = v
	}
	if v := os.Getenv("USER_EMAIL"); v != "" {
		c.User.Email = v
	}
	if v := os.Getenv("OFFLINE"); v != "" {
		if offline, err := strconv.ParseBool(v); err == nil {
			c.Dashboard.Offline = offline
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.CoinGecko.RateLimit == 0 {
		c.CoinGecko.RateLimit = 0.5
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if c.NewsAPI.PageSize == 0 {
		c.NewsAPI.PageSize = 5
	}
	if c.NewsAPI.Language == "" {
		c.NewsAPI.Language = "en"
	}
	if c.NewsAPI.RateLimit == 0 {
		c.NewsAPI.RateLimit = 1
	}
	if c.Dashboard.DefaultAsset == "" {
		c.Dashboard.DefaultAsset = "bitcoin"
	}
	if c.Dashboard.HistoryDays == 0 {
		c.Dashboard.HistoryDays = 30
	}
	if c.Dashboard.ListingSize == 0 {
		c.Dashboard.ListingSize = 100
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Schedule.ListingsCron == "" {
		c.Schedule.ListingsCron = "0 0 * * * *"
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 8 * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 28
	}
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.NewsAPI.APIKey == "" && !c.Dashboard.Offline {
		return errors.New("news_api.api_key is required unless dashboard.offline is set")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Dashboard.HistoryDays < 1 || c.Dashboard.HistoryDays > 365 {
		return fmt.Errorf("dashboard.history_days must be between 1 and 365, got %d", c.Dashboard.HistoryDays)
	}
	if c.NewsAPI.PageSize < 1 || c.NewsAPI.PageSize > 100 {
		return fmt.Errorf("news_api.page_size must be between 1 and 100, got %d", c.NewsAPI.PageSize)
	}
	if c.Dashboard.ListingSize < 1 || c.Dashboard.ListingSize > 250 {
		return fmt.Errorf("dashboard.listing_size must be between 1 and 250, got %d", c.Dashboard.ListingSize)
	}
	if c.CoinGecko.RateLimit < 0 || c.NewsAPI.RateLimit < 0 {
		return errors.New("rate_limit must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
